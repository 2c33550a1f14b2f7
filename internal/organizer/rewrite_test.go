package organizer

import "testing"

func TestRewriteMapApply(t *testing.T) {
	var m RewriteMap
	m.Add("/root/halo", "/root/Halo")
	m.Add("/root/Halo/season 1", "/root/Halo/Halo - Season 1")

	tests := map[string]string{
		"/root/halo/season 1/a.mkv": "/root/Halo/Halo - Season 1/a.mkv",
		"/root/halo/b.mkv":          "/root/Halo/b.mkv",
		"/root/halo":                "/root/Halo",
		"/root/halo2/c.mkv":         "/root/halo2/c.mkv",
		"/root/Halo/season 1":       "/root/Halo/Halo - Season 1",
		"/elsewhere/x":              "/elsewhere/x",
	}
	for in, want := range tests {
		if got := m.Apply(in); got != want {
			t.Errorf("Apply(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRewriteMapAppliesInRecordedOrder(t *testing.T) {
	var m RewriteMap
	m.Add("/a", "/A")
	m.Add("/A/b", "/A/B")
	if got := m.Apply("/a/b/c"); got != "/A/B/c" {
		t.Fatalf("expected chained rewrite, got %q", got)
	}
	if got := m.ApplySince("/A/b/c", 1); got != "/A/B/c" {
		t.Fatalf("expected only later rewrites, got %q", got)
	}
	if got := m.ApplySince("/a/z", m.Len()); got != "/a/z" {
		t.Fatalf("path observed after every rewrite changed: %q", got)
	}
}

func TestRewriteMapCaseRoundTrip(t *testing.T) {
	var m RewriteMap
	m.Add("/x/halo", "/x/Halo")
	m.Add("/x/Halo", "/x/halo")

	if got := m.Apply("/x/halo/c.mkv"); got != "/x/halo/c.mkv" {
		t.Fatalf("Apply = %q, want /x/halo/c.mkv", got)
	}
	if got := m.ApplySince("/x/Halo/c.mkv", 1); got != "/x/halo/c.mkv" {
		t.Fatalf("ApplySince = %q, want /x/halo/c.mkv", got)
	}
}

func TestRewriteMapIgnoresNoops(t *testing.T) {
	var m RewriteMap
	m.Add("/same", "/same/")
	if m.Len() != 0 {
		t.Fatalf("expected noop rewrite to be dropped, got %d", m.Len())
	}
	if got := m.Apply(""); got != "" {
		t.Fatalf("empty path should stay empty, got %q", got)
	}
}
