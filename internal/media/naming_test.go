package media

import "testing"

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"the last of us":                "The Last Of Us",
		"halo":                          "Halo",
		"Adventure Time: Fionna & Cake": "Adventure Time: Fionna & Cake",
		"  spaced  ":                    "Spaced",
	}
	for in, want := range tests {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEpisodeNameKeepsPunctuation(t *testing.T) {
	got := EpisodeName("Adventure Time: Fionna & Cake", 2, 6, ".mkv")
	if got != "Adventure Time: Fionna & Cake - S02E06.mkv" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := EpisodeName("AC/DC Live", 1, 12, ".mp4"); got != "ACDC Live - S01E12.mp4" {
		t.Fatalf("expected separators stripped, got %q", got)
	}
}

func TestMovieName(t *testing.T) {
	if got := MovieName("Inception", 2010, ".mkv"); got != "Inception (2010).mkv" {
		t.Fatalf("unexpected %q", got)
	}
	if got := MovieName("Inception", 0, ".mkv"); got != "Inception.mkv" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestParseEpisodeName(t *testing.T) {
	title, season, ok := ParseEpisodeName("Show X - S01E02.mkv")
	if !ok || title != "Show X" || season != 1 {
		t.Fatalf("unexpected parse: %q %d %v", title, season, ok)
	}
	if _, _, ok := ParseEpisodeName("Inception (2010).mkv"); ok {
		t.Fatal("movie name should not parse as episode")
	}
}

func TestApplyTemplate(t *testing.T) {
	data := TemplateData{Title: "The Last of Us", Season: 1, Episode: 3, Year: 2023}
	tests := map[string]string{
		"{Title} - Season {N}":          "The Last Of Us - Season 1",
		"{title} - Season {season}":     "The Last of Us - Season 01",
		"Season {season}":               "Season 01",
		"S{N}E{E}":                      "S1E3",
		"{Title} - S{season}E{episode}": "The Last Of Us - S01E03",
		"{Title} ({year})":              "The Last Of Us (2023)",
	}
	for tmpl, want := range tests {
		if got := ApplyTemplate(tmpl, data); got != want {
			t.Errorf("ApplyTemplate(%q) = %q, want %q", tmpl, got, want)
		}
	}
	if got := ApplyTemplate("{Title} ({year})", TemplateData{Title: "inception"}); got != "Inception" {
		t.Fatalf("expected empty year parens dropped, got %q", got)
	}
}

func TestStatusSettled(t *testing.T) {
	for _, s := range []Status{StatusResolved, StatusOK, StatusRenamed} {
		if !s.Settled() {
			t.Errorf("%s should be settled", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusUnresolved, StatusError} {
		if s.Settled() {
			t.Errorf("%s should not be settled", s)
		}
	}
}
