package identification

import (
	"path/filepath"
	"slices"
	"testing"

	"autotitle/internal/config"
	"autotitle/internal/media"
	"autotitle/internal/parse"
)

func parseFields(title string, season, episode int) parse.Fields {
	return parse.Fields{Title: title, Season: season, Episode: episode, Kind: media.KindSeries}
}

func TestFallbackTitle(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join("/tv", "Breaking Bad", "Season 2", "x.mkv"), "Breaking Bad"},
		{filepath.Join("/tv", "Breaking Bad", "S2", "x.mkv"), "Breaking Bad"},
		{filepath.Join("/tv", "Severance", "x.mkv"), "Severance"},
		{filepath.Join("/home", "Downloads", "x.mkv"), ""},
		{filepath.Join("/data", "Movies", "Season 1", "x.mkv"), ""},
	}
	for _, tt := range tests {
		got, _ := FallbackTitle(tt.path, media.KindUnknown)
		if got != tt.want {
			t.Errorf("FallbackTitle(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		path      string
		mediaType string
		want      media.Kind
	}{
		{"/data/TV Shows/Halo/x.mkv", config.MediaTypeAuto, media.KindSeries},
		{"/data/Movies/Heat/x.mkv", config.MediaTypeAuto, media.KindMovie},
		{"/data/Halo/Season 1/x.mkv", config.MediaTypeAuto, media.KindSeries},
		{"/data/stuff/x.mkv", config.MediaTypeAuto, media.KindUnknown},
		{"/data/Movies/x.mkv", config.MediaTypeTV, media.KindSeries},
		{"/data/TV/x.mkv", config.MediaTypeMovie, media.KindMovie},
	}
	for _, tt := range tests {
		if got := InferKind(tt.path, tt.mediaType); got != tt.want {
			t.Errorf("InferKind(%q, %q) = %q, want %q", tt.path, tt.mediaType, got, tt.want)
		}
	}
}

func TestOnlineQueries(t *testing.T) {
	got := onlineQueries("Halo", 2022, media.KindSeries)
	want := []string{"Halo 2022 tv series", "Halo tv series", "Halo 2022", "Halo"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected queries %v, want %v", got, want)
	}
	if got := onlineQueries("Heat", 1995, media.KindMovie); !slices.Equal(got, []string{"Heat 1995 movie", "Heat movie", "Heat 1995", "Heat"}) {
		t.Fatalf("unexpected movie queries %v", got)
	}
	if got := onlineQueries("Heat", 0, media.KindUnknown); len(got) != 1 || got[0] != "Heat" {
		t.Fatalf("unexpected bare queries %v", got)
	}
}
