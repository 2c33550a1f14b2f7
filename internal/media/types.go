package media

import "strings"

// Kind classifies an identity as a movie or a series.
type Kind string

const (
	KindUnknown Kind = ""
	KindMovie   Kind = "movie"
	KindSeries  Kind = "series"
)

// KindFromCatalog maps catalog kind labels ("tv series", "tv mini series",
// "tv movie", "video movie") onto Kind.
func KindFromCatalog(label string) Kind {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "movie", "tv movie", "video movie", "film", "video":
		return KindMovie
	case "tv series", "tv mini series", "tv miniseries", "series", "episode", "tv episode", "tvseries", "tv":
		return KindSeries
	default:
		return KindUnknown
	}
}

// Identity is a canonical resolution of a media file. Season and Episode are
// zero when unknown.
type Identity struct {
	Title      string
	Year       int
	Kind       Kind
	ExternalID string
	Season     int
	Episode    int
}

// HasEpisode reports whether season and episode numbers are both present.
func (id Identity) HasEpisode() bool {
	return id.Season > 0 && id.Episode > 0
}

// Provenance records which resolver tier produced a canonical name.
type Provenance string

const (
	ProvenanceNone      Provenance = ""
	ProvenanceLocal     Provenance = "local"
	ProvenanceSibling   Provenance = "sibling-cache"
	ProvenanceKnowledge Provenance = "knowledge-cache"
	ProvenanceOnline    Provenance = "online"
	ProvenanceInferred  Provenance = "inferred"
	ProvenanceManual    Provenance = "manual"
)

// Status tracks a ScanItem through one scan-to-commit cycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusResolved   Status = "resolved"
	StatusUnresolved Status = "unresolved"
	StatusOK         Status = "ok"
	StatusRenamed    Status = "renamed"
	StatusMoved      Status = "moved"
	StatusError      Status = "error"
)

// Settled reports whether the item is eligible for folder reconciliation.
func (s Status) Settled() bool {
	switch s {
	case StatusResolved, StatusOK, StatusRenamed:
		return true
	default:
		return false
	}
}

// ScanItem is one discovered media file and its resolution state.
type ScanItem struct {
	OriginalPath  string
	CanonicalName string
	TargetPath    string
	CurrentPath   string
	Status        Status
	Provenance    Provenance
	Candidates    []Identity
	Options       []string
	Err           error
}

// Resolved reports whether a canonical name has been assigned.
func (it ScanItem) Resolved() bool {
	return strings.TrimSpace(it.CanonicalName) != ""
}

// Path returns the item's current on-disk location.
func (it ScanItem) Path() string {
	if it.CurrentPath != "" {
		return it.CurrentPath
	}
	return it.OriginalPath
}

// Stats aggregates filesystem mutations performed during apply.
type Stats struct {
	FoldersCreated int `json:"folders_created"`
	FoldersRenamed int `json:"folders_renamed"`
	FilesMoved     int `json:"files_moved"`
	FilesRenamed   int `json:"files_renamed"`
}

// Add accumulates another Stats value.
func (s *Stats) Add(other Stats) {
	s.FoldersCreated += other.FoldersCreated
	s.FoldersRenamed += other.FoldersRenamed
	s.FilesMoved += other.FilesMoved
	s.FilesRenamed += other.FilesRenamed
}
