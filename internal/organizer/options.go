package organizer

import (
	"context"
	"strings"

	"autotitle/internal/config"
	"autotitle/internal/media"
)

const defaultSeasonFolderTemplate = "{Title} - Season {N}"

// Options controls folder reconciliation.
type Options struct {
	Enabled              bool
	TitleCase            bool
	SeasonFolderTemplate string
	// RenameFiles reports whether files will carry their canonical name by
	// the time they are moved. Preview uses it to forecast destinations.
	RenameFiles bool
}

// OptionsFromConfig extracts reconciliation options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{Enabled: true, TitleCase: true, SeasonFolderTemplate: defaultSeasonFolderTemplate, RenameFiles: true}
	}
	return Options{
		Enabled:              cfg.Organize.Enabled,
		TitleCase:            cfg.Organize.TitleCase,
		SeasonFolderTemplate: cfg.Organize.SeasonFolderTemplate,
		RenameFiles:          cfg.Rename.Enabled,
	}
}

func (o Options) seasonFolderName(show string, season int) string {
	tmpl := strings.TrimSpace(o.SeasonFolderTemplate)
	if tmpl == "" {
		tmpl = defaultSeasonFolderTemplate
	}
	if !o.TitleCase {
		tmpl = strings.ReplaceAll(tmpl, "{Title}", "{title}")
	}
	return media.ApplyTemplate(tmpl, media.TemplateData{Title: show, Season: season})
}

// Action names a filesystem operation.
type Action string

const (
	ActionCreate     Action = "create"
	ActionRename     Action = "rename"
	ActionMove       Action = "move"
	ActionRenameFile Action = "rename_file"
	ActionRemove     Action = "remove"
)

const (
	ReasonShowCase      = "show folder case"
	ReasonSeasonCase    = "season folder case"
	ReasonNewShow       = "new show folder"
	ReasonNewSeason     = "new season folder"
	ReasonSeasonFolder  = "season folder placement"
	ReasonCompanion     = "companion file"
	ReasonEmptied       = "emptied source folder"
	ReasonCanonicalName = "canonical name"
)

// FolderOp describes one filesystem operation, applied or forecast.
type FolderOp struct {
	Action      Action `json:"action"`
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Reason      string `json:"reason"`
}

// Recorder receives every operation attempted against disk.
type Recorder interface {
	Record(ctx context.Context, op FolderOp, err error)
}

// companionExts lists sidecar extensions that travel with a media file.
var companionExts = []string{".srt", ".sub", ".idx", ".vtt", ".ssa", ".ass", ".nfo", ".jpg", ".jpeg", ".png", ".txt"}

func stem(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/' && path[i] != '\\'; i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}

// moveCompanions moves every sidecar sharing src's stem so it shares dst's
// stem, reporting each attempt through report.
func moveCompanions(fsys fileSystem, src, dst string, report func(from, to string, err error)) {
	srcStem, dstStem := stem(src), stem(dst)
	if srcStem == dstStem {
		return
	}
	for _, ext := range companionExts {
		from := srcStem + ext
		if !fsys.exists(from) {
			continue
		}
		to := dstStem + ext
		report(from, to, fsys.move(from, to))
	}
}
