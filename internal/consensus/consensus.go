package consensus

import (
	"log/slog"
	"path/filepath"

	"autotitle/internal/logging"
	"autotitle/internal/media"
	"autotitle/internal/parse"
)

// Parser extracts fields from a path. parse.Parse satisfies it.
type Parser func(path string, hint media.Kind) parse.Fields

// Namer renders the file name for an identity. A nil Namer uses the
// default episode pattern.
type Namer func(id media.Identity, ext string) string

func defaultName(id media.Identity, ext string) string {
	return media.EpisodeName(id.Title, id.Season, id.Episode, ext)
}

// FillGaps returns a copy of items with unresolved episode siblings named
// after their directory's consensus title.
func FillGaps(items []media.ScanItem, parser Parser, namer Namer, logger *slog.Logger) []media.ScanItem {
	if parser == nil {
		parser = parse.Parse
	}
	if namer == nil {
		namer = defaultName
	}
	logger = logging.NewComponentLogger(logger, "consensus")

	out := make([]media.ScanItem, len(items))
	copy(out, items)

	var order []string
	groups := make(map[string][]int)
	for i, item := range out {
		dir := filepath.Dir(item.OriginalPath)
		if _, ok := groups[dir]; !ok {
			order = append(order, dir)
		}
		groups[dir] = append(groups[dir], i)
	}

	for _, dir := range order {
		indices := groups[dir]
		title, ok := consensusTitle(out, indices)
		if !ok {
			continue
		}
		for _, idx := range indices {
			item := &out[idx]
			if item.Resolved() {
				continue
			}
			fields := parser(item.OriginalPath, media.KindSeries)
			if !fields.HasEpisode() {
				continue
			}
			id := media.Identity{Title: title, Kind: media.KindSeries, Season: fields.Season, Episode: fields.Episode}
			name := namer(id, filepath.Ext(item.OriginalPath))
			item.CanonicalName = name
			item.TargetPath = filepath.Join(dir, name)
			item.Options = []string{name}
			item.Candidates = []media.Identity{id}
			item.Status = media.StatusResolved
			item.Provenance = media.ProvenanceInferred
			logger.Debug("inferred name from siblings",
				logging.String(logging.FieldDecisionType, "consensus_title"),
				logging.String("decision_result", title),
				logging.String("path", item.OriginalPath),
				logging.String("name", name))
		}
	}
	return out
}

// consensusTitle returns the most frequent title among resolved siblings.
// Inferred items are skipped so a second pass sees the same votes.
func consensusTitle(items []media.ScanItem, indices []int) (string, bool) {
	counts := make(map[string]int)
	var firstSeen []string
	for _, idx := range indices {
		item := items[idx]
		if !item.Resolved() || item.Provenance == media.ProvenanceInferred {
			continue
		}
		title, _, ok := media.ParseEpisodeName(item.CanonicalName)
		if !ok {
			continue
		}
		if counts[title] == 0 {
			firstSeen = append(firstSeen, title)
		}
		counts[title]++
	}
	best, bestCount := "", 0
	for _, title := range firstSeen {
		if counts[title] > bestCount {
			best, bestCount = title, counts[title]
		}
	}
	return best, bestCount > 0
}
