package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"autotitle/internal/fileutil"
	"autotitle/internal/logging"
	"autotitle/internal/media"
)

const tempRenameSuffix = "_temp_rename"

// engine holds the decision rules shared by Reconcile and Preview.
type engine struct {
	fs       fileSystem
	opts     Options
	logger   *slog.Logger
	rewrites RewriteMap
	root     string
	stats    media.Stats
	cleanup  map[string]int
	emit     func(op FolderOp, err error)
	destName func(item *media.ScanItem, current string) string
}

func newEngine(fsys fileSystem, root string, opts Options, logger *slog.Logger) *engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &engine{
		fs:      fsys,
		opts:    opts,
		logger:  logger,
		root:    absPath(root),
		cleanup: make(map[string]int),
		emit:    func(FolderOp, error) {},
		destName: func(_ *media.ScanItem, current string) string {
			return filepath.Base(current)
		},
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (e *engine) run(ctx context.Context, items []media.ScanItem) {
	marks := make(map[int]int)
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		if e.place(&items[i]) {
			marks[i] = e.rewrites.Len()
		}
	}
	// Folder renames made for later items can move files placed earlier.
	for i, gen := range marks {
		items[i].CurrentPath = e.rewrites.ApplySince(items[i].CurrentPath, gen)
		items[i].TargetPath = e.rewrites.ApplySince(items[i].TargetPath, gen)
	}
	if ctx.Err() != nil {
		return
	}
	e.removeEmptied()
}

func showAndSeason(item *media.ScanItem, current string) (string, int, bool) {
	if show, season, ok := media.ParseEpisodeName(item.CanonicalName); ok {
		return show, season, true
	}
	return media.ParseEpisodeName(filepath.Base(current))
}

// place moves item into its season folder. It reports whether it updated
// the item's paths.
func (e *engine) place(item *media.ScanItem) bool {
	if !item.Status.Settled() {
		return false
	}
	current := e.rewrites.Apply(absPath(item.Path()))
	if !e.fs.exists(current) {
		e.logger.Debug("organize skipped; file not found", logging.String("path", current))
		return false
	}
	show, season, ok := showAndSeason(item, current)
	if !ok {
		return false
	}
	if e.opts.TitleCase {
		show = media.TitleCase(show)
	}
	show = media.SafeTitle(show)
	if show == "" {
		return false
	}

	gen := e.rewrites.Len()
	showDir := e.showFolder(show)
	seasonDir := e.childFolder(showDir, e.opts.seasonFolderName(show, season), ReasonSeasonCase)
	current = e.rewrites.ApplySince(current, gen)
	dest := filepath.Join(seasonDir, e.destName(item, current))
	if dest == current {
		item.CurrentPath = current
		item.TargetPath = dest
		return true
	}

	if err := e.ensureDir(showDir, ReasonNewShow); err != nil {
		e.fail(item, current, err)
		return true
	}
	if err := e.ensureDir(seasonDir, ReasonNewSeason); err != nil {
		e.fail(item, current, err)
		return true
	}

	op := FolderOp{Action: ActionMove, Source: current, Destination: dest, Reason: ReasonSeasonFolder}
	var err error
	if e.fs.exists(dest) {
		err = fileutil.ErrDestinationExists
	} else {
		err = e.fs.move(current, dest)
	}
	if err != nil {
		e.emit(op, err)
		if errors.Is(err, fileutil.ErrDestinationExists) {
			logging.WarnWithContext(e.logger, "organize skipped; destination exists", "organize_collision",
				logging.String("source", current),
				logging.String("destination", dest),
				logging.String(logging.FieldErrorHint, "remove or rename the existing file and rerun"),
				logging.String(logging.FieldImpact, "file left in place"),
			)
		}
		e.fail(item, current, fmt.Errorf("move %q: %w", current, err))
		return true
	}
	e.stats.FilesMoved++
	e.emit(op, nil)
	e.logger.Info("file organized",
		logging.String("source", current),
		logging.String("destination", dest),
	)
	moveCompanions(e.fs, current, dest, func(from, to string, err error) {
		e.emit(FolderOp{Action: ActionMove, Source: from, Destination: to, Reason: ReasonCompanion}, err)
		if err != nil {
			logging.WarnWithContext(e.logger, "companion move failed", "organize_companion",
				logging.String("source", from),
				logging.String("destination", to),
				logging.Error(err),
			)
		}
	})
	if _, seen := e.cleanup[filepath.Dir(current)]; !seen {
		e.cleanup[filepath.Dir(current)] = e.rewrites.Len()
	}
	item.CurrentPath = dest
	item.TargetPath = dest
	item.Status = media.StatusMoved
	return true
}

func (e *engine) fail(item *media.ScanItem, current string, err error) {
	item.CurrentPath = current
	item.Status = media.StatusError
	item.Err = err
}

// showFolder locates the show folder: the scan root itself, the root's
// parent, or a child of the root.
func (e *engine) showFolder(show string) string {
	if strings.EqualFold(filepath.Base(e.root), show) {
		return e.fixCase(e.root, show, ReasonShowCase)
	}
	parent := filepath.Dir(e.root)
	if parent != e.root && strings.EqualFold(filepath.Base(parent), show) {
		return e.fixCase(parent, show, ReasonShowCase)
	}
	return e.childFolder(e.root, show, ReasonShowCase)
}

// childFolder returns parent/want, adopting and case-fixing an existing
// child whose name matches want case-insensitively.
func (e *engine) childFolder(parent, want, reason string) string {
	target := filepath.Join(parent, want)
	if !e.fs.isDir(parent) {
		return target
	}
	entries, err := e.fs.readDir(parent)
	if err != nil {
		return target
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	match := ""
	for _, entry := range entries {
		if !entry.isDir {
			continue
		}
		if entry.name == want {
			return target
		}
		if match == "" && strings.EqualFold(entry.name, want) {
			match = entry.name
		}
	}
	if match == "" {
		return target
	}
	return e.fixCase(filepath.Join(parent, match), want, reason)
}

func (e *engine) hasExactChild(parent, name string) bool {
	entries, err := e.fs.readDir(parent)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.name == name {
			return true
		}
	}
	return false
}

// fixCase renames path so its final element reads want. The rename goes
// through a temporary name so it also works on case-insensitive
// filesystems. It returns the folder to use from now on.
func (e *engine) fixCase(path, want, reason string) string {
	parent, current := filepath.Dir(path), filepath.Base(path)
	if current == want {
		return path
	}
	target := filepath.Join(parent, want)
	if e.hasExactChild(parent, want) {
		return target
	}
	op := FolderOp{Action: ActionRename, Source: path, Destination: target, Reason: reason}
	temp := filepath.Join(parent, current+tempRenameSuffix)
	if err := e.fs.rename(path, temp); err != nil {
		e.emit(op, err)
		logging.WarnWithContext(e.logger, "folder case fix failed", "organize_case_fix",
			logging.String("folder", path),
			logging.String("want", want),
			logging.Error(err),
		)
		return path
	}
	if err := e.fs.rename(temp, target); err != nil {
		e.emit(op, err)
		logging.WarnWithContext(e.logger, "folder case fix failed", "organize_case_fix",
			logging.String("folder", path),
			logging.String("want", want),
			logging.Error(err),
		)
		if rbErr := e.fs.rename(temp, path); rbErr != nil {
			gen := e.rewrites.Len()
			e.rewrites.Add(path, temp)
			e.root = e.rewrites.ApplySince(e.root, gen)
			return temp
		}
		return path
	}
	gen := e.rewrites.Len()
	e.rewrites.Add(path, target)
	e.root = e.rewrites.ApplySince(e.root, gen)
	e.stats.FoldersRenamed++
	e.emit(op, nil)
	e.logger.Info("folder case fixed",
		logging.String("from", path),
		logging.String("to", target),
		logging.String("reason", reason),
	)
	return target
}

func (e *engine) ensureDir(dir, reason string) error {
	if e.fs.isDir(dir) {
		return nil
	}
	op := FolderOp{Action: ActionCreate, Destination: dir, Reason: reason}
	if err := e.fs.mkdir(dir); err != nil {
		e.emit(op, err)
		return fmt.Errorf("create folder %q: %w", dir, err)
	}
	e.stats.FoldersCreated++
	e.emit(op, nil)
	e.logger.Info("folder created", logging.String("folder", dir), logging.String("reason", reason))
	return nil
}

// removeEmptied removes emptied source folders inside the scan root,
// deepest first. The scan root itself is never removed.
func (e *engine) removeEmptied() {
	dirs := make([]string, 0, len(e.cleanup))
	for dir, gen := range e.cleanup {
		dirs = append(dirs, e.rewrites.ApplySince(dir, gen))
	}
	sort.Slice(dirs, func(i, j int) bool {
		di := strings.Count(dirs[i], string(filepath.Separator))
		dj := strings.Count(dirs[j], string(filepath.Separator))
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})
	for _, dir := range slices.Compact(dirs) {
		if dir == e.root || !hasPathPrefix(dir, e.root) {
			continue
		}
		removed, err := e.fs.removeEmpty(dir)
		if err != nil {
			logging.WarnWithContext(e.logger, "empty folder cleanup failed", "organize_cleanup",
				logging.String("folder", dir),
				logging.Error(err),
			)
			continue
		}
		if removed {
			e.emit(FolderOp{Action: ActionRemove, Source: dir, Reason: ReasonEmptied}, nil)
			e.logger.Debug("empty folder removed", logging.String("folder", dir))
		}
	}
}
