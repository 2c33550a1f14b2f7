package organizer

import (
	"context"
	"log/slog"

	"autotitle/internal/logging"
	"autotitle/internal/media"
)

// Reconciler restructures settled episode files into show and season folders.
type Reconciler struct {
	opts     Options
	logger   *slog.Logger
	recorder Recorder
}

// NewReconciler builds a Reconciler. recorder may be nil.
func NewReconciler(opts Options, logger *slog.Logger, recorder Recorder) *Reconciler {
	return &Reconciler{
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "organizer"),
		recorder: recorder,
	}
}

// Result summarizes one Reconcile pass.
type Result struct {
	Stats media.Stats
	// Root is the scan root after any folder renames.
	Root string
}

// Reconcile moves every settled episode under root into
// Show/<season folder>/ and updates each item's CurrentPath and Status in
// place. Per-item failures mark that item and never abort the pass.
func (r *Reconciler) Reconcile(ctx context.Context, items []media.ScanItem, root string) Result {
	logger := logging.WithContext(ctx, r.logger)
	if !r.opts.Enabled {
		logger.Info("folder organization disabled", logging.Args(logging.DecisionAttrs("organize", "skipped", "disabled in config")...)...)
		return Result{Root: root}
	}
	e := newEngine(osFS{}, root, r.opts, logger)
	e.emit = func(op FolderOp, err error) {
		if r.recorder != nil {
			r.recorder.Record(ctx, op, err)
		}
	}
	e.run(ctx, items)
	logger.Info("folder organization complete",
		logging.Int("folders_created", e.stats.FoldersCreated),
		logging.Int("folders_renamed", e.stats.FoldersRenamed),
		logging.Int("files_moved", e.stats.FilesMoved),
		logging.String("root", e.root),
	)
	return Result{Stats: e.stats, Root: e.root}
}
