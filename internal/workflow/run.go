package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"autotitle/internal/consensus"
	"autotitle/internal/journal"
	"autotitle/internal/logging"
	"autotitle/internal/media"
	"autotitle/internal/organizer"
	"autotitle/internal/parse"
	"autotitle/internal/scan"
)

// Scan enumerates root, waits for the Knowledge Cache, resolves each file
// in order, and fills gaps by directory consensus. Nothing on disk changes.
func (m *Manager) Scan(ctx context.Context, root string) (*Plan, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, m.logger)

	m.StartPopulation(ctx)
	ready := m.cache.WaitUntilReady(ctx, m.cfg.CacheWait())
	if !ready {
		logging.WarnWithContext(logger, "knowledge cache not ready; continuing", "knowledge_not_ready",
			logging.Duration("waited", m.cfg.CacheWait()),
			logging.String(logging.FieldErrorHint, "run `autotitle cache populate` or raise identify.cache_wait_seconds"),
			logging.String(logging.FieldImpact, "titles only in bulk lists may stay unresolved this run"),
		)
	}

	items, err := scan.Items(ctx, abs, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("scan started", logging.String("root", abs), logging.Int("files", len(items)))

	m.resolver.ResetMemo()
	for i := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.resolver.ResolveItem(ctx, &items[i])
	}
	items = consensus.FillGaps(items, parse.Parse, m.resolver.Options().CanonicalName, logger)

	counts := CountItems(items)
	logger.Info("scan complete",
		logging.Int("files", counts.Total),
		logging.Int("resolved", counts.Resolved),
		logging.Int("unresolved", counts.Unresolved),
		logging.Bool("cache_ready", ready),
	)
	return &Plan{RunID: runID, Root: abs, Items: items, CacheReady: ready}, nil
}

// Report is the outcome of Apply.
type Report struct {
	RunID      string
	Root       string
	Items      []media.ScanItem
	Stats      media.Stats
	Counts     Counts
	StartedAt  time.Time
	FinishedAt time.Time
}

// Apply commits plan: in-place renames when enabled, then folder
// reconciliation. Per-item failures are recorded on the items; only lock
// acquisition failures are returned.
func (m *Manager) Apply(ctx context.Context, plan *Plan) (*Report, error) {
	if plan == nil {
		return nil, fmt.Errorf("apply: nil plan")
	}
	lock, err := m.acquireRunLock()
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	runID := plan.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, m.logger)
	report := &Report{RunID: runID, Root: plan.Root, Items: plan.Items, StartedAt: time.Now()}

	var recorder organizer.Recorder
	if m.journal != nil {
		if err := m.journal.BeginRun(ctx, runID, plan.Root, report.StartedAt); err != nil {
			logging.WarnWithContext(logger, "journal unavailable for this run", "journal_begin",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run history will not include this apply"),
			)
		} else {
			recorder = m.journal.Recorder(runID, logger)
		}
	}

	if m.cfg.Rename.Enabled {
		report.Stats.Add(organizer.NewRenamer(logger, recorder).RenameInPlace(ctx, report.Items))
	} else {
		logger.Info("in-place rename disabled", logging.Args(logging.DecisionAttrs("rename", "skipped", "disabled in config")...)...)
	}

	res := organizer.NewReconciler(organizer.OptionsFromConfig(m.cfg), logger, recorder).Reconcile(ctx, report.Items, plan.Root)
	report.Stats.Add(res.Stats)
	report.Root = res.Root
	report.Counts = CountItems(report.Items)
	report.FinishedAt = time.Now()

	if recorder != nil {
		run := journal.Run{
			ID:         runID,
			Root:       report.Root,
			FinishedAt: report.FinishedAt,
			Scanned:    report.Counts.Total,
			Resolved:   report.Counts.Resolved,
			Errors:     report.Counts.Errors,
			Stats:      report.Stats,
		}
		if err := m.journal.FinishRun(ctx, run); err != nil {
			logging.WarnWithContext(logger, "journal finish failed", "journal_finish", logging.Error(err))
		}
	}

	logger.Info("apply complete",
		logging.Int("folders_created", report.Stats.FoldersCreated),
		logging.Int("folders_renamed", report.Stats.FoldersRenamed),
		logging.Int("files_moved", report.Stats.FilesMoved),
		logging.Int("files_renamed", report.Stats.FilesRenamed),
		logging.Int("errors", report.Counts.Errors),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

// Preview forecasts Apply's operations for plan without touching disk:
// in-place renames first, then folder reconciliation.
func (m *Manager) Preview(plan *Plan) []organizer.FolderOp {
	if plan == nil {
		return nil
	}
	var ops []organizer.FolderOp
	if m.cfg.Rename.Enabled {
		for _, item := range plan.Items {
			if item.Status != media.StatusResolved || !item.Resolved() {
				continue
			}
			if filepath.Base(item.OriginalPath) == item.CanonicalName {
				continue
			}
			ops = append(ops, organizer.FolderOp{
				Action:      organizer.ActionRenameFile,
				Source:      item.OriginalPath,
				Destination: filepath.Join(filepath.Dir(item.OriginalPath), item.CanonicalName),
				Reason:      organizer.ReasonCanonicalName,
			})
		}
	}
	return append(ops, organizer.Preview(plan.Items, plan.Root, organizer.OptionsFromConfig(m.cfg))...)
}
