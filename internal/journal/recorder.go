package journal

import (
	"context"
	"log/slog"
	"time"

	"autotitle/internal/logging"
	"autotitle/internal/organizer"
)

// RunRecorder adapts a Store to organizer.Recorder for a single run.
// Journal write failures are logged and never interrupt the run.
type RunRecorder struct {
	store  *Store
	runID  string
	logger *slog.Logger
}

// Recorder returns an organizer.Recorder writing operations under runID.
func (s *Store) Recorder(runID string, logger *slog.Logger) *RunRecorder {
	return &RunRecorder{store: s, runID: runID, logger: logging.NewComponentLogger(logger, "journal")}
}

// Record implements organizer.Recorder.
func (r *RunRecorder) Record(ctx context.Context, op organizer.FolderOp, opErr error) {
	if r == nil || r.store == nil {
		return
	}
	entry := Operation{
		RunID:       r.runID,
		Action:      string(op.Action),
		Source:      op.Source,
		Destination: op.Destination,
		Reason:      op.Reason,
		RecordedAt:  time.Now(),
	}
	if opErr != nil {
		entry.Error = opErr.Error()
	}
	if err := r.store.AddOperation(ctx, entry); err != nil {
		logging.WarnWithContext(r.logger, "journal write failed", "journal_write",
			logging.String("run_id", r.runID),
			logging.String("action", entry.Action),
			logging.Error(err),
			logging.String(logging.FieldImpact, "operation missing from run history"),
		)
	}
}
