package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"autotitle/internal/media"
)

// Run is one apply invocation.
type Run struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	Resolved   int
	Errors     int
	Stats      media.Stats
}

// Finished reports whether the run recorded a completion.
func (r Run) Finished() bool { return !r.FinishedAt.IsZero() }

// Operation is one recorded filesystem operation.
type Operation struct {
	ID          int64
	RunID       string
	Action      string
	Source      string
	Destination string
	Reason      string
	Error       string
	RecordedAt  time.Time
}

// BeginRun inserts a new run row.
func (s *Store) BeginRun(ctx context.Context, id, root string, startedAt time.Time) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("run id is empty")
	}
	if _, err := s.exec(ctx,
		"INSERT INTO runs (id, root, started_at) VALUES (?, ?, ?)",
		id, root, formatTime(startedAt),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stores the run's final counters.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	_, err := s.exec(ctx, `UPDATE runs SET
		root = ?, finished_at = ?, files_scanned = ?, files_resolved = ?, item_errors = ?,
		folders_created = ?, folders_renamed = ?, files_moved = ?, files_renamed = ?
		WHERE id = ?`,
		run.Root, formatTime(run.FinishedAt), run.Scanned, run.Resolved, run.Errors,
		run.Stats.FoldersCreated, run.Stats.FoldersRenamed, run.Stats.FilesMoved, run.Stats.FilesRenamed,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", run.ID, err)
	}
	return nil
}

// AddOperation appends an operation to a run.
func (s *Store) AddOperation(ctx context.Context, op Operation) error {
	recorded := op.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now()
	}
	_, err := s.exec(ctx,
		`INSERT INTO operations (run_id, action, source, destination, reason, error, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		op.RunID, op.Action, op.Source, op.Destination, op.Reason, op.Error, formatTime(recorded),
	)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

const runColumns = `id, root, started_at, finished_at, files_scanned, files_resolved, item_errors,
	folders_created, folders_renamed, files_moved, files_renamed`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run      Run
		started  sql.NullString
		finished sql.NullString
	)
	err := row.Scan(&run.ID, &run.Root, &started, &finished, &run.Scanned, &run.Resolved, &run.Errors,
		&run.Stats.FoldersCreated, &run.Stats.FoldersRenamed, &run.Stats.FilesMoved, &run.Stats.FilesRenamed)
	if err != nil {
		return Run{}, err
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return run, nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY started_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by id or id prefix. It returns nil when nothing matches.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR id LIKE ? ORDER BY started_at DESC LIMIT 1",
		id, id+"%")
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// Operations lists a run's operations in recording order.
func (s *Store) Operations(ctx context.Context, runID string) ([]Operation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, action, source, destination, reason, error, recorded_at
		 FROM operations WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()
	var ops []Operation
	for rows.Next() {
		var (
			op       Operation
			recorded sql.NullString
		)
		if err := rows.Scan(&op.ID, &op.RunID, &op.Action, &op.Source, &op.Destination, &op.Reason, &op.Error, &recorded); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.RecordedAt = parseTime(recorded)
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// Prune deletes runs started before cutoff along with their operations.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.exec(ctx, "DELETE FROM runs WHERE started_at < ?", formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}
