package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"autotitle/internal/fileutil"
	"autotitle/internal/logging"
	"autotitle/internal/media"
)

const tempFileSuffix = ".autotitle-tmp"

// Renamer gives resolved files their canonical names within their current
// directory.
type Renamer struct {
	logger   *slog.Logger
	recorder Recorder
	fs       fileSystem
}

// NewRenamer builds a Renamer. recorder may be nil.
func NewRenamer(logger *slog.Logger, recorder Recorder) *Renamer {
	return &Renamer{
		logger:   logging.NewComponentLogger(logger, "renamer"),
		recorder: recorder,
		fs:       osFS{},
	}
}

// RenameInPlace renames every resolved item to its canonical name, moving
// companion sidecars alongside. Items already carrying the name become ok,
// renamed items become renamed, and failures become error without stopping
// the batch.
func (r *Renamer) RenameInPlace(ctx context.Context, items []media.ScanItem) media.Stats {
	logger := logging.WithContext(ctx, r.logger)
	var stats media.Stats
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		item := &items[i]
		if item.Status != media.StatusResolved || !item.Resolved() {
			continue
		}
		src := item.Path()
		dst := filepath.Join(filepath.Dir(src), item.CanonicalName)
		item.TargetPath = dst
		if src == dst {
			item.CurrentPath = src
			item.Status = media.StatusOK
			continue
		}
		op := FolderOp{Action: ActionRenameFile, Source: src, Destination: dst, Reason: ReasonCanonicalName}
		err := r.renameFile(src, dst)
		r.record(ctx, op, err)
		if err != nil {
			item.CurrentPath = src
			item.Status = media.StatusError
			item.Err = fmt.Errorf("rename %q: %w", src, err)
			hint := "check permissions on the containing folder"
			if errors.Is(err, fileutil.ErrDestinationExists) {
				hint = "a file with the canonical name already exists"
			}
			logging.WarnWithContext(logger, "rename failed", "rename_failed",
				logging.String("source", src),
				logging.String("destination", dst),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, hint),
				logging.String(logging.FieldImpact, "file keeps its original name"),
			)
			continue
		}
		stats.FilesRenamed++
		item.CurrentPath = dst
		item.Status = media.StatusRenamed
		logger.Info("file renamed", logging.String("source", src), logging.String("destination", dst))
		moveCompanions(r.fs, src, dst, func(from, to string, err error) {
			r.record(ctx, FolderOp{Action: ActionRenameFile, Source: from, Destination: to, Reason: ReasonCompanion}, err)
			if err != nil {
				logging.WarnWithContext(logger, "companion rename failed", "rename_companion",
					logging.String("source", from),
					logging.String("destination", to),
					logging.Error(err),
				)
			}
		})
	}
	return stats
}

// renameFile renames without replacing. Case-only renames go through a
// temporary name, and refuse when a case-sensitive filesystem already holds
// the exact destination name as a separate entry.
func (r *Renamer) renameFile(src, dst string) error {
	if !strings.EqualFold(src, dst) {
		return r.fs.move(src, dst)
	}
	taken, err := hasExactEntry(r.fs, filepath.Dir(dst), filepath.Base(dst))
	if err != nil {
		return err
	}
	if taken {
		return fileutil.ErrDestinationExists
	}
	temp := src + tempFileSuffix
	if err := r.fs.move(src, temp); err != nil {
		return err
	}
	if err := r.fs.move(temp, dst); err != nil {
		_ = r.fs.move(temp, src)
		return err
	}
	return nil
}

func hasExactEntry(fsys fileSystem, dir, name string) (bool, error) {
	entries, err := fsys.readDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *Renamer) record(ctx context.Context, op FolderOp, err error) {
	if r.recorder != nil {
		r.recorder.Record(ctx, op, err)
	}
}
