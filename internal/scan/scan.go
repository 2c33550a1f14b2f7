// Package scan enumerates media files beneath a root directory.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"autotitle/internal/logging"
	"autotitle/internal/media"
)

// VideoExtensions lists the recognized media file extensions.
var VideoExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".wmv"}

// IsVideo reports whether path carries a recognized extension, ignoring case.
func IsVideo(path string) bool {
	return slices.Contains(VideoExtensions, strings.ToLower(filepath.Ext(path)))
}

// Files walks root recursively and returns absolute paths of video files in
// lexical order. Unreadable subdirectories are logged and skipped.
func Files(ctx context.Context, root string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root: %w", err)
	}
	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == abs {
				return walkErr
			}
			logging.WarnWithContext(logger, "skipping unreadable path", "scan_unreadable",
				logging.String("path", path),
				logging.Error(walkErr),
				logging.String(logging.FieldImpact, "files beneath this path are not scanned"),
			)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && IsVideo(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("scan %q: %w", abs, err)
	}
	slices.Sort(files)
	return files, nil
}

// Items wraps Files, returning one pending ScanItem per file.
func Items(ctx context.Context, root string, logger *slog.Logger) ([]media.ScanItem, error) {
	files, err := Files(ctx, root, logger)
	if err != nil {
		return nil, err
	}
	items := make([]media.ScanItem, 0, len(files))
	for _, path := range files {
		items = append(items, media.ScanItem{OriginalPath: path, Status: media.StatusPending})
	}
	return items, nil
}
