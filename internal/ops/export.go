package ops

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/export"
)

// ExportHistoryInput contains parameters for the ExportHistory operation.
type ExportHistoryInput struct {
	Path string // optional, default: <exports>/passwords_<date>.csv
}

// ExportBatchInput contains parameters for the ExportBatch operation.
type ExportBatchInput struct {
	Passwords []string
	Path      string // optional, default: <exports>/batch_passwords_<date>.csv
}

// ExportOutput contains the result of an export.
type ExportOutput struct {
	Path       string `json:"path"`
	Filename   string `json:"filename"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHistory writes the history log as CSV.
func ExportHistory(ctx context.Context, d *Deps, input ExportHistoryInput) (*ExportOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("export")
	}

	entries := d.History.Entries()
	text, err := export.History(entries)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return writeExport(ctx, d, input.Path, export.HistoryFilename(now), text, len(entries), now)
}

// ExportBatch writes a batch result as CSV.
func ExportBatch(ctx context.Context, d *Deps, input ExportBatchInput) (*ExportOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("export")
	}

	text, err := export.Batch(input.Passwords)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return writeExport(ctx, d, input.Path, export.BatchFilename(now), text, len(input.Passwords), now)
}

// writeExport validates the destination and writes text atomically.
func writeExport(ctx context.Context, d *Deps, path, defaultName, text string, count int, now time.Time) (*ExportOutput, error) {
	exportsDir := d.ExportsDir
	if exportsDir == "" {
		var err error
		if exportsDir, err = DefaultExportsDir(); err != nil {
			return nil, err
		}
	}

	if path == "" {
		path = filepath.Join(exportsDir, defaultName)
	}

	if err := ValidateExportPath(path, d.Config, exportsDir); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("export")
	}

	if err := writeFileAtomic(path, []byte(text)); err != nil {
		return nil, err
	}

	d.logger().Info("csv exported", zap.String("path", path), zap.Int("rows", count))

	return &ExportOutput{
		Path:       path,
		Filename:   filepath.Base(path),
		Count:      count,
		ExportedAt: now.Unix(),
	}, nil
}

// writeFileAtomic writes to a temp file and renames it into place, so an
// existing file is preserved if anything fails.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidRequest) {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}

	// Close before rename (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("export path is a symlink")
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}
