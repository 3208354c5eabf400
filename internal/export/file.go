package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"wikiepisodes/internal/textutil"
)

// FileName returns the export file name for series in format.
func FileName(series string, format Format) string {
	return textutil.ExportStem(series) + "." + format.Extension()
}

// WriteFile writes data into dir, replacing any previous export of the same
// series. The returned path is the file that was written.
func WriteFile(dir string, data Dataset, format Format) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, format, data); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	target := filepath.Join(dir, FileName(data.Series, format))
	lock := flock.New(target + ".lock")
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock export file: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	tmpPath := target + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("replace export: %w", err)
	}
	return target, nil
}
