package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileExporter writes reports as JSON files below a directory.
type FileExporter struct {
	dir string
}

func NewFileExporter(dir string) *FileExporter {
	return &FileExporter{dir: dir}
}

func (e *FileExporter) Export(ctx context.Context, key string, report interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := encode(report)
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
