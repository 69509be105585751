// Package export writes the current row projection as CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"arbitrage-scanner/internal/domain"
)

const DefaultFilename = "arbitrage.csv"

var ErrNoRows = errors.New("nothing to export")

// WriteCSV writes a header of row keys followed by one record per row.
// Fields containing separators, quotes or newlines are quoted.
func WriteCSV(w io.Writer, rows []domain.Row) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(domain.RowKeys); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.Pair, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveFile writes rows to path, or to DefaultFilename when path is empty.
// It returns the path written.
func SaveFile(path string, rows []domain.Row) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}
	if path == "" {
		path = DefaultFilename
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create export dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
