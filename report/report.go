// Package report reads and writes the CSV files that carry work between the
// evaluators, the human reviewer, and the processors. Reports use '@' as the
// separator so commas in file names never break a row. The trailing decision
// column belongs to the reviewer: evaluators write it empty and processors
// treat an absent or unrecognized value as "take no action".
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Separator used by all report files.
const Separator = '@'

// Default report file names inside the report directory.
const (
	DuplicateFile      = "duplicate_report.csv"
	ImageFile          = "image_report.csv"
	ImageProcessedFile = "image_report_processed.csv"
	VideoFile          = "video_report.csv"
	VideoProcessedFile = "video_report_processed.csv"
)

func writeRows(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = Separator
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// readRows returns the header and data rows of a report. Rows may have more
// or fewer fields than the header; reviewers edit these files by hand.
func readRows(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open report %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = Separator
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("report %s is empty", path)
	}
	return records[0], records[1:], nil
}

// columnIndex maps header names to positions so a reviewer reordering or
// appending columns does not break the processors.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	// Reports edited in a spreadsheet may come back as "2.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return fallback
}

func parseBoolFlag(s string) bool {
	return parseInt(s, 0) != 0
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
