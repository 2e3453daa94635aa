package report

import "strconv"

// DuplicateRow is one image in a duplicate evaluation report. DupeOf points
// at the larger counterpart when DupeType is dupe_small.
type DuplicateRow struct {
	File     string
	Size     int64
	PHash    string
	DupeType string
	DupeOf   string
	Decision string
}

var duplicateHeader = []string{"file", "size", "phash", "dupe_type", "dupe_of", "decision"}

// WriteDuplicates writes a duplicate report to path.
func WriteDuplicates(path string, rows []DuplicateRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.File,
			strconv.FormatInt(r.Size, 10),
			r.PHash,
			r.DupeType,
			r.DupeOf,
			r.Decision,
		})
	}
	return writeRows(path, duplicateHeader, records)
}

// ReadDuplicates reads a (possibly human-edited) duplicate report.
func ReadDuplicates(path string) ([]DuplicateRow, error) {
	header, records, err := readRows(path)
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header)

	rows := make([]DuplicateRow, 0, len(records))
	for _, rec := range records {
		size := int64(parseInt(field(rec, idx, "size"), 0))
		rows = append(rows, DuplicateRow{
			File:     field(rec, idx, "file"),
			Size:     size,
			PHash:    field(rec, idx, "phash"),
			DupeType: field(rec, idx, "dupe_type"),
			DupeOf:   field(rec, idx, "dupe_of"),
			Decision: field(rec, idx, "decision"),
		})
	}
	return rows, nil
}
