package report

import "mediacurator/types"

// ImageRow is one image in a reingestion report. DerivedFile is filled by
// the processor with the staging path.
type ImageRow struct {
	File        string
	Action      types.Action
	Reason      string
	CaptureTime string // RFC 3339, empty when skipped
	DerivedFile string
	Decision    string
}

var imageHeader = []string{"file", "action", "reason", "capture_time", "derived_file", "decision"}

// WriteImages writes an image report to path.
func WriteImages(path string, rows []ImageRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.File,
			string(r.Action),
			r.Reason,
			r.CaptureTime,
			r.DerivedFile,
			r.Decision,
		})
	}
	return writeRows(path, imageHeader, records)
}

// ReadImages reads a (possibly human-edited) image report.
func ReadImages(path string) ([]ImageRow, error) {
	header, records, err := readRows(path)
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header)

	rows := make([]ImageRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, ImageRow{
			File:        field(rec, idx, "file"),
			Action:      types.Action(field(rec, idx, "action")),
			Reason:      field(rec, idx, "reason"),
			CaptureTime: field(rec, idx, "capture_time"),
			DerivedFile: field(rec, idx, "derived_file"),
			Decision:    field(rec, idx, "decision"),
		})
	}
	return rows, nil
}
