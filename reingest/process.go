package reingest

import (
	"path/filepath"
	"time"

	"mediacurator/logging"
	"mediacurator/metadata"
	"mediacurator/report"
	"mediacurator/staging"
	"mediacurator/types"
)

// ProcessStats summarizes an image processing run.
type ProcessStats struct {
	Copied  int
	Skipped int
	Failed  int
}

// Process copies the rows whose action is move into stagingDir, flat, named
// with the capture-time prefix and with the capture time stamped as mtime.
// It returns the rows with derived_file filled for the processed report.
// Without execute no file is written; intended destinations are logged.
func Process(rows []report.ImageRow, stagingDir string, execute bool) ([]report.ImageRow, ProcessStats) {
	var stats ProcessStats

	for i := range rows {
		row := &rows[i]
		if row.Action != types.ActionMove {
			stats.Skipped++
			continue
		}

		var capture time.Time
		if row.CaptureTime != "" {
			t, err := metadata.ParseTimestamp(row.CaptureTime)
			if err != nil {
				logging.Warnf("bad capture_time for %s: %v", row.File, err)
			} else {
				capture = t
			}
		}
		if capture.IsZero() {
			// The evaluator never emits a move without a trusted time; a
			// hand-edited row without one is not safe to stage.
			logging.Warnf("skipping %s: move row has no capture time", row.File)
			stats.Skipped++
			continue
		}

		dst := filepath.Join(stagingDir, staging.Name(capture, filepath.Base(row.File)))

		if !execute {
			logging.Infof("would copy: %s -> %s", row.File, dst)
			row.DerivedFile = dst
			continue
		}

		dst = staging.UniquePath(dst)
		if err := staging.Copy(row.File, dst); err != nil {
			logging.Errorf("cannot copy %s: %v", row.File, err)
			stats.Failed++
			continue
		}
		if err := staging.SetTimes(dst, capture); err != nil {
			logging.Warnf("cannot set times on %s: %v", dst, err)
		}
		row.DerivedFile = dst
		stats.Copied++
	}

	return rows, stats
}
