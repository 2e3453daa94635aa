package dupes

import (
	"os"

	"mediacurator/logging"
	"mediacurator/report"
	"mediacurator/types"
)

// ProcessStats summarizes a duplicate processing run.
type ProcessStats struct {
	Candidates int // rows the reviewer marked delete
	Deleted    int
	Missing    int
	Failed     int
}

// Process deletes the files the reviewer marked with decision "delete".
// Every other row is left untouched, whatever its dupe_type says. Without
// execute nothing is removed; the candidates are only reported.
func Process(rows []report.DuplicateRow, execute bool) ProcessStats {
	var stats ProcessStats

	for _, row := range rows {
		if row.Decision != types.DecisionDelete {
			continue
		}
		stats.Candidates++

		if !execute {
			logging.Infof("would delete: %s", row.File)
			continue
		}

		if err := os.Remove(row.File); err != nil {
			if os.IsNotExist(err) {
				logging.Warnf("already gone: %s", row.File)
				stats.Missing++
			} else {
				logging.Errorf("cannot delete %s: %v", row.File, err)
				stats.Failed++
			}
			continue
		}
		logging.Infof("deleted: %s", row.File)
		stats.Deleted++
	}

	return stats
}
