// Package replacer writes converted videos back into the archive. It is the
// second of the two operations that modify the archive, and like duplicate
// deletion it only acts on rows a human has marked.
package replacer

import (
	"os"
	"path/filepath"
	"strings"

	"mediacurator/logging"
	"mediacurator/report"
	"mediacurator/staging"
	"mediacurator/types"
)

// Stats summarizes a replacement run.
type Stats struct {
	Candidates int
	Replaced   int
	Missing    int
	Failed     int
}

// Process copies each derived file marked overwrite back over its archive
// original, keeping the archive location but taking the derived file's
// extension. When the extension changed the old original is removed. Rows
// without the overwrite decision are untouched. Without execute nothing is
// written; intended replacements are logged.
func Process(rows []report.VideoRow, execute bool) Stats {
	var stats Stats

	for _, row := range rows {
		if row.Decision != types.DecisionOverwrite || row.DerivedFile == "" {
			continue
		}
		stats.Candidates++

		info, err := os.Stat(row.DerivedFile)
		if err != nil {
			logging.Warnf("derived file missing for %s: %v", row.File, err)
			stats.Missing++
			continue
		}

		ext := filepath.Ext(row.DerivedFile)
		dst := strings.TrimSuffix(row.File, filepath.Ext(row.File)) + ext

		if !execute {
			logging.Infof("would replace: %s -> %s", row.DerivedFile, dst)
			continue
		}

		if err := staging.Copy(row.DerivedFile, dst); err != nil {
			logging.Errorf("cannot replace %s: %v", row.File, err)
			stats.Failed++
			continue
		}
		if err := staging.SetTimes(dst, info.ModTime()); err != nil {
			logging.Warnf("cannot set times on %s: %v", dst, err)
		}
		if dst != row.File {
			if err := os.Remove(row.File); err != nil {
				logging.Warnf("cannot remove replaced original %s: %v", row.File, err)
			}
		}
		logging.Infof("replaced: %s", dst)
		stats.Replaced++
	}

	return stats
}
