// Package reingest selects curated images for re-upload and copies the
// approved ones into staging. The evaluator applies the capture-time trust
// chain; the processor only ever copies, never touches the archive.
package reingest

import (
	"os"
	"time"

	"mediacurator/logging"
	"mediacurator/metadata"
	"mediacurator/report"
	"mediacurator/scanner"
	"mediacurator/types"
)

// EvaluateOptions control an image evaluation run.
type EvaluateOptions struct {
	Root       string
	Skiplist   []string
	Extensions []string
	Transition time.Time // zero disables the gate
}

const reasonWrongExtension = "wrong extension"
const reasonSkiplistMatch = "skiplist match"

// Evaluate walks the archive and returns one row per file found, each with
// an action and the reason it was chosen. The scan is read-only.
func Evaluate(opts EvaluateOptions) ([]report.ImageRow, error) {
	var rows []report.ImageRow

	err := scanner.WalkFiles(opts.Root, func(path string, info os.FileInfo) {
		row := report.ImageRow{File: path, Action: types.ActionSkip}
		defer func() { rows = append(rows, row) }()

		if !scanner.HasExtension(path, opts.Extensions) {
			row.Reason = reasonWrongExtension
			return
		}
		if metadata.ShouldSkip(path, opts.Skiplist) {
			row.Reason = reasonSkiplistMatch
			return
		}

		embedded, err := metadata.ExifDateTaken(path)
		if err != nil {
			logging.Debugf("no EXIF date for %s: %v", path, err)
			embedded = time.Time{}
		}

		verdict := metadata.EvaluateCaptureTime(path, embedded, info.ModTime(), opts.Transition)
		row.Action = verdict.Action
		row.Reason = verdict.Reason
		if !verdict.CaptureTime.IsZero() {
			row.CaptureTime = verdict.CaptureTime.Format(time.RFC3339)
		}
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
