package video

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"mediacurator/logging"
	"mediacurator/metadata"
	"mediacurator/report"
	"mediacurator/staging"
	"mediacurator/types"
)

// ProcessOptions control a video processing run.
type ProcessOptions struct {
	StagingDir string
	FFmpegPath string
	Execute    bool
}

// ProcessStats summarizes a video processing run.
type ProcessStats struct {
	Copied    int
	Converted int
	Skipped   int
	Failed    int
}

// Process stages the rows whose action is move or convert. Compatible videos
// are copied under the capture-time name; the rest are converted into a MOV
// with ffmpeg and their QuickTime dates rewritten. Rows come back with
// derived_file filled for the processed report. Without execute nothing is
// written; intended destinations are logged.
func Process(ctx context.Context, rows []report.VideoRow, opts ProcessOptions) ([]report.VideoRow, ProcessStats) {
	var stats ProcessStats

	for i := range rows {
		if ctx.Err() != nil {
			break
		}
		row := &rows[i]
		if row.Action != types.ActionMove && row.Action != types.ActionConvert {
			stats.Skipped++
			continue
		}

		capture, err := metadata.ParseTimestamp(row.CreationTime)
		if err != nil {
			// The evaluator never emits an actionable row without a trusted
			// time; a hand-edited row without one is not safe to stage.
			logging.Warnf("skipping %s: no usable creation time: %v", row.File, err)
			stats.Skipped++
			continue
		}

		base := filepath.Base(row.File)
		if row.Action == types.ActionConvert {
			base = strings.TrimSuffix(base, filepath.Ext(base)) + ".mov"
		}
		dst := filepath.Join(opts.StagingDir, staging.Name(capture, base))

		if !opts.Execute {
			logging.Infof("would %s: %s -> %s", row.Action, row.File, dst)
			row.DerivedFile = dst
			continue
		}

		dst = staging.UniquePath(dst)
		switch row.Action {
		case types.ActionMove:
			if err := staging.Copy(row.File, dst); err != nil {
				logging.Errorf("cannot copy %s: %v", row.File, err)
				stats.Failed++
				continue
			}
			stats.Copied++
		case types.ActionConvert:
			if err := convertOne(ctx, row, dst, capture, opts.FFmpegPath); err != nil {
				logging.Errorf("%v", err)
				stats.Failed++
				continue
			}
			stats.Converted++
		}

		if err := staging.SetTimes(dst, capture); err != nil {
			logging.Warnf("cannot set times on %s: %v", dst, err)
		}
		row.DerivedFile = dst
	}

	return rows, stats
}

func convertOne(ctx context.Context, row *report.VideoRow, dst string, capture time.Time, ffmpegPath string) error {
	apple := decodeAppleMetadata(row.AppleMetadata)

	job := Job{
		Source:        row.File,
		Dest:          dst,
		CreationTime:  capture.UTC().Format(time.RFC3339),
		VideoCodec:    row.VideoCodecNeeded,
		AudioCodec:    row.AudioCodecNeeded,
		AudioChannels: row.AudioChannels,
		AppleMetadata: apple,
	}
	if err := Convert(ctx, ffmpegPath, job); err != nil {
		return err
	}
	return WriteQuickTimeTags(dst, capture, apple)
}

func decodeAppleMetadata(encoded string) map[string]string {
	if encoded == "" {
		return nil
	}
	var apple map[string]string
	if err := json.Unmarshal([]byte(encoded), &apple); err != nil {
		logging.Warnf("bad apple_metadata %q: %v", encoded, err)
		return nil
	}
	return apple
}
