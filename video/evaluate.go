package video

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"mediacurator/logging"
	"mediacurator/metadata"
	"mediacurator/report"
	"mediacurator/scanner"
	"mediacurator/types"
)

// EvaluateOptions control a video evaluation run.
type EvaluateOptions struct {
	Root        string
	Skiplist    []string
	Extensions  []string
	FFprobePath string
	Transition  time.Time // zero disables the gate
}

const (
	reasonWrongExtension  = "wrong extension"
	reasonSkiplistMatch   = "skiplist match"
	reasonProbeFailed     = "ffprobe failed"
	reasonBadCreationTime = "unparseable creation time"
	reasonFullyCompatible = "fully compatible already"
)

// Evaluate walks the archive and returns one row per file found. Videos that
// are fully compatible get action move; videos needing conversion get action
// convert with a reason naming each stream that must change; everything else
// is skipped with the specific reason. The scan is read-only.
func Evaluate(ctx context.Context, opts EvaluateOptions) ([]report.VideoRow, error) {
	var rows []report.VideoRow

	err := scanner.WalkFiles(opts.Root, func(path string, info os.FileInfo) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		rows = append(rows, evaluateFile(ctx, path, info, opts))
	})
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return rows, nil
}

func evaluateFile(ctx context.Context, path string, info os.FileInfo, opts EvaluateOptions) report.VideoRow {
	row := report.VideoRow{File: path, Action: types.ActionSkip}

	if !scanner.HasExtension(path, opts.Extensions) {
		row.Reason = reasonWrongExtension
		return row
	}
	if metadata.ShouldSkip(path, opts.Skiplist) {
		row.Reason = reasonSkiplistMatch
		return row
	}

	probe, err := Probe(ctx, opts.FFprobePath, path)
	if err != nil {
		logging.Debugf("%v", err)
		row.Reason = reasonProbeFailed
		return row
	}

	return evaluateProbed(path, info, probe, opts)
}

func evaluateProbed(path string, info os.FileInfo, probe *ProbeResult, opts EvaluateOptions) report.VideoRow {
	row := report.VideoRow{File: path, Action: types.ActionSkip}
	compat := analyzeStreams(probe, path)

	// Establish a trustworthy creation time before committing to any action.
	creationTime := probe.CreationTime()
	var capture time.Time
	if creationTime != "" {
		t, err := metadata.ParseTimestamp(creationTime)
		if err != nil {
			logging.Warnf("unparseable creation time %q in %s", creationTime, path)
			row.Reason = reasonBadCreationTime
			return row
		}
		capture = t
	}
	if creationTime == "" {
		verdict := metadata.EvaluateCaptureTime(path, time.Time{}, info.ModTime(), time.Time{})
		if verdict.Action == types.ActionSkip {
			if verdict.Reason == metadata.ReasonModYearMismatch {
				row.Reason = "file modified time mismatch"
			} else {
				row.Reason = verdict.Reason
			}
			return row
		}
		capture = verdict.CaptureTime
		creationTime = capture.UTC().Format(time.RFC3339)
	}

	if !opts.Transition.IsZero() && !capture.IsZero() && !capture.Before(opts.Transition) {
		row.Reason = metadata.ReasonAfterTransition
		return row
	}

	row.CreationTime = creationTime
	row.AudioChannels = compat.audioChannels
	if apple := probe.AppleMetadata(); apple != nil {
		if encoded, err := json.Marshal(apple); err == nil {
			row.AppleMetadata = string(encoded)
		}
	}

	if !compat.videoCodecNeeded && !compat.audioCodecNeeded && !compat.containerNeeded && !compat.hdrToSDRNeeded {
		row.Action = types.ActionMove
		row.Reason = reasonFullyCompatible
		return row
	}

	row.Action = types.ActionConvert
	row.Reason = "convert: " + strings.Join(compat.reasons(), "+")
	row.VideoCodecNeeded = compat.videoCodecNeeded || compat.hdrToSDRNeeded
	row.AudioCodecNeeded = compat.audioCodecNeeded
	return row
}

type compatibility struct {
	videoCodecNeeded bool
	audioCodecNeeded bool
	containerNeeded  bool
	hdrToSDRNeeded   bool
	hasVideo         bool
	hasAudio         bool
	audioChannels    int
}

// analyzeStreams checks each stream against the compatibility target. An HDR
// stream always needs conversion, even when already hvc1.
func analyzeStreams(probe *ProbeResult, path string) compatibility {
	c := compatibility{
		videoCodecNeeded: true,
		audioCodecNeeded: true,
		containerNeeded:  !scanner.HasExtension(path, []string{"mov"}),
		audioChannels:    2,
	}

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			c.hasVideo = true
			isHvc1 := stream.CodecName == "hevc" &&
				strings.ToLower(stream.CodecTagString) == "hvc1"
			isHDR := IsHDR(stream)
			if isHvc1 && !isHDR {
				c.videoCodecNeeded = false
			} else {
				c.videoCodecNeeded = !isHvc1
				c.hdrToSDRNeeded = isHDR
			}
		case "audio":
			c.hasAudio = true
			if stream.CodecName == "aac" {
				c.audioCodecNeeded = false
			}
			if stream.Channels > 0 {
				c.audioChannels = stream.Channels
			}
		}
	}
	return c
}

// reasons names the streams that must change. A missing stream keeps its
// needed-flag set but contributes no reason word.
func (c compatibility) reasons() []string {
	var reasons []string
	if c.videoCodecNeeded && c.hasVideo {
		reasons = append(reasons, "video codec")
	}
	if c.hdrToSDRNeeded {
		reasons = append(reasons, "HDR to SDR")
	}
	if c.audioCodecNeeded && c.hasAudio {
		reasons = append(reasons, "audio codec")
	}
	if c.containerNeeded {
		reasons = append(reasons, "container")
	}
	return reasons
}
