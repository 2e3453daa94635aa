package video

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"mediacurator/logging"
)

// Job describes one conversion: which streams to re-encode and which
// metadata to carry over.
type Job struct {
	Source        string
	Dest          string
	CreationTime  string
	VideoCodec    bool // re-encode video to hvc1 HEVC SDR
	AudioCodec    bool // re-encode audio to AAC
	AudioChannels int
	AppleMetadata map[string]string
}

// x265 settings tuned for the cloud service's thumbnailer: closed GOPs with
// repeated headers so any keyframe is a valid decode start.
const x265Params = "keyint=60:min-keyint=60:scenecut=0:bframes=4:open-gop=0:repeat-headers=1"

// FFmpegArgs builds the ffmpeg argument list for a job. Streams that are
// already compatible are copied, not re-encoded.
func FFmpegArgs(j Job) []string {
	args := []string{"-y", "-i", j.Source}

	if j.VideoCodec {
		args = append(args,
			"-c:v", "libx265",
			"-tag:v", "hvc1",
			"-profile:v", "main",
			"-level:v", "4.0",
			"-pix_fmt", "yuv420p",
			"-r", "30",
			"-x265-params", x265Params,
			"-color_primaries", "bt709",
			"-color_trc", "bt709",
			"-colorspace", "bt709",
		)
	} else {
		args = append(args, "-c:v", "copy")
	}

	if j.AudioCodec {
		args = append(args, "-c:a", "aac", "-ar", "44100", "-b:a", "100k")
		channels := j.AudioChannels
		if channels != 1 {
			channels = 2
		}
		args = append(args, "-ac", strconv.Itoa(channels))
	} else {
		args = append(args, "-c:a", "copy")
	}

	if j.CreationTime != "" {
		args = append(args, "-metadata", "creation_time="+j.CreationTime)
	}

	args = append(args, "-movflags", "+write_colr+faststart", j.Dest)
	return args
}

// Convert runs ffmpeg for the job.
func Convert(ctx context.Context, ffmpegPath string, j Job) error {
	args := FFmpegArgs(j)
	logging.Debugf("running %s %v", ffmpegPath, args)

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed for %s: %w\n%s", j.Source, err, out)
	}
	return nil
}
