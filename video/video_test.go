package video

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediacurator/report"
	"mediacurator/types"
)

const iphoneProbeJSON = `{
  "streams": [
    {
      "codec_type": "video",
      "codec_name": "hevc",
      "codec_tag_string": "hvc1",
      "pix_fmt": "yuv420p",
      "color_transfer": "bt709",
      "color_primaries": "bt709"
    },
    {
      "codec_type": "audio",
      "codec_name": "aac",
      "channels": 2
    }
  ],
  "format": {
    "tags": {
      "creation_time": "2019-06-15T10:30:00.000000Z",
      "com.apple.quicktime.make": "Apple",
      "com.apple.quicktime.model": "iPhone 8"
    }
  }
}`

func TestProbeResultDecoding(t *testing.T) {
	var probe ProbeResult
	require.NoError(t, json.Unmarshal([]byte(iphoneProbeJSON), &probe))

	assert.Equal(t, "2019-06-15T10:30:00.000000Z", probe.CreationTime())

	apple := probe.AppleMetadata()
	require.NotNil(t, apple)
	assert.Equal(t, "Apple", apple["com.apple.quicktime.make"])
	assert.Equal(t, "iPhone 8", apple["com.apple.quicktime.model"])
}

func TestCreationTimeFromStreamTags(t *testing.T) {
	probe := &ProbeResult{
		Streams: []Stream{
			{CodecType: "video", Tags: map[string]string{"CREATION_TIME": "2018-01-02 03:04:05"}},
		},
	}
	assert.Equal(t, "2018-01-02 03:04:05", probe.CreationTime())
}

func TestCreationTimeAbsent(t *testing.T) {
	probe := &ProbeResult{Streams: []Stream{{CodecType: "video"}}}
	assert.Equal(t, "", probe.CreationTime())
	assert.Nil(t, probe.AppleMetadata())
}

func TestIsHDR(t *testing.T) {
	tests := []struct {
		name   string
		stream Stream
		want   bool
	}{
		{"sdr bt709", Stream{ColorTransfer: "bt709", PixFmt: "yuv420p"}, false},
		{"pq transfer", Stream{ColorTransfer: "smpte2084"}, true},
		{"hlg transfer", Stream{ColorTrc: "arib-std-b67"}, true},
		{"dolby vision pix_fmt", Stream{PixFmt: "dovi_yuv420p10le"}, true},
		{"10-bit wide gamut", Stream{PixFmt: "yuv420p10le", ColorPrimaries: "bt2020"}, true},
		{"10-bit narrow gamut", Stream{PixFmt: "yuv420p10le", ColorPrimaries: "bt709"}, false},
		{"8-bit wide gamut", Stream{PixFmt: "yuv420p", ColorPrimaries: "bt2020"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsHDR(tt.stream), tt.name)
	}
}

func TestAnalyzeStreamsCompatible(t *testing.T) {
	var probe ProbeResult
	require.NoError(t, json.Unmarshal([]byte(iphoneProbeJSON), &probe))

	c := analyzeStreams(&probe, "/archive/2019/a.mov")
	assert.False(t, c.videoCodecNeeded)
	assert.False(t, c.audioCodecNeeded)
	assert.False(t, c.containerNeeded)
	assert.False(t, c.hdrToSDRNeeded)
	assert.Equal(t, 2, c.audioChannels)
}

func TestAnalyzeStreamsIncompatible(t *testing.T) {
	probe := &ProbeResult{Streams: []Stream{
		{CodecType: "video", CodecName: "h264", PixFmt: "yuv420p"},
		{CodecType: "audio", CodecName: "ac3", Channels: 6},
	}}

	c := analyzeStreams(probe, "/archive/2019/a.mkv")
	assert.True(t, c.videoCodecNeeded)
	assert.True(t, c.audioCodecNeeded)
	assert.True(t, c.containerNeeded)
	assert.Equal(t, 6, c.audioChannels)
	assert.Equal(t, []string{"video codec", "audio codec", "container"}, c.reasons())
}

func TestAnalyzeStreamsHDRForcesConversion(t *testing.T) {
	probe := &ProbeResult{Streams: []Stream{
		{CodecType: "video", CodecName: "hevc", CodecTagString: "hvc1", ColorTransfer: "smpte2084"},
		{CodecType: "audio", CodecName: "aac", Channels: 2},
	}}

	c := analyzeStreams(probe, "/archive/2019/a.mov")
	assert.False(t, c.videoCodecNeeded, "codec itself is fine")
	assert.True(t, c.hdrToSDRNeeded, "HDR still needs re-encoding")
	assert.Equal(t, []string{"HDR to SDR"}, c.reasons())
}

func TestAnalyzeStreamsMissingAudioStream(t *testing.T) {
	probe := &ProbeResult{Streams: []Stream{
		{CodecType: "video", CodecName: "h264", PixFmt: "yuv420p"},
	}}

	c := analyzeStreams(probe, "/archive/2019/silent.mov")
	assert.True(t, c.audioCodecNeeded, "flag stays set for the processor")
	assert.Equal(t, []string{"video codec"}, c.reasons(),
		"a stream that does not exist is not named in the reason")
}

func TestEvaluateProbedUnparseableCreationTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mov")
	require.NoError(t, os.WriteFile(path, []byte("not a video"), 0644))
	info, err := os.Stat(path)
	require.NoError(t, err)

	probe := &ProbeResult{
		Streams: []Stream{
			{CodecType: "video", CodecName: "hevc", CodecTagString: "hvc1", PixFmt: "yuv420p"},
			{CodecType: "audio", CodecName: "aac", Channels: 2},
		},
		Format: Format{Tags: map[string]string{"creation_time": "sometime in june"}},
	}

	row := evaluateProbed(path, info, probe, EvaluateOptions{Extensions: []string{"mov"}})
	assert.Equal(t, types.ActionSkip, row.Action)
	assert.Equal(t, "unparseable creation time", row.Reason)
	assert.Empty(t, row.CreationTime, "the bad value is not carried forward")
}

func TestFFmpegArgsFullConversion(t *testing.T) {
	args := FFmpegArgs(Job{
		Source:        "/archive/2019/a.mkv",
		Dest:          "/staging/20190615_103000-a.mov",
		CreationTime:  "2019-06-15T10:30:00Z",
		VideoCodec:    true,
		AudioCodec:    true,
		AudioChannels: 6,
	})

	joined := ""
	for _, a := range args {
		joined += a + " "
	}
	assert.Contains(t, joined, "-c:v libx265")
	assert.Contains(t, joined, "-tag:v hvc1")
	assert.Contains(t, joined, "-pix_fmt yuv420p")
	assert.Contains(t, joined, "-colorspace bt709")
	assert.Contains(t, joined, "-c:a aac")
	assert.Contains(t, joined, "-ac 2", "surround folds down to stereo")
	assert.Contains(t, joined, "-metadata creation_time=2019-06-15T10:30:00Z")
	assert.Contains(t, joined, "-movflags +write_colr+faststart")
	assert.Equal(t, "/staging/20190615_103000-a.mov", args[len(args)-1])
	assert.Equal(t, []string{"-y", "-i", "/archive/2019/a.mkv"}, args[:3])
}

func TestFFmpegArgsCopyStreams(t *testing.T) {
	args := FFmpegArgs(Job{
		Source:        "/archive/2019/a.mp4",
		Dest:          "/staging/a.mov",
		AudioChannels: 1,
	})

	joined := ""
	for _, a := range args {
		joined += a + " "
	}
	assert.Contains(t, joined, "-c:v copy")
	assert.Contains(t, joined, "-c:a copy")
	assert.NotContains(t, joined, "libx265")
	assert.NotContains(t, joined, "-ac ")
}

func TestFFmpegArgsMonoStaysMono(t *testing.T) {
	args := FFmpegArgs(Job{
		Source:        "/archive/2019/a.mp4",
		Dest:          "/staging/a.mov",
		AudioCodec:    true,
		AudioChannels: 1,
	})

	joined := ""
	for _, a := range args {
		joined += a + " "
	}
	assert.Contains(t, joined, "-ac 1")
}

func TestProcessDryRunConvertGetsMovName(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mkv")
	require.NoError(t, os.WriteFile(src, []byte("not a video"), 0644))
	stagingDir := filepath.Join(dir, "staging")

	rows := []report.VideoRow{
		{
			File:             src,
			Action:           types.ActionConvert,
			CreationTime:     "2019-06-15T10:30:00Z",
			VideoCodecNeeded: true,
			AudioChannels:    2,
		},
	}

	processed, stats := Process(context.Background(), rows, ProcessOptions{
		StagingDir: stagingDir,
		FFmpegPath: "ffmpeg",
		Execute:    false,
	})
	assert.Equal(t, 0, stats.Converted)
	assert.Equal(t, 0, stats.Failed)

	want := filepath.Join(stagingDir, "20190615_103000-clip.mov")
	assert.Equal(t, want, processed[0].DerivedFile, "conversion target is always a MOV")

	_, err := os.Stat(stagingDir)
	assert.True(t, os.IsNotExist(err), "dry run writes nothing")
}

func TestProcessMoveCopiesIntoStaging(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mov")
	require.NoError(t, os.WriteFile(src, []byte("already compatible"), 0644))
	stagingDir := filepath.Join(dir, "staging")

	rows := []report.VideoRow{
		{File: src, Action: types.ActionMove, CreationTime: "2019-06-15T10:30:00Z"},
	}

	processed, stats := Process(context.Background(), rows, ProcessOptions{
		StagingDir: stagingDir,
		Execute:    true,
	})
	assert.Equal(t, 1, stats.Copied)
	assert.Equal(t, 0, stats.Failed)

	dst := filepath.Join(stagingDir, "20190615_103000-clip.mov")
	assert.Equal(t, dst, processed[0].DerivedFile)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(time.Date(2019, 6, 15, 10, 30, 0, 0, time.UTC)))
}

func TestProcessSkipsRowsWithoutCreationTime(t *testing.T) {
	rows := []report.VideoRow{
		{File: "/archive/2019/a.mov", Action: types.ActionMove}, // hand-edited
	}

	_, stats := Process(context.Background(), rows, ProcessOptions{
		StagingDir: t.TempDir(),
		Execute:    true,
	})
	assert.Equal(t, 0, stats.Copied)
	assert.Equal(t, 1, stats.Skipped)
}
