// Package video evaluates archive videos for cloud compatibility and
// converts the ones that need it. Compatibility target: MOV container,
// HEVC video tagged hvc1 in SDR, AAC audio. Probing and conversion shell
// out to ffprobe/ffmpeg; QuickTime dates are written with exiftool because
// ffmpeg's -metadata does not reach the Apple-specific tags.
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Stream is one ffprobe stream entry, limited to the fields the
// compatibility checks read.
type Stream struct {
	CodecType      string            `json:"codec_type"`
	CodecName      string            `json:"codec_name"`
	CodecTagString string            `json:"codec_tag_string"`
	ColorTransfer  string            `json:"color_transfer"`
	ColorTrc       string            `json:"color_trc"`
	ColorPrimaries string            `json:"color_primaries"`
	PixFmt         string            `json:"pix_fmt"`
	Channels       int               `json:"channels"`
	Tags           map[string]string `json:"tags"`
}

// Format is the ffprobe container section.
type Format struct {
	Tags map[string]string `json:"tags"`
}

// ProbeResult is the decoded ffprobe output for one file.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Probe runs ffprobe on path and decodes its JSON output.
func Probe(ctx context.Context, ffprobePath, path string) (*ProbeResult, error) {
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet", "-print_format", "json", "-show_streams", "-show_format", path)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var result ProbeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("cannot parse ffprobe output for %s: %w", path, err)
	}
	return &result, nil
}

func (p *ProbeResult) tagSets() []map[string]string {
	sets := []map[string]string{p.Format.Tags}
	for _, s := range p.Streams {
		sets = append(sets, s.Tags)
	}
	return sets
}

// CreationTime returns the embedded creation timestamp, from the standard
// creation_time tag or the Apple QuickTime creation date. Empty when absent.
func (p *ProbeResult) CreationTime() string {
	for _, tags := range p.tagSets() {
		for k, v := range tags {
			switch strings.ToLower(k) {
			case "creation_time", "com.apple.quicktime.creationdate":
				return v
			}
		}
	}
	return ""
}

var appleTagKeys = map[string]bool{
	"com.apple.quicktime.make":     true,
	"com.apple.quicktime.model":    true,
	"com.apple.quicktime.software": true,
}

// AppleMetadata returns the Apple QuickTime device tags present in the file,
// keyed by their full tag name. Nil when none exist.
func (p *ProbeResult) AppleMetadata() map[string]string {
	var found map[string]string
	for _, tags := range p.tagSets() {
		for k, v := range tags {
			if appleTagKeys[strings.ToLower(k)] {
				if found == nil {
					found = make(map[string]string)
				}
				found[strings.ToLower(k)] = v
			}
		}
	}
	return found
}

// IsHDR reports whether a video stream carries HDR content. HDR is opt-in
// and explicitly signalled: an HDR transfer function, a Dolby Vision pixel
// format, or 10-bit-plus depth combined with wide gamut primaries.
func IsHDR(s Stream) bool {
	trc := strings.ToLower(s.ColorTransfer)
	if trc == "" {
		trc = strings.ToLower(s.ColorTrc)
	}
	primaries := strings.ToLower(s.ColorPrimaries)
	pixFmt := strings.ToLower(s.PixFmt)

	if trc == "smpte2084" || trc == "arib-std-b67" {
		return true
	}
	if strings.Contains(pixFmt, "dovi") {
		return true
	}
	if strings.Contains(pixFmt, "10") || strings.Contains(pixFmt, "12") || strings.Contains(pixFmt, "16") {
		if primaries == "bt2020" || primaries == "bt2020nc" {
			return true
		}
	}
	return false
}
