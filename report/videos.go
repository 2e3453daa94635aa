package report

import (
	"strconv"

	"mediacurator/types"
)

// VideoRow is one video in an evaluation or processed report. AppleMetadata
// carries QuickTime make/model/software tags as a JSON object so the
// processor can re-apply them after conversion.
type VideoRow struct {
	File             string
	Action           types.Action
	Reason           string
	CreationTime     string
	AppleMetadata    string
	AudioChannels    int
	VideoCodecNeeded bool
	AudioCodecNeeded bool
	DerivedFile      string
	Decision         string
}

var videoHeader = []string{
	"file", "action", "reason", "creation_time", "apple_metadata",
	"audio_channels", "video_codec_needed", "audio_codec_needed",
	"derived_file", "decision",
}

// WriteVideos writes a video report to path.
func WriteVideos(path string, rows []VideoRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.File,
			string(r.Action),
			r.Reason,
			r.CreationTime,
			r.AppleMetadata,
			strconv.Itoa(r.AudioChannels),
			boolFlag(r.VideoCodecNeeded),
			boolFlag(r.AudioCodecNeeded),
			r.DerivedFile,
			r.Decision,
		})
	}
	return writeRows(path, videoHeader, records)
}

// ReadVideos reads a (possibly human-edited) video report.
func ReadVideos(path string) ([]VideoRow, error) {
	header, records, err := readRows(path)
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header)

	rows := make([]VideoRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, VideoRow{
			File:             field(rec, idx, "file"),
			Action:           types.Action(field(rec, idx, "action")),
			Reason:           field(rec, idx, "reason"),
			CreationTime:     field(rec, idx, "creation_time"),
			AppleMetadata:    field(rec, idx, "apple_metadata"),
			AudioChannels:    parseInt(field(rec, idx, "audio_channels"), 2),
			VideoCodecNeeded: parseBoolFlag(field(rec, idx, "video_codec_needed")),
			AudioCodecNeeded: parseBoolFlag(field(rec, idx, "audio_codec_needed")),
			DerivedFile:      field(rec, idx, "derived_file"),
			Decision:         field(rec, idx, "decision"),
		})
	}
	return rows, nil
}

