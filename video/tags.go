package video

import (
	"fmt"
	"strings"
	"time"

	"github.com/barasher/go-exiftool"

	"mediacurator/logging"
)

// quickTimeDateTags are the Apple date tags ffmpeg's -metadata flag cannot
// reach. The cloud service reads CreateDate for its timeline ordering.
var quickTimeDateTags = []string{
	"QuickTime:CreateDate",
	"QuickTime:ModifyDate",
	"QuickTime:TrackCreateDate",
	"QuickTime:TrackModifyDate",
	"QuickTime:MediaCreateDate",
	"QuickTime:MediaModifyDate",
}

// WriteQuickTimeTags stamps the creation time into the QuickTime date tags
// of a converted file and restores the Apple device tags that conversion
// dropped. A missing exiftool binary is tolerated with a warning so a
// conversion run still completes.
func WriteQuickTimeTags(path string, creation time.Time, apple map[string]string) error {
	et, err := exiftool.NewExiftool()
	if err != nil {
		logging.Warnf("exiftool unavailable, QuickTime tags not written for %s: %v", path, err)
		return nil
	}
	defer et.Close()

	fm := exiftool.FileMetadata{
		File:   path,
		Fields: map[string]interface{}{},
	}

	stamp := creation.UTC().Format("2006:01:02 15:04:05")
	for _, tag := range quickTimeDateTags {
		fm.Fields[tag] = stamp
	}

	for key, value := range apple {
		lower := strings.ToLower(key)
		switch {
		case strings.Contains(lower, "make"):
			fm.Fields["QuickTime:Make"] = value
		case strings.Contains(lower, "model"):
			fm.Fields["QuickTime:Model"] = value
		case strings.Contains(lower, "software"):
			fm.Fields["QuickTime:Software"] = value
		}
	}

	fms := []exiftool.FileMetadata{fm}
	et.WriteMetadata(fms)
	if fms[0].Err != nil {
		return fmt.Errorf("exiftool write failed for %s: %w", path, fms[0].Err)
	}
	return nil
}
