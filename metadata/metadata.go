// Package metadata decides whether a file's capture time is trustworthy
// enough to order it correctly in the cloud collection. When no trustworthy
// signal exists the file is excluded, never assigned a guessed date.
package metadata

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"mediacurator/types"
)

var yearPattern = regexp.MustCompile(`^(20\d{2})`)

// ShouldSkip reports whether path matches any skiplist keyword,
// case-insensitive, anywhere in the path.
func ShouldSkip(path string, skiplist []string) bool {
	lower := strings.ToLower(path)
	for _, keyword := range skiplist {
		if keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// YearFromPath finds a 20XX year at the start of any path component, the
// convention used for archive folders like 2018/2018-04-15 Birthday Party.
func YearFromPath(path string) (int, bool) {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	for _, part := range parts {
		if m := yearPattern.FindStringSubmatch(part); m != nil {
			year, err := strconv.Atoi(m[1])
			if err == nil {
				return year, true
			}
		}
	}
	return 0, false
}

// ExifDateTaken returns the EXIF capture date (DateTimeOriginal preferred).
func ExifDateTaken(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}

// ParseTimestamp parses the timestamp formats that appear in reports and in
// container metadata: RFC 3339 (with or without fractional seconds), or a
// bare local timestamp in the first 19 characters.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if len(s) >= 19 {
		if t, err := time.Parse("2006-01-02T15:04:05", s[:19]); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02 15:04:05", s[:19]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Verdict reasons shared by the image and video evaluators.
const (
	ReasonDateTaken       = "date taken available"
	ReasonModYearCorrect  = "date modified year correct"
	ReasonModYearMismatch = "date modified year mismatch"
	ReasonNoYearInPath    = "no year in path"
	ReasonAfterTransition = "after transition date"
)

// Verdict is the outcome of the capture-time trust chain.
type Verdict struct {
	Action      types.Action
	Reason      string
	CaptureTime time.Time // zero when Action is skip
}

// EvaluateCaptureTime applies the trust chain for a file: an embedded
// capture date wins; otherwise the file mtime is accepted only when its year
// matches the 20XX year in the path; otherwise the file is excluded. A
// non-zero transition time additionally excludes anything captured on or
// after it.
//
// embedded is the capture date from in-file metadata (zero when absent).
func EvaluateCaptureTime(path string, embedded time.Time, modTime time.Time, transition time.Time) Verdict {
	capture := embedded
	reason := ReasonDateTaken

	if capture.IsZero() {
		year, ok := YearFromPath(path)
		if !ok {
			return Verdict{Action: types.ActionSkip, Reason: ReasonNoYearInPath}
		}
		if modTime.Year() != year {
			return Verdict{Action: types.ActionSkip, Reason: ReasonModYearMismatch}
		}
		capture = modTime
		reason = ReasonModYearCorrect
	}

	if !transition.IsZero() && !capture.Before(transition) {
		return Verdict{Action: types.ActionSkip, Reason: ReasonAfterTransition}
	}

	return Verdict{Action: types.ActionMove, Reason: reason, CaptureTime: capture}
}
