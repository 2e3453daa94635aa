// Package staging handles the flat output directory whose contents the
// operator uploads manually. File names get a capture-time prefix so the
// directory sorts chronologically, and mtimes carry the capture time because
// that is what the sync application reads.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UnknownPrefix is used when a file has no usable capture time. Such files
// should normally not reach staging at all.
const UnknownPrefix = "unknown_"

// Name returns the staging file name for base captured at t. A zero t yields
// the unknown prefix.
func Name(t time.Time, base string) string {
	if t.IsZero() {
		return UnknownPrefix + base
	}
	return t.Format("20060102_150405-") + base
}

// UniquePath returns path, or path with a numeric suffix when a different
// file already occupies it.
func UniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// Copy copies src to dst, creating parent directories.
func Copy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// SetTimes stamps path's atime and mtime with t. A zero t is a no-op.
func SetTimes(path string, t time.Time) error {
	if t.IsZero() {
		return nil
	}
	return os.Chtimes(path, t, t)
}
