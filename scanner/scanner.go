// Package scanner walks the archive tree and feeds files to the evaluators.
package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"mediacurator/logging"
	"mediacurator/metadata"
)

// FolderGroup is a directory and its matching files, used by the duplicate
// evaluator which compares images within a folder only.
type FolderGroup struct {
	Dir   string
	Files []string // absolute paths, sorted
}

// HasExtension reports whether path's extension (without dot, lower-cased)
// is in exts.
func HasExtension(path string, exts []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// WalkFiles calls fn for every regular file under root, in walk order.
// Hidden files and directories are skipped. Unreadable entries are logged
// and skipped, never fatal.
func WalkFiles(root string, fn func(path string, info os.FileInfo)) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logging.Warnf("cannot access %s: %v", path, err)
			return nil
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		fn(abs, info)
		return nil
	})
}

// CollectFolderGroups walks root and returns, per folder, the files whose
// extension is in exts. Folders matching the skiplist are pruned entirely.
func CollectFolderGroups(root string, exts []string, skiplist []string) ([]FolderGroup, error) {
	groups := make(map[string][]string)

	err := WalkFiles(root, func(path string, info os.FileInfo) {
		if metadata.ShouldSkip(path, skiplist) {
			return
		}
		if !HasExtension(path, exts) {
			return
		}
		dir := filepath.Dir(path)
		groups[dir] = append(groups[dir], path)
	})
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	result := make([]FolderGroup, 0, len(dirs))
	for _, dir := range dirs {
		files := groups[dir]
		sort.Strings(files)
		result = append(result, FolderGroup{Dir: dir, Files: files})
	}
	return result, nil
}

// OptimalWorkers returns the worker count for hash fan-out. Image decoding
// goes through cgo, so leave a quarter of the cores free.
func OptimalWorkers() int {
	workers := (runtime.NumCPU() * 3) / 4
	if workers < 1 {
		workers = 1
	}
	return workers
}
