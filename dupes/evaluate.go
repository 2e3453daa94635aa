// Package dupes finds near-duplicate images for human review. Detection
// compares perceptual hashes within a folder: images at or above the size
// threshold form the "big" group, the rest the "small" group, and a small
// image whose hash is within the distance threshold of a big one is flagged
// as the duplicate. Nothing is ever deleted here.
package dupes

import (
	"context"
	"os"
	"sync"

	"mediacurator/catalog"
	"mediacurator/imagehash"
	"mediacurator/logging"
	"mediacurator/report"
	"mediacurator/scanner"
	"mediacurator/types"
)

// Options control a duplicate evaluation run.
type Options struct {
	Root          string
	Skiplist      []string
	Extensions    []string
	SizeThreshold int64
	MaxDistance   int
	Workers       int
}

// Evaluator runs duplicate detection. Catalog is optional; when set, hashes
// of unchanged files are reused instead of recomputed.
type Evaluator struct {
	Hasher  imagehash.Hasher
	Catalog *catalog.Catalog
}

type hashResult struct {
	path string
	size int64
	hash string // empty when the image could not be read
}

// Run scans the archive and returns one row per image, grouped by folder
// with big images before small ones. The scan is read-only.
func (e *Evaluator) Run(ctx context.Context, opts Options) ([]report.DuplicateRow, error) {
	if opts.Workers < 1 {
		opts.Workers = scanner.OptimalWorkers()
	}

	groups, err := scanner.CollectFolderGroups(opts.Root, opts.Extensions, opts.Skiplist)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, g := range groups {
		total += len(g.Files)
	}
	if total == 0 {
		return nil, nil
	}

	progress := scanner.NewProgress(total)
	defer progress.Stop()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		results   = make(map[string]hashResult, total)
		semaphore = make(chan struct{}, opts.Workers)
	)

	for _, g := range groups {
		for _, path := range g.Files {
			select {
			case <-ctx.Done():
				wg.Wait()
				return nil, ctx.Err()
			case semaphore <- struct{}{}:
			}

			wg.Add(1)
			go func(p string) {
				defer wg.Done()
				defer func() { <-semaphore }()

				res := e.hashOne(p)
				progress.Add(res.hash != "")

				mu.Lock()
				results[p] = res
				mu.Unlock()
			}(path)
		}
	}
	wg.Wait()

	var rows []report.DuplicateRow
	for _, g := range groups {
		rows = append(rows, e.evaluateFolder(g, results, opts)...)
	}
	return rows, nil
}

// hashOne stats and hashes a single image, consulting the catalog first.
func (e *Evaluator) hashOne(path string) hashResult {
	info, err := os.Stat(path)
	if err != nil {
		logging.Warnf("cannot stat %s: %v", path, err)
		return hashResult{path: path}
	}
	res := hashResult{path: path, size: info.Size()}

	if e.Catalog != nil {
		if hash, ok, err := e.Catalog.Lookup(path, info.Size(), info.ModTime()); err != nil {
			logging.Warnf("catalog lookup failed for %s: %v", path, err)
		} else if ok {
			res.hash = hash
			return res
		}
	}

	hash, err := e.Hasher.HashFile(path)
	if err != nil {
		logging.Warnf("cannot hash %s: %v", path, err)
		return res
	}
	res.hash = hash

	if e.Catalog != nil {
		if err := e.Catalog.Store(path, info.Size(), info.ModTime(), hash); err != nil {
			logging.Warnf("catalog store failed for %s: %v", path, err)
		}
	}
	return res
}

// evaluateFolder pairs big and small images within one folder.
func (e *Evaluator) evaluateFolder(g scanner.FolderGroup, results map[string]hashResult, opts Options) []report.DuplicateRow {
	var big, small []report.DuplicateRow
	for _, path := range g.Files {
		res := results[path]
		row := report.DuplicateRow{File: path, Size: res.size, PHash: res.hash}
		if res.size >= opts.SizeThreshold {
			big = append(big, row)
		} else {
			small = append(small, row)
		}
	}

	for bi := range big {
		if big[bi].PHash == "" {
			continue
		}
		for si := range small {
			if small[si].PHash == "" {
				continue
			}
			dist, err := imagehash.Distance(big[bi].PHash, small[si].PHash)
			if err != nil {
				logging.Warnf("cannot compare %s and %s: %v", big[bi].File, small[si].File, err)
				continue
			}
			if dist <= opts.MaxDistance {
				big[bi].DupeType = types.DupeBig
				small[si].DupeType = types.DupeSmall
				small[si].DupeOf = big[bi].File
			}
		}
	}

	return append(big, small...)
}
