package commands

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mediacurator/catalog"
	"mediacurator/dupes"
	"mediacurator/imagehash"
	"mediacurator/logging"
	"mediacurator/reingest"
	"mediacurator/report"
	"mediacurator/video"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Scan the archive and write a report for review",
}

var evaluateDupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "Flag near-duplicate images by perceptual hash",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateArchive(); err != nil {
			return err
		}

		cat, err := catalog.Open(cfg.CatalogPath)
		if err != nil {
			logging.Warnf("running without hash catalog: %v", err)
		} else {
			defer cat.Close()
		}

		ev := &dupes.Evaluator{Hasher: imagehash.PHasher{}, Catalog: cat}
		rows, err := ev.Run(cmd.Context(), dupes.Options{
			Root:          cfg.ArchiveRoot,
			Skiplist:      cfg.Skiplist,
			Extensions:    cfg.DupeExtensions,
			SizeThreshold: cfg.SizeThresholdBytes(),
			MaxDistance:   cfg.PhashDistance,
			Workers:       cfg.Workers,
		})
		if err != nil {
			return err
		}

		path := filepath.Join(cfg.ReportDir, report.DuplicateFile)
		if err := report.WriteDuplicates(path, rows); err != nil {
			return err
		}
		logging.Infof("wrote %d rows to %s", len(rows), path)

		if cat != nil {
			if stats, err := cat.GetStats(); err == nil {
				logging.Infof("catalog: %d entries, %d unique hashes",
					stats.TotalEntries, stats.UniqueHashes)
			}
		}
		return nil
	},
}

var evaluateImagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Select images with trustworthy capture dates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateArchive(); err != nil {
			return err
		}
		transition, err := transitionTime()
		if err != nil {
			return err
		}

		rows, err := reingest.Evaluate(reingest.EvaluateOptions{
			Root:       cfg.ArchiveRoot,
			Skiplist:   cfg.Skiplist,
			Extensions: cfg.ReingestExtensions,
			Transition: transition,
		})
		if err != nil {
			return err
		}

		path := filepath.Join(cfg.ReportDir, report.ImageFile)
		if err := report.WriteImages(path, rows); err != nil {
			return err
		}
		logging.Infof("wrote %d rows to %s", len(rows), path)
		return nil
	},
}

var evaluateVideosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Check videos for cloud compatibility",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateArchive(); err != nil {
			return err
		}
		transition, err := transitionTime()
		if err != nil {
			return err
		}

		rows, err := video.Evaluate(cmd.Context(), video.EvaluateOptions{
			Root:        cfg.ArchiveRoot,
			Skiplist:    cfg.Skiplist,
			Extensions:  cfg.VideoExtensions,
			FFprobePath: cfg.FFprobePath,
			Transition:  transition,
		})
		if err != nil {
			return err
		}

		path := filepath.Join(cfg.ReportDir, report.VideoFile)
		if err := report.WriteVideos(path, rows); err != nil {
			return err
		}
		logging.Infof("wrote %d rows to %s", len(rows), path)
		return nil
	},
}

func transitionTime() (time.Time, error) {
	t, ok, err := cfg.Transition()
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, nil
	}
	return t, nil
}

func init() {
	evaluateCmd.AddCommand(evaluateDupesCmd)
	evaluateCmd.AddCommand(evaluateImagesCmd)
	evaluateCmd.AddCommand(evaluateVideosCmd)
}
