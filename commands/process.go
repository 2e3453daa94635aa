package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"mediacurator/dupes"
	"mediacurator/logging"
	"mediacurator/reingest"
	"mediacurator/report"
	"mediacurator/video"
)

var (
	reportPath string
	execute    bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Act on a reviewed report",
	Long: `Act on a reviewed report. Processors run dry by default and print what
they would do; pass --execute to delete, copy, or convert for real.`,
}

var processDupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "Delete the duplicates marked for deletion",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := report.ReadDuplicates(resolveReport(report.DuplicateFile))
		if err != nil {
			return err
		}

		stats := dupes.Process(rows, execute)
		logging.Infof("duplicates: %d marked, %d deleted, %d missing, %d failed",
			stats.Candidates, stats.Deleted, stats.Missing, stats.Failed)
		return nil
	},
}

var processImagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Copy selected images into staging",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := report.ReadImages(resolveReport(report.ImageFile))
		if err != nil {
			return err
		}

		processed, stats := reingest.Process(rows, cfg.StagingDir, execute)
		logging.Infof("images: %d copied, %d skipped, %d failed",
			stats.Copied, stats.Skipped, stats.Failed)

		if !execute {
			return nil
		}
		out := filepath.Join(cfg.ReportDir, report.ImageProcessedFile)
		if err := report.WriteImages(out, processed); err != nil {
			return err
		}
		logging.Infof("wrote %s", out)
		return nil
	},
}

var processVideosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Copy or convert selected videos into staging",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := report.ReadVideos(resolveReport(report.VideoFile))
		if err != nil {
			return err
		}

		processed, stats := video.Process(cmd.Context(), rows, video.ProcessOptions{
			StagingDir: cfg.StagingDir,
			FFmpegPath: cfg.FFmpegPath,
			Execute:    execute,
		})
		logging.Infof("videos: %d copied, %d converted, %d skipped, %d failed",
			stats.Copied, stats.Converted, stats.Skipped, stats.Failed)

		if !execute {
			return nil
		}
		out := filepath.Join(cfg.ReportDir, report.VideoProcessedFile)
		if err := report.WriteVideos(out, processed); err != nil {
			return err
		}
		logging.Infof("wrote %s", out)
		return nil
	},
}

// resolveReport picks the explicit --report path when given, otherwise the
// default file inside the configured report directory.
func resolveReport(defaultName string) string {
	if reportPath != "" {
		return reportPath
	}
	return filepath.Join(cfg.ReportDir, defaultName)
}

func init() {
	processCmd.PersistentFlags().StringVar(&reportPath, "report", "", "report file to process (default from report_dir)")
	processCmd.PersistentFlags().BoolVar(&execute, "execute", false, "apply changes instead of the default dry run")

	processCmd.AddCommand(processDupesCmd)
	processCmd.AddCommand(processImagesCmd)
	processCmd.AddCommand(processVideosCmd)
}
