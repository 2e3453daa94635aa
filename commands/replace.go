package commands

import (
	"github.com/spf13/cobra"

	"mediacurator/logging"
	"mediacurator/replacer"
	"mediacurator/report"
)

var (
	replaceReportPath string
	replaceExecute    bool
)

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Write converted videos back over their archive originals",
	Long: `Replace archive originals with their converted derivatives. Only rows
from the processed video report that a reviewer marked "overwrite" are
touched. Runs dry by default; pass --execute to replace for real.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := replaceReportPath
		if path == "" {
			path = resolveReport(report.VideoProcessedFile)
		}

		rows, err := report.ReadVideos(path)
		if err != nil {
			return err
		}

		stats := replacer.Process(rows, replaceExecute)
		logging.Infof("replace: %d marked, %d replaced, %d missing, %d failed",
			stats.Candidates, stats.Replaced, stats.Missing, stats.Failed)
		return nil
	},
}

func init() {
	replaceCmd.Flags().StringVar(&replaceReportPath, "report", "", "processed video report (default from report_dir)")
	replaceCmd.Flags().BoolVar(&replaceExecute, "execute", false, "apply changes instead of the default dry run")
}
