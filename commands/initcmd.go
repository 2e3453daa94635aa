package commands

import (
	"os"

	"github.com/spf13/cobra"

	"mediacurator/config"
	"mediacurator/logging"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the working directories and a starter config",
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := []string{cfg.StagingDir, cfg.ReportDir}
		if cfg.ArchiveRoot != "" {
			dirs = append(dirs, cfg.ArchiveRoot)
		}
		for _, dir := range dirs {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			logging.Infof("ready: %s", dir)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.WriteDefault(path); err != nil {
			// An existing config is fine; init is rerunnable.
			logging.Infof("%v", err)
			return nil
		}
		logging.Infof("wrote starter config: %s", path)
		return nil
	},
}
