package app

import (
	"github.com/spf13/cobra"

	"github.com/GoAbsensi/GoAbsensi/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the GoAbsensi web service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			d, err := daemon.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			return d.Start()
		},
	}
)
