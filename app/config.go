package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoAbsensi/GoAbsensi/internal/config"
)

func init() { //nolint: gochecknoinits
	configCmd.Flags().BoolVar(&configAsJSON, "json", false, "print as JSON, ready for "+config.JSONEnv)

	rootCmd.AddCommand(configCmd)
}

var (
	configAsJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets redacted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dump := config.DumpConfig
			if configAsJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(cfg)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

			return err
		},
	}
)
