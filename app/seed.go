package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoAbsensi/GoAbsensi/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create tables, permissions, system roles and the first administrator",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := daemon.OpenDB(cfg)
		if err != nil {
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := daemon.Migrate(db); err != nil {
			return err
		}

		if err := daemon.Seed(cmd.Context(), db, cfg.Seed); err != nil {
			return err
		}

		log.Info().Msg("seed finished")

		return nil
	},
}
