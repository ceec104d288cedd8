// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoAbsensi/GoAbsensi/internal/config"
	"github.com/GoAbsensi/GoAbsensi/internal/logger"
)

const (
	// DefaultConfigPath is used when neither --config nor GOABSENSI_CONFIG_PATH is set.
	DefaultConfigPath = "etc/main.toml"

	keyConfigPath = "config_path"
)

var rootCmd = &cobra.Command{
	Use:   "go-absensi",
	Short: "GoAbsensi is the attendance and HR backend of a school",
	Long: `GoAbsensi is the attendance and HR backend of a school.
It serves a JSON API for attendance, leave requests, locations, shifts and
face reset requests, guarded by role based permissions with per user overrides.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String("config", DefaultConfigPath, "path to the toml configuration file")

	v := viper.GetViper()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetDefault(keyConfigPath, DefaultConfigPath)

	_ = v.BindPFlag(keyConfigPath, rootCmd.PersistentFlags().Lookup("config"))
	_ = v.BindEnv(keyConfigPath) // GOABSENSI_CONFIG_PATH
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration file chosen by flag or environment and
// initializes the logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.ReadConfig(viper.GetString(keyConfigPath))
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	return &cfg, nil
}
