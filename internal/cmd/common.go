package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/batchimport/internal/config"
	"github.com/harrison/batchimport/internal/store"
)

// loadConfig loads the config file named by --config, or .batchimport/config.yaml,
// then applies .env and environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := cfg.ApplyEnv("."); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the document store configured in cfg.
func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := config.ResolvePath(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve db_path: %w", err)
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	return s, nil
}

// loadConfigAndStore is the common prelude of the repository commands.
func loadConfigAndStore(cmd *cobra.Command) (*config.Config, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}

// stringFlag returns a pointer to the flag value when the flag was set.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
