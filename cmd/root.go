package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/triviaz/internal/config"
	"github.com/abhisek/triviaz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "triviaz",
	Short: "Terminal trivia quiz",
	Long:  "Triviaz is a terminal trivia game with per-player history, achievements and a speed mode.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/triviaz/config.toml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TRIVIAZ_DB)")
	rootCmd.PersistentFlags().String("source", "", "Question source: opentdb or llm (overrides TRIVIAZ_SOURCE)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers the persistent flags over config.Load.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	changed := false
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath, changed = v, true
	}
	if v, _ := cmd.Flags().GetString("source"); v != "" {
		cfg.Source, changed = v, true
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel, changed = v, true
	}
	if changed {
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// openStore opens the database at cfg.DBPath, creating its directory.
func openStore(cfg config.Config) (*store.Store, error) {
	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
