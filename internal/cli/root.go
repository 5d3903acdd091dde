// Package cli implements the clipline command-line interface: project
// maintenance, history operations, and timeline math inspection.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clipline/clipline/internal/config"
	"github.com/clipline/clipline/internal/store"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	Verbose    bool
}

// NewRootCommand creates the root command for the clipline CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "clipline",
		Short: "Clipline - timeline & history engine for clip-based video projects",
		Long: "Clipline maintains an undo/redo-capable, persisted log of project\n" +
			"edit states and the coordinate math that keeps the timeline ruler,\n" +
			"drag-to-seek, and clip placement agreeing on the same frame index.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "TOML config file")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "project database path (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewProjectCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewRulerCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))

	return cmd
}

// loadConfig resolves the effective configuration for a command run.
func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if o.DBPath != "" {
		cfg.Store.Path = o.DBPath
	}
	return cfg, nil
}

// openStore opens the configured SQLite store.
func (o *RootOptions) openStore() (*store.SQLite, config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, cfg, err
	}
	slog.Debug("opened project store", "path", cfg.Store.Path)
	return s, cfg, nil
}
