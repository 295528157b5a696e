package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/benoitkugler/inknote/config"
	"github.com/benoitkugler/inknote/notes"
)

// app holds what the commands share, built
// once the flags are parsed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	configPath string
	dataDir    string
	verbose    bool
}

// newRootCmd returns the full command tree. Each call
// returns a fresh tree, so that tests can run commands in sequence.
func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "inknote",
		Short: "Freehand notes stored as SVG documents",
		Long: `inknote keeps handwritten notes as lists of strokes, saved
as SVG path documents in a data directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (overrides the configuration)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")

	rootCmd.AddCommand(
		a.newCmd(),
		a.listCmd(),
		a.renameCmd(),
		a.rmCmd(),
		a.drawCmd(),
		a.showCmd(),
		a.exportCmd(),
		a.watchCmd(),
	)
	return rootCmd
}

func (a *app) setup(logOutput io.Writer) error {
	cfg := config.DefaultConfig()
	if a.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(a.configPath); err != nil {
			return err
		}
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	level, _ := cfg.Level()
	if a.verbose {
		level = slog.LevelDebug
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level}))
	return nil
}

// withStore opens the note store for the duration of fn.
func (a *app) withStore(ctx context.Context, fn func(store *notes.Store) error) error {
	store, err := notes.Open(notes.Config{Dir: a.cfg.DataDir, Logger: a.logger})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Error("closing store", slog.Any("error", err))
		}
	}()
	return fn(store)
}
