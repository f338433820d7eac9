package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/vjranagit/imurun/internal/config"
	"github.com/vjranagit/imurun/pkg/store"
)

const (
	version = "0.3.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.DefaultConfig()}

	root := &cobra.Command{
		Use:           "imurun",
		Short:         "Find runs of IMU samples that cross a threshold",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			level, _ := a.cfg.LogLevel()
			a.logger = slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{Level: level}))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfg.Store.DataFile, "data", "d", a.cfg.Store.DataFile, "sample file (csv, optionally zstd-compressed) [IMURUN_DATA_FILE]")
	flags.StringVar(&a.cfg.Log.Level, "log-level", a.cfg.Log.Level, "log level: debug, info, warn, error [IMURUN_LOG_LEVEL]")
	flags.IntVar(&a.cfg.Store.InitialCapacity, "capacity", a.cfg.Store.InitialCapacity, "initial store capacity [IMURUN_INITIAL_CAPACITY]")
	flags.BoolVar(&a.cfg.Store.TimestampFallback, "timestamp-fallback", a.cfg.Store.TimestampFallback, "read unknown channels as the timestamp instead of failing [IMURUN_TIMESTAMP_FALLBACK]")

	root.AddCommand(
		newShowCmd(a),
		newSearchCmd(a),
		newServeCmd(a),
	)
	return root
}

// loadStore reads the configured data file into a new store
func (a *app) loadStore() (*store.SampleStore, error) {
	if a.cfg.Store.DataFile == "" {
		return nil, fmt.Errorf("no data file given (use --data or IMURUN_DATA_FILE)")
	}

	s, err := store.NewFromFile(a.cfg.Store.DataFile, a.cfg.StoreOptions()...)
	if err != nil {
		a.logger.Error("ingestion failed", "file", a.cfg.Store.DataFile, "loaded", s.Size(), "error", err)
		return nil, err
	}

	a.logger.Debug("samples loaded", "file", a.cfg.Store.DataFile, "count", s.Size())
	return s, nil
}
