package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/Guisb12/lusia-cal/pkg/api"
	"github.com/Guisb12/lusia-cal/pkg/cache"
	"github.com/Guisb12/lusia-cal/pkg/config"
	"github.com/Guisb12/lusia-cal/pkg/tui/app"
)

func addUI(topLevel *cobra.Command) {
	debug := false
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the interactive calendar",
		Example: `
lusiacal ui
lusiacal ui --debug
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(debug)
			if err != nil {
				return err
			}
			defer closeLog()

			var disk *cache.Cache
			if cfg.CachePath != "" {
				if disk, err = cache.Open(cfg.CachePath); err != nil {
					logger.Warn("offline cache unavailable", "error", err)
					disk = nil
				}
			}

			return app.Run(app.Options{
				Service: api.NewClient(api.Options{
					BaseURL: cfg.APIURL,
					Token:   cfg.Token,
					Logger:  logger,
				}),
				Cache:        disk,
				Logger:       logger,
				SnapInterval: cfg.SnapInterval,
			})
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Write a debug log to ~/.lusiacal.log.")

	topLevel.AddCommand(cmd)
}

// newLogger returns a slog logger for the TUI. Terminal output would corrupt
// the alt screen, so logs go to a file when debugging and nowhere otherwise.
func newLogger(debug bool) (*slog.Logger, func(), error) {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	path, err := homedir.Expand("~/.lusiacal.log")
	if err != nil {
		return nil, nil, fmt.Errorf("resolve log path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}
