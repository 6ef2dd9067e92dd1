package commands

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Guisb12/lusia-cal/pkg/api"
	"github.com/Guisb12/lusia-cal/pkg/config"
	"github.com/Guisb12/lusia-cal/pkg/printers"
	"github.com/Guisb12/lusia-cal/pkg/timeutil"
)

func addAgenda(topLevel *cobra.Command) {
	window := timeutil.DefaultWindow
	showIDs := false
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "print the upcoming session agenda",
		Example: `
lusiacal agenda
lusiacal agenda --window 3d
lusiacal agenda --window 1w2d --ids
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			span, err := timeutil.ParseWindow(window)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client := api.NewClient(api.Options{
				BaseURL: cfg.APIURL,
				Token:   cfg.Token,
				Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
			})

			from := timeutil.Midnight(time.Now())
			to := from.Add(span)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			sessions, err := client.ListSessions(ctx, from, to)
			if err != nil {
				return err
			}

			ap := &printers.AgendaPrint{ShowIDs: showIDs}
			ap.Title(from, to)
			ap.Agenda(sessions)
			return nil
		},
	}

	cmd.Flags().StringVarP(&window, "window", "w", timeutil.DefaultWindow, "Agenda span, like 3d or 1w2d.")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show session ids.")

	topLevel.AddCommand(cmd)
}
