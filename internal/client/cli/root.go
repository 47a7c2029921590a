// Package cli implements the aislescan command line client. It drives the
// same client SDK a GUI frontend would: local credential store, backend
// API client, reactive profile state, and the Gemini vision analyzer.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aislescan/aislescan/internal/client/api"
	"github.com/aislescan/aislescan/internal/client/config"
	"github.com/aislescan/aislescan/internal/client/credstore"
	"github.com/aislescan/aislescan/internal/client/state"
	"github.com/aislescan/aislescan/pkg/logger"
)

var jsonOut bool

var rootCmd = &cobra.Command{
	Use:   "aislescan",
	Short: "Scan food labels against your dietary profile",
	Long: `aislescan analyzes food product labels with AI and matches the result
against your dietary profile (allergies, goal, restrictions).

Examples:
  aislescan signup you@example.com
  aislescan profile set --allergies peanuts,shellfish --goal losing_weight
  aislescan scan label.jpg --save
  aislescan history`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// App bundles the client-side components the commands share.
type App struct {
	Config   *config.Config
	Creds    *credstore.Store
	Client   *api.Client
	Profiles *state.Store
	Log      zerolog.Logger
}

func (a *App) Close() error {
	if a.Creds != nil {
		return a.Creds.Close()
	}
	return nil
}

var app *App

// getApp lazily wires the client stack on first use.
func getApp(ctx context.Context) (*App, error) {
	if app != nil {
		return app, nil
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})

	creds, err := credstore.Open(ctx, cfg.CredDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	client := api.New(cfg.APIBaseURL, creds)

	app = &App{
		Config:   cfg,
		Creds:    creds,
		Client:   client,
		Profiles: state.New(client, log),
		Log:      log,
	}
	return app, nil
}

// Execute runs the root command.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output machine-readable JSON")

	err := rootCmd.Execute()
	if app != nil {
		if closeErr := app.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing credential store: %v\n", closeErr)
		}
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printError(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case api.KindUnauthenticated:
			fmt.Fprintln(os.Stderr, "Error: not logged in. Run 'aislescan login' first.")
		case api.KindUnauthorized:
			fmt.Fprintln(os.Stderr, "Error: session expired. Run 'aislescan login' again.")
		case api.KindNetwork:
			fmt.Fprintf(os.Stderr, "Error: cannot reach the backend: %s\n", apiErr.Message)
		default:
			fmt.Fprintf(os.Stderr, "Error: %s\n", apiErr.Message)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printTableHeader(w *tabwriter.Writer, cols ...string) {
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
