package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jward/resolverstatus"
	"github.com/jward/resolverstatus/internal/config"
	"github.com/jward/resolverstatus/internal/filter"
	"github.com/jward/resolverstatus/internal/notion"
	"github.com/jward/resolverstatus/internal/reconcile"
)

var (
	flagConfig  string
	flagDB      string
	flagFormat  string
	flagVerbose bool
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "resolverstatus",
	Short:         "Sync resolver deployment status into a tracking database",
	Long:          "resolverstatus extracts resolver declarations from TypeScript sources, derives each resolver's deployment status, and updates drifted statuses in a Notion tracking database.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		setupLogging(cmd.ErrOrStderr(), flagVerbose)
		return nil
	},
	// No Run; prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "run history database path (default: history disabled)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
}

// setupLogging installs a text slog handler on w as the default logger.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfig loads the --config file and environment, then applies global
// flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(afero.NewOsFs(), flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.HistoryDB = flagDB
	}
	return cfg, nil
}

// newEngine builds an Engine from cfg. The history database directory is
// created when needed.
func newEngine(ctx context.Context, cfg *config.Config) (*resolverstatus.Engine, error) {
	opts := []resolverstatus.Option{
		resolverstatus.WithExtensions(cfg.Extensions...),
		resolverstatus.WithAdminMarker(cfg.AdminMarker),
		resolverstatus.WithLogger(slog.Default()),
	}
	if cfg.Filter != "" {
		f, err := filter.New(ctx, cfg.Filter)
		if err != nil {
			return nil, err
		}
		opts = append(opts, resolverstatus.WithFilter(f))
	}
	if cfg.HistoryDB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.HistoryDB), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Dir(cfg.HistoryDB), err)
		}
		opts = append(opts, resolverstatus.WithHistory(cfg.HistoryDB))
	}

	engine, err := resolverstatus.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return engine, nil
}

// trackingDatabase returns the Notion database named by cfg.
func trackingDatabase(cfg *config.Config) reconcile.Database {
	client := notion.NewClient(notion.Config{
		Token:             cfg.Notion.Token,
		BaseURL:           cfg.Notion.BaseURL,
		Version:           cfg.Notion.Version,
		RequestsPerSecond: cfg.Notion.RequestsPerSecond,
	})
	return client.Database(cfg.Notion.DatabaseID)
}

func reconcileOptions(cfg *config.Config, dryRun bool) []reconcile.Option {
	return []reconcile.Option{
		reconcile.WithProperties(reconcile.Properties{
			Name:   cfg.Properties.Name,
			Type:   cfg.Properties.Type,
			Status: cfg.Properties.Status,
		}),
		reconcile.WithDryRun(dryRun),
	}
}
