package main

import (
	"github.com/spf13/cobra"

	"github.com/jward/resolverstatus/internal/config"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Update the tracking database from a snapshot",
	Long:  "Reads the registry snapshot, fetches every tracking record, and updates each matched record whose status differs from the snapshot.",
	Args:  cobra.NoArgs,
	RunE:  runReconcile,
}

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Extract, write the snapshot, then reconcile",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPipeline,
}

func init() {
	reconcileCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "snapshot path (default from config)")
	reconcileCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report decisions without updating records")

	runCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "snapshot path (default from config)")
	runCmd.Flags().StringVar(&flagFilter, "filter", "", "Risor expression selecting records to keep")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report decisions without updating records")
}

// applyExtractFlags applies the positional dir and extraction flags to cfg.
func applyExtractFlags(cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.SourceDir = args[0]
	}
	if flagSnapshot != "" {
		cfg.SnapshotPath = flagSnapshot
	}
	if flagFilter != "" {
		cfg.Filter = flagFilter
	}
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return outputError(cmd, "reconcile", err)
	}
	if flagSnapshot != "" {
		cfg.SnapshotPath = flagSnapshot
	}
	if err := cfg.ValidateReconcile(); err != nil {
		return outputError(cmd, "reconcile", err)
	}

	engine, err := newEngine(cmd.Context(), cfg)
	if err != nil {
		return outputError(cmd, "reconcile", err)
	}
	defer engine.Close()

	reg, err := engine.ReadSnapshot(cfg.SnapshotPath)
	if err != nil {
		return outputError(cmd, "reconcile", err)
	}
	report, err := engine.Reconcile(cmd.Context(), trackingDatabase(cfg), reg, cfg.SnapshotPath,
		reconcileOptions(cfg, flagDryRun)...)
	if err != nil {
		return outputError(cmd, "reconcile", err)
	}

	return outputResult(cmd, CLIResult{
		Command: "reconcile",
		Results: reportToCLI(report, cfg.SnapshotPath, flagDryRun),
	})
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return outputError(cmd, "run", err)
	}
	applyExtractFlags(cfg, args)
	if err := cfg.ValidateReconcile(); err != nil {
		return outputError(cmd, "run", err)
	}

	engine, err := newEngine(cmd.Context(), cfg)
	if err != nil {
		return outputError(cmd, "run", err)
	}
	defer engine.Close()

	build, err := engine.BuildRegistry(cmd.Context(), cfg.SourceDir)
	if err != nil {
		return outputError(cmd, "run", err)
	}
	if err := engine.WriteSnapshot(cfg.SnapshotPath, build.Registry); err != nil {
		return outputError(cmd, "run", err)
	}

	// Reconcile from the snapshot as written, not the in-memory registry.
	reg, err := engine.ReadSnapshot(cfg.SnapshotPath)
	if err != nil {
		return outputError(cmd, "run", err)
	}
	report, err := engine.Reconcile(cmd.Context(), trackingDatabase(cfg), reg, cfg.SnapshotPath,
		reconcileOptions(cfg, flagDryRun)...)
	if err != nil {
		return outputError(cmd, "run", err)
	}

	return outputResult(cmd, CLIResult{
		Command: "run",
		Results: CLIPipeline{
			Extract:   extractToCLI(build, cfg.SnapshotPath),
			Reconcile: reportToCLI(report, cfg.SnapshotPath, flagDryRun),
		},
	})
}
