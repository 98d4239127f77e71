package main

import (
	"github.com/spf13/cobra"
)

var (
	flagSnapshot string
	flagFilter   string
	flagDryRun   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [dir]",
	Short: "Extract resolver statuses into a snapshot",
	Long:  "Parses every source file in dir (non-recursive), derives each resolver's status, and writes the registry snapshot.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "snapshot path (default from config)")
	extractCmd.Flags().StringVar(&flagFilter, "filter", "", "Risor expression selecting records to keep")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return outputError(cmd, "extract", err)
	}
	applyExtractFlags(cfg, args)

	engine, err := newEngine(cmd.Context(), cfg)
	if err != nil {
		return outputError(cmd, "extract", err)
	}
	defer engine.Close()

	build, err := engine.BuildRegistry(cmd.Context(), cfg.SourceDir)
	if err != nil {
		return outputError(cmd, "extract", err)
	}
	if err := engine.WriteSnapshot(cfg.SnapshotPath, build.Registry); err != nil {
		return outputError(cmd, "extract", err)
	}

	return outputResult(cmd, CLIResult{
		Command: "extract",
		Results: extractToCLI(build, cfg.SnapshotPath),
	})
}
