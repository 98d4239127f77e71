package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/resolverstatus/internal/store"
)

var (
	flagLimit int
	flagRun   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long:  "Lists recent extraction and reconciliation runs, or with --run shows the files, resolvers and outcomes of one run.",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "number of runs to list")
	historyCmd.Flags().StringVar(&flagRun, "run", "", "show one run in detail")
}

// openStore opens the history database named by --db or the config.
func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.HistoryDB == "" {
		return nil, fmt.Errorf("no history database: pass --db or set history_db")
	}
	if _, err := os.Stat(cfg.HistoryDB); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s", cfg.HistoryDB)
	}
	return store.NewStore(cfg.HistoryDB)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return outputError(cmd, "history", err)
	}
	defer s.Close()

	if flagRun != "" {
		detail, err := runDetail(s, flagRun)
		if err != nil {
			return outputError(cmd, "history", err)
		}
		return outputResult(cmd, CLIResult{Command: "history", Results: detail})
	}

	if flagLimit <= 0 {
		return outputError(cmd, "history", fmt.Errorf("invalid limit %d: must be positive", flagLimit))
	}
	runs, err := s.RecentRuns(flagLimit)
	if err != nil {
		return outputError(cmd, "history", err)
	}
	out := make([]CLIRun, 0, len(runs))
	for _, r := range runs {
		out = append(out, runToCLI(r))
	}
	return outputResult(cmd, CLIResult{Command: "history", Results: out})
}

func runDetail(s *store.Store, id string) (CLIRunDetail, error) {
	run, err := s.Run(id)
	if err != nil {
		return CLIRunDetail{}, err
	}
	if run == nil {
		return CLIRunDetail{}, fmt.Errorf("run not found: %s", id)
	}

	detail := CLIRunDetail{Run: runToCLI(run)}
	files, err := s.RunFiles(id)
	if err != nil {
		return CLIRunDetail{}, err
	}
	for _, f := range files {
		detail.Files = append(detail.Files, CLIFile{Path: f.Path, Hash: f.Hash, Resolvers: f.ResolverCount})
	}
	reg, err := s.RunRegistry(id)
	if err != nil {
		return CLIRunDetail{}, err
	}
	detail.Resolvers = registryToCLI(reg)
	outcomes, err := s.RunOutcomes(id)
	if err != nil {
		return CLIRunDetail{}, err
	}
	for _, o := range outcomes {
		detail.Outcomes = append(detail.Outcomes, CLIOutcome{
			PageID: o.PageID, Name: o.Name, Type: o.Type, Outcome: o.Outcome,
			From: o.From, To: o.To, Error: o.Error,
		})
	}
	return detail, nil
}
