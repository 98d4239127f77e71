package main

import (
	"sort"
	"time"

	"github.com/jward/resolverstatus"
	"github.com/jward/resolverstatus/internal/reconcile"
	"github.com/jward/resolverstatus/internal/store"
)

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLIRecord is a JSON-friendly resolver record.
type CLIRecord struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Operation string `json:"operation"`
	Status    string `json:"status"`
	Source    string `json:"source,omitempty"`
}

type CLIFile struct {
	Path      string `json:"path"`
	Hash      string `json:"hash"`
	Resolvers int    `json:"resolvers"`
}

type CLIChange struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// CLIExtract is the result of the extract command.
type CLIExtract struct {
	Snapshot  string      `json:"snapshot"`
	RunID     string      `json:"run_id,omitempty"`
	Files     []CLIFile   `json:"files"`
	Resolvers []CLIRecord `json:"resolvers"`
	Changes   []CLIChange `json:"changes,omitempty"`
}

type CLIOutcome struct {
	PageID  string `json:"page_id"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type,omitempty"`
	Outcome string `json:"outcome"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CLIReconcile is the result of the reconcile command.
type CLIReconcile struct {
	Snapshot string         `json:"snapshot"`
	DryRun   bool           `json:"dry_run"`
	Counts   map[string]int `json:"counts"`
	Results  []CLIOutcome   `json:"results"`
}

// CLIPipeline is the result of the run command.
type CLIPipeline struct {
	Extract   CLIExtract   `json:"extract"`
	Reconcile CLIReconcile `json:"reconcile"`
}

type CLIRun struct {
	ID            string     `json:"id"`
	Kind          string     `json:"kind"`
	Source        string     `json:"source,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	ResolverCount int        `json:"resolver_count"`
	Updated       int        `json:"updated"`
	UpToDate      int        `json:"up_to_date"`
	Skipped       int        `json:"skipped"`
	Failed        int        `json:"failed"`
	Error         string     `json:"error,omitempty"`
}

// CLIRunDetail is one run with everything recorded for it.
type CLIRunDetail struct {
	Run       CLIRun       `json:"run"`
	Files     []CLIFile    `json:"files,omitempty"`
	Resolvers []CLIRecord  `json:"resolvers,omitempty"`
	Outcomes  []CLIOutcome `json:"outcomes,omitempty"`
}

// outcomeOrder fixes the order counts are printed in.
var outcomeOrder = []reconcile.Outcome{
	reconcile.OutcomeUpdated,
	reconcile.OutcomeWouldUpdate,
	reconcile.OutcomeUpToDate,
	reconcile.OutcomeSkippedMissing,
	reconcile.OutcomeNoMatch,
	reconcile.OutcomeFailed,
}

// registryToCLI converts a registry to records sorted by name.
func registryToCLI(reg resolverstatus.Registry) []CLIRecord {
	out := make([]CLIRecord, 0, len(reg))
	for _, rec := range reg {
		out = append(out, CLIRecord{
			Name:      rec.Name,
			Type:      string(rec.Category),
			Operation: string(rec.Operation),
			Status:    string(rec.Status),
			Source:    rec.Source,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func extractToCLI(build *resolverstatus.Build, snapshot string) CLIExtract {
	out := CLIExtract{
		Snapshot:  snapshot,
		RunID:     build.RunID,
		Files:     make([]CLIFile, 0, len(build.Files)),
		Resolvers: registryToCLI(build.Registry),
	}
	for _, f := range build.Files {
		out.Files = append(out.Files, CLIFile{Path: f.Path, Hash: f.Hash, Resolvers: f.Resolvers})
	}
	for _, c := range build.Changes {
		out.Changes = append(out.Changes, CLIChange{
			Name: c.Name, Kind: string(c.Kind), From: string(c.From), To: string(c.To),
		})
	}
	return out
}

func reportToCLI(report *resolverstatus.Report, snapshot string, dryRun bool) CLIReconcile {
	out := CLIReconcile{
		Snapshot: snapshot,
		DryRun:   dryRun,
		Counts:   make(map[string]int, len(outcomeOrder)),
		Results:  make([]CLIOutcome, 0, len(report.Results)),
	}
	for _, o := range outcomeOrder {
		out.Counts[string(o)] = report.Count(o)
	}
	for _, r := range report.Results {
		o := CLIOutcome{
			PageID: r.PageID, Name: r.Name, Type: r.Type,
			Outcome: string(r.Outcome), From: r.From, To: r.To,
		}
		if r.Err != nil {
			o.Error = r.Err.Error()
		}
		out.Results = append(out.Results, o)
	}
	return out
}

func runToCLI(r *store.Run) CLIRun {
	return CLIRun{
		ID:            r.ID,
		Kind:          r.Kind,
		Source:        r.Source,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		ResolverCount: r.ResolverCount,
		Updated:       r.Updated,
		UpToDate:      r.UpToDate,
		Skipped:       r.Skipped,
		Failed:        r.Failed,
		Error:         r.Error,
	}
}
