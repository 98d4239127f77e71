package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	goodColor = color.New(color.FgGreen).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	badColor  = color.New(color.FgRed).SprintFunc()
	headColor = color.New(color.Bold).SprintFunc()
)

// outputResult writes a CLIResult to the command's stdout in the selected
// format.
func outputResult(cmd *cobra.Command, result CLIResult) error {
	w := cmd.OutOrStdout()
	if flagFormat == "text" {
		return outputResultText(w, result)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(cmd *cobra.Command, command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err)
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	_ = enc.Encode(CLIResult{Command: command, Error: err.Error()})
	return err
}

// outputResultText dispatches to the text formatter for the result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case CLIExtract:
		formatExtractText(w, v)
	case CLIReconcile:
		formatReconcileText(w, v)
	case CLIPipeline:
		formatExtractText(w, v.Extract)
		fmt.Fprintln(w)
		formatReconcileText(w, v.Reconcile)
	case []CLIRun:
		formatRunsText(w, v)
	case CLIRunDetail:
		formatRunDetailText(w, v)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

func formatRecordsText(w io.Writer, recs []CLIRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tOPERATION\tSTATUS\tSOURCE")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Type, r.Operation, r.Status, r.Source)
	}
	tw.Flush()
}

func formatOutcomesText(w io.Writer, outcomes []CLIOutcome) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tNAME\tTYPE\tOUTCOME\tFROM\tTO\tERROR")
	for _, o := range outcomes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.PageID, o.Name, o.Type, o.Outcome, o.From, o.To, o.Error)
	}
	tw.Flush()
}

func formatExtractText(w io.Writer, ex CLIExtract) {
	formatRecordsText(w, ex.Resolvers)
	if len(ex.Changes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headColor("Changes since last extraction:"))
		for _, c := range ex.Changes {
			fmt.Fprintf(w, "  %s %s: %s -> %s\n", c.Kind, c.Name, orDash(c.From), orDash(c.To))
		}
	}
	fmt.Fprintf(w, "\n%d resolvers from %d files written to %s\n", len(ex.Resolvers), len(ex.Files), ex.Snapshot)
}

func formatReconcileText(w io.Writer, rec CLIReconcile) {
	formatOutcomesText(w, rec.Results)
	fmt.Fprintln(w)
	fmt.Fprintln(w, reconcileSummary(rec))
}

// reconcileSummary renders the outcome counts as one line.
func reconcileSummary(rec CLIReconcile) string {
	var parts []string
	for _, o := range outcomeOrder {
		n := rec.Counts[string(o)]
		if n == 0 {
			continue
		}
		text := fmt.Sprintf("%s: %d", o, n)
		switch o {
		case "updated", "up_to_date":
			text = goodColor(text)
		case "failed":
			text = badColor(text)
		default:
			text = warnColor(text)
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		parts = append(parts, "no records")
	}
	prefix := ""
	if rec.DryRun {
		prefix = "(dry run) "
	}
	return prefix + strings.Join(parts, ", ")
}

func formatRunsText(w io.Writer, runs []CLIRun) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tSTARTED\tRESOLVERS\tUPDATED\tSKIPPED\tFAILED\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, runKind(r), r.StartedAt.Local().Format(time.DateTime),
			r.ResolverCount, r.Updated, r.Skipped, r.Failed, r.Source)
	}
	tw.Flush()
}

func formatRunDetailText(w io.Writer, d CLIRunDetail) {
	r := d.Run
	fmt.Fprintf(w, "Run %s (%s)\n", r.ID, runKind(r))
	fmt.Fprintf(w, "Source:  %s\n", orDash(r.Source))
	fmt.Fprintf(w, "Started: %s\n", r.StartedAt.Local().Format(time.DateTime))
	if r.Error != "" {
		fmt.Fprintf(w, "Error:   %s\n", badColor(r.Error))
	}
	if len(d.Files) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tRESOLVERS\tHASH")
		for _, f := range d.Files {
			fmt.Fprintf(tw, "%s\t%d\t%.12s\n", f.Path, f.Resolvers, f.Hash)
		}
		tw.Flush()
	}
	if len(d.Resolvers) > 0 {
		fmt.Fprintln(w)
		formatRecordsText(w, d.Resolvers)
	}
	if len(d.Outcomes) > 0 {
		fmt.Fprintln(w)
		formatOutcomesText(w, d.Outcomes)
	}
}

// runKind marks unfinished and failed runs.
func runKind(r CLIRun) string {
	switch {
	case r.Error != "":
		return r.Kind + " (failed)"
	case r.FinishedAt == nil:
		return r.Kind + " (unfinished)"
	default:
		return r.Kind
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
