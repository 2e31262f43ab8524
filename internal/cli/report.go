// Package cli — report.go implements the "mutant report" command.
//
// Report renders a saved mutation run: the manifest header plus the
// overall and per-operator score table, recomputed from results.csv.
// With no run ID it picks the most recent run in the workspace.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/analysis"
	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/report"
	"github.com/mmr-tortoise/mutant/internal/workspace"
)

// reportFlags holds the flag values for the report command.
type reportFlags struct {
	workspacePath string // --workspace: workspace directory (default: cwd)
}

// NewReportCommand creates the "report" cobra command.
func NewReportCommand() *cobra.Command {
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Render a saved mutation run",
		Long: `Render the results of a saved mutation run from .mutant/runs/<run-id>/.

Without a run ID, the most recently started run in the workspace is
used. The score table is recomputed from results.csv, so it also works
on result files post-processed by other tools.

Examples:
  mutant report
  mutant report 8c3f2a44-9f7a-4a7e-9a34-2f6f3a0c8b11
  mutant report --json`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) > 0 {
				runID = args[0]
			}
			return runReport(runID, flags)
		},
	}

	cmd.Flags().StringVar(&flags.workspacePath, "workspace", "", "Workspace directory (default: current directory)")

	return cmd
}

// runReport loads the requested (or latest) run and renders it.
func runReport(runID string, flags *reportFlags) error {
	workspacePath := flags.workspacePath
	if workspacePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		workspacePath = cwd
	}
	workspacePath, err := filepath.Abs(workspacePath)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve workspace path", err)
	}

	runsDir := filepath.Join(workspacePath, workspace.MetaDir, workspace.RunsDir)
	if runID == "" {
		runID, err = latestRunID(runsDir)
		if err != nil {
			return err
		}
	}
	runDir := filepath.Join(runsDir, runID)

	manifest, err := analysis.ReadManifest(filepath.Join(runDir, analysis.ManifestFile))
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("run %q not found in %s", runID, runsDir), err)
	}

	csvFile, err := os.Open(filepath.Join(runDir, analysis.ResultsFile))
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to open results.csv", err)
	}
	defer func() { _ = csvFile.Close() }()

	results, err := report.ReadResults(csvFile)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to parse results.csv", err)
	}

	summary := report.Summarize(results)
	printReportResult(manifest, summary)
	return nil
}

// latestRunID returns the run with the most recent StartedAt among the
// manifests under runsDir. Directories without a readable manifest are
// skipped (an interrupted run leaves one behind).
func latestRunID(runsDir string) (string, error) {
	entries, err := os.ReadDir(runsDir)
	if err != nil || len(entries) == 0 {
		return "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("no runs found in %s", runsDir))
	}

	var latest *analysis.Manifest
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m, err := analysis.ReadManifest(filepath.Join(runsDir, e.Name(), analysis.ManifestFile))
		if err != nil {
			continue
		}
		if latest == nil || m.StartedAt.After(latest.StartedAt) {
			latest = m
		}
	}

	if latest == nil {
		return "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("no completed runs found in %s", runsDir))
	}
	return latest.RunID, nil
}

// printReportResult outputs a saved run in text or JSON format.
func printReportResult(manifest *analysis.Manifest, summary *report.Summary) {
	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"manifest": manifest,
			"summary":  summary,
		})
		return
	}

	fmt.Printf("Run %s\n", manifest.RunID)
	fmt.Printf("  Image:    %s\n", manifest.Image)
	fmt.Printf("  Started:  %s\n", manifest.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  Duration: %s\n", manifest.FinishedAt.Sub(manifest.StartedAt).Round(runDurationPrecision))
	fmt.Printf("  Seed:     %d  (sampled %d of %d candidates)\n",
		manifest.Seed, manifest.SampleSize, manifest.CandidateCount)
	fmt.Println()
	renderSummary(os.Stdout, summary)
}

// renderSummary writes the overall and per-operator score table.
// Shared between the run and report commands.
func renderSummary(w io.Writer, s *report.Summary) {
	fmt.Fprintf(w, "%-8s %7s %7s %9s %8s %7s %8s\n",
		"", "TOTAL", "KILLED", "SURVIVED", "TIMEOUT", "ERRORS", "SCORE")
	fmt.Fprintf(w, "%-8s %7d %7d %9d %8d %7d %7.1f%%\n",
		"overall", s.Total, s.Killed, s.Survived, s.Timeout, s.Errors, s.Score*100)

	for _, op := range s.PerOperator {
		fmt.Fprintf(w, "%-8s %7d %7d %9d %8d %7d %7.1f%%\n",
			op.Operator, op.Total, op.Killed, op.Survived, op.Timeout, op.Errors, op.Score*100)
	}
}
