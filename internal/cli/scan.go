// Package cli — scan.go implements the "mutant scan" command.
//
// Scan is the dry-run half of mutation analysis: it discovers target
// files in the workspace and generates every mutation candidate without
// touching Docker or executing anything. It answers "what would a run
// mutate, and how much of it" before committing to the (much slower)
// run command.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/analysis"
	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/workspace"
)

// scanFlags holds the flag values for the scan command.
type scanFlags struct {
	workspacePath string // --workspace: workspace directory (default: cwd)
	list          bool   // --list: print every candidate, not just counts
}

// NewScanCommand creates the "scan" cobra command.
func NewScanCommand() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Discover mutation candidates in a workspace",
		Long: `Walk the workspace for Python sources and generate all mutation
candidates, without executing anything.

Test files, the virtual environment, and the configured exclude globs
are skipped. Candidate generation is deterministic: the same workspace
always yields the same candidate list in the same order.

Examples:
  mutant scan
  mutant scan --workspace ~/src/python-algos
  mutant scan --list
  mutant scan --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(flags)
		},
	}

	cmd.Flags().StringVar(&flags.workspacePath, "workspace", "", "Workspace directory (default: current directory)")
	cmd.Flags().BoolVar(&flags.list, "list", false, "Print every candidate instead of a summary")

	return cmd
}

// runScan discovers targets and collects candidates.
func runScan(flags *scanFlags) error {
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

	cfg, err := workspace.LoadConfig(workspacePath)
	if err != nil {
		return err
	}

	targets, err := workspace.DiscoverTargets(workspacePath, cfg)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "target discovery failed", err)
	}

	candidates, err := analysis.CollectCandidates(workspacePath, targets)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "candidate collection failed", err)
	}

	printScanResult(targets, candidates, flags.list)
	return nil
}

// printScanResult outputs the scan result in text or JSON format.
func printScanResult(targets []string, candidates []analysis.Candidate, list bool) {
	if IsJSONOutput() {
		// Empty slices, not null, for script consumers.
		outTargets := make([]string, 0, len(targets))
		outTargets = append(outTargets, targets...)
		outCandidates := make([]analysis.Candidate, 0, len(candidates))
		outCandidates = append(outCandidates, candidates...)

		printJSON(map[string]interface{}{
			"targets":    outTargets,
			"candidates": outCandidates,
		})
		return
	}

	if list {
		for _, c := range candidates {
			fmt.Println(c.Describe())
		}
		fmt.Println()
	}

	fmt.Printf("%d target file(s), %d mutation candidate(s)\n", len(targets), len(candidates))

	// Per-operator breakdown in canonical order.
	counts := make(map[model.Operator]int)
	for _, c := range candidates {
		counts[c.Mutation.Operator]++
	}
	for _, op := range model.AllOperators() {
		if counts[op] == 0 {
			continue
		}
		fmt.Printf("  %-4s %d\n", op, counts[op])
	}
}
