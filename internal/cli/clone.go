// Package cli — clone.go implements the "mutant clone" command.
//
// The clone command materializes the target repository as a local
// workspace directory. It is a thin wrapper over go-git: the interesting
// work (sandbox creation, provisioning) happens in later commands that
// operate on the cloned directory.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/workspace"
)

// cloneFlags holds the flag values for the clone command.
type cloneFlags struct {
	branch string // --branch: branch to clone
	depth  int    // --depth: history depth (0 = full clone)
}

// NewCloneCommand creates the "clone" cobra command.
func NewCloneCommand() *cobra.Command {
	flags := &cloneFlags{}

	cmd := &cobra.Command{
		Use:   "clone <repo-url> [directory]",
		Short: "Clone a target repository into a local workspace",
		Long: `Clone the target Python repository into a local workspace directory.

The directory defaults to the repository name derived from the URL.
Mutation analysis only needs the working tree, so the default is a
shallow single-branch clone.

Examples:
  mutant clone https://github.com/example/python-algos.git
  mutant clone --branch main --depth 1 https://github.com/example/python-algos.git algos`,

		Args: cobra.RangeArgs(1, 2),

		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 1 {
				dir = args[1]
			}
			return runClone(cmd.Context(), args[0], dir, flags)
		},
	}

	cmd.Flags().StringVar(&flags.branch, "branch", "", "Branch to clone (default: remote default branch)")
	cmd.Flags().IntVar(&flags.depth, "depth", 1, "History depth, 0 for a full clone")

	return cmd
}

// runClone resolves the destination directory and performs the clone.
func runClone(ctx context.Context, url, dir string, flags *cloneFlags) error {
	if dir == "" {
		derived, err := workspace.DirFromURL(url)
		if err != nil {
			return model.WrapCLIError(model.ExitGitError, "cannot derive workspace directory", err)
		}
		dir = derived
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve workspace path", err)
	}

	opts := workspace.CloneOptions{
		Branch: flags.branch,
		Depth:  flags.depth,
	}
	if verbose {
		// Sideband progress ("Counting objects...") only in verbose mode;
		// it is transport noise otherwise.
		opts.Progress = os.Stderr
	}

	if err := workspace.Clone(ctx, url, abs, opts); err != nil {
		return err
	}

	if IsJSONOutput() {
		printJSON(map[string]string{
			"repoUrl":       url,
			"workspacePath": abs,
		})
		return nil
	}

	fmt.Printf("Cloned %s into %s\n", url, abs)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  cd %s\n", dir)
	fmt.Printf("  mutant create <name> --repo-url %s\n", url)
	return nil
}
