package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// CloneOptions controls how a target repository is materialized.
type CloneOptions struct {
	// Branch selects a specific branch to clone. Empty means the
	// remote's default branch.
	Branch string

	// Depth limits history depth. Zero means a full clone. Mutation
	// analysis only needs the working tree, so shallow clones are the
	// common case.
	Depth int

	// Progress, when non-nil, receives the transport's sideband progress
	// messages (the "Counting objects..." stream).
	Progress ProgressWriter
}

// ProgressWriter is the subset of io.Writer used for clone progress.
type ProgressWriter interface {
	Write(p []byte) (int, error)
}

// Clone clones the repository at url into dir using go-git. The
// destination must not already exist as a non-empty directory.
//
// Returns a CLIError with ExitGitError on any transport or checkout
// failure so the CLI surfaces the proper exit code.
func Clone(ctx context.Context, url, dir string, opts CloneOptions) error {
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return model.NewCLIError(
			model.ExitGitError,
			fmt.Sprintf("destination %s already exists and is not empty", dir),
		)
	}

	cloneOpts := &gogit.CloneOptions{
		URL:   url,
		Depth: opts.Depth,
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}
	if opts.Progress != nil {
		cloneOpts.Progress = opts.Progress
	}

	if _, err := gogit.PlainCloneContext(ctx, dir, cloneOpts); err != nil {
		return model.WrapCLIError(
			model.ExitGitError,
			fmt.Sprintf("failed to clone %s", url),
			err,
		)
	}

	return nil
}

// DirFromURL derives a workspace directory name from a clone URL, the
// way git itself does: the last path segment with any ".git" suffix
// stripped. Returns an error for URLs with no usable segment.
func DirFromURL(url string) (string, error) {
	trimmed := strings.TrimRight(url, "/")
	// Handle scp-like syntax (git@host:owner/repo.git) as well as URLs.
	if idx := strings.LastIndexAny(trimmed, "/:"); idx != -1 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(trimmed, ".git")
	if trimmed == "" || trimmed == "." || trimmed == ".." {
		return "", fmt.Errorf("cannot derive directory name from URL %q", url)
	}
	return filepath.Clean(trimmed), nil
}
