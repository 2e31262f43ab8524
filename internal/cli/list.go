// Package cli — list.go implements the "mutant list" command.
//
// The list command displays all managed sandbox environments by querying
// Docker for containers with the "mutant.managed-by=mutant" label.
// Containers are grouped by environment name and presented as a text
// table or JSON array, depending on the --json flag.
//
// An optional --status flag allows filtering by environment lifecycle
// state (running, stopped, orphaned, or all).
package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/docker"
	"github.com/mmr-tortoise/mutant/internal/logger"
	"github.com/mmr-tortoise/mutant/internal/model"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	// status filters environments by their lifecycle state.
	// Valid values: "running", "stopped", "orphaned", "all" (default).
	status string
}

// NewListCommand creates the "list" cobra command.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all sandbox environments",
		Long: `List all managed sandbox environments and their status.

Each environment is shown with its name, lifecycle status, image,
workspace path, and age. An environment is orphaned when its workspace
directory has been deleted while the container remains.

Examples:
  mutant list
  mutant list --status running
  mutant list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.status, "status", "all",
		"Filter by status: running, stopped, orphaned, all (default: all)")

	return cmd
}

// runList connects to Docker, discovers managed environments, applies
// the status filter, and outputs results in the appropriate format.
func runList(ctx context.Context, flags *listFlags) error {
	// Step 1: Validate the --status flag value.
	statusFilter := flags.status
	if statusFilter != "all" {
		if _, err := model.ParseEnvStatus(statusFilter); err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("invalid status filter %q: valid values are running, stopped, orphaned, all", statusFilter), nil)
		}
	}

	// Step 2: Connect to Docker and verify the daemon is available.
	cli, err := docker.NewClient()
	if err != nil {
		return err // NewClient already returns CLIError with ExitDockerNotRunning
	}
	defer func() { _ = cli.Close() }()

	// Step 3: List all containers that are managed by mutant.
	containers, err := docker.ListManagedContainers(ctx, cli)
	if err != nil {
		return err
	}
	logger.Log.Debug().Int("containers", len(containers)).Msg("managed containers found")

	// Step 4: Group containers by environment name. One environment owns
	// exactly one container, but grouping tolerates leftovers from
	// partially removed environments.
	groups := make(map[string][]model.ContainerInfo)
	for _, c := range containers {
		name := c.Labels[docker.LabelName]
		groups[name] = append(groups[name], c)
	}

	// Step 5: Build SandboxEnv domain objects for each group.
	var envs []*model.SandboxEnv
	for envName, group := range groups {
		env, err := docker.BuildSandboxEnv(envName, group)
		if err != nil {
			// A single corrupted environment should not prevent listing
			// the others.
			logger.Log.Warn().Str("env", envName).Err(err).Msg("skipping environment")
			continue
		}
		envs = append(envs, env)
	}

	// Step 6: Sort environments alphabetically by name for consistent output.
	sort.Slice(envs, func(i, j int) bool {
		return envs[i].Name < envs[j].Name
	})

	// Step 7: Apply the --status filter if specified.
	if statusFilter != "all" {
		filtered := make([]*model.SandboxEnv, 0, len(envs))
		for _, env := range envs {
			if env.Status.String() == statusFilter {
				filtered = append(filtered, env)
			}
		}
		envs = filtered
	}

	printListResult(envs)
	return nil
}

// printListResult outputs the list of environments in text or JSON
// format, depending on the global --json flag.
func printListResult(envs []*model.SandboxEnv) {
	if IsJSONOutput() {
		// Use an empty slice instead of nil so JSON output shows []
		// instead of null when no environments are found.
		out := make([]*model.SandboxEnv, 0, len(envs))
		out = append(out, envs...)
		printJSON(map[string]interface{}{"environments": out})
		return
	}

	if len(envs) == 0 {
		fmt.Println("No sandbox environments found.")
		return
	}

	fmt.Printf("%-20s %-10s %-22s %-8s %s\n",
		"NAME", "STATUS", "IMAGE", "AGE", "WORKSPACE")

	now := time.Now()
	for _, env := range envs {
		fmt.Printf("%-20s %-10s %-22s %-8s %s\n",
			env.Name,
			env.Status.String(),
			env.Image,
			FormatAge(env.CreatedAt, now),
			env.WorkspacePath,
		)
	}
}

// FormatAge renders the elapsed time since t as a compact single-unit
// string: "45s", "12m", "3h", "5d". Returns "-" for a zero time.
//
// This function is exported for testing purposes (tested in list_test.go).
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}

	d := now.Sub(t)
	switch {
	case d < 0:
		return "0s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
