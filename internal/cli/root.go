// Package cli implements the cobra-based CLI commands for mutant.
//
// Each subcommand (clone, create, provision, list, start, stop, remove,
// test, scan, run, report) is defined in its own file within this
// package. This file defines the root command that serves as the parent
// for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/logger"
	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/workspace"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON format for machine consumption.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbose enables debug-level logging on stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only provides
// help text and global flags. Actual functionality is provided by
// subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mutant",
		Short: "Mutation-adequacy analysis for Python projects in pinned containers",
		Long: `mutant clones a target Python repository, provisions its pinned test
environment inside a Docker container, and measures how well the test
suite detects small injected faults (mutation adequacy).

The workspace is bind-mounted into the container, so mutants written on
the host are immediately visible to the suite running inside. All
environment state lives in Docker labels; there is no state file.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// Console logging is configured before any subcommand runs.
		// Commands that know their workspace re-init with file logging
		// via initWorkspaceLogging.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(verbose, "")
		},
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags — any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Register subcommands. Each subcommand is defined in its own file
	// (clone.go, create.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(NewCloneCommand())
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewProvisionCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewStartCommand())
	rootCmd.AddCommand(NewStopCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewTestCommand())
	rootCmd.AddCommand(NewScanCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewReportCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	// Flush the rotating file log before any exit path.
	_ = logger.Close()

	if err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error — exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// initWorkspaceLogging re-initializes the logger with a rotating file
// log under the workspace's .mutant/logs directory. Called by commands
// once they have resolved which workspace they operate on.
func initWorkspaceLogging(workspacePath string) {
	logDir := filepath.Join(workspacePath, workspace.MetaDir, workspace.LogsDir)
	if err := logger.Init(verbose, logDir); err != nil {
		// File logging is best-effort: fall back to console-only rather
		// than failing the command.
		_ = logger.Init(verbose, "")
		logger.Log.Warn().Err(err).Str("dir", logDir).Msg("file logging disabled")
	}
}

// printJSON marshals v with indentation and prints it to stdout.
// Shared by every subcommand's --json output path.
func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
