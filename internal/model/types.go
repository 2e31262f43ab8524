package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// EnvStatus represents the lifecycle state of a sandbox environment.
// The state transitions are:
//
//	[Created] → Running → Stopped ⇄ Running → [Deleted]
//	Running/Stopped → Orphaned (when the workspace directory is manually deleted)
type EnvStatus string

const (
	// StatusRunning indicates the sandbox container is running.
	StatusRunning EnvStatus = "running"

	// StatusStopped indicates the sandbox container exists but is not
	// running. The virtual environment and installed dependencies inside
	// the container are preserved.
	StatusStopped EnvStatus = "stopped"

	// StatusOrphaned indicates the workspace directory no longer exists
	// on disk, but the Docker container remains. This typically happens
	// when a user deletes the cloned workspace without removing the
	// environment first.
	StatusOrphaned EnvStatus = "orphaned"
)

// String returns the string representation of EnvStatus.
func (s EnvStatus) String() string {
	return string(s)
}

// IsValid checks whether the EnvStatus value is one of the
// predefined valid states.
func (s EnvStatus) IsValid() bool {
	switch s {
	case StatusRunning, StatusStopped, StatusOrphaned:
		return true
	default:
		return false
	}
}

// ParseEnvStatus converts a string to an EnvStatus.
// Returns an error if the string does not match any valid status.
func ParseEnvStatus(s string) (EnvStatus, error) {
	status := EnvStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid environment status: %q (valid: running, stopped, orphaned)", s)
	}
	return status, nil
}

// Operator identifies a mutation operator — the class of syntactic fault
// a mutation injects into the target source.
//
// The operator set is fixed:
//   - ROR (Relational Operator Replacement): == ↔ !=, < ↔ <=, > ↔ >=
//   - LCR (Logical Connector Replacement): and ↔ or
//   - NMC (None-Check Mutation): is None ↔ is not None
//   - AOR (Arithmetic Operator Replacement): - 1 ↔ + 1
//   - CRP (Constant Replacement): 0 ↔ 1, -1 → 0
type Operator string

const (
	// OpROR replaces relational operators (==, !=, <, <=, >, >=).
	OpROR Operator = "ROR"

	// OpLCR replaces logical connectors (and, or).
	OpLCR Operator = "LCR"

	// OpNMC negates None checks (is None, is not None).
	OpNMC Operator = "NMC"

	// OpAOR replaces the arithmetic off-by-one idioms (- 1, + 1).
	OpAOR Operator = "AOR"

	// OpCRP replaces small integer constants (0, 1, -1).
	OpCRP Operator = "CRP"
)

// String returns the string representation of the Operator.
func (o Operator) String() string {
	return string(o)
}

// IsValid checks whether the Operator is one of the five defined operators.
func (o Operator) IsValid() bool {
	switch o {
	case OpROR, OpLCR, OpNMC, OpAOR, OpCRP:
		return true
	default:
		return false
	}
}

// ParseOperator converts a string to an Operator.
// Returns an error if the string does not match any defined operator.
func ParseOperator(s string) (Operator, error) {
	op := Operator(strings.ToUpper(s))
	if !op.IsValid() {
		return "", fmt.Errorf("invalid mutation operator: %q (valid: ROR, LCR, NMC, AOR, CRP)", s)
	}
	return op, nil
}

// AllOperators lists the defined operators in their canonical scan order.
// Candidate generation iterates operators in exactly this order so that
// candidate lists are deterministic for a given input file.
func AllOperators() []Operator {
	return []Operator{OpROR, OpLCR, OpNMC, OpAOR, OpCRP}
}

// Mutation represents one mutation applied at a specific location in a
// source file. A Mutation is a pure value — generating one does not touch
// the file; applying it is a separate, verified step (mutation.Apply).
//
// Column positions are 0-based byte offsets into the line, and the span
// [ColStart, ColEnd) must contain exactly the Before text. Apply verifies
// this before editing, so a stale candidate (file changed since scan)
// fails loudly instead of corrupting the source.
type Mutation struct {
	// Operator is the mutation operator that produced this candidate.
	Operator Operator `json:"operator"`

	// LineNo is the 1-based line number in the source file.
	LineNo int `json:"line"`

	// ColStart is the 0-based byte offset where the mutation begins.
	ColStart int `json:"colStart"`

	// ColEnd is the 0-based byte offset where the mutation ends (exclusive).
	ColEnd int `json:"colEnd"`

	// Before is the exact substring in the original source to be replaced.
	Before string `json:"before"`

	// After is the replacement substring inserted by the mutation.
	After string `json:"after"`
}

// Key returns a string that uniquely identifies the mutation site and
// edit. It is used to deduplicate candidates that multiple operator
// tables would otherwise generate twice.
func (m Mutation) Key() string {
	return fmt.Sprintf("%s|%d|%d|%d|%s|%s", m.Operator, m.LineNo, m.ColStart, m.ColEnd, m.Before, m.After)
}

// Describe returns a short human-readable summary of the mutation,
// e.g. `ROR L42: " == " → " != "`.
func (m Mutation) Describe() string {
	return fmt.Sprintf("%s L%d: %q → %q", m.Operator, m.LineNo, m.Before, m.After)
}

// Outcome is the verdict the test suite delivered on a single mutant.
type Outcome string

const (
	// OutcomeKilled means the suite failed against the mutant — the
	// injected fault was detected.
	OutcomeKilled Outcome = "killed"

	// OutcomeSurvived means the suite passed against the mutant — the
	// injected fault went undetected.
	OutcomeSurvived Outcome = "survived"

	// OutcomeTimeout means the suite did not finish within the per-mutant
	// deadline. A mutant that hangs the suite is detected behavior, so
	// timeouts count toward the kill numerator.
	OutcomeTimeout Outcome = "timeout"

	// OutcomeError means the suite could not judge the mutant at all
	// (collection error, interpreter crash, runner misuse). Errors are
	// excluded from the mutation score denominator.
	OutcomeError Outcome = "error"
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	return string(o)
}

// IsValid checks whether the Outcome is one of the defined verdicts.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeKilled, OutcomeSurvived, OutcomeTimeout, OutcomeError:
		return true
	default:
		return false
	}
}

// ParseOutcome converts a string to an Outcome.
// Returns an error if the string does not match any defined verdict.
func ParseOutcome(s string) (Outcome, error) {
	out := Outcome(strings.ToLower(s))
	if !out.IsValid() {
		return "", fmt.Errorf("invalid outcome: %q (valid: killed, survived, timeout, error)", s)
	}
	return out, nil
}

// Detected reports whether the outcome counts as a detection for
// mutation-score purposes (killed or timeout).
func (o Outcome) Detected() bool {
	return o == OutcomeKilled || o == OutcomeTimeout
}

// Scored reports whether the outcome participates in the mutation score
// denominator. Error outcomes are excluded because the suite never
// actually judged the mutant.
func (o Outcome) Scored() bool {
	return o != OutcomeError
}

// MutantResult records the verdict for one executed mutant. One row of
// results.csv corresponds to one MutantResult.
type MutantResult struct {
	// File is the workspace-relative path of the mutated source file.
	File string `json:"file"`

	// Mutation is the candidate that was applied.
	Mutation Mutation `json:"mutation"`

	// Outcome is the test suite's verdict.
	Outcome Outcome `json:"outcome"`

	// Duration is how long the test suite ran against this mutant.
	Duration time.Duration `json:"duration"`
}

// SandboxEnv represents a sandbox environment — a cloned workspace paired
// with its pinned-interpreter Docker container. This is the primary
// aggregate entity on the environment side of the domain.
//
// All fields are reconstructed at runtime from Docker container labels
// (see the label schema in internal/docker). There is no persistent
// state file on disk.
type SandboxEnv struct {
	// Name is the unique identifier for this sandbox environment.
	// Must contain only alphanumeric characters and hyphens.
	Name string `json:"name"`

	// RepoURL is the clone URL of the target repository, if the
	// workspace was materialized by `mutant clone`. Empty when the
	// environment was created over a pre-existing directory.
	RepoURL string `json:"repoUrl,omitempty"`

	// WorkspacePath is the absolute host path of the workspace directory
	// that is bind-mounted into the container.
	WorkspacePath string `json:"workspacePath"`

	// Image is the pinned container image the sandbox runs
	// (e.g., "python:3.12-slim").
	Image string `json:"image"`

	// Status is the current lifecycle state of the environment.
	Status EnvStatus `json:"status"`

	// Containers holds information about the Docker containers belonging
	// to this environment. In practice there is exactly one.
	Containers []ContainerInfo `json:"containers,omitempty"`

	// CreatedAt is the timestamp when this environment was created.
	CreatedAt time.Time `json:"createdAt"`
}

// ContainerInfo holds runtime information about a Docker container.
// This data is fetched dynamically from the Docker API, not persisted.
type ContainerInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// Status is the Docker container state (e.g., "running", "exited").
	Status string `json:"status"`

	// Labels is the full set of Docker labels on the container,
	// including the mutant.* management labels.
	Labels map[string]string `json:"labels,omitempty"`
}

// nameRegex validates environment names: alphanumeric + hyphens only,
// must start and end with alphanumeric.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)

// ValidateName checks if the given name is a valid sandbox environment name.
// Valid names contain only alphanumeric characters and hyphens,
// and must start/end with an alphanumeric character.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("environment name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid environment name %q: must contain only alphanumeric characters and hyphens, and start/end with alphanumeric", name)
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the project configuration
	// (.mutant/config.json) is missing a required value or malformed.
	ExitConfigError ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitProvisionFailed indicates virtual environment creation or
	// dependency installation failed inside the container.
	ExitProvisionFailed ExitCode = 4

	// ExitGitError indicates cloning the target repository failed.
	ExitGitError ExitCode = 5

	// ExitEnvNotFound indicates the specified sandbox environment
	// does not exist.
	ExitEnvNotFound ExitCode = 6

	// ExitScoreBelowThreshold indicates the mutation run completed but
	// the mutation score fell below the --min-score threshold.
	ExitScoreBelowThreshold ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
