package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// Well-known paths inside a workspace. Everything the tool writes lives
// under the MetaDir so a single .gitignore entry keeps the target
// repository clean.
const (
	// MetaDir is the tool's directory inside the workspace.
	MetaDir = ".mutant"

	// ConfigFile is the project configuration file name inside MetaDir.
	ConfigFile = "config.json"

	// RunsDir holds one subdirectory per mutation run, named by run ID.
	RunsDir = "runs"

	// LogsDir holds the rotating log files.
	LogsDir = "logs"
)

// Config is the project configuration for a workspace, loaded from
// .mutant/config.json. All fields have defaults; an absent file yields
// DefaultConfig unchanged.
type Config struct {
	// Image is the pinned container image used for the sandbox
	// (e.g., "python:3.12-slim"). Pinning the interpreter version is the
	// point: the environment must be reproducible.
	Image string `json:"image,omitempty"`

	// LockFile is the workspace-relative path of the dependency lock
	// file installed during provisioning.
	LockFile string `json:"lockFile,omitempty"`

	// VenvDir is the workspace-relative virtual environment directory
	// created inside the container.
	VenvDir string `json:"venvDir,omitempty"`

	// TestArgs are the arguments passed to pytest. The default runs the
	// suite in quiet mode.
	TestArgs []string `json:"testArgs,omitempty"`

	// Exclude lists glob patterns for files and directories that must
	// not be mutated. Patterns are matched against both the
	// workspace-relative path and the base name.
	Exclude []string `json:"exclude,omitempty"`

	// TestTimeoutSeconds is the per-run deadline for a test suite
	// invocation, applied to both plain test runs and per-mutant runs.
	TestTimeoutSeconds int `json:"testTimeoutSeconds,omitempty"`

	// ProvisionTimeoutSeconds is the per-step deadline during
	// provisioning (venv creation, pip installs). Dependency installs
	// legitimately take far longer than a test run, hence a separate
	// knob.
	ProvisionTimeoutSeconds int `json:"provisionTimeoutSeconds,omitempty"`
}

// defaultExcludes mirrors the target project's test-collection exclusions:
// helper scripts and modules requiring heavyweight optional dependencies
// are not part of the core suite, so mutating them would only produce
// error-outcome mutants.
var defaultExcludes = []string{
	"scripts",
	"*qiskit*",
	"*quantum*",
	"*xgboost*",
	"*tensorflow*",
	"*keras*",
	"*rich*",
	"*bs4*",
}

// DefaultConfig returns the built-in configuration used when the
// workspace has no .mutant/config.json.
func DefaultConfig() *Config {
	return &Config{
		Image:                   "python:3.12-slim",
		LockFile:                "requirements.lock.txt",
		VenvDir:                 ".venv",
		TestArgs:                []string{"-q"},
		Exclude:                 append([]string(nil), defaultExcludes...),
		TestTimeoutSeconds:      300,
		ProvisionTimeoutSeconds: 900,
	}
}

// ConfigPath returns the absolute path of the config file for a workspace.
func ConfigPath(workspacePath string) string {
	return filepath.Join(workspacePath, MetaDir, ConfigFile)
}

// LoadConfig reads the workspace configuration, applying defaults for
// absent fields. A missing file yields DefaultConfig; a malformed file
// is a CLIError with ExitConfigError.
//
// The file may contain JSONC comments and trailing commas — they are
// stripped with tidwall/jsonc before parsing with encoding/json.
func LoadConfig(workspacePath string) (*Config, error) {
	path := ConfigPath(workspacePath)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("failed to read %s", path),
			err,
		)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("failed to parse %s", path),
			err,
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("invalid configuration in %s", path),
			err,
		)
	}

	return cfg, nil
}

// Validate checks the configuration for values that would make the
// sandbox unusable.
func (c *Config) Validate() error {
	if c.Image == "" {
		return fmt.Errorf("image must not be empty")
	}
	if c.LockFile == "" {
		return fmt.Errorf("lockFile must not be empty")
	}
	if c.VenvDir == "" {
		return fmt.Errorf("venvDir must not be empty")
	}
	if filepath.IsAbs(c.LockFile) {
		return fmt.Errorf("lockFile must be workspace-relative, got %q", c.LockFile)
	}
	if filepath.IsAbs(c.VenvDir) {
		return fmt.Errorf("venvDir must be workspace-relative, got %q", c.VenvDir)
	}
	if c.TestTimeoutSeconds <= 0 {
		return fmt.Errorf("testTimeoutSeconds must be positive, got %d", c.TestTimeoutSeconds)
	}
	if c.ProvisionTimeoutSeconds <= 0 {
		return fmt.Errorf("provisionTimeoutSeconds must be positive, got %d", c.ProvisionTimeoutSeconds)
	}
	return nil
}
