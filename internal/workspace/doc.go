// Package workspace manages the on-disk workspace for a target Python
// codebase: cloning the repository, loading the project configuration,
// and discovering the source files eligible for mutation.
//
// The project configuration lives at .mutant/config.json inside the
// workspace and supports JSONC (comments and trailing commas), parsed
// with github.com/tidwall/jsonc before standard encoding/json. A missing
// config file is not an error — built-in defaults describe the common
// case of a pytest project with a requirements.lock.txt.
//
// The .mutant directory also holds run results (.mutant/runs/<run-id>/)
// and rotated log files (.mutant/logs/), all created on demand.
package workspace
