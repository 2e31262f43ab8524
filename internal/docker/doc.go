// Package docker provides Docker Engine API wrappers and container
// lifecycle management for the mutant CLI.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Container label management for persisting sandbox metadata
//     (Docker labels are the sole state storage mechanism)
//   - Sandbox container lifecycle: create with the workspace bind-mounted,
//     start, stop, remove, list
//   - Command execution inside the sandbox with captured output and
//     exit codes, which is how the test suite is run against mutants
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
