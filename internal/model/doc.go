// Package model defines the domain types and value objects for the
// mutant CLI.
//
// This package contains pure data structures with no external dependencies.
// The two halves of the domain live side by side here:
//
//   - Environment types (SandboxEnv, ContainerInfo, EnvStatus) describe a
//     containerized test sandbox. They are transient representations
//     reconstructed from Docker container labels at runtime — there are
//     no persistent state files for environments.
//   - Mutation types (Mutation, Operator, Outcome, MutantResult) describe
//     a single source-level fault injected into the target codebase and
//     the verdict the test suite delivered on it.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
