// Package analysis drives mutation-adequacy runs: candidate collection
// across the workspace, seeded sampling, the mutate → test → restore
// loop, and persistence of results under .mutant/runs/<run-id>/.
//
// The driver mutates real files in the bind-mounted workspace, runs the
// suite inside the sandbox container, and restores the original bytes
// after every mutant — including on error and cancellation. Restoration
// is the one invariant this package must never break: a crashed run may
// lose results, but it must not leave a mutated workspace behind.
package analysis
