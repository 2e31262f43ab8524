package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnvStatus_IsValid verifies that only the three defined lifecycle
// states are accepted.
func TestEnvStatus_IsValid(t *testing.T) {
	assert.True(t, StatusRunning.IsValid())
	assert.True(t, StatusStopped.IsValid())
	assert.True(t, StatusOrphaned.IsValid())
	assert.False(t, EnvStatus("paused").IsValid())
	assert.False(t, EnvStatus("").IsValid())
}

// TestParseEnvStatus verifies case-insensitive parsing and rejection of
// unknown values.
func TestParseEnvStatus(t *testing.T) {
	status, err := ParseEnvStatus("Running")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status)

	_, err = ParseEnvStatus("exploded")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid environment status")
}

// TestParseOperator verifies the five-operator set is parsed
// case-insensitively and unknown operators are rejected.
func TestParseOperator(t *testing.T) {
	for _, name := range []string{"ROR", "LCR", "NMC", "AOR", "CRP"} {
		op, err := ParseOperator(name)
		require.NoError(t, err)
		assert.Equal(t, Operator(name), op)
	}

	op, err := ParseOperator("ror")
	require.NoError(t, err)
	assert.Equal(t, OpROR, op)

	_, err = ParseOperator("ABS")
	assert.Error(t, err, "operators outside the defined set should be rejected")
}

// TestAllOperators_Order verifies the canonical scan order, which
// candidate generation relies on for deterministic output.
func TestAllOperators_Order(t *testing.T) {
	assert.Equal(t, []Operator{OpROR, OpLCR, OpNMC, OpAOR, OpCRP}, AllOperators())
}

// TestOutcome_Detected verifies that killed and timeout count as
// detections while survived and error do not.
func TestOutcome_Detected(t *testing.T) {
	assert.True(t, OutcomeKilled.Detected())
	assert.True(t, OutcomeTimeout.Detected())
	assert.False(t, OutcomeSurvived.Detected())
	assert.False(t, OutcomeError.Detected())
}

// TestOutcome_Scored verifies that error outcomes are excluded from the
// score denominator and everything else participates.
func TestOutcome_Scored(t *testing.T) {
	assert.True(t, OutcomeKilled.Scored())
	assert.True(t, OutcomeTimeout.Scored())
	assert.True(t, OutcomeSurvived.Scored())
	assert.False(t, OutcomeError.Scored())
}

// TestMutation_Key verifies that Key distinguishes mutations at different
// sites and is stable for identical mutations.
func TestMutation_Key(t *testing.T) {
	a := Mutation{Operator: OpROR, LineNo: 3, ColStart: 5, ColEnd: 9, Before: " == ", After: " != "}
	b := Mutation{Operator: OpROR, LineNo: 3, ColStart: 5, ColEnd: 9, Before: " == ", After: " != "}
	c := Mutation{Operator: OpROR, LineNo: 4, ColStart: 5, ColEnd: 9, Before: " == ", After: " != "}

	assert.Equal(t, a.Key(), b.Key(), "identical mutations should share a key")
	assert.NotEqual(t, a.Key(), c.Key(), "mutations on different lines should have distinct keys")
}

// TestValidateName accepts hyphenated alphanumerics and rejects names
// with leading/trailing hyphens or invalid characters.
func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("linked-list"))
	assert.NoError(t, ValidateName("a"))
	assert.NoError(t, ValidateName("env2"))

	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("-leading"))
	assert.Error(t, ValidateName("trailing-"))
	assert.Error(t, ValidateName("under_score"))
	assert.Error(t, ValidateName("spa ce"))
}

// TestCLIError_Unwrap verifies errors.Is works through CLIError wrapping
// and the exit code is preserved.
func TestCLIError_Unwrap(t *testing.T) {
	underlying := errors.New("daemon unreachable")
	err := WrapCLIError(ExitDockerNotRunning, "Docker daemon is not responding", underlying)

	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, ExitDockerNotRunning, err.Code)
	assert.Contains(t, err.Error(), "daemon unreachable")

	bare := NewCLIError(ExitEnvNotFound, "no such environment")
	assert.Nil(t, bare.Unwrap())
	assert.Equal(t, "no such environment", bare.Error())
}
