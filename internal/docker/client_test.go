package docker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFirstUnixSocket_Order verifies candidates are probed in order and
// the first existing path wins.
func TestFirstUnixSocket_Order(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "docker.sock")
	fallback := filepath.Join(dir, "fallback.sock")
	require.NoError(t, os.WriteFile(primary, nil, 0o600))
	require.NoError(t, os.WriteFile(fallback, nil, 0o600))

	host, err := firstUnixSocket(primary, fallback)
	require.NoError(t, err)
	assert.Equal(t, "unix://"+primary, host)
}

// TestFirstUnixSocket_SkipsMissing verifies a missing preferred path
// falls through to the next candidate.
func TestFirstUnixSocket_SkipsMissing(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.sock")
	present := filepath.Join(dir, "docker.sock")
	require.NoError(t, os.WriteFile(present, nil, 0o600))

	host, err := firstUnixSocket(missing, present)
	require.NoError(t, err)
	assert.Equal(t, "unix://"+present, host)
}

// TestFirstUnixSocket_NoneFound verifies the error names the probed
// paths so the message is actionable.
func TestFirstUnixSocket_NoneFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.sock")

	_, err := firstUnixSocket(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
	assert.Contains(t, err.Error(), "is Docker running?")
}
