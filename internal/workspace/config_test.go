package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// writeConfig is a helper that writes .mutant/config.json into a
// temporary workspace and returns the workspace path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	ws := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(ws, MetaDir), 0o755))
	require.NoError(t, os.WriteFile(ConfigPath(ws), []byte(content), 0o644))
	return ws
}

// TestLoadConfig_MissingFile verifies an absent config file yields the
// built-in defaults rather than an error.
func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "python:3.12-slim", cfg.Image)
	assert.Equal(t, "requirements.lock.txt", cfg.LockFile)
	assert.Equal(t, ".venv", cfg.VenvDir)
	assert.Equal(t, []string{"-q"}, cfg.TestArgs)
	assert.Equal(t, 300, cfg.TestTimeoutSeconds)
	assert.Equal(t, 900, cfg.ProvisionTimeoutSeconds)
	assert.Contains(t, cfg.Exclude, "*tensorflow*")
	assert.Contains(t, cfg.Exclude, "scripts")
}

// TestLoadConfig_JSONC verifies comments and trailing commas are accepted,
// and that unset fields keep their defaults.
func TestLoadConfig_JSONC(t *testing.T) {
	ws := writeConfig(t, `{
	// Pin the interpreter for reproducible runs.
	"image": "python:3.11-slim",
	"lockFile": "requirements.txt",
	/* shorter per-mutant budget */
	"testTimeoutSeconds": 60,
}`)

	cfg, err := LoadConfig(ws)
	require.NoError(t, err)

	assert.Equal(t, "python:3.11-slim", cfg.Image)
	assert.Equal(t, "requirements.txt", cfg.LockFile)
	assert.Equal(t, 60, cfg.TestTimeoutSeconds)
	assert.Equal(t, ".venv", cfg.VenvDir, "unset fields keep defaults")
}

// TestLoadConfig_Malformed verifies a syntactically broken file produces
// a CLIError with the config exit code.
func TestLoadConfig_Malformed(t *testing.T) {
	ws := writeConfig(t, `{"image": `)

	_, err := LoadConfig(ws)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestLoadConfig_InvalidValues verifies semantic validation: empty image,
// absolute lock file path, non-positive timeout.
func TestLoadConfig_InvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty image", `{"image": ""}`},
		{"absolute lock file", `{"lockFile": "/etc/requirements.txt"}`},
		{"zero timeout", `{"testTimeoutSeconds": -5}`},
		{"zero provision timeout", `{"provisionTimeoutSeconds": 0, "testTimeoutSeconds": 60}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws := writeConfig(t, tc.content)
			_, err := LoadConfig(ws)
			require.Error(t, err)

			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr))
			assert.Equal(t, model.ExitConfigError, cliErr.Code)
		})
	}
}

// TestDirFromURL verifies directory derivation for https, scp-like, and
// trailing-slash clone URLs.
func TestDirFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://github.com/michvong/Python.git", "Python"},
		{"https://github.com/michvong/Python", "Python"},
		{"https://github.com/michvong/Python/", "Python"},
		{"git@github.com:michvong/Python.git", "Python"},
		{"Python", "Python"},
	}

	for _, tc := range cases {
		got, err := DirFromURL(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.want, got, tc.url)
	}

	_, err := DirFromURL("/")
	assert.Error(t, err, "no usable path segment")
}
