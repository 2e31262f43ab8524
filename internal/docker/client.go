package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// defaultPingTimeout bounds the daemon reachability check performed by
// NewClient and Ping. Docker Desktop can take a few seconds to answer
// after waking, so this is deliberately generous.
const defaultPingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client behind the small surface
// the rest of the tool needs. Construction already verifies that a
// daemon is answering, so a returned Client is known-good: every mutant
// command talks to Docker, and "daemon not running" is clearer at
// startup than halfway through a mutation run.
type Client struct {
	inner *client.Client
}

// NewClient connects to the Docker daemon and verifies it responds.
//
// The socket is resolved in this order:
//  1. DOCKER_HOST, used as-is when set
//  2. platform defaults: /var/run/docker.sock on Linux, the same plus
//     ~/.docker/run/docker.sock on macOS, the docker_engine named pipe
//     on Windows
//
// All failure modes (no socket, client construction, unresponsive
// daemon) return a model.CLIError with ExitDockerNotRunning, so every
// command that needs Docker exits with the same code when it is absent.
func NewClient() (*Client, error) {
	host := os.Getenv("DOCKER_HOST")
	if host == "" {
		resolved, err := resolveDockerHost()
		if err != nil {
			return nil, model.WrapCLIError(
				model.ExitDockerNotRunning,
				"Docker socket not found",
				err,
			)
		}
		host = resolved
	}

	// WithAPIVersionNegotiation keeps one binary working against the
	// daemon versions in the field instead of pinning an API version.
	inner, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create Docker client for host %q", host),
			err,
		)
	}

	c := &Client{inner: inner}
	if err := c.Ping(context.Background()); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// resolveDockerHost returns the host URI for the current platform's
// Docker socket. Unix sockets are probed with a stat — cheap, and
// NewClient's ping covers actual connectivity; the Windows named pipe
// cannot be stat'ed, so it gets a brief dial instead.
func resolveDockerHost() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return firstUnixSocket("/var/run/docker.sock")

	case "darwin":
		// Docker Desktop either symlinks the standard path or keeps a
		// per-user socket under ~/.docker/run.
		candidates := []string{"/var/run/docker.sock"}
		if homeDir, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, homeDir+"/.docker/run/docker.sock")
		}
		return firstUnixSocket(candidates...)

	case "windows":
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, 1*time.Second)
		if err != nil {
			return "", fmt.Errorf("Docker named pipe not found at %s: %w", pipePath, err)
		}
		conn.Close()
		return "npipe://" + pipePath, nil

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// firstUnixSocket returns the host URI for the first candidate path
// that exists, checked in order.
func firstUnixSocket(paths ...string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf(
		"Docker socket not found at any of %v — is Docker running?",
		paths,
	)
}

// Ping verifies the daemon is reachable, waiting up to
// defaultPingTimeout. NewClient calls it once during construction;
// long-lived callers can use it to re-check a connection.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			"Docker daemon is not responding — is Docker running?",
			err,
		)
	}
	return nil
}

// Close releases the client's transport. Safe to call multiple times.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner exposes the underlying SDK client for the container and exec
// operations in this package.
func (c *Client) Inner() *client.Client {
	return c.inner
}
