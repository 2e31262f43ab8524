package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// ExecResult is the captured outcome of a command executed inside the
// sandbox container.
type ExecResult struct {
	// ExitCode is the command's exit code inside the container.
	ExitCode int

	// Output is the combined stdout and stderr of the command.
	Output string

	// TimedOut is true when the context deadline expired before the
	// command finished. ExitCode is meaningless in that case.
	TimedOut bool
}

// Exec runs a command inside the container and waits for completion,
// capturing combined output and the exit code. The command runs with the
// workspace mount as its working directory.
//
// Cancellation: if ctx expires while the command is running, Exec
// returns an ExecResult with TimedOut set rather than an error. The
// exec'd process keeps running inside the container until it exits on
// its own; the caller decides whether the container is still usable.
// Transport-level failures return a CLIError with ExitDockerNotRunning.
func Exec(ctx context.Context, cli *Client, containerID string, cmd []string) (*ExecResult, error) {
	execConfig := container.ExecOptions{
		Cmd:          cmd,
		WorkingDir:   WorkspaceMountPath,
		AttachStdout: true,
		AttachStderr: true,
	}

	resp, err := cli.Inner().ContainerExecCreate(ctx, containerID, execConfig)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create exec in container %q", containerID),
			err,
		)
	}

	hijacked, err := cli.Inner().ContainerExecAttach(ctx, resp.ID, container.ExecStartOptions{})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to attach to exec in container %q", containerID),
			err,
		)
	}
	defer hijacked.Close()

	output, timedOut, err := collectExecOutput(ctx, hijacked.Conn, hijacked.Reader)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed reading exec output",
			err,
		)
	}
	if timedOut {
		return &ExecResult{TimedOut: true, Output: output}, nil
	}

	// The exec has finished; fetch its exit code. Inspect uses a fresh
	// context because ctx may be near its deadline.
	inspect, err := cli.Inner().ContainerExecInspect(context.WithoutCancel(ctx), resp.ID)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to inspect exec result",
			err,
		)
	}

	return &ExecResult{
		ExitCode: inspect.ExitCode,
		Output:   output,
	}, nil
}

// collectExecOutput demultiplexes the attached exec stream into one
// combined buffer, honoring ctx. Without a TTY the daemon multiplexes
// stdout and stderr over one connection in the stdcopy framing format.
//
// The copier goroutine owns the buffer while it runs. When ctx ends,
// the connection is closed to unblock stdcopy and the copier is waited
// for before the buffer is read; reading it concurrently would race
// with the copier's writes.
func collectExecOutput(ctx context.Context, conn io.Closer, reader io.Reader) (output string, timedOut bool, err error) {
	var buf bytes.Buffer
	copyDone := make(chan error, 1)
	go func() {
		_, copyErr := stdcopy.StdCopy(&buf, &buf, reader)
		copyDone <- copyErr
	}()

	select {
	case <-ctx.Done():
		_ = conn.Close()
		// The close makes the copier's pending read fail, so this wait
		// is short; its error is irrelevant once ctx has ended.
		<-copyDone
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return buf.String(), true, nil
		}
		return "", false, ctx.Err()

	case copyErr := <-copyDone:
		if copyErr != nil {
			return "", false, copyErr
		}
	}

	return buf.String(), false, nil
}
