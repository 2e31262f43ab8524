package docker

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stdStream identifiers in the daemon's multiplexed framing.
const (
	streamStdout = 1
	streamStderr = 2
)

// muxFrame builds one frame of the multiplexed attach stream: an 8-byte
// header (stream type + big-endian payload length) followed by the
// payload.
func muxFrame(stream byte, payload string) []byte {
	header := make([]byte, 8)
	header[0] = stream
	binary.BigEndian.PutUint32(header[4:], uint32(len(payload)))
	return append(header, payload...)
}

// stuckStream is an attach stream that delivers nothing and blocks
// every read until closed, like a connection whose exec'd process has
// hung. Close unblocks pending reads, mirroring what closing the
// hijacked connection does.
type stuckStream struct {
	unblock chan struct{}
}

func newStuckStream() *stuckStream {
	return &stuckStream{unblock: make(chan struct{})}
}

func (s *stuckStream) Read(p []byte) (int, error) {
	<-s.unblock
	return 0, io.EOF
}

func (s *stuckStream) Close() error {
	close(s.unblock)
	return nil
}

// TestCollectExecOutput_Combined verifies stdout and stderr frames are
// demultiplexed into one buffer in arrival order.
func TestCollectExecOutput_Combined(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(muxFrame(streamStdout, "collected 12 items\n"))
	stream.Write(muxFrame(streamStderr, "warning: slow test\n"))
	stream.Write(muxFrame(streamStdout, "12 passed\n"))

	output, timedOut, err := collectExecOutput(context.Background(), newStuckStream(), &stream)
	require.NoError(t, err)

	assert.False(t, timedOut)
	assert.Equal(t, "collected 12 items\nwarning: slow test\n12 passed\n", output)
}

// TestCollectExecOutput_Timeout verifies the deadline path: the copier
// is unblocked and drained before the buffer is read, and the output
// received before the deadline is preserved.
func TestCollectExecOutput_Timeout(t *testing.T) {
	stuck := newStuckStream()
	// One frame arrives, then the stream hangs until the deadline.
	reader := io.MultiReader(bytes.NewReader(muxFrame(streamStdout, "test_sort ...")), stuck)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	output, timedOut, err := collectExecOutput(ctx, stuck, reader)
	require.NoError(t, err)

	assert.True(t, timedOut)
	assert.Equal(t, "test_sort ...", output)
}

// TestCollectExecOutput_Cancelled verifies plain cancellation is an
// error, not a timeout verdict.
func TestCollectExecOutput_Cancelled(t *testing.T) {
	stuck := newStuckStream()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, timedOut, err := collectExecOutput(ctx, stuck, stuck)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, timedOut)
}
