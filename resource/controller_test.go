package resource

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	// Test with limit
	c := NewController(Config{MemoryLimitBytes: 100})

	// Acquire 50
	err := c.AcquireMemory(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	// Acquire 40
	err = c.AcquireMemory(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// TryAcquire 20 (should fail)
	ok := c.TryAcquireMemory(20)
	assert.False(t, ok)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Acquire 20 (should block/timeout)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = c.AcquireMemory(ctx, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Release 50
	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	// Now Acquire 20 should succeed
	err = c.AcquireMemory(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Transfers(t *testing.T) {
	c := NewController(Config{MaxTransfers: 2})

	// Acquire 2
	require.NoError(t, c.AcquireTransfer(context.Background()))
	require.NoError(t, c.AcquireTransfer(context.Background()))

	// Try 3rd
	assert.False(t, c.TryAcquireTransfer())

	// Release 1
	c.ReleaseTransfer()

	// Try 3rd again
	assert.True(t, c.TryAcquireTransfer())
}

func TestController_NilIsUnlimited(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireMemory(context.Background(), 1<<40))
	assert.True(t, c.TryAcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())

	require.NoError(t, c.AcquireTransfer(context.Background()))
	assert.True(t, c.TryAcquireTransfer())
	c.ReleaseTransfer()

	require.NoError(t, c.AcquireIO(context.Background(), 1<<30))
}

func TestController_AcquireIO_LargerThanBurst(t *testing.T) {
	// Burst equals the per-second limit; a request above it must be split,
	// not rejected.
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	err := c.AcquireIO(context.Background(), 3<<20)
	require.NoError(t, err)
}

func TestController_AcquireIO_Canceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// 10 bytes at 1 B/s cannot finish within the deadline.
	err := c.AcquireIO(ctx, 10)
	assert.Error(t, err)
}

func TestRateLimitedIO_PassThrough(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 30})
	ctx := context.Background()

	var sink bytes.Buffer
	w := NewRateLimitedWriter(ctx, &sink, c)
	n, err := w.Write([]byte("throttled payload"))
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	assert.Equal(t, "throttled payload", sink.String())

	r := NewRateLimitedReader(ctx, strings.NewReader("incoming bytes"), c)
	buf := make([]byte, 64)
	n, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "incoming bytes", string(buf[:n]))
}

func TestRateLimitedIO_NilController(t *testing.T) {
	ctx := context.Background()

	var sink bytes.Buffer
	w := NewRateLimitedWriter(ctx, &sink, nil)
	_, err := w.Write([]byte("unlimited"))
	require.NoError(t, err)

	r := NewRateLimitedReader(ctx, strings.NewReader("unlimited"), nil)
	buf := make([]byte, 16)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "unlimited", string(buf[:n]))
}
