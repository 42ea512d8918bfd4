package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
)

func TestControllerSingleFlight(t *testing.T) {
	c := NewController()

	require.True(t, c.TryBegin(domain.OperationIndexing))
	assert.Equal(t, domain.StateIndexing, c.State())

	// A second operation of any kind is rejected while one is in flight.
	assert.False(t, c.TryBegin(domain.OperationAnswering))
	assert.False(t, c.TryBegin(domain.OperationIndexing))

	c.End()
	assert.Equal(t, domain.StateIdle, c.State())

	assert.True(t, c.TryBegin(domain.OperationAnswering))
	assert.Equal(t, domain.StateAnswering, c.State())
	c.End()
}

func TestControllerCancelFlagResetsOnBegin(t *testing.T) {
	c := NewController()

	require.True(t, c.TryBegin(domain.OperationIndexing))
	assert.False(t, c.CancelRequested())

	c.RequestCancel()
	assert.True(t, c.CancelRequested())
	c.End()

	// A new operation starts with a clean flag.
	require.True(t, c.TryBegin(domain.OperationAnswering))
	assert.False(t, c.CancelRequested())
	c.End()
}

func TestControllerCancelWhileIdleIsNoOp(t *testing.T) {
	c := NewController()

	c.RequestCancel()
	require.True(t, c.TryBegin(domain.OperationIndexing))
	assert.False(t, c.CancelRequested(), "idle cancel must not leak into the next operation")
	c.End()
}

func TestControllerRunIDChangesPerOperation(t *testing.T) {
	c := NewController()

	require.True(t, c.TryBegin(domain.OperationIndexing))
	first := c.RunID()
	require.NotEmpty(t, first)
	c.End()

	require.True(t, c.TryBegin(domain.OperationIndexing))
	second := c.RunID()
	c.End()

	assert.NotEqual(t, first, second)
}

func TestControllerPublishNeverBlocks(t *testing.T) {
	c := NewController()
	require.True(t, c.TryBegin(domain.OperationIndexing))
	defer c.End()

	// Nobody is draining Events; publishing far past the buffer size must
	// still return.
	for i := 0; i < 500; i++ {
		c.Publish(domain.ProgressEvent{Current: i + 1, Total: 500})
	}

	// The buffered prefix is still readable and stamped with the run id.
	ev := <-c.Events()
	assert.Equal(t, 1, ev.Current)
	assert.Equal(t, c.RunID(), ev.RunID)
}

func TestControllerEndFromIdleIsSafe(t *testing.T) {
	c := NewController()
	c.End()
	assert.Equal(t, domain.StateIdle, c.State())
}
