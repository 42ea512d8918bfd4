package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driving"
	"github.com/vellumlabs/docchat-cli/internal/logger"
)

// Ensure Controller implements the interface.
var _ driving.OperationController = (*Controller)(nil)

// eventBuffer is the progress channel capacity. Publish drops events when
// the consumer falls behind rather than blocking the indexing loop.
const eventBuffer = 64

// Controller is the process-wide operation controller. It owns the single
// operation slot, the advisory cancellation flag and the progress channel.
type Controller struct {
	mu        sync.Mutex
	state     domain.OperationState
	runID     string
	cancelled bool
	events    chan domain.ProgressEvent
}

// NewController creates a controller in the idle state.
func NewController() *Controller {
	return &Controller{
		state:  domain.StateIdle,
		events: make(chan domain.ProgressEvent, eventBuffer),
	}
}

// TryBegin attempts to enter the given operation kind. Only the idle state
// permits entry; a second concurrent operation is rejected, not queued.
func (c *Controller) TryBegin(kind domain.OperationKind) bool {
	if !kind.IsValid() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.StateIdle {
		logger.Debug("Operation %s rejected: %s in progress", kind, c.state)
		return false
	}

	switch kind {
	case domain.OperationIndexing:
		c.state = domain.StateIndexing
	case domain.OperationAnswering:
		c.state = domain.StateAnswering
	}
	c.cancelled = false
	c.runID = uuid.New().String()

	logger.Debug("Operation %s started (run %s)", kind, c.runID)
	return true
}

// End returns to idle unconditionally. Success, failure and cancellation
// all release the slot.
func (c *Controller) End() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.StateIdle {
		logger.Debug("Operation %s finished (run %s)", c.state, c.runID)
	}
	c.state = domain.StateIdle
	c.cancelled = false
}

// RequestCancel sets the advisory cancellation flag. It has no effect while
// idle and never interrupts in-flight external calls.
func (c *Controller) RequestCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == domain.StateIdle {
		return
	}
	c.cancelled = true
	logger.Info("Cancellation requested for %s (run %s)", c.state, c.runID)
}

// CancelRequested reports the cancellation flag.
func (c *Controller) CancelRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// State returns the current operation state.
func (c *Controller) State() domain.OperationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RunID returns the id of the current (or last) run.
func (c *Controller) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

// Publish emits a progress event without blocking. Events are dropped when
// the buffer is full.
func (c *Controller) Publish(event domain.ProgressEvent) {
	if event.RunID == "" {
		event.RunID = c.RunID()
	}
	select {
	case c.events <- event:
	default:
		logger.Debug("Progress event dropped: %s %d/%d", event.Path, event.Current, event.Total)
	}
}

// Events returns the progress channel consumed by the UI layer.
func (c *Controller) Events() <-chan domain.ProgressEvent {
	return c.events
}
