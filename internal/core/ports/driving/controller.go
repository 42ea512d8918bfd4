package driving

import "github.com/vellumlabs/docchat-cli/internal/core/domain"

// CancelToken exposes the advisory cancellation flag. Cancellation is
// cooperative: it takes effect only at the defined checkpoints (per file
// during indexing, per token during streamed generation), never
// preemptively.
type CancelToken interface {
	// CancelRequested reports whether cancellation has been requested for
	// the current operation.
	CancelRequested() bool
}

// ProgressSink receives progress events from the indexing coordinator.
type ProgressSink interface {
	// Publish emits a progress event. Publish never blocks; events are
	// dropped when the consumer falls behind.
	Publish(event domain.ProgressEvent)
}

// OperationController serialises indexing and QA operations: at most one
// non-idle operation exists system-wide. Every entry point acquires the
// slot via TryBegin before touching shared stores and releases it with End
// on every exit path.
type OperationController interface {
	CancelToken
	ProgressSink

	// TryBegin attempts to enter the given operation kind from idle.
	// It returns false when another operation holds the slot.
	TryBegin(kind domain.OperationKind) bool

	// End returns to idle unconditionally.
	End()

	// RequestCancel sets the advisory cancellation flag for the current
	// operation.
	RequestCancel()

	// State returns the current operation state.
	State() domain.OperationState

	// RunID returns the id of the current (or last) operation run.
	RunID() string

	// Events returns the progress event channel consumed by the UI layer.
	Events() <-chan domain.ProgressEvent
}
