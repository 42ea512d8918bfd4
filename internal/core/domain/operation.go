package domain

// OperationKind identifies a long-running exclusive operation.
type OperationKind string

// Operation kinds.
const (
	// OperationIndexing is a reindex run.
	OperationIndexing OperationKind = "indexing"

	// OperationAnswering is a QA invocation.
	OperationAnswering OperationKind = "answering"
)

// IsValid returns true if the kind is recognised.
func (k OperationKind) IsValid() bool {
	return k == OperationIndexing || k == OperationAnswering
}

// String returns the string representation.
func (k OperationKind) String() string {
	return string(k)
}

// OperationState is the process-wide operation state. At most one non-idle
// state exists at any time; transitions only happen through the controller.
type OperationState string

// Operation states.
const (
	// StateIdle means no operation is in flight.
	StateIdle OperationState = "idle"

	// StateIndexing means a reindex run holds the operation slot.
	StateIndexing OperationState = "indexing"

	// StateAnswering means a QA invocation holds the operation slot.
	StateAnswering OperationState = "answering"
)

// String returns the string representation.
func (s OperationState) String() string {
	return string(s)
}

// Busy returns true if the state is not idle.
func (s OperationState) Busy() bool {
	return s != StateIdle
}

// AnswerPhase tracks the internal state machine of one answer call:
// idle -> embedding -> retrieving -> generating -> terminal -> idle.
type AnswerPhase string

// Answer phases.
const (
	PhaseIdle       AnswerPhase = "idle"
	PhaseEmbedding  AnswerPhase = "embedding"
	PhaseRetrieving AnswerPhase = "retrieving"
	PhaseGenerating AnswerPhase = "generating"
	PhaseCompleted  AnswerPhase = "completed"
	PhaseCancelled  AnswerPhase = "cancelled"
	PhaseFailed     AnswerPhase = "failed"
)

// String returns the string representation.
func (p AnswerPhase) String() string {
	return string(p)
}
