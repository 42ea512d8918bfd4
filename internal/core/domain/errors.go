package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for business-level conditions.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBusy indicates another operation holds the operation slot.
	// This is a non-fatal rejection, not a failure.
	ErrBusy = errors.New("operation already in progress")

	// ErrCancelled indicates an operation stopped at a cancellation
	// checkpoint.
	ErrCancelled = errors.New("operation cancelled")

	// ErrNoContext indicates the vector store is empty and the engine is
	// configured to refuse non-grounded answers.
	ErrNoContext = errors.New("no grounding context available")
)

// ErrorKind classifies fatal errors so the caller can render them without
// inspecting internals.
type ErrorKind string

// Error kinds.
const (
	// KindExtraction is a per-file extraction or format failure.
	KindExtraction ErrorKind = "extraction"

	// KindEmbedding is an embedding-service failure.
	KindEmbedding ErrorKind = "embedding"

	// KindVectorStore is a vector-store failure.
	KindVectorStore ErrorKind = "vector_store"

	// KindLLM is an LLM inference connection or timeout failure.
	KindLLM ErrorKind = "llm"

	// KindConfig is a missing or invalid configuration option.
	KindConfig ErrorKind = "config"
)

// Error is a typed fatal error: a kind, a human-readable message and the
// underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a typed error.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of err if it is (or wraps) a typed Error,
// and "" otherwise.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsBusy reports whether err is the non-fatal busy rejection.
func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy)
}
