package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	plain := NewError(KindConfig, "chunk_size must be positive", nil)
	assert.Equal(t, "config: chunk_size must be positive", plain.Error())

	cause := errors.New("connection refused")
	wrapped := NewError(KindEmbedding, "embedding request failed", cause)
	assert.Equal(t, "embedding: embedding request failed: connection refused", wrapped.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(KindVectorStore, "upsert failed", cause)

	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindLLM, KindOf(NewError(KindLLM, "generate failed", nil)))

	// Kind survives fmt.Errorf wrapping.
	wrapped := fmt.Errorf("answering: %w", NewError(KindLLM, "generate failed", nil))
	assert.Equal(t, KindLLM, KindOf(wrapped))

	assert.Equal(t, ErrorKind(""), KindOf(errors.New("untyped")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestIsBusy(t *testing.T) {
	assert.True(t, IsBusy(ErrBusy))
	assert.True(t, IsBusy(fmt.Errorf("reindex: %w", ErrBusy)))
	assert.False(t, IsBusy(ErrCancelled))
	assert.False(t, IsBusy(nil))
}
