package domain

// TurnRole identifies the author of a conversation turn.
type TurnRole string

// Conversation roles.
const (
	// RoleUser is a message written by the user.
	RoleUser TurnRole = "user"

	// RoleAssistant is a message produced by the engine.
	RoleAssistant TurnRole = "assistant"
)

// Turn is one prior exchange in the conversation history.
type Turn struct {
	// ID identifies the turn within its conversation.
	ID string

	// Role is who authored the turn.
	Role TurnRole

	// Content is the message text.
	Content string
}

// Query is one question posed against the indexed corpus.
type Query struct {
	// Text is the question text.
	Text string

	// History is the ordered sequence of prior turns, oldest first.
	// The engine only consumes the most recent turns, bounded by
	// configuration.
	History []Turn

	// TopK is the requested number of retrieval results.
	// Zero means use the configured default.
	TopK int

	// TargetLanguage, when non-empty, instructs the model to answer in
	// that language.
	TargetLanguage string
}

// ScoredChunk pairs a retrieved chunk with its similarity score.
type ScoredChunk struct {
	Chunk Chunk

	// Score is the similarity to the query, higher is more similar.
	Score float64
}

// AnswerStatus is the completion status of an answer.
type AnswerStatus string

// Possible answer statuses.
const (
	// AnswerCompleted means generation ran to completion.
	AnswerCompleted AnswerStatus = "completed"

	// AnswerCancelled means generation was cancelled mid-stream; the
	// answer text is the partial output produced before the checkpoint.
	AnswerCancelled AnswerStatus = "cancelled"
)

// Answer is the result of one QA invocation.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the cited source document paths, deduplicated and
	// ordered by first appearance (most similar first).
	Sources []string

	// Status is the completion status.
	Status AnswerStatus

	// Grounded is true when retrieved context was supplied to the model.
	Grounded bool
}
