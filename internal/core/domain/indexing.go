package domain

import "time"

// FileOutcome describes how one candidate file was handled during a reindex.
type FileOutcome string

// Possible per-file outcomes.
const (
	// OutcomeIndexed means the file was new and fully committed.
	OutcomeIndexed FileOutcome = "indexed"

	// OutcomeUpdated means the file had changed and was replaced.
	OutcomeUpdated FileOutcome = "updated"

	// OutcomeSkippedUnchanged means the content hash matched the index state.
	OutcomeSkippedUnchanged FileOutcome = "skipped_unchanged"

	// OutcomeSkippedFiltered means the file failed the extension or size filter.
	OutcomeSkippedFiltered FileOutcome = "skipped_filtered"

	// OutcomeDeleted means the path vanished from disk and was removed.
	OutcomeDeleted FileOutcome = "deleted"

	// OutcomeErrored means the file failed with a recoverable per-file error.
	OutcomeErrored FileOutcome = "errored"
)

// IsValid returns true if the outcome is recognised.
func (o FileOutcome) IsValid() bool {
	switch o {
	case OutcomeIndexed, OutcomeUpdated, OutcomeSkippedUnchanged,
		OutcomeSkippedFiltered, OutcomeDeleted, OutcomeErrored:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (o FileOutcome) String() string {
	return string(o)
}

// ProgressEvent is emitted after each file is processed during a reindex.
// Current is strictly increasing within one run.
type ProgressEvent struct {
	// RunID identifies the operation run that produced the event.
	RunID string

	// Current is the 1-based position of the file in enumeration order.
	Current int

	// Total is the number of candidate files in the run.
	Total int

	// Path is the file that was processed.
	Path string

	// Outcome is how the file was handled.
	Outcome FileOutcome
}

// FileError records one recoverable per-file failure.
type FileError struct {
	// Path is the file that failed.
	Path string

	// Err is the failure cause.
	Err error
}

// IndexingSummary is the result of one reindex run.
type IndexingSummary struct {
	// Indexed counts newly added documents.
	Indexed int

	// Updated counts replaced documents.
	Updated int

	// SkippedUnchanged counts documents whose hash matched the index state.
	SkippedUnchanged int

	// SkippedFiltered counts files rejected by the extension or size filter.
	SkippedFiltered int

	// Deleted counts documents removed because the file vanished.
	Deleted int

	// Errored counts documents that failed with a per-file error.
	Errored int

	// Cancelled is true if the run stopped at a cancellation checkpoint.
	// Files committed before the checkpoint remain committed.
	Cancelled bool

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration

	// Errors lists the per-file failures, in enumeration order.
	Errors []FileError
}

// Processed returns the number of documents that produced writes.
func (s *IndexingSummary) Processed() int {
	return s.Indexed + s.Updated + s.Deleted
}
