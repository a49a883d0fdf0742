// Package cyanerr implements the error taxonomy shared across the
// composition and orchestration pipeline. Every kind is a distinct Go type so
// callers can branch on it with errors.As instead of string matching.
package cyanerr

import "fmt"

// TransportError wraps a network/timeout failure encountered while talking to
// the coordinator or registry. It is always fatal to the current operation,
// but triggers session cleanup rather than leaving sessions dangling.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProblemDetails is the structured failure body returned by the coordinator
// or registry for any non-2xx response.
type ProblemDetails struct {
	Title   string         `json:"title"`
	Status  int            `json:"status"`
	Type    string         `json:"type"`
	TraceID string         `json:"trace_id,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// RemoteError carries a structured failure from the coordinator or registry.
type RemoteError struct {
	Problem ProblemDetails
}

func (e *RemoteError) Error() string {
	if e.Problem.TraceID != "" {
		return fmt.Sprintf("remote error: %s (status %d, trace %s)", e.Problem.Title, e.Problem.Status, e.Problem.TraceID)
	}
	return fmt.Sprintf("remote error: %s (status %d)", e.Problem.Title, e.Problem.Status)
}

// ArchiveError signals a malformed archive (truncated, bad gzip, disallowed
// paths). Fatal; no partial writes beyond what already landed on disk.
type ArchiveError struct {
	Reason string
	Err    error
}

func (e *ArchiveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("archive error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("archive error: %s", e.Reason)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// MergeConflict is non-fatal: the merge still produces conflict-marked
// content for the affected path, but the caller may want to surface it on a
// log channel.
type MergeConflict struct {
	Path string
}

func (e *MergeConflict) Error() string {
	return fmt.Sprintf("merge conflict at %s", e.Path)
}

// TypeConflict reports that two templates in a composition produced answers
// of different variants for the same question id. Fatal for the composition;
// no state file update happens.
type TypeConflict struct {
	QuestionID string
}

func (e *TypeConflict) Error() string {
	return fmt.Sprintf("type conflict for question %q: composition answers disagree on variant", e.QuestionID)
}

// IOError wraps a local filesystem failure (permissions, disk full).
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ValidationError is returned by the remote validator through the prompt
// round-trip. It is caught entirely inside the questionnaire loop and never
// bubbles past it.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// UserAbort signals the user cancelled a prompt with no answers collected
// yet. It is a clean exit, not a failure.
type UserAbort struct{}

func (e *UserAbort) Error() string { return "user aborted" }
