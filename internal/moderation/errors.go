package moderation

import (
	"errors"
	"fmt"
)

// ValidationError indicates a malformed or empty submission. Nothing is
// persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PolicyBlockedError indicates content matched a critical pattern and
// was rejected before persistence. UserMessage carries the blocked
// notice together with the crisis resource block and is safe to show to
// the author.
type PolicyBlockedError struct {
	Reason      string
	UserMessage string
}

func (e *PolicyBlockedError) Error() string {
	return fmt.Sprintf("content blocked: %s", e.Reason)
}

// DuplicateContentError indicates the author recently posted the same
// normalized content.
type DuplicateContentError struct {
	AuthorID string
}

func (e *DuplicateContentError) Error() string {
	return "duplicate content detected"
}

// RateLimitError indicates an abuse limit was hit (report flooding, or
// rapid posting when enforcement is enabled).
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// PersistenceError wraps a storage failure. The caller should surface a
// retryable failure to the user.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ClassificationUnavailableError wraps a remote classifier failure. It
// is logged and swallowed by the async bridge, never surfaced to users.
type ClassificationUnavailableError struct {
	Err error
}

func (e *ClassificationUnavailableError) Error() string {
	return fmt.Sprintf("classification service unavailable: %v", e.Err)
}

func (e *ClassificationUnavailableError) Unwrap() error {
	return e.Err
}

// Dispute workflow errors
var (
	ErrContentNotFound  = errors.New("content not found")
	ErrNotContentAuthor = errors.New("only the content author may dispute")
	ErrNotDisputable    = errors.New("content is not flagged or blocked")
	ErrDisputeExists    = errors.New("an open dispute already exists for this content")
	ErrDisputeResolved  = errors.New("dispute is already resolved")
	ErrNotDisputeParty  = errors.New("only the dispute author or a moderator may withdraw")
	ErrBadTransition    = errors.New("invalid status transition")
)
