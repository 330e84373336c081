package pipeline

import (
	"errors"
	"fmt"

	"unicrew/backend/internal/models"
)

// Sentinel errors returned before any network request is issued.
var (
	// ErrNoApplicants rejects a transition with an empty id list.
	ErrNoApplicants = errors.New("no applicants selected")
	// ErrInvalidTarget rejects a transition to a status the pipeline does
	// not allow as a bulk/single target.
	ErrInvalidTarget = errors.New("invalid target status")
	// ErrAlreadyInFlight reports that a transition for one of the
	// applicants is still outstanding. The attempt is a no-op.
	ErrAlreadyInFlight = errors.New("transition already in flight")
	// ErrInvalidRating rejects a review whose rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrCompanyOnly rejects pipeline mutations from a non-company session.
	ErrCompanyOnly = errors.New("company session required")
)

// FetchError wraps a failed list or history load. The caller's local state
// is left as it was; the error is meant for a non-blocking banner.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Op, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// TransitionError wraps a failed status change. The busy flags are already
// released and the selection preserved when the caller sees this.
type TransitionError struct {
	Target models.Status
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition to %s: %v", e.Target, e.Err)
}
func (e *TransitionError) Unwrap() error { return e.Err }

// SessionContext is the immutable identity of the signed-in account,
// injected into the components that act on its behalf.
type SessionContext struct {
	ID          string
	Role        string
	DisplayName string
}
