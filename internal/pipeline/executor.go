package pipeline

import (
	"context"
	"log"
	"sync"

	"unicrew/backend/internal/models"
)

// TransitionExecutor performs status changes and owns the per-applicant
// busy flags. Mutual exclusion lives here, not in whatever UI happens to
// render the rows: a second action for an applicant whose transition is
// still outstanding is a no-op.
type TransitionExecutor struct {
	mu       sync.Mutex
	gateway  Gateway
	store    *RecordStore
	selected *SelectionManager
	session  SessionContext

	// inflight maps applicant id to the exact action outstanding for it,
	// so a caller can render a busy indicator for that action alone.
	inflight map[string]models.Status
}

func NewTransitionExecutor(gateway Gateway, store *RecordStore, selected *SelectionManager, session SessionContext) *TransitionExecutor {
	return &TransitionExecutor{
		gateway:  gateway,
		store:    store,
		selected: selected,
		session:  session,
		inflight: make(map[string]models.Status),
	}
}

// InFlight returns the target status outstanding for the applicant, if any.
func (e *TransitionExecutor) InFlight(id string) (models.Status, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	target, ok := e.inflight[id]
	return target, ok
}

// acquire marks every id busy with the given action, or reports that one of
// them already is. All-or-nothing: a partially busy batch acquires nothing.
func (e *TransitionExecutor) acquire(ids []string, target models.Status) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range ids {
		if _, busy := e.inflight[id]; busy {
			return false
		}
	}
	for _, id := range ids {
		e.inflight[id] = target
	}
	return true
}

// release always runs, on every exit path, so a failed request can never
// leave an applicant stuck busy.
func (e *TransitionExecutor) release(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range ids {
		delete(e.inflight, id)
	}
}

// Transition moves the given applicants to the target status with exactly
// one request. On success the selection is cleared and the store reloaded
// in full; on failure the selection is preserved and the store untouched.
func (e *TransitionExecutor) Transition(ctx context.Context, target models.Status, ids []string) error {
	if e.session.Role != models.RoleCompany {
		return ErrCompanyOnly
	}
	if len(ids) == 0 {
		return ErrNoApplicants
	}
	switch target {
	case models.StatusShortListed, models.StatusAccepted, models.StatusRejected:
	default:
		// Ending goes through End and is single-target only.
		return ErrInvalidTarget
	}

	if !e.acquire(ids, target) {
		log.Printf("WARNING: Transition to %s skipped, applicant already busy", target)
		return ErrAlreadyInFlight
	}
	defer e.release(ids)

	if err := e.gateway.UpdateStatuses(ctx, e.store.jobID, ids, target); err != nil {
		log.Printf("ERROR: Transition to %s failed for %d applicant(s): %v", target, len(ids), err)
		return &TransitionError{Target: target, Err: err}
	}

	if e.selected != nil {
		e.selected.Clear()
	}
	// Full reload rather than a local patch, so server-side recalculations
	// (match scores, room assignments) are picked up.
	return e.store.Load(ctx)
}

// End moves a single accepted application to ended. The busy flag is keyed
// by the applicant's user id, the same key Transition uses, so ending and
// a status change for the same applicant exclude each other.
func (e *TransitionExecutor) End(ctx context.Context, applicationID, userID string) error {
	if e.session.Role != models.RoleCompany {
		return ErrCompanyOnly
	}
	if applicationID == "" {
		return ErrNoApplicants
	}

	if !e.acquire([]string{userID}, models.StatusEnded) {
		log.Printf("WARNING: End skipped for application %s, applicant already busy", applicationID)
		return ErrAlreadyInFlight
	}
	defer e.release([]string{userID})

	if err := e.gateway.EndApplication(ctx, applicationID); err != nil {
		log.Printf("ERROR: Ending application %s failed: %v", applicationID, err)
		return &TransitionError{Target: models.StatusEnded, Err: err}
	}

	return e.store.Load(ctx)
}
