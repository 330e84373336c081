package pipeline

import (
	"context"
	"sync"

	"unicrew/backend/internal/models"
)

// RecordStore holds the authoritative, status-grouped view of one job's
// applications. It is refreshed by full replacement only; nothing ever
// patches individual rows, so a failed load leaves the last good snapshot
// in place.
type RecordStore struct {
	mu        sync.RWMutex
	gateway   Gateway
	jobID     string
	selection *SelectionManager
	apps      []models.Application
}

// NewRecordStore builds a store for one job. The selection manager may be
// nil when the view has no bulk actions.
func NewRecordStore(gateway Gateway, jobID string, selection *SelectionManager) *RecordStore {
	return &RecordStore{gateway: gateway, jobID: jobID, selection: selection}
}

// Load fetches the job's applications and replaces the snapshot. On failure
// it returns a FetchError and leaves the current snapshot untouched.
func (s *RecordStore) Load(ctx context.Context) error {
	apps, err := s.gateway.FetchApplicants(ctx, s.jobID)
	if err != nil {
		return &FetchError{Op: "applicants", Err: err}
	}
	s.ReplaceAll(apps)
	return nil
}

// ReplaceAll swaps in a complete new snapshot and prunes the selection
// against the new id set.
func (s *RecordStore) ReplaceAll(apps []models.Application) {
	s.mu.Lock()
	s.apps = apps
	s.mu.Unlock()

	if s.selection != nil {
		s.selection.Prune(s.IDs())
	}
}

// Applications returns a copy of the current snapshot.
func (s *RecordStore) Applications() []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Application, len(s.apps))
	copy(out, s.apps)
	return out
}

// IDs returns the applicant user ids of the current snapshot.
func (s *RecordStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.apps))
	for _, app := range s.apps {
		ids = append(ids, app.UserID)
	}
	return ids
}

// Grouped returns the snapshot partitioned by status.
func (s *RecordStore) Grouped() map[models.Status][]models.Application {
	return GroupByStatus(s.Applications())
}

// GroupByStatus partitions applications into the canonical status groups.
// A record with an unrecognized status is dropped: grouping is liberal in
// what it accepts and strict in what it exposes.
func GroupByStatus(apps []models.Application) map[models.Status][]models.Application {
	grouped := make(map[models.Status][]models.Application, len(models.Statuses))
	for _, status := range models.Statuses {
		grouped[status] = nil
	}
	for _, app := range apps {
		switch app.Status {
		case models.StatusApplied, models.StatusShortListed, models.StatusAccepted,
			models.StatusRejected, models.StatusEnded:
			grouped[app.Status] = append(grouped[app.Status], app)
		default:
			// Unknown status: never rendered, never an error.
		}
	}
	return grouped
}
