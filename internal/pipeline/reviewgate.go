package pipeline

import (
	"context"
	"sync"

	"unicrew/backend/internal/models"
)

// ReviewGate presents the ended, unreviewed applications and retires them
// once a review is submitted. The pending list is server-filtered; this
// component never re-derives it from the full store.
type ReviewGate struct {
	mu      sync.Mutex
	gateway Gateway
	pending []models.Application
}

func NewReviewGate(gateway Gateway) *ReviewGate {
	return &ReviewGate{gateway: gateway}
}

// Refresh reloads the pending list from the backend.
func (g *ReviewGate) Refresh(ctx context.Context) error {
	apps, err := g.gateway.FetchPendingReviews(ctx)
	if err != nil {
		return &FetchError{Op: "pending reviews", Err: err}
	}
	g.mu.Lock()
	g.pending = apps
	g.mu.Unlock()
	return nil
}

// Pending returns a copy of the current pending snapshot.
func (g *ReviewGate) Pending() []models.Application {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.Application, len(g.pending))
	copy(out, g.pending)
	return out
}

// Submit sends a review. A rating outside 1..5 is rejected before any
// request is made. On success the application is removed from the local
// pending snapshot; no reload is needed because a reviewed application can
// never re-enter the pending set.
func (g *ReviewGate) Submit(ctx context.Context, applicationID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	if err := g.gateway.SubmitReview(ctx, applicationID, rating, comment); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	kept := g.pending[:0]
	for _, app := range g.pending {
		if app.ID != applicationID {
			kept = append(kept, app)
		}
	}
	g.pending = kept
	return nil
}
