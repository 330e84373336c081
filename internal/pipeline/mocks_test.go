package pipeline_test

import (
	"context"
	"sync"

	"unicrew/backend/internal/models"
)

// fakeGateway is a hand-rolled Gateway double. Behavior is injected per
// test through the function fields; every call is counted so tests can
// assert on exactly how many requests went out.
type fakeGateway struct {
	mu sync.Mutex

	fetchApplicantsFn func(jobID string) ([]models.Application, error)
	updateStatusesFn  func(jobID string, userIDs []string, target models.Status) error
	endApplicationFn  func(applicationID string) error
	fetchHistoryFn    func(roomID string) (models.HistoryResponse, error)
	submitReviewFn    func(applicationID string, rating int, comment string) error
	fetchPendingFn    func() ([]models.Application, error)

	fetchApplicantsCalls int
	updateStatusesCalls  int
	endApplicationCalls  int
	submitReviewCalls    int
	fetchPendingCalls    int
}

func (g *fakeGateway) count(counter *int) {
	g.mu.Lock()
	*counter++
	g.mu.Unlock()
}

func (g *fakeGateway) calls(counter *int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return *counter
}

func (g *fakeGateway) FetchApplicants(ctx context.Context, jobID string) ([]models.Application, error) {
	g.count(&g.fetchApplicantsCalls)
	if g.fetchApplicantsFn != nil {
		return g.fetchApplicantsFn(jobID)
	}
	return nil, nil
}

func (g *fakeGateway) UpdateStatuses(ctx context.Context, jobID string, userIDs []string, target models.Status) error {
	g.count(&g.updateStatusesCalls)
	if g.updateStatusesFn != nil {
		return g.updateStatusesFn(jobID, userIDs, target)
	}
	return nil
}

func (g *fakeGateway) EndApplication(ctx context.Context, applicationID string) error {
	g.count(&g.endApplicationCalls)
	if g.endApplicationFn != nil {
		return g.endApplicationFn(applicationID)
	}
	return nil
}

func (g *fakeGateway) FetchHistory(ctx context.Context, roomID string) (models.HistoryResponse, error) {
	if g.fetchHistoryFn != nil {
		return g.fetchHistoryFn(roomID)
	}
	return models.HistoryResponse{}, nil
}

func (g *fakeGateway) SubmitReview(ctx context.Context, applicationID string, rating int, comment string) error {
	g.count(&g.submitReviewCalls)
	if g.submitReviewFn != nil {
		return g.submitReviewFn(applicationID, rating, comment)
	}
	return nil
}

func (g *fakeGateway) FetchPendingReviews(ctx context.Context) ([]models.Application, error) {
	g.count(&g.fetchPendingCalls)
	if g.fetchPendingFn != nil {
		return g.fetchPendingFn()
	}
	return nil, nil
}

func applicants(statuses map[string]models.Status) []models.Application {
	apps := make([]models.Application, 0, len(statuses))
	for userID, status := range statuses {
		apps = append(apps, models.Application{
			ID:     "app-" + userID,
			UserID: userID,
			Status: status,
		})
	}
	return apps
}
