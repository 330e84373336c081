package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"unicrew/backend/internal/models"
)

// Gateway is the slice of the backend REST surface the pipeline components
// depend on.
type Gateway interface {
	FetchApplicants(ctx context.Context, jobID string) ([]models.Application, error)
	UpdateStatuses(ctx context.Context, jobID string, userIDs []string, target models.Status) error
	EndApplication(ctx context.Context, applicationID string) error
	FetchHistory(ctx context.Context, roomID string) (models.HistoryResponse, error)
	SubmitReview(ctx context.Context, applicationID string, rating int, comment string) error
	FetchPendingReviews(ctx context.Context) ([]models.Application, error)
}

// Client is the HTTP implementation of Gateway. It is a thin wrapper: it
// shapes requests, attaches the bearer token, and decodes responses; it
// never inspects per-id results or retries.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) FetchApplicants(ctx context.Context, jobID string) ([]models.Application, error) {
	var apps []models.Application
	if err := c.do(ctx, http.MethodGet, "/job/"+jobID+"/applicants", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) UpdateStatuses(ctx context.Context, jobID string, userIDs []string, target models.Status) error {
	body := map[string]interface{}{"user": userIDs, "status": target}
	return c.do(ctx, http.MethodPatch, "/job/"+jobID+"/applicants/status", body, nil)
}

func (c *Client) EndApplication(ctx context.Context, applicationID string) error {
	body := map[string]string{"applicationId": applicationID}
	return c.do(ctx, http.MethodPost, "/application/end", body, nil)
}

// FetchHistory accepts both response shapes the history endpoint has used:
// the wrapped {"messages": [...], "partnerName": ...} object and a bare
// message array.
func (c *Client) FetchHistory(ctx context.Context, roomID string) (models.HistoryResponse, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/chat/"+roomID+"/messages", nil, &raw); err != nil {
		return models.HistoryResponse{}, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var messages []models.Message
		if err := json.Unmarshal(trimmed, &messages); err != nil {
			return models.HistoryResponse{}, err
		}
		return models.HistoryResponse{Messages: messages}, nil
	}

	var wrapped models.HistoryResponse
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return models.HistoryResponse{}, err
	}
	return wrapped, nil
}

func (c *Client) SubmitReview(ctx context.Context, applicationID string, rating int, comment string) error {
	body := map[string]interface{}{
		"applicationId": applicationID,
		"rating":        rating,
		"comment":       comment,
	}
	return c.do(ctx, http.MethodPost, "/review", body, nil)
}

func (c *Client) FetchPendingReviews(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	if err := c.do(ctx, http.MethodGet, "/pending-reviews", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}
