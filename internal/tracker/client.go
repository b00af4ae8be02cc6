package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"pulseboard/internal/domain"
	"pulseboard/internal/syncwatch"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Pulseboard/1.0"
)

// Client talks to the tracker backend's HTTP API. It implements
// syncwatch.Client for the sync endpoints and serves the dashboard data
// endpoints.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new tracker API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated HTTP request expecting a 200
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("tracker request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tracker request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrAuthFailed
	}

	if resp.StatusCode == http.StatusNotFound {
		// Only project-scoped routes 404 in this API.
		return nil, domain.ErrProjectNotFound
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("tracker request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// Engineers returns every engineer known to the backend
func (c *Client) Engineers(ctx context.Context) ([]domain.Engineer, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/v1/engineers", nil)
	if err != nil {
		return nil, err
	}

	var resp engineersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapEngineers(resp.Engineers), nil
}

// Projects returns every project known to the backend
func (c *Client) Projects(ctx context.Context) ([]domain.Project, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/v1/projects", nil)
	if err != nil {
		return nil, err
	}

	var resp projectsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapProjects(resp.Projects), nil
}

// Assignments returns all engineer-to-project allocations
func (c *Client) Assignments(ctx context.Context) ([]domain.Assignment, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/v1/assignments", nil)
	if err != nil {
		return nil, err
	}

	var resp assignmentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapAssignments(resp.Assignments), nil
}

// ProjectAssignments returns the allocations for a single project
func (c *Client) ProjectAssignments(ctx context.Context, projectID string) ([]domain.Assignment, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/v1/projects/"+url.PathEscape(projectID)+"/assignments", nil)
	if err != nil {
		return nil, err
	}

	var resp assignmentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapAssignments(resp.Assignments), nil
}

// SyncStatus fetches one snapshot of the backend sync job. Implements
// syncwatch.Client.
func (c *Client) SyncStatus(ctx context.Context) (syncwatch.Snapshot, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/v1/sync/status", nil)
	if err != nil {
		return syncwatch.Snapshot{}, err
	}
	return syncwatch.DecodeSnapshot(body)
}

// StartSync asks the backend to begin a new sync job. Implements
// syncwatch.Client. Refusals come back as *syncwatch.StartRejectedError so
// the watcher can tell busy from broken.
func (c *Client) StartSync(ctx context.Context) error {
	reqURL := fmt.Sprintf("%s/api/v1/sync", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("sync start request failed", "error", err)
		return domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusOK {
		// Body may carry a message; ignored on success.
		return nil
	}

	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload) // best-effort; a malformed body still rejects

	return &syncwatch.StartRejectedError{
		StatusCode: resp.StatusCode,
		Message:    payload.Message,
	}
}
