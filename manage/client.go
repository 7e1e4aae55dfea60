package manage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"proposalbuilder/services"
)

// Client provides access to the external system. Every call may fail
// independently; errors carry the raw response payload so the UI can
// surface it.
type Client interface {
	CreateOpportunity(ctx context.Context, in OpportunityInput) (int, error)
	CreateProject(ctx context.Context, in ProjectInput) (*Project, error)
	UpdateProjectHours(ctx context.Context, projectID int, hours float64) error
	CreateProjectPhase(ctx context.Context, projectID int, phase services.Phase) (int, error)

	OpportunityStatuses(ctx context.Context) ([]Status, error)
	OpportunityTypes(ctx context.Context) ([]OpportunityType, error)
	ProjectStatuses(ctx context.Context) ([]Status, error)
	ProjectBoards(ctx context.Context) ([]Board, error)
	ServiceTickets(ctx context.Context) ([]ServiceTicket, error)
	ProjectTemplates(ctx context.Context) ([]ProjectTemplate, error)
	ProjectTemplate(ctx context.Context, id int) (*ProjectTemplate, error)

	OpportunityLink(id int) string
	ProjectLink(id int) string
}

// APIError is a non-2xx response from the external system.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("manage: status %d: %s", e.StatusCode, e.Body)
}

// httpClient implements Client against the REST API. All requests pass
// through a token-bucket limiter so pacing policy lives at the adapter
// boundary rather than in callers.
type httpClient struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client for the configured external system.
func NewClient(cfg Config) Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	return &httpClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (c *httpClient) do(ctx context.Context, method, path string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("manage: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("manage: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.ClientID != "" {
		req.Header.Set("clientId", c.cfg.ClientID)
	}
	if c.cfg.PublicKey != "" {
		identity := c.cfg.Company + "+" + c.cfg.PublicKey + ":" + c.cfg.PrivateKey
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(identity)))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("manage: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("manage: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("manage: decode response: %w", err)
		}
	}
	return nil
}

func (c *httpClient) CreateOpportunity(ctx context.Context, in OpportunityInput) (int, error) {
	statusID := in.StatusID
	if statusID == 0 {
		statusID = c.cfg.DefaultOpportunityStatus
	}
	typeID := in.TypeID
	if typeID == 0 {
		typeID = c.cfg.DefaultOpportunityType
	}

	body := map[string]any{
		"name":   in.Name,
		"status": map[string]int{"id": statusID},
		"type":   map[string]int{"id": typeID},
	}
	var created struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/sales/opportunities", body, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *httpClient) CreateProject(ctx context.Context, in ProjectInput) (*Project, error) {
	statusID := in.StatusID
	if statusID == 0 {
		statusID = c.cfg.DefaultProjectStatus
	}
	boardID := in.BoardID
	if boardID == 0 {
		boardID = c.cfg.DefaultProjectBoard
	}

	body := map[string]any{
		"name":           in.Name,
		"board":          map[string]int{"id": boardID},
		"status":         map[string]int{"id": statusID},
		"estimatedStart": in.EstimatedStart,
		"estimatedEnd":   in.EstimatedEnd,
		"opportunity":    map[string]int{"id": in.OpportunityID},
	}
	var project Project
	if err := c.do(ctx, http.MethodPost, "/project/projects", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *httpClient) UpdateProjectHours(ctx context.Context, projectID int, hours float64) error {
	patch := []map[string]any{
		{"op": "replace", "path": "estimatedHours", "value": hours},
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/project/projects/%d", projectID), patch, nil)
}

func (c *httpClient) CreateProjectPhase(ctx context.Context, projectID int, phase services.Phase) (int, error) {
	body := map[string]any{
		"description":    phase.Description,
		"scheduledHours": phase.Hours,
	}
	var created struct {
		ID int `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/project/projects/%d/phases", projectID), body, &created)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *httpClient) OpportunityStatuses(ctx context.Context) ([]Status, error) {
	var statuses []Status
	if err := c.do(ctx, http.MethodGet, "/sales/opportunities/statuses", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (c *httpClient) OpportunityTypes(ctx context.Context) ([]OpportunityType, error) {
	var types []OpportunityType
	if err := c.do(ctx, http.MethodGet, "/sales/opportunities/types", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *httpClient) ProjectStatuses(ctx context.Context) ([]Status, error) {
	var statuses []Status
	if err := c.do(ctx, http.MethodGet, "/project/statuses", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (c *httpClient) ProjectBoards(ctx context.Context) ([]Board, error) {
	var boards []Board
	if err := c.do(ctx, http.MethodGet, "/project/boards", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

func (c *httpClient) ServiceTickets(ctx context.Context) ([]ServiceTicket, error) {
	var tickets []ServiceTicket
	if err := c.do(ctx, http.MethodGet, "/service/tickets", nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *httpClient) ProjectTemplates(ctx context.Context) ([]ProjectTemplate, error) {
	var templates []ProjectTemplate
	if err := c.do(ctx, http.MethodGet, "/project/projectTemplates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (c *httpClient) ProjectTemplate(ctx context.Context, id int) (*ProjectTemplate, error) {
	var template ProjectTemplate
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/project/projectTemplates/%d", id), nil, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// OpportunityLink is the deep link into the external UI for an opportunity.
func (c *httpClient) OpportunityLink(id int) string {
	return fmt.Sprintf(
		"%s/services/system_io/router/openrecord.rails?recordType=OpportunityFV&recid=%d&companyName=%s",
		c.cfg.BaseURL, id, c.cfg.Company,
	)
}

// ProjectLink is the deep link into the external UI for a project.
func (c *httpClient) ProjectLink(id int) string {
	return fmt.Sprintf(
		"%s/services/system_io/router/openrecord.rails?recordType=ProjectHeaderFV&recid=%d&companyName=%s",
		c.cfg.BaseURL, id, c.cfg.Company,
	)
}
