package manage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"proposalbuilder/services"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:                  baseURL,
		Company:                  "velo",
		PublicKey:                "pub",
		PrivateKey:               "priv",
		ClientID:                 "client-123",
		RequestsPerSecond:        1000,
		DefaultOpportunityStatus: 2,
		DefaultOpportunityType:   5,
		DefaultProjectStatus:     8,
		DefaultProjectBoard:      25,
	}
}

func TestClient_CreateOpportunity(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]int{"id": 42})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	id, err := client.CreateOpportunity(context.Background(), OpportunityInput{Name: "Acme Refresh"})
	if err != nil {
		t.Fatalf("CreateOpportunity() error = %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
	if gotPath != "/sales/opportunities" {
		t.Errorf("path = %q, want /sales/opportunities", gotPath)
	}
	if gotBody["name"] != "Acme Refresh" {
		t.Errorf("body name = %v", gotBody["name"])
	}

	// defaults fill in the fixed classification fields
	status := gotBody["status"].(map[string]any)
	if status["id"].(float64) != 2 {
		t.Errorf("status id = %v, want default 2", status["id"])
	}
}

func TestClient_AuthHeaders(t *testing.T) {
	var gotAuth, gotClientID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotClientID = r.Header.Get("clientId")
		json.NewEncoder(w).Encode([]Status{})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	if _, err := client.OpportunityStatuses(context.Background()); err != nil {
		t.Fatalf("OpportunityStatuses() error = %v", err)
	}

	wantIdentity := base64.StdEncoding.EncodeToString([]byte("velo+pub:priv"))
	if gotAuth != "Basic "+wantIdentity {
		t.Errorf("Authorization = %q, want basic %q", gotAuth, wantIdentity)
	}
	if gotClientID != "client-123" {
		t.Errorf("clientId header = %q, want client-123", gotClientID)
	}
}

func TestClient_CreateProject(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Project{ID: 928, Name: "Acme Refresh"})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	project, err := client.CreateProject(context.Background(), ProjectInput{
		Name:           "Acme Refresh",
		EstimatedStart: "2026-09-01T00:00:00Z",
		EstimatedEnd:   "2026-12-01T00:00:00Z",
		OpportunityID:  42,
	})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if project.ID != 928 {
		t.Errorf("project id = %d, want 928", project.ID)
	}

	opp := gotBody["opportunity"].(map[string]any)
	if opp["id"].(float64) != 42 {
		t.Errorf("opportunity id = %v, want 42", opp["id"])
	}
	board := gotBody["board"].(map[string]any)
	if board["id"].(float64) != 25 {
		t.Errorf("board id = %v, want default 25", board["id"])
	}
}

func TestClient_UpdateProjectHours(t *testing.T) {
	var gotMethod, gotPath string
	var gotPatch []map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPatch)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	if err := client.UpdateProjectHours(context.Background(), 928, 24.5); err != nil {
		t.Fatalf("UpdateProjectHours() error = %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if gotPath != "/project/projects/928" {
		t.Errorf("path = %q", gotPath)
	}
	if len(gotPatch) != 1 || gotPatch[0]["path"] != "estimatedHours" {
		t.Errorf("patch = %v", gotPatch)
	}
}

func TestClient_CreateProjectPhase(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]int{"id": 7001})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	refID, err := client.CreateProjectPhase(context.Background(), 928, services.Phase{
		Description: "Discovery",
		Hours:       8,
	})
	if err != nil {
		t.Fatalf("CreateProjectPhase() error = %v", err)
	}
	if refID != 7001 {
		t.Errorf("reference id = %d, want 7001", refID)
	}
	if gotPath != "/project/projects/928/phases" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["scheduledHours"].(float64) != 8 {
		t.Errorf("scheduledHours = %v, want 8", gotBody["scheduledHours"])
	}
}

func TestClient_APIErrorCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"estimatedStart is required"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	_, err := client.CreateProject(context.Background(), ProjectInput{Name: "Broken"})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Body, "estimatedStart is required") {
		t.Errorf("body = %q, want raw payload preserved", apiErr.Body)
	}
}

func TestClient_ProjectTemplateWorkplan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/project/projectTemplates/12" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ProjectTemplate{
			ID:   12,
			Name: "Network Refresh",
			Workplan: &services.Workplan{Phases: []services.PhasePrototype{
				{Description: "Discovery"},
			}},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	template, err := client.ProjectTemplate(context.Background(), 12)
	if err != nil {
		t.Fatalf("ProjectTemplate() error = %v", err)
	}
	if template.Workplan == nil || len(template.Workplan.Phases) != 1 {
		t.Errorf("workplan not decoded: %+v", template)
	}
}

func TestClient_DeepLinks(t *testing.T) {
	client := NewClient(testConfig("https://manage.example.com/v4_6_release/apis/3.0"))

	oppLink := client.OpportunityLink(42)
	if !strings.Contains(oppLink, "recordType=OpportunityFV") || !strings.Contains(oppLink, "recid=42") {
		t.Errorf("opportunity link = %q", oppLink)
	}
	if !strings.Contains(oppLink, "companyName=velo") {
		t.Errorf("opportunity link missing company: %q", oppLink)
	}

	projLink := client.ProjectLink(928)
	if !strings.Contains(projLink, "recordType=ProjectHeaderFV") || !strings.Contains(projLink, "recid=928") {
		t.Errorf("project link = %q", projLink)
	}
}

func TestClient_LimiterWaitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Status{})
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RequestsPerSecond = 0.001
	client := NewClient(cfg)

	ctx, cancel := context.WithCancel(context.Background())

	// First call consumes the single token in the bucket.
	if _, err := client.OpportunityStatuses(ctx); err != nil {
		t.Fatalf("first call error = %v", err)
	}

	cancel()
	if _, err := client.OpportunityStatuses(ctx); err == nil {
		t.Error("expected context error while waiting for a token")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.DefaultOpportunityStatus != 2 {
		t.Errorf("default opportunity status = %d, want 2", cfg.DefaultOpportunityStatus)
	}
	if cfg.DefaultOpportunityType != 5 {
		t.Errorf("default opportunity type = %d, want 5", cfg.DefaultOpportunityType)
	}
	if cfg.DefaultProjectStatus != 8 {
		t.Errorf("default project status = %d, want 8", cfg.DefaultProjectStatus)
	}
	if cfg.DefaultProjectBoard != 25 {
		t.Errorf("default project board = %d, want 25", cfg.DefaultProjectBoard)
	}
	if cfg.RequestsPerSecond != 2 {
		t.Errorf("default rps = %v, want 2", cfg.RequestsPerSecond)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("MANAGE_BASE_URL", "https://other.example.com")
	t.Setenv("MANAGE_REQUESTS_PER_SECOND", "5")
	t.Setenv("MANAGE_DEFAULT_PROJECT_BOARD", "30")

	cfg := LoadConfig()

	if cfg.BaseURL != "https://other.example.com" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if cfg.RequestsPerSecond != 5 {
		t.Errorf("rps = %v, want 5", cfg.RequestsPerSecond)
	}
	if cfg.DefaultProjectBoard != 30 {
		t.Errorf("board = %d, want 30", cfg.DefaultProjectBoard)
	}
}
