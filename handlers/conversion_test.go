package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/conversion"
	"proposalbuilder/testhelpers"
)

// Each test uses its own proposal because pipelines are cached per proposal
// for the life of the process.

func conversionProposal(t *testing.T, app *pocketbase.PocketBase, name string) (*core.Record, *core.Record) {
	t.Helper()
	proposal := testhelpers.CreateTestProposal(t, app, name)
	version := testhelpers.CreateTestVersion(t, app, proposal, 1)
	testhelpers.CreateTestPhase(t, app, version.Id, "Discovery", 1, 8)
	testhelpers.CreateTestPhase(t, app, version.Id, "Implementation", 2, 16)
	return proposal, version
}

func postJSON(t *testing.T, app *pocketbase.PocketBase, handler func(*core.RequestEvent) error, path, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestHandleConversionStatus_FreshProposal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal, _ := conversionProposal(t, app, "Conversion Status")

	handler := HandleConversionStatus(app, newStubManageClient())
	req := httptest.NewRequest(http.MethodGet, "/proposals/"+proposal.Id+"/conversion", nil)
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status conversionStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.Stage != conversion.StageOpportunity {
		t.Errorf("stage = %q, want %q", status.Stage, conversion.StageOpportunity)
	}
	if status.OpportunityID != 0 || status.ProjectID != 0 {
		t.Errorf("fresh proposal carries external ids: %+v", status)
	}
}

func TestHandleConversionStatus_MissingProposal(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleConversionStatus(app, newStubManageClient())
	req := httptest.NewRequest(http.MethodGet, "/proposals/missing/conversion", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleConversionOpportunity(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal, _ := conversionProposal(t, app, "Conversion Opportunity")
	client := newStubManageClient()

	handler := HandleConversionOpportunity(app, client)
	rec := postJSON(t, app, handler, "/proposals/"+proposal.Id+"/conversion/opportunity", proposal.Id, `{"name":"Conversion Opportunity"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		OpportunityID int              `json:"opportunity_id"`
		Stage         conversion.Stage `json:"stage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OpportunityID == 0 {
		t.Error("no opportunity id returned")
	}
	if resp.Stage != conversion.StageProject {
		t.Errorf("stage = %q, want %q", resp.Stage, conversion.StageProject)
	}

	// external linkage persisted on the proposal
	saved, err := app.FindRecordById("proposals", proposal.Id)
	if err != nil {
		t.Fatalf("find proposal: %v", err)
	}
	if got := saved.GetInt("opportunity_id"); got != resp.OpportunityID {
		t.Errorf("persisted opportunity_id = %d, want %d", got, resp.OpportunityID)
	}

	// a second attempt is refused
	rec = postJSON(t, app, handler, "/proposals/"+proposal.Id+"/conversion/opportunity", proposal.Id, `{"name":"Conversion Opportunity"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("repeat status = %d, want 409", rec.Code)
	}
}

func TestHandleConversionProject_RequiresDates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal, _ := conversionProposal(t, app, "Conversion No Dates")
	client := newStubManageClient()

	opportunity := HandleConversionOpportunity(app, client)
	postJSON(t, app, opportunity, "/proposals/"+proposal.Id+"/conversion/opportunity", proposal.Id, `{"name":"x"}`)

	project := HandleConversionProject(app, client)
	rec := postJSON(t, app, project, "/proposals/"+proposal.Id+"/conversion/project", proposal.Id, `{"name":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleConversionProject_RequiresOpportunity(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal, _ := conversionProposal(t, app, "Conversion No Opportunity")

	project := HandleConversionProject(app, newStubManageClient())
	body := `{"name":"x","estimated_start":"2026-09-01T00:00:00Z","estimated_end":"2026-10-01T00:00:00Z"}`
	rec := postJSON(t, app, project, "/proposals/"+proposal.Id+"/conversion/project", proposal.Id, body)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestHandleConversionProject_RunsWorkplanToCompletion(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal, version := conversionProposal(t, app, "Conversion Full Run")
	client := newStubManageClient()

	opportunity := HandleConversionOpportunity(app, client)
	postJSON(t, app, opportunity, "/proposals/"+proposal.Id+"/conversion/opportunity", proposal.Id, `{"name":"x"}`)

	project := HandleConversionProject(app, client)
	body := `{"name":"x","estimated_start":"2026-09-01T00:00:00Z","estimated_end":"2026-10-01T00:00:00Z"}`
	rec := postJSON(t, app, project, "/proposals/"+proposal.Id+"/conversion/project", proposal.Id, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ProjectID       int              `json:"project_id"`
		Stage           conversion.Stage `json:"stage"`
		OpportunityLink string           `json:"opportunity_link"`
		ProjectLink     string           `json:"project_link"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ProjectID == 0 {
		t.Error("no project id returned")
	}
	if resp.Stage != conversion.StageCompleted {
		t.Errorf("stage = %q, want %q", resp.Stage, conversion.StageCompleted)
	}
	if resp.OpportunityLink == "" || resp.ProjectLink == "" {
		t.Errorf("deep links missing: %+v", resp)
	}

	// external phases created in ascending order
	wantCalls := []string{"opportunity", "project", "phase:Discovery", "phase:Implementation"}
	if len(client.createdCalls) != len(wantCalls) {
		t.Fatalf("calls = %v, want %v", client.createdCalls, wantCalls)
	}
	for i, call := range wantCalls {
		if client.createdCalls[i] != call {
			t.Errorf("call[%d] = %q, want %q", i, client.createdCalls[i], call)
		}
	}

	// per-phase reference ids persisted
	phases, err := loadVersionPhases(app, version.Id)
	if err != nil {
		t.Fatalf("load phases: %v", err)
	}
	for _, phase := range phases {
		if phase.ReferenceID == 0 {
			t.Errorf("phase %q has no reference id", phase.Description)
		}
	}

	// proposal marked in progress with the project linked
	saved, err := app.FindRecordById("proposals", proposal.Id)
	if err != nil {
		t.Fatalf("find proposal: %v", err)
	}
	if got := saved.GetInt("project_id"); got != resp.ProjectID {
		t.Errorf("persisted project_id = %d, want %d", got, resp.ProjectID)
	}
	if got := saved.GetString("status"); got != "inProgress" {
		t.Errorf("status = %q, want %q", got, "inProgress")
	}
}
