package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"proposalbuilder/testhelpers"
)

func TestHandleWorkplanView_SortedTree(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Workplan View")
	version := testhelpers.CreateTestVersion(t, app, proposal, 1)
	// created out of order on purpose
	p2 := testhelpers.CreateTestPhase(t, app, version.Id, "Implementation", 2, 16)
	p1 := testhelpers.CreateTestPhase(t, app, version.Id, "Discovery", 1, 8)
	testhelpers.CreateTestTicket(t, app, p1.Id, "Site survey", 2, 6)
	ticket := testhelpers.CreateTestTicket(t, app, p1.Id, "Kickoff call", 1, 2)
	testhelpers.CreateTestTask(t, app, ticket.Id, "Schedule meeting")

	handler := HandleWorkplanView(app)
	req := httptest.NewRequest(http.MethodGet, "/versions/"+version.Id+"/workplan", nil)
	req.SetPathValue("versionId", version.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp workplanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(resp.Phases))
	}
	if resp.Phases[0].ID != p1.Id || resp.Phases[1].ID != p2.Id {
		t.Errorf("phases not sorted by order: %q, %q", resp.Phases[0].Description, resp.Phases[1].Description)
	}

	tickets := resp.Phases[0].Tickets
	if len(tickets) != 2 {
		t.Fatalf("tickets = %d, want 2", len(tickets))
	}
	if tickets[0].Summary != "Kickoff call" || tickets[1].Summary != "Site survey" {
		t.Errorf("tickets not sorted by order: %q, %q", tickets[0].Summary, tickets[1].Summary)
	}
	if len(tickets[0].Tasks) != 1 {
		t.Errorf("tasks not loaded: %+v", tickets[0])
	}
}

func TestHandleWorkplanView_EmptyVersion(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Workplan View")
	version := testhelpers.CreateTestVersion(t, app, proposal, 1)

	handler := HandleWorkplanView(app)
	req := httptest.NewRequest(http.MethodGet, "/versions/"+version.Id+"/workplan", nil)
	req.SetPathValue("versionId", version.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp workplanResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Phases) != 0 {
		t.Errorf("phases = %+v, want none", resp.Phases)
	}
}
