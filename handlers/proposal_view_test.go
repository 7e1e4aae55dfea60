package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"proposalbuilder/testhelpers"
)

func TestHandleProposalView_NestedGraph(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "View Test")
	proposal.Set("sales_hours", 4.0)
	proposal.Set("management_hours", 2.0)
	if err := app.Save(proposal); err != nil {
		t.Fatalf("save proposal: %v", err)
	}
	version := testhelpers.CreateTestVersion(t, app, proposal, 1)
	phase := testhelpers.CreateTestPhase(t, app, version.Id, "Discovery", 1, 8)
	ticket := testhelpers.CreateTestTicket(t, app, phase.Id, "Kickoff call", 1, 2)
	testhelpers.CreateTestTask(t, app, ticket.Id, "Schedule meeting")
	testhelpers.CreateTestProduct(t, app, version.Id, "Firewall", 1, 1000)

	handler := HandleProposalView(app)
	req := httptest.NewRequest(http.MethodGet, "/proposals/"+proposal.Id, nil)
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var view proposalView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.Name != "View Test" || view.Status != "building" {
		t.Errorf("header = %q/%q", view.Name, view.Status)
	}
	if view.WorkingVersion != version.Id {
		t.Errorf("working_version = %q, want %q", view.WorkingVersion, version.Id)
	}
	if len(view.Phases) != 1 {
		t.Fatalf("phases = %d, want 1", len(view.Phases))
	}
	if len(view.Phases[0].Tickets) != 1 || len(view.Phases[0].Tickets[0].Tasks) != 1 {
		t.Errorf("nested tickets/tasks not loaded: %+v", view.Phases[0])
	}
	if len(view.Products) != 1 || view.Products[0].Description != "Firewall" {
		t.Errorf("products = %+v", view.Products)
	}

	// 8 phase hours + 4 sales + 2 management
	if view.LaborHours != 14 {
		t.Errorf("labor_hours = %v, want 14", view.LaborHours)
	}
	if want := 14*150 + 1000.0; view.Totals.TotalPrice != want {
		t.Errorf("total = %v, want %v", view.Totals.TotalPrice, want)
	}
}

func TestHandleProposalView_MissingProposal(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleProposalView(app)
	req := httptest.NewRequest(http.MethodGet, "/proposals/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleProposalList_NewestFirst(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProposal(t, app, "First")
	testhelpers.CreateTestProposal(t, app, "Second")

	handler := HandleProposalList(app)
	req := httptest.NewRequest(http.MethodGet, "/proposals", nil)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var rows []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Status != "building" {
			t.Errorf("status = %q, want %q", row.Status, "building")
		}
	}
}

func TestHandleProposalDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Doomed")
	testhelpers.CreateTestVersion(t, app, proposal, 1)

	handler := HandleProposalDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/proposals/"+proposal.Id, nil)
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if _, err := app.FindRecordById("proposals", proposal.Id); err == nil {
		t.Error("proposal still exists after delete")
	}
}

func TestHandleProposalDelete_Missing(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleProposalDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/proposals/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
