package collections_test

import (
	"testing"

	"proposalbuilder/collections"
	"proposalbuilder/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"proposals",
	"versions",
	"phases",
	"tickets",
	"tasks",
	"sections",
	"products",
}

func TestSetup_CreatesAllCollections(t *testing.T) {
	// NewTestApp runs Setup as part of bootstrap.
	app := testhelpers.NewTestApp(t)

	for _, name := range expectedCollections {
		if _, err := app.FindCollectionByNameOrId(name); err != nil {
			t.Errorf("collection %q not created: %v", name, err)
		}
	}
}

func TestSetup_IsIdempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Survivor")

	// bootstrap already ran Setup once; running it again must not wipe data
	collections.Setup(app)

	if _, err := app.FindRecordById("proposals", proposal.Id); err != nil {
		t.Errorf("existing record lost after re-running setup: %v", err)
	}
}

func TestSetup_ProposalFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	col, err := app.FindCollectionByNameOrId("proposals")
	if err != nil {
		t.Fatalf("find proposals: %v", err)
	}
	for _, field := range []string{
		"name", "status", "labor_rate", "sales_hours", "management_hours",
		"service_ticket", "opportunity_id", "project_id", "working_version",
		"approval_info", "templates_used",
	} {
		if col.Fields.GetByName(field) == nil {
			t.Errorf("proposals missing field %q", field)
		}
	}

	status, ok := col.Fields.GetByName("status").(*core.SelectField)
	if !ok {
		t.Fatal("status is not a select field")
	}
	want := map[string]bool{"building": true, "inProgress": true, "signed": true, "canceled": true}
	for _, v := range status.Values {
		if !want[v] {
			t.Errorf("unexpected status value %q", v)
		}
		delete(want, v)
	}
	for v := range want {
		t.Errorf("missing status value %q", v)
	}
}

func TestSetup_CascadeDeletes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Cascade Test")
	version := testhelpers.CreateTestVersion(t, app, proposal, 1)
	phase := testhelpers.CreateTestPhase(t, app, version.Id, "Discovery", 1, 8)
	ticket := testhelpers.CreateTestTicket(t, app, phase.Id, "Kickoff call", 1, 2)
	task := testhelpers.CreateTestTask(t, app, ticket.Id, "Schedule meeting")
	product := testhelpers.CreateTestProduct(t, app, version.Id, "Firewall", 1, 1000)

	if err := app.Delete(proposal); err != nil {
		t.Fatalf("delete proposal: %v", err)
	}

	for _, check := range []struct {
		collection string
		id         string
	}{
		{"versions", version.Id},
		{"phases", phase.Id},
		{"tickets", ticket.Id},
		{"tasks", task.Id},
		{"products", product.Id},
	} {
		if _, err := app.FindRecordById(check.collection, check.id); err == nil {
			t.Errorf("%s record %s survived the cascade", check.collection, check.id)
		}
	}
}
