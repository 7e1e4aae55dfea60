// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProposal creates a proposal record with the given name and returns it.
func CreateTestProposal(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("proposals")
	if err != nil {
		t.Fatalf("failed to find proposals collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "building")
	record.Set("labor_rate", 150.0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test proposal: %v", err)
	}

	return record
}

// CreateTestVersion creates a version record linked to a proposal and marks it
// as the proposal's working version.
func CreateTestVersion(t *testing.T, app *pocketbase.PocketBase, proposal *core.Record, number int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("versions")
	if err != nil {
		t.Fatalf("failed to find versions collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("proposal", proposal.Id)
	record.Set("number", number)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test version: %v", err)
	}

	proposal.Set("working_version", record.Id)
	if err := app.Save(proposal); err != nil {
		t.Fatalf("failed to link working version: %v", err)
	}

	return record
}

// CreateTestPhase creates a phase record in a version.
func CreateTestPhase(t *testing.T, app *pocketbase.PocketBase, versionID, description string, order int, hours float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("phases")
	if err != nil {
		t.Fatalf("failed to find phases collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("version", versionID)
	record.Set("description", description)
	record.Set("order", order)
	record.Set("hours", hours)
	record.Set("visible", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test phase: %v", err)
	}

	return record
}

// CreateTestTicket creates a ticket record in a phase.
func CreateTestTicket(t *testing.T, app *pocketbase.PocketBase, phaseID, summary string, order int, budgetHours float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("tickets")
	if err != nil {
		t.Fatalf("failed to find tickets collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("phase", phaseID)
	record.Set("summary", summary)
	record.Set("order", order)
	record.Set("budget_hours", budgetHours)
	record.Set("visible", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test ticket: %v", err)
	}

	return record
}

// CreateTestTask creates a task record in a ticket.
func CreateTestTask(t *testing.T, app *pocketbase.PocketBase, ticketID, summary string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("tasks")
	if err != nil {
		t.Fatalf("failed to find tasks collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("ticket", ticketID)
	record.Set("summary", summary)
	record.Set("priority", 1)
	record.Set("visible", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test task: %v", err)
	}

	return record
}

// CreateTestProduct creates a product record in a version and returns it.
func CreateTestProduct(t *testing.T, app *pocketbase.PocketBase, versionID, description string, qty, price float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		t.Fatalf("failed to find products collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("unique_id", uuid.NewString())
	record.Set("version", versionID)
	record.Set("description", description)
	record.Set("quantity", qty)
	record.Set("price", price)
	record.Set("extended_price", qty*price)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test product: %v", err)
	}

	return record
}

// CreateTestSection creates a section record in a version.
func CreateTestSection(t *testing.T, app *pocketbase.PocketBase, versionID, name string, order int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("sections")
	if err != nil {
		t.Fatalf("failed to find sections collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("version", versionID)
	record.Set("name", name)
	record.Set("order", order)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test section: %v", err)
	}

	return record
}
