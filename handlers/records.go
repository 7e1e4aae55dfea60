package handlers

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// Mapping between PocketBase records and the services domain types. The
// stored data is always authoritative; optimistic views are rebuilt from
// these loaders on every read.

func phaseFromRecord(r *core.Record) services.Phase {
	return services.Phase{
		ID:          r.Id,
		Version:     r.GetString("version"),
		Description: r.GetString("description"),
		Order:       r.GetInt("order"),
		Hours:       r.GetFloat("hours"),
		Visible:     r.GetBool("visible"),
		ReferenceID: r.GetInt("reference_id"),
	}
}

func ticketFromRecord(r *core.Record) services.Ticket {
	return services.Ticket{
		ID:          r.Id,
		Phase:       r.GetString("phase"),
		Summary:     r.GetString("summary"),
		Order:       r.GetInt("order"),
		BudgetHours: r.GetFloat("budget_hours"),
		Visible:     r.GetBool("visible"),
		ReferenceID: r.GetInt("reference_id"),
	}
}

func taskFromRecord(r *core.Record) services.Task {
	return services.Task{
		ID:          r.Id,
		Ticket:      r.GetString("ticket"),
		Summary:     r.GetString("summary"),
		Notes:       r.GetString("notes"),
		Priority:    r.GetInt("priority"),
		Visible:     r.GetBool("visible"),
		ReferenceID: r.GetInt("reference_id"),
	}
}

func productFromRecord(r *core.Record) services.Product {
	return services.Product{
		UniqueID:           r.GetString("unique_id"),
		Version:            r.GetString("version"),
		CatalogItem:        r.GetInt("catalog_item"),
		Parent:             r.GetString("parent"),
		Section:            r.GetString("section"),
		Identifier:         r.GetString("identifier"),
		Description:        r.GetString("description"),
		Category:           r.GetString("category"),
		Vendor:             r.GetString("vendor"),
		UnitOfMeasure:      r.GetString("unit_of_measure"),
		Quantity:           r.GetFloat("quantity"),
		Cost:               r.GetFloat("cost"),
		Price:              r.GetFloat("price"),
		CalculatedCost:     r.GetFloat("calculated_cost"),
		CalculatedPrice:    r.GetFloat("calculated_price"),
		ExtendedCost:       r.GetFloat("extended_cost"),
		ExtendedPrice:      r.GetFloat("extended_price"),
		SequenceNumber:     r.GetInt("sequence_number"),
		RecurringFlag:      r.GetBool("recurring_flag"),
		RecurringCost:      r.GetFloat("recurring_cost"),
		RecurringBillCycle: r.GetInt("recurring_bill_cycle"),
		RecurringCycleType: r.GetString("recurring_cycle_type"),
		TaxableFlag:        r.GetBool("taxable_flag"),
	}
}

// loadVersionPhases fetches the full phase tree (phases with tickets with
// tasks) of a version, sorted the way the builder displays it.
func loadVersionPhases(app *pocketbase.PocketBase, versionID string) ([]services.Phase, error) {
	phaseRecords, err := app.FindRecordsByFilter(
		"phases", "version = {:version}", "+order", 0, 0,
		map[string]any{"version": versionID})
	if err != nil {
		return nil, fmt.Errorf("load phases for version %s: %w", versionID, err)
	}

	phases := make([]services.Phase, 0, len(phaseRecords))
	for _, pr := range phaseRecords {
		phase := phaseFromRecord(pr)

		ticketRecords, err := app.FindRecordsByFilter(
			"tickets", "phase = {:phase}", "+order", 0, 0,
			map[string]any{"phase": pr.Id})
		if err != nil {
			return nil, fmt.Errorf("load tickets for phase %s: %w", pr.Id, err)
		}
		for _, tr := range ticketRecords {
			ticket := ticketFromRecord(tr)

			taskRecords, err := app.FindRecordsByFilter(
				"tasks", "ticket = {:ticket}", "+priority", 0, 0,
				map[string]any{"ticket": tr.Id})
			if err != nil {
				return nil, fmt.Errorf("load tasks for ticket %s: %w", tr.Id, err)
			}
			for _, taskRecord := range taskRecords {
				ticket.Tasks = append(ticket.Tasks, taskFromRecord(taskRecord))
			}
			phase.Tickets = append(phase.Tickets, ticket)
		}

		services.SortTickets(phase.Tickets)
		phases = append(phases, phase)
	}

	services.SortPhases(phases)
	return phases, nil
}

// loadVersionProducts fetches a version's products sorted by sequence
// number, with bundle children nested under their parent.
func loadVersionProducts(app *pocketbase.PocketBase, versionID string) ([]services.Product, error) {
	records, err := app.FindRecordsByFilter(
		"products", "version = {:version}", "+sequence_number", 0, 0,
		map[string]any{"version": versionID})
	if err != nil {
		return nil, fmt.Errorf("load products for version %s: %w", versionID, err)
	}

	byParent := make(map[string][]services.Product)
	var roots []services.Product
	for _, r := range records {
		p := productFromRecord(r)
		if p.Parent != "" {
			byParent[p.Parent] = append(byParent[p.Parent], p)
			continue
		}
		roots = append(roots, p)
	}
	for i := range roots {
		children := byParent[roots[i].UniqueID]
		services.SortProducts(children)
		roots[i].Products = children
	}

	services.SortProducts(roots)
	return roots, nil
}

// findProductByUniqueID resolves a product record by its stable identity.
func findProductByUniqueID(app *pocketbase.PocketBase, uniqueID string) (*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		"products", "unique_id = {:uid}", "", 1, 0,
		map[string]any{"uid": uniqueID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("product %s not found", uniqueID)
	}
	return records[0], nil
}
