package collections

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type taskDef struct {
	summary  string
	notes    string
	priority int
}

type ticketDef struct {
	order       int
	summary     string
	budgetHours float64
	tasks       []taskDef
}

type phaseDef struct {
	order       int
	description string
	tickets     []ticketDef
}

type productDef struct {
	sequenceNumber int
	identifier     string
	description    string
	category       string
	quantity       float64
	cost           float64
	price          float64
}

// seedPhases is a small but realistic workplan for the demo proposal.
var seedPhases = []phaseDef{
	{
		order:       1,
		description: "Discovery & Assessment",
		tickets: []ticketDef{
			{order: 1, summary: "Network discovery", budgetHours: 8, tasks: []taskDef{
				{summary: "Inventory switches and firewalls", priority: 1},
				{summary: "Document VLAN layout", priority: 2},
			}},
			{order: 2, summary: "Stakeholder interviews", budgetHours: 4},
		},
	},
	{
		order:       2,
		description: "Implementation",
		tickets: []ticketDef{
			{order: 1, summary: "Server provisioning", budgetHours: 16, tasks: []taskDef{
				{summary: "Rack and cable hosts", priority: 1},
				{summary: "Install hypervisor", notes: "Use the standard image", priority: 2},
			}},
			{order: 2, summary: "Workstation migration", budgetHours: 24},
		},
	},
	{
		order:       3,
		description: "Handoff & Documentation",
		tickets: []ticketDef{
			{order: 1, summary: "As-built documentation", budgetHours: 6},
		},
	},
}

var seedProducts = []productDef{
	{sequenceNumber: 1, identifier: "FW-200", description: "Perimeter firewall", category: "Security", quantity: 1, cost: 1450, price: 1950},
	{sequenceNumber: 2, identifier: "SW-48P", description: "48-port PoE switch", category: "Networking", quantity: 2, cost: 2100, price: 2800},
	{sequenceNumber: 3, identifier: "AP-WIFI6", description: "Wireless access point", category: "Networking", quantity: 6, cost: 180, price: 260},
}

// Seed creates a demo proposal with a working version, a three-phase
// workplan and a handful of products. It is a no-op when any proposal
// already exists.
func Seed(app *pocketbase.PocketBase) error {
	existing, err := app.FindRecordsByFilter("proposals", "id != ''", "", 1, 0, nil)
	if err == nil && len(existing) > 0 {
		log.Println("Seed data already present, skipping.")
		return nil
	}

	proposalsCol, err := app.FindCollectionByNameOrId("proposals")
	if err != nil {
		return fmt.Errorf("seed: find proposals collection: %w", err)
	}

	proposal := core.NewRecord(proposalsCol)
	proposal.Set("name", "Demo Office Buildout")
	proposal.Set("status", "building")
	proposal.Set("labor_rate", 150)
	proposal.Set("sales_hours", 2)
	proposal.Set("management_hours", 4)
	if err := app.Save(proposal); err != nil {
		return fmt.Errorf("seed: save proposal: %w", err)
	}

	versionsCol, err := app.FindCollectionByNameOrId("versions")
	if err != nil {
		return fmt.Errorf("seed: find versions collection: %w", err)
	}
	version := core.NewRecord(versionsCol)
	version.Set("proposal", proposal.Id)
	version.Set("number", 1)
	if err := app.Save(version); err != nil {
		return fmt.Errorf("seed: save version: %w", err)
	}

	proposal.Set("working_version", version.Id)
	if err := app.Save(proposal); err != nil {
		return fmt.Errorf("seed: link working version: %w", err)
	}

	if err := seedWorkplan(app, version.Id); err != nil {
		return err
	}
	if err := seedProductList(app, version.Id); err != nil {
		return err
	}

	log.Printf("Seeded demo proposal %s (version %s)", proposal.Id, version.Id)
	return nil
}

func seedWorkplan(app *pocketbase.PocketBase, versionID string) error {
	phasesCol, err := app.FindCollectionByNameOrId("phases")
	if err != nil {
		return fmt.Errorf("seed: find phases collection: %w", err)
	}
	ticketsCol, err := app.FindCollectionByNameOrId("tickets")
	if err != nil {
		return fmt.Errorf("seed: find tickets collection: %w", err)
	}
	tasksCol, err := app.FindCollectionByNameOrId("tasks")
	if err != nil {
		return fmt.Errorf("seed: find tasks collection: %w", err)
	}

	for _, pd := range seedPhases {
		var hours float64
		for _, td := range pd.tickets {
			hours += td.budgetHours
		}

		phase := core.NewRecord(phasesCol)
		phase.Set("version", versionID)
		phase.Set("description", pd.description)
		phase.Set("order", pd.order)
		phase.Set("hours", hours)
		phase.Set("visible", true)
		if err := app.Save(phase); err != nil {
			return fmt.Errorf("seed: save phase %q: %w", pd.description, err)
		}

		for _, td := range pd.tickets {
			ticket := core.NewRecord(ticketsCol)
			ticket.Set("phase", phase.Id)
			ticket.Set("summary", td.summary)
			ticket.Set("order", td.order)
			ticket.Set("budget_hours", td.budgetHours)
			ticket.Set("visible", true)
			if err := app.Save(ticket); err != nil {
				return fmt.Errorf("seed: save ticket %q: %w", td.summary, err)
			}

			for _, taskD := range td.tasks {
				task := core.NewRecord(tasksCol)
				task.Set("ticket", ticket.Id)
				task.Set("summary", taskD.summary)
				task.Set("notes", taskD.notes)
				task.Set("priority", taskD.priority)
				task.Set("visible", true)
				if err := app.Save(task); err != nil {
					return fmt.Errorf("seed: save task %q: %w", taskD.summary, err)
				}
			}
		}
	}
	return nil
}

func seedProductList(app *pocketbase.PocketBase, versionID string) error {
	productsCol, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return fmt.Errorf("seed: find products collection: %w", err)
	}

	for _, pd := range seedProducts {
		product := core.NewRecord(productsCol)
		product.Set("version", versionID)
		product.Set("unique_id", uuid.NewString())
		product.Set("sequence_number", pd.sequenceNumber)
		product.Set("identifier", pd.identifier)
		product.Set("description", pd.description)
		product.Set("category", pd.category)
		product.Set("quantity", pd.quantity)
		product.Set("cost", pd.cost)
		product.Set("price", pd.price)
		product.Set("extended_cost", pd.cost*pd.quantity)
		product.Set("extended_price", pd.price*pd.quantity)
		if err := app.Save(product); err != nil {
			return fmt.Errorf("seed: save product %q: %w", pd.identifier, err)
		}
	}
	return nil
}
