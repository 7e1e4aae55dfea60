package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the proposals, versions, phases,
// tickets, tasks, sections and products collections exist. Deletes cascade
// down the tree: removing a version removes its phases, tickets, tasks,
// sections and products.
func Setup(app *pocketbase.PocketBase) {
	proposals := ensureCollection(app, "proposals", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"building", "inProgress", "signed", "canceled"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "labor_rate", Required: true})
		c.Fields.Add(&core.NumberField{Name: "labor_hours", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sales_hours", Required: false})
		c.Fields.Add(&core.NumberField{Name: "management_hours", Required: false})
		c.Fields.Add(&core.NumberField{Name: "service_ticket", Required: false})
		c.Fields.Add(&core.NumberField{Name: "opportunity_id", Required: false})
		c.Fields.Add(&core.NumberField{Name: "project_id", Required: false})
		c.Fields.Add(&core.TextField{Name: "working_version", Required: false})
		c.Fields.Add(&core.JSONField{Name: "approval_info", Required: false})
		c.Fields.Add(&core.JSONField{Name: "templates_used", Required: false})
		c.Fields.Add(&core.DateField{Name: "expiration_date", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	versions := ensureCollection(app, "versions", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "proposal",
			Required:      true,
			CollectionId:  proposals.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "number", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	phases := ensureCollection(app, "phases", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "version",
			Required:      true,
			CollectionId:  versions.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.NumberField{Name: "order", Required: true})
		c.Fields.Add(&core.NumberField{Name: "hours", Required: false})
		c.Fields.Add(&core.BoolField{Name: "visible"})
		c.Fields.Add(&core.NumberField{Name: "reference_id", Required: false})
	})

	tickets := ensureCollection(app, "tickets", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "phase",
			Required:      true,
			CollectionId:  phases.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "summary", Required: true})
		c.Fields.Add(&core.NumberField{Name: "order", Required: true})
		c.Fields.Add(&core.NumberField{Name: "budget_hours", Required: false})
		c.Fields.Add(&core.BoolField{Name: "visible"})
		c.Fields.Add(&core.NumberField{Name: "reference_id", Required: false})
	})

	ensureCollection(app, "tasks", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "ticket",
			Required:      true,
			CollectionId:  tickets.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "summary", Required: true})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.NumberField{Name: "priority", Required: false})
		c.Fields.Add(&core.BoolField{Name: "visible"})
		c.Fields.Add(&core.NumberField{Name: "reference_id", Required: false})
	})

	sections := ensureCollection(app, "sections", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "version",
			Required:      true,
			CollectionId:  versions.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "order", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "products", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "version",
			Required:      true,
			CollectionId:  versions.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		// unique_id is the stable identity for optimistic merge/removal;
		// catalog_item may be absent for rows not yet synced.
		c.Fields.Add(&core.TextField{Name: "unique_id", Required: true})
		c.Fields.Add(&core.NumberField{Name: "catalog_item", Required: false})
		c.Fields.Add(&core.TextField{Name: "parent", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:          "section",
			Required:      false,
			CollectionId:  sections.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "identifier", Required: false})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.TextField{Name: "vendor", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit_of_measure", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.Fields.Add(&core.NumberField{Name: "cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "calculated_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "calculated_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "extended_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "extended_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sequence_number", Required: false})
		c.Fields.Add(&core.BoolField{Name: "recurring_flag"})
		c.Fields.Add(&core.NumberField{Name: "recurring_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "recurring_bill_cycle", Required: false})
		c.Fields.Add(&core.TextField{Name: "recurring_cycle_type", Required: false})
		c.Fields.Add(&core.BoolField{Name: "taxable_flag"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
