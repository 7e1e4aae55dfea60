package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/manage"
	"proposalbuilder/services"
)

// templateInsertRequest asks for a catalog template to be stamped into the
// version's phase list at a 0-based destination index.
type templateInsertRequest struct {
	TemplateID       int `json:"template_id"`
	DestinationIndex int `json:"destination_index"`
}

// HandleTemplateInsert bulk-inserts a template's workplan into a version
// outside of drag-and-drop (the "apply template" action on the catalog).
func HandleTemplateInsert(app *pocketbase.PocketBase, client manage.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versionID := e.Request.PathValue("versionId")

		var req templateInsertRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "template_insert", err)
		}

		phases, err := loadVersionPhases(app, versionID)
		if err != nil {
			log.Printf("template_insert: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		arranged, err := insertTemplate(e, app, client, versionID, req.TemplateID, req.DestinationIndex, phases)
		if err != nil {
			log.Printf("template_insert: %v", err)
			return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Could not load template: %v", err))
		}
		if arranged == nil {
			// Template carries no workplan: nothing to insert, nothing to persist.
			arranged = phases
		}

		return e.JSON(http.StatusOK, workplanResponse{Phases: arranged, Pending: arranged != nil})
	}
}

// insertTemplate expands a catalog template at destinationIndex and persists
// the result: new phases (with their tickets and tasks) are created
// sequentially, then every pre-existing phase at or after the insertion
// point has its order shifted up by the inserted count, persisted as one
// concurrent group. The returned slice is the full new arrangement; nil
// means the template had no workplan and nothing happened.
func insertTemplate(e *core.RequestEvent, app *pocketbase.PocketBase, client manage.Client, versionID string, templateID, destinationIndex int, phases []services.Phase) ([]services.Phase, error) {
	template, err := client.ProjectTemplate(e.Request.Context(), templateID)
	if err != nil {
		return nil, err
	}

	if destinationIndex < 0 {
		destinationIndex = 0
	}
	if destinationIndex > len(phases) {
		destinationIndex = len(phases)
	}

	created := services.PhasesFromWorkplan(template.Workplan, versionID, destinationIndex)
	if created == nil {
		return nil, nil
	}

	persisted, err := persistCreatedPhases(app, created)
	if err != nil {
		return nil, err
	}

	// Shift the original, un-reordered tail; shifting already-shifted
	// entries would compound the offsets.
	tail := services.ShiftTail(phases, destinationIndex, len(persisted))
	persistPhaseOrders(e, app, tail)

	arranged := make([]services.Phase, 0, len(phases)+len(persisted))
	arranged = append(arranged, phases[:destinationIndex]...)
	arranged = append(arranged, persisted...)
	arranged = append(arranged, tail...)
	return arranged, nil
}

// persistCreatedPhases saves synthesized phases with their nested tickets
// and tasks. Storage assigns the durable ids, so the returned entities carry
// the record ids in place of the provisional ones.
func persistCreatedPhases(app *pocketbase.PocketBase, created []services.Phase) ([]services.Phase, error) {
	phasesCol, err := app.FindCollectionByNameOrId("phases")
	if err != nil {
		return nil, fmt.Errorf("find phases collection: %w", err)
	}
	ticketsCol, err := app.FindCollectionByNameOrId("tickets")
	if err != nil {
		return nil, fmt.Errorf("find tickets collection: %w", err)
	}
	tasksCol, err := app.FindCollectionByNameOrId("tasks")
	if err != nil {
		return nil, fmt.Errorf("find tasks collection: %w", err)
	}

	out := make([]services.Phase, 0, len(created))
	for _, phase := range created {
		phaseRecord := core.NewRecord(phasesCol)
		phaseRecord.Set("version", phase.Version)
		phaseRecord.Set("description", phase.Description)
		phaseRecord.Set("order", phase.Order)
		phaseRecord.Set("hours", phase.Hours)
		phaseRecord.Set("visible", phase.Visible)
		if err := app.Save(phaseRecord); err != nil {
			return nil, fmt.Errorf("save phase %q: %w", phase.Description, err)
		}
		phase.ID = phaseRecord.Id

		tickets := make([]services.Ticket, 0, len(phase.Tickets))
		for _, ticket := range phase.Tickets {
			ticketRecord := core.NewRecord(ticketsCol)
			ticketRecord.Set("phase", phaseRecord.Id)
			ticketRecord.Set("summary", ticket.Summary)
			ticketRecord.Set("order", ticket.Order)
			ticketRecord.Set("budget_hours", ticket.BudgetHours)
			ticketRecord.Set("visible", ticket.Visible)
			if err := app.Save(ticketRecord); err != nil {
				return nil, fmt.Errorf("save ticket %q: %w", ticket.Summary, err)
			}
			ticket.ID = ticketRecord.Id
			ticket.Phase = phaseRecord.Id

			tasks := make([]services.Task, 0, len(ticket.Tasks))
			for _, task := range ticket.Tasks {
				taskRecord := core.NewRecord(tasksCol)
				taskRecord.Set("ticket", ticketRecord.Id)
				taskRecord.Set("summary", task.Summary)
				taskRecord.Set("notes", task.Notes)
				taskRecord.Set("priority", task.Priority)
				taskRecord.Set("visible", task.Visible)
				if err := app.Save(taskRecord); err != nil {
					return nil, fmt.Errorf("save task %q: %w", task.Summary, err)
				}
				task.ID = taskRecord.Id
				task.Ticket = ticketRecord.Id
				tasks = append(tasks, task)
			}
			ticket.Tasks = tasks
			tickets = append(tickets, ticket)
		}
		phase.Tickets = tickets
		out = append(out, phase)
	}
	return out, nil
}
