package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/manage"
	"proposalbuilder/services"
)

// dropRequest is the drop event posted by the builder. TemplateID names the
// catalog template for drops out of the templates zone; it is ignored for
// every other source.
type dropRequest struct {
	Event      services.DropEvent `json:"event"`
	TemplateID int                `json:"template_id,omitempty"`
}

// workplanResponse is the optimistic arrangement the builder renders while
// persistence settles.
type workplanResponse struct {
	Phases  []services.Phase `json:"phases"`
	Pending bool             `json:"pending"`
}

// HandleWorkplanDrop interprets one completed drag across the builder's
// droppable zones and applies the matching strategy: template expansion,
// same-phase ticket reorder, or phase reorder. The optimistic result is
// returned immediately; every sibling whose order changed is persisted as an
// unordered concurrent group.
func HandleWorkplanDrop(app *pocketbase.PocketBase, client manage.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versionID := e.Request.PathValue("versionId")

		var req dropRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "workplan_drop", err)
		}

		phases, err := loadVersionPhases(app, versionID)
		if err != nil {
			log.Printf("workplan_drop: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		session := services.NewPhaseSession(phases)
		defer session.Close()

		action := services.ResolveDrop(req.Event)
		switch action.Kind {
		case services.DropNoOp:
			// Dropped outside every zone, onto its own position, or an
			// unsupported combination. Leave state untouched.

		case services.DropTemplateInsert:
			arranged, err := insertTemplate(e, app, client, versionID, req.TemplateID, action.DestinationIndex, phases)
			if err != nil {
				log.Printf("workplan_drop: template insert: %v", err)
				return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Could not load template: %v", err))
			}
			if arranged != nil {
				session.Apply(services.PhaseMutation{NewPhases: arranged, Pending: true})
			}

		case services.DropTicketReorder:
			if action.PhaseIndex < 0 || action.PhaseIndex >= len(phases) {
				break
			}
			phase := phases[action.PhaseIndex]
			tickets := services.Reorder(phase.Tickets, action.SourceIndex, action.DestinationIndex)
			tickets = services.RenumberTickets(tickets)
			phase.Tickets = tickets

			session.Apply(services.PhaseMutation{UpdatedPhase: &phase, Pending: true})
			persistTicketOrders(e, app, tickets)

		case services.DropPhaseReorder:
			reordered := services.Reorder(phases, action.SourceIndex, action.DestinationIndex)
			reordered = services.RenumberPhases(reordered)

			session.Apply(services.PhaseMutation{UpdatedPhases: reordered, Pending: true})
			persistPhaseOrders(e, app, reordered)
		}

		snap := session.Snapshot()
		return e.JSON(http.StatusOK, workplanResponse{Phases: snap.Phases, Pending: snap.Pending})
	}
}

// persistPhaseOrders writes every phase's order field back to storage as an
// unordered group: all updates fire, then we wait for all. A single move can
// shift every sibling between the old and new position, so each one is
// written, not just the moved phase. Failures are logged and surfaced as a
// toast; the optimistic view stays as-is and reconciles on the next read.
func persistPhaseOrders(e *core.RequestEvent, app *pocketbase.PocketBase, phases []services.Phase) {
	var wg sync.WaitGroup
	errs := make(chan error, len(phases))

	for _, phase := range phases {
		wg.Add(1)
		go func(p services.Phase) {
			defer wg.Done()
			record, err := app.FindRecordById("phases", p.ID)
			if err != nil {
				errs <- fmt.Errorf("phase %s: %w", p.ID, err)
				return
			}
			record.Set("order", p.Order)
			if err := app.Save(record); err != nil {
				errs <- fmt.Errorf("phase %s: %w", p.ID, err)
			}
		}(phase)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		log.Printf("workplan_drop: could not persist phase order: %v", err)
		SetToast(e, "error", fmt.Sprintf("Could not save phase order: %v", err))
	}
}

// persistTicketOrders is the ticket-level counterpart of persistPhaseOrders.
// Parentage is never touched here: a same-list reorder only rewrites order.
func persistTicketOrders(e *core.RequestEvent, app *pocketbase.PocketBase, tickets []services.Ticket) {
	var wg sync.WaitGroup
	errs := make(chan error, len(tickets))

	for _, ticket := range tickets {
		wg.Add(1)
		go func(t services.Ticket) {
			defer wg.Done()
			record, err := app.FindRecordById("tickets", t.ID)
			if err != nil {
				errs <- fmt.Errorf("ticket %s: %w", t.ID, err)
				return
			}
			record.Set("order", t.Order)
			if err := app.Save(record); err != nil {
				errs <- fmt.Errorf("ticket %s: %w", t.ID, err)
			}
		}(ticket)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		log.Printf("workplan_drop: could not persist ticket order: %v", err)
		SetToast(e, "error", fmt.Sprintf("Could not save ticket order: %v", err))
	}
}
