package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type ticketCreateRequest struct {
	Summary     string  `json:"summary"`
	Order       int     `json:"order,omitempty"`
	BudgetHours float64 `json:"budget_hours,omitempty"`
}

// HandleTicketCreate appends a ticket to a phase and rolls the phase's
// aggregate hours up from its tickets.
func HandleTicketCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		phaseID := e.Request.PathValue("phaseId")

		var req ticketCreateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "ticket_create", err)
		}
		if req.Summary == "" {
			return ErrorToast(e, http.StatusBadRequest, "Ticket summary is required")
		}
		if req.Order == 0 {
			existing, err := app.FindRecordsByFilter(
				"tickets", "phase = {:phase}", "", 0, 0,
				map[string]any{"phase": phaseID})
			if err != nil {
				log.Printf("ticket_create: could not count tickets: %v", err)
			}
			req.Order = len(existing) + 1
		}

		col, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			log.Printf("ticket_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("phase", phaseID)
		record.Set("summary", req.Summary)
		record.Set("order", req.Order)
		record.Set("budget_hours", req.BudgetHours)
		record.Set("visible", true)
		if err := app.Save(record); err != nil {
			log.Printf("ticket_create: could not save ticket: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Couldn't create ticket")
		}

		recalcPhaseHours(app, phaseID)
		return e.JSON(http.StatusCreated, ticketFromRecord(record))
	}
}

type ticketUpdateRequest struct {
	Summary     *string  `json:"summary,omitempty"`
	Order       *int     `json:"order,omitempty"`
	BudgetHours *float64 `json:"budget_hours,omitempty"`
	Visible     *bool    `json:"visible,omitempty"`
}

// HandleTicketUpdate applies a partial-field update to a ticket. Changing
// the budget hours re-rolls the owning phase's aggregate.
func HandleTicketUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("tickets", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Ticket not found")
		}

		var req ticketUpdateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "ticket_update", err)
		}
		if req.Summary != nil {
			record.Set("summary", *req.Summary)
		}
		if req.Order != nil {
			record.Set("order", *req.Order)
		}
		if req.BudgetHours != nil {
			record.Set("budget_hours", *req.BudgetHours)
		}
		if req.Visible != nil {
			record.Set("visible", *req.Visible)
		}

		if err := app.Save(record); err != nil {
			log.Printf("ticket_update: could not save %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if req.BudgetHours != nil {
			recalcPhaseHours(app, record.GetString("phase"))
		}
		return e.JSON(http.StatusOK, ticketFromRecord(record))
	}
}

// HandleTicketDelete removes a ticket (tasks cascade) and re-rolls the
// phase's hours.
func HandleTicketDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("tickets", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Ticket not found")
		}
		phaseID := record.GetString("phase")

		if err := app.Delete(record); err != nil {
			log.Printf("ticket_delete: could not delete %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		recalcPhaseHours(app, phaseID)
		SetToast(e, "success", "Ticket deleted")
		return e.NoContent(http.StatusNoContent)
	}
}

// recalcPhaseHours rewrites a phase's hours field as the sum of its
// tickets' budget hours. Failures are logged; the next full read fixes the
// aggregate anyway.
func recalcPhaseHours(app *pocketbase.PocketBase, phaseID string) {
	phase, err := app.FindRecordById("phases", phaseID)
	if err != nil {
		log.Printf("recalc_phase_hours: phase %s: %v", phaseID, err)
		return
	}
	tickets, err := app.FindRecordsByFilter(
		"tickets", "phase = {:phase}", "", 0, 0,
		map[string]any{"phase": phaseID})
	if err != nil {
		log.Printf("recalc_phase_hours: tickets for %s: %v", phaseID, err)
		return
	}

	var hours float64
	for _, t := range tickets {
		hours += t.GetFloat("budget_hours")
	}
	phase.Set("hours", hours)
	if err := app.Save(phase); err != nil {
		log.Printf("recalc_phase_hours: could not save %s: %v", phaseID, err)
	}
}
