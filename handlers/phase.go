package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type phaseCreateRequest struct {
	Description string `json:"description"`
	Order       int    `json:"order,omitempty"`
}

// HandlePhaseCreate appends a phase to a version's workplan. Without an
// explicit order it lands after the current last phase.
func HandlePhaseCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versionID := e.Request.PathValue("versionId")

		var req phaseCreateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "phase_create", err)
		}
		if req.Description == "" {
			req.Description = "New Phase"
		}
		if req.Order == 0 {
			existing, err := app.FindRecordsByFilter(
				"phases", "version = {:version}", "", 0, 0,
				map[string]any{"version": versionID})
			if err != nil {
				log.Printf("phase_create: could not count phases: %v", err)
			}
			req.Order = len(existing) + 1
		}

		col, err := app.FindCollectionByNameOrId("phases")
		if err != nil {
			log.Printf("phase_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("version", versionID)
		record.Set("description", req.Description)
		record.Set("order", req.Order)
		record.Set("hours", 0)
		record.Set("visible", true)
		if err := app.Save(record); err != nil {
			log.Printf("phase_create: could not save phase: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Couldn't create phase")
		}

		return e.JSON(http.StatusCreated, phaseFromRecord(record))
	}
}

type phaseUpdateRequest struct {
	Description *string  `json:"description,omitempty"`
	Order       *int     `json:"order,omitempty"`
	Hours       *float64 `json:"hours,omitempty"`
	Visible     *bool    `json:"visible,omitempty"`
}

// HandlePhaseUpdate applies a partial-field update to a phase.
func HandlePhaseUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("phases", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Phase not found")
		}

		var req phaseUpdateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "phase_update", err)
		}
		if req.Description != nil {
			record.Set("description", *req.Description)
		}
		if req.Order != nil {
			record.Set("order", *req.Order)
		}
		if req.Hours != nil {
			record.Set("hours", *req.Hours)
		}
		if req.Visible != nil {
			record.Set("visible", *req.Visible)
		}

		if err := app.Save(record); err != nil {
			log.Printf("phase_update: could not save %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, phaseFromRecord(record))
	}
}

// HandlePhaseDelete removes a phase; its tickets and tasks cascade.
func HandlePhaseDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("phases", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Phase not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("phase_delete: could not delete %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		SetToast(e, "success", "Phase deleted")
		return e.NoContent(http.StatusNoContent)
	}
}
