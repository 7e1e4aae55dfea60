package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type taskCreateRequest struct {
	Summary  string `json:"summary"`
	Notes    string `json:"notes,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

// HandleTaskCreate adds a task to a ticket.
func HandleTaskCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ticketID := e.Request.PathValue("ticketId")

		var req taskCreateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "task_create", err)
		}
		if req.Summary == "" {
			return ErrorToast(e, http.StatusBadRequest, "Task summary is required")
		}

		col, err := app.FindCollectionByNameOrId("tasks")
		if err != nil {
			log.Printf("task_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("ticket", ticketID)
		record.Set("summary", req.Summary)
		record.Set("notes", req.Notes)
		record.Set("priority", req.Priority)
		record.Set("visible", true)
		if err := app.Save(record); err != nil {
			log.Printf("task_create: could not save task: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Couldn't create task")
		}

		return e.JSON(http.StatusCreated, taskFromRecord(record))
	}
}

type taskUpdateRequest struct {
	Summary  *string `json:"summary,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Priority *int    `json:"priority,omitempty"`
	Visible  *bool   `json:"visible,omitempty"`
}

// HandleTaskUpdate applies a partial-field update to a task.
func HandleTaskUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("tasks", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Task not found")
		}

		var req taskUpdateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "task_update", err)
		}
		if req.Summary != nil {
			record.Set("summary", *req.Summary)
		}
		if req.Notes != nil {
			record.Set("notes", *req.Notes)
		}
		if req.Priority != nil {
			record.Set("priority", *req.Priority)
		}
		if req.Visible != nil {
			record.Set("visible", *req.Visible)
		}

		if err := app.Save(record); err != nil {
			log.Printf("task_update: could not save %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, taskFromRecord(record))
	}
}

// HandleTaskDelete removes a task.
func HandleTaskDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("tasks", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Task not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("task_delete: could not delete %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		SetToast(e, "success", "Task deleted")
		return e.NoContent(http.StatusNoContent)
	}
}
