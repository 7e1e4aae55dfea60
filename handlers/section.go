package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

type sectionCreateRequest struct {
	Name  string `json:"name"`
	Order int    `json:"order,omitempty"`
}

// HandleSectionCreate adds a named product grouping to a version.
func HandleSectionCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versionID := e.Request.PathValue("versionId")

		var req sectionCreateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "section_create", err)
		}
		if req.Name == "" {
			return ErrorToast(e, http.StatusBadRequest, "Section name is required")
		}

		col, err := app.FindCollectionByNameOrId("sections")
		if err != nil {
			log.Printf("section_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("version", versionID)
		record.Set("name", req.Name)
		record.Set("order", req.Order)
		if err := app.Save(record); err != nil {
			log.Printf("section_create: could not save section: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Couldn't create section")
		}

		return e.JSON(http.StatusCreated, services.Section{
			ID:      record.Id,
			Version: versionID,
			Name:    req.Name,
			Order:   req.Order,
		})
	}
}

type sectionUpdateRequest struct {
	Name  *string `json:"name,omitempty"`
	Order *int    `json:"order,omitempty"`
}

// HandleSectionUpdate renames or reorders a section.
func HandleSectionUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("sections", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Section not found")
		}

		var req sectionUpdateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "section_update", err)
		}
		if req.Name != nil {
			record.Set("name", *req.Name)
		}
		if req.Order != nil {
			record.Set("order", *req.Order)
		}

		if err := app.Save(record); err != nil {
			log.Printf("section_update: could not save %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleSectionDelete removes a section. Products keep existing; they just
// lose their grouping.
func HandleSectionDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("sections", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Section not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("section_delete: could not delete %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		SetToast(e, "success", "Section deleted")
		return e.NoContent(http.StatusNoContent)
	}
}
