package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleVersionDuplicate snapshots a version: a new version record is
// created with the next sequence number and the source's phases, tickets,
// tasks, sections and products are copied into it. The proposal's working
// version moves to the copy.
func HandleVersionDuplicate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		source, err := app.FindRecordById("versions", e.Request.PathValue("versionId"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Version not found")
		}
		proposalID := source.GetString("proposal")

		versionsCol, err := app.FindCollectionByNameOrId("versions")
		if err != nil {
			log.Printf("version_duplicate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		copyRecord := core.NewRecord(versionsCol)
		copyRecord.Set("proposal", proposalID)
		copyRecord.Set("number", source.GetInt("number")+1)
		if err := app.Save(copyRecord); err != nil {
			log.Printf("version_duplicate: could not save version: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Couldn't duplicate version")
		}

		if err := copyWorkplan(app, source.Id, copyRecord.Id); err != nil {
			log.Printf("version_duplicate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Couldn't duplicate workplan")
		}
		if err := copyProducts(app, source.Id, copyRecord.Id); err != nil {
			log.Printf("version_duplicate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Couldn't duplicate products")
		}

		proposal, err := app.FindRecordById("proposals", proposalID)
		if err == nil {
			proposal.Set("working_version", copyRecord.Id)
			if err := app.Save(proposal); err != nil {
				log.Printf("version_duplicate: could not move working version: %v", err)
			}
		}

		SetToast(e, "success", "Version duplicated")
		return e.JSON(http.StatusCreated, map[string]any{
			"id":     copyRecord.Id,
			"number": copyRecord.GetInt("number"),
		})
	}
}

func copyWorkplan(app *pocketbase.PocketBase, sourceID, targetID string) error {
	phases, err := loadVersionPhases(app, sourceID)
	if err != nil {
		return err
	}
	for i := range phases {
		phases[i].Version = targetID
	}
	_, err = persistCreatedPhases(app, phases)
	return err
}

func copyProducts(app *pocketbase.PocketBase, sourceID, targetID string) error {
	records, err := app.FindRecordsByFilter(
		"products", "version = {:version}", "+sequence_number", 0, 0,
		map[string]any{"version": sourceID})
	if err != nil {
		return err
	}

	productsCol, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return err
	}

	// Fresh unique ids for the copies, with bundle parentage remapped onto
	// the new identities.
	remapped := make(map[string]string, len(records))
	for _, r := range records {
		remapped[r.GetString("unique_id")] = uuid.NewString()
	}

	for _, r := range records {
		clone := core.NewRecord(productsCol)
		for name, value := range r.FieldsData() {
			if name == "id" || name == "created" {
				continue
			}
			clone.Set(name, value)
		}
		clone.Set("version", targetID)
		clone.Set("unique_id", remapped[r.GetString("unique_id")])
		if parent := r.GetString("parent"); parent != "" {
			clone.Set("parent", remapped[parent])
		}
		if err := app.Save(clone); err != nil {
			return err
		}
	}
	return nil
}
