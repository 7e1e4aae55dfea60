package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleWorkplanView returns a version's full phase tree, sorted for
// display. Optimistic client state is always rebuilt from this read.
func HandleWorkplanView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versionID := e.Request.PathValue("versionId")

		phases, err := loadVersionPhases(app, versionID)
		if err != nil {
			log.Printf("workplan_view: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, workplanResponse{Phases: phases})
	}
}
