package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/manage"
)

// proposalCreateRequest is the new-proposal form payload. TemplatesUsed
// lists catalog templates whose workplans are expanded into the first
// working version at creation time.
type proposalCreateRequest struct {
	Name          string  `json:"name"`
	ServiceTicket int     `json:"service_ticket,omitempty"`
	LaborRate     float64 `json:"labor_rate,omitempty"`
	TemplatesUsed []int   `json:"templates_used,omitempty"`
}

// HandleProposalCreate creates a proposal with its first working version and
// expands any selected templates into it.
func HandleProposalCreate(app *pocketbase.PocketBase, client manage.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req proposalCreateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "proposal_create", err)
		}
		if req.Name == "" {
			return ErrorToast(e, http.StatusBadRequest, "Proposal name is required")
		}
		if req.LaborRate == 0 {
			req.LaborRate = 150
		}

		proposalsCol, err := app.FindCollectionByNameOrId("proposals")
		if err != nil {
			log.Printf("proposal_create: could not find proposals collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		proposal := core.NewRecord(proposalsCol)
		proposal.Set("name", req.Name)
		proposal.Set("status", "building")
		proposal.Set("labor_rate", req.LaborRate)
		if req.ServiceTicket != 0 {
			proposal.Set("service_ticket", req.ServiceTicket)
		}
		if len(req.TemplatesUsed) > 0 {
			proposal.Set("templates_used", req.TemplatesUsed)
		}
		if err := app.Save(proposal); err != nil {
			log.Printf("proposal_create: could not save proposal: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Couldn't create proposal")
		}

		versionsCol, err := app.FindCollectionByNameOrId("versions")
		if err != nil {
			log.Printf("proposal_create: could not find versions collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		version := core.NewRecord(versionsCol)
		version.Set("proposal", proposal.Id)
		version.Set("number", 1)
		if err := app.Save(version); err != nil {
			log.Printf("proposal_create: could not save version: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Couldn't create proposal version")
		}

		proposal.Set("working_version", version.Id)
		if err := app.Save(proposal); err != nil {
			log.Printf("proposal_create: could not link working version: %v", err)
		}

		// Expand each selected template at the end of the (growing) phase
		// list. A template without a workplan contributes nothing.
		for _, templateID := range req.TemplatesUsed {
			phases, err := loadVersionPhases(app, version.Id)
			if err != nil {
				log.Printf("proposal_create: %v", err)
				break
			}
			if _, err := insertTemplate(e, app, client, version.Id, templateID, len(phases), phases); err != nil {
				log.Printf("proposal_create: could not expand template %d: %v", templateID, err)
				SetToast(e, "error", "Couldn't apply one of the selected templates")
			}
		}

		return e.JSON(http.StatusCreated, map[string]string{
			"id":              proposal.Id,
			"working_version": version.Id,
		})
	}
}
