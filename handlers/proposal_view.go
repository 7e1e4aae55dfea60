package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// proposalView is the nested graph the builder pages work from: the proposal
// row, its working version's full phase tree, its products, and the money
// totals.
type proposalView struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Status          string                  `json:"status"`
	LaborRate       float64                 `json:"labor_rate"`
	LaborHours      float64                 `json:"labor_hours"`
	SalesHours      float64                 `json:"sales_hours"`
	ManagementHours float64                 `json:"management_hours"`
	OpportunityID   int                     `json:"opportunity_id,omitempty"`
	ProjectID       int                     `json:"project_id,omitempty"`
	WorkingVersion  string                  `json:"working_version"`
	Phases          []services.Phase        `json:"phases"`
	Products        []services.Product      `json:"products"`
	Totals          services.ProposalTotals `json:"totals"`
}

// HandleProposalView returns the full nested proposal graph.
func HandleProposalView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposal, err := app.FindRecordById("proposals", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		view := proposalView{
			ID:              proposal.Id,
			Name:            proposal.GetString("name"),
			Status:          proposal.GetString("status"),
			LaborRate:       proposal.GetFloat("labor_rate"),
			SalesHours:      proposal.GetFloat("sales_hours"),
			ManagementHours: proposal.GetFloat("management_hours"),
			OpportunityID:   proposal.GetInt("opportunity_id"),
			ProjectID:       proposal.GetInt("project_id"),
			WorkingVersion:  proposal.GetString("working_version"),
		}

		if view.WorkingVersion != "" {
			phases, err := loadVersionPhases(app, view.WorkingVersion)
			if err != nil {
				log.Printf("proposal_view: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			products, err := loadVersionProducts(app, view.WorkingVersion)
			if err != nil {
				log.Printf("proposal_view: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			view.Phases = phases
			view.Products = products
			view.LaborHours = services.TotalHours(phases) + view.SalesHours + view.ManagementHours
			view.Totals = services.CalcProposalTotals(products, view.LaborHours, view.LaborRate)
		}

		return e.JSON(http.StatusOK, view)
	}
}

// HandleProposalList returns every proposal, newest first.
func HandleProposalList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("proposals", "id != ''", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("proposal_list: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		type row struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Status  string `json:"status"`
			Created string `json:"created"`
		}
		rows := make([]row, 0, len(records))
		for _, r := range records {
			rows = append(rows, row{
				ID:      r.Id,
				Name:    r.GetString("name"),
				Status:  r.GetString("status"),
				Created: r.GetString("created"),
			})
		}
		return e.JSON(http.StatusOK, rows)
	}
}

// HandleProposalDelete removes a proposal; versions, phases, tickets, tasks,
// sections and products cascade.
func HandleProposalDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("proposals", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("proposal_delete: could not delete %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		SetToast(e, "success", "Proposal deleted")
		return e.NoContent(http.StatusNoContent)
	}
}
