package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// proposalSettingsRequest carries the partial-field update from the settings
// form. Pointers distinguish "leave unchanged" from explicit zeroes.
type proposalSettingsRequest struct {
	Name            *string  `json:"name,omitempty"`
	Status          *string  `json:"status,omitempty"`
	LaborRate       *float64 `json:"labor_rate,omitempty"`
	SalesHours      *float64 `json:"sales_hours,omitempty"`
	ManagementHours *float64 `json:"management_hours,omitempty"`
	ServiceTicket   *int     `json:"service_ticket,omitempty"`
	ApprovalInfo    any      `json:"approval_info,omitempty"`
}

// HandleProposalSettingsSave applies a partial update to a proposal.
func HandleProposalSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("proposals", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		var req proposalSettingsRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "proposal_settings", err)
		}

		if req.Name != nil {
			record.Set("name", *req.Name)
		}
		if req.Status != nil {
			record.Set("status", *req.Status)
		}
		if req.LaborRate != nil {
			record.Set("labor_rate", *req.LaborRate)
		}
		if req.SalesHours != nil {
			record.Set("sales_hours", *req.SalesHours)
		}
		if req.ManagementHours != nil {
			record.Set("management_hours", *req.ManagementHours)
		}
		if req.ServiceTicket != nil {
			record.Set("service_ticket", *req.ServiceTicket)
		}
		if req.ApprovalInfo != nil {
			record.Set("approval_info", req.ApprovalInfo)
		}

		if err := app.Save(record); err != nil {
			log.Printf("proposal_settings: could not save %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Proposal updated")
		return e.NoContent(http.StatusNoContent)
	}
}
