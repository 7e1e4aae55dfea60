// Package manage is the adapter for the external practice-management system
// a signed proposal is converted into (opportunity, then project, then
// project phases).
package manage

import "proposalbuilder/services"

// OpportunityInput carries the fields submitted when opening an opportunity.
// StatusID and TypeID are the two fixed classification fields; zero values
// fall back to the configured defaults.
type OpportunityInput struct {
	Name     string `json:"name"`
	StatusID int    `json:"status_id"`
	TypeID   int    `json:"type_id"`
}

// ProjectInput carries the fields submitted when opening a project against
// an existing opportunity. EstimatedStart and EstimatedEnd are ISO-8601
// timestamps and are mandatory.
type ProjectInput struct {
	Name           string `json:"name"`
	BoardID        int    `json:"board_id"`
	StatusID       int    `json:"status_id"`
	EstimatedStart string `json:"estimated_start"`
	EstimatedEnd   string `json:"estimated_end"`
	OpportunityID  int    `json:"opportunity_id"`
}

// Project is the external system's record of a created project.
type Project struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	EstimatedStart string `json:"estimatedStart,omitempty"`
	EstimatedEnd   string `json:"estimatedEnd,omitempty"`
}

// Status is a catalog entry for opportunity or project statuses.
type Status struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// OpportunityType is a catalog entry for opportunity classification.
type OpportunityType struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Board is a catalog entry for project boards.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ServiceTicket is an external ticket a proposal can be raised from.
type ServiceTicket struct {
	ID      int    `json:"id"`
	Summary string `json:"summary"`
}

// ProjectTemplate is a read-only catalog entry whose workplan can be stamped
// into a proposal version.
type ProjectTemplate struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Workplan    *services.Workplan `json:"workplan,omitempty"`
}
