package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/manage"
)

// Catalog lookups proxied straight from the external system: templates for
// the builder's drag source, service tickets for the new-proposal form, and
// the status/type/board enumerations for the conversion modal.

// HandleCatalogTemplates lists the project templates with their workplans.
func HandleCatalogTemplates(client manage.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		templates, err := client.ProjectTemplates(e.Request.Context())
		if err != nil {
			log.Printf("catalog_templates: %v", err)
			return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Could not load templates: %v", err))
		}
		return e.JSON(http.StatusOK, templates)
	}
}

// HandleCatalogServiceTickets lists tickets a proposal can be raised from.
func HandleCatalogServiceTickets(client manage.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tickets, err := client.ServiceTickets(e.Request.Context())
		if err != nil {
			log.Printf("catalog_service_tickets: %v", err)
			return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Could not load service tickets: %v", err))
		}
		return e.JSON(http.StatusOK, tickets)
	}
}

// HandleCatalogEnums lists the opportunity/project enumerations the
// conversion modal's selects are filled from.
func HandleCatalogEnums(client manage.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ctx := e.Request.Context()

		opportunityStatuses, err := client.OpportunityStatuses(ctx)
		if err != nil {
			log.Printf("catalog_enums: opportunity statuses: %v", err)
			return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Could not load enumerations: %v", err))
		}
		opportunityTypes, err := client.OpportunityTypes(ctx)
		if err != nil {
			log.Printf("catalog_enums: opportunity types: %v", err)
			return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Could not load enumerations: %v", err))
		}
		projectStatuses, err := client.ProjectStatuses(ctx)
		if err != nil {
			log.Printf("catalog_enums: project statuses: %v", err)
			return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Could not load enumerations: %v", err))
		}
		projectBoards, err := client.ProjectBoards(ctx)
		if err != nil {
			log.Printf("catalog_enums: project boards: %v", err)
			return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Could not load enumerations: %v", err))
		}

		return e.JSON(http.StatusOK, map[string]any{
			"opportunity_statuses": opportunityStatuses,
			"opportunity_types":    opportunityTypes,
			"project_statuses":     projectStatuses,
			"project_boards":       projectBoards,
		})
	}
}
