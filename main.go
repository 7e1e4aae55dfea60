package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/collections"
	"proposalbuilder/handlers"
	"proposalbuilder/manage"
)

func main() {
	app := pocketbase.New()

	client := manage.NewClient(manage.LoadConfig())

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Proposal CRUD ────────────────────────────────────────
		se.Router.GET("/proposals", handlers.HandleProposalList(app))
		se.Router.POST("/proposals", handlers.HandleProposalCreate(app, client))
		se.Router.GET("/proposals/{id}", handlers.HandleProposalView(app))
		se.Router.POST("/proposals/{id}/settings", handlers.HandleProposalSettingsSave(app))
		se.Router.DELETE("/proposals/{id}", handlers.HandleProposalDelete(app))

		// ── Proposal exports ─────────────────────────────────────
		se.Router.GET("/proposals/{id}/export/excel", handlers.HandleProposalExportExcel(app))
		se.Router.GET("/proposals/{id}/export/pdf", handlers.HandleProposalExportPDF(app))

		// ── Conversion pipeline ──────────────────────────────────
		se.Router.GET("/proposals/{id}/conversion", handlers.HandleConversionStatus(app, client))
		se.Router.POST("/proposals/{id}/conversion/opportunity", handlers.HandleConversionOpportunity(app, client))
		se.Router.POST("/proposals/{id}/conversion/project", handlers.HandleConversionProject(app, client))

		// ── Versions ─────────────────────────────────────────────
		se.Router.POST("/versions/{versionId}/duplicate", handlers.HandleVersionDuplicate(app))

		// ── Workplan ─────────────────────────────────────────────
		se.Router.GET("/versions/{versionId}/workplan", handlers.HandleWorkplanView(app))
		se.Router.POST("/versions/{versionId}/workplan/drop", handlers.HandleWorkplanDrop(app, client))
		se.Router.POST("/versions/{versionId}/workplan/templates", handlers.HandleTemplateInsert(app, client))
		se.Router.POST("/versions/{versionId}/phases", handlers.HandlePhaseCreate(app))
		se.Router.POST("/phases/{id}", handlers.HandlePhaseUpdate(app))
		se.Router.DELETE("/phases/{id}", handlers.HandlePhaseDelete(app))
		se.Router.POST("/phases/{phaseId}/tickets", handlers.HandleTicketCreate(app))
		se.Router.POST("/tickets/{id}", handlers.HandleTicketUpdate(app))
		se.Router.DELETE("/tickets/{id}", handlers.HandleTicketDelete(app))
		se.Router.POST("/tickets/{ticketId}/tasks", handlers.HandleTaskCreate(app))
		se.Router.POST("/tasks/{id}", handlers.HandleTaskUpdate(app))
		se.Router.DELETE("/tasks/{id}", handlers.HandleTaskDelete(app))

		// ── Products ─────────────────────────────────────────────
		se.Router.POST("/versions/{versionId}/sections", handlers.HandleSectionCreate(app))
		se.Router.POST("/sections/{id}", handlers.HandleSectionUpdate(app))
		se.Router.DELETE("/sections/{id}", handlers.HandleSectionDelete(app))
		se.Router.POST("/versions/{versionId}/products", handlers.HandleProductCreate(app))
		se.Router.POST("/products/{uniqueId}", handlers.HandleProductUpdate(app))
		se.Router.DELETE("/products/{uniqueId}", handlers.HandleProductDelete(app))

		// ── Manage catalog lookups ───────────────────────────────
		se.Router.GET("/catalog/templates", handlers.HandleCatalogTemplates(client))
		se.Router.GET("/catalog/service-tickets", handlers.HandleCatalogServiceTickets(client))
		se.Router.GET("/catalog/enums", handlers.HandleCatalogEnums(client))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
