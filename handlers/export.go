package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// buildExportData loads a proposal and its working version into the flat
// structure the export generators consume.
func buildExportData(app *pocketbase.PocketBase, proposalID string) (services.ProposalExport, error) {
	proposal, err := app.FindRecordById("proposals", proposalID)
	if err != nil {
		return services.ProposalExport{}, fmt.Errorf("proposal not found: %w", err)
	}

	versionID := proposal.GetString("working_version")
	if versionID == "" {
		return services.ProposalExport{}, fmt.Errorf("proposal %s has no working version", proposalID)
	}

	phases, err := loadVersionPhases(app, versionID)
	if err != nil {
		return services.ProposalExport{}, fmt.Errorf("load phases: %w", err)
	}

	products, err := loadVersionProducts(app, versionID)
	if err != nil {
		return services.ProposalExport{}, fmt.Errorf("load products: %w", err)
	}

	laborHours := services.TotalHours(phases) +
		proposal.GetFloat("sales_hours") +
		proposal.GetFloat("management_hours")
	laborRate := proposal.GetFloat("labor_rate")

	return services.ProposalExport{
		Name:       proposal.GetString("name"),
		Status:     proposal.GetString("status"),
		LaborRate:  laborRate,
		LaborHours: laborHours,
		Phases:     phases,
		Products:   products,
		Totals:     services.CalcProposalTotals(products, laborHours, laborRate),
	}, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleProposalExportExcel returns a handler that generates and downloads an
// Excel workbook for a proposal's working version.
func HandleProposalExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if proposalID == "" {
			return e.String(http.StatusBadRequest, "Missing proposal ID")
		}

		data, err := buildExportData(app, proposalID)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return e.String(http.StatusNotFound, "Proposal not found")
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Proposal_%s_%d.xlsx", sanitizeFilename(data.Name), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleProposalExportPDF returns a handler that generates and downloads a
// quote PDF for a proposal's working version.
func HandleProposalExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if proposalID == "" {
			return e.String(http.StatusBadRequest, "Missing proposal ID")
		}

		data, err := buildExportData(app, proposalID)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Proposal not found")
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Proposal_%s_%d.pdf", sanitizeFilename(data.Name), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
