package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// HandleProductCreate adds a pricing line item to a version. The stable
// unique_id is assigned here; the numeric catalog id may arrive later when
// the row syncs to the catalog.
func HandleProductCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		versionID := e.Request.PathValue("versionId")

		var req services.Product
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "product_create", err)
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		req.Version = versionID
		req.UniqueID = uuid.NewString()
		req = services.RecalculateProduct(req)

		col, err := app.FindCollectionByNameOrId("products")
		if err != nil {
			log.Printf("product_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		setProductFields(record, req)
		if err := app.Save(record); err != nil {
			log.Printf("product_create: could not save product: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Couldn't create product")
		}

		return e.JSON(http.StatusCreated, productFromRecord(record))
	}
}

type productUpdateRequest struct {
	Description     *string  `json:"description,omitempty"`
	Quantity        *float64 `json:"quantity,omitempty"`
	Cost            *float64 `json:"cost,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	CalculatedCost  *float64 `json:"calculated_cost,omitempty"`
	CalculatedPrice *float64 `json:"calculated_price,omitempty"`
	SequenceNumber  *int     `json:"sequence_number,omitempty"`
	Section         *string  `json:"section,omitempty"`
}

// HandleProductUpdate applies a partial update by unique_id and rewrites the
// derived extended price/cost in place.
func HandleProductUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := findProductByUniqueID(app, e.Request.PathValue("uniqueId"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Product not found")
		}

		var req productUpdateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "product_update", err)
		}
		if req.Description != nil {
			record.Set("description", *req.Description)
		}
		if req.Quantity != nil {
			record.Set("quantity", *req.Quantity)
		}
		if req.Cost != nil {
			record.Set("cost", *req.Cost)
		}
		if req.Price != nil {
			record.Set("price", *req.Price)
		}
		if req.CalculatedCost != nil {
			record.Set("calculated_cost", *req.CalculatedCost)
		}
		if req.CalculatedPrice != nil {
			record.Set("calculated_price", *req.CalculatedPrice)
		}
		if req.SequenceNumber != nil {
			record.Set("sequence_number", *req.SequenceNumber)
		}
		if req.Section != nil {
			record.Set("section", *req.Section)
		}

		recalculated := services.RecalculateProduct(productFromRecord(record))
		record.Set("extended_cost", recalculated.ExtendedCost)
		record.Set("extended_price", recalculated.ExtendedPrice)

		if err := app.Save(record); err != nil {
			log.Printf("product_update: could not save %s: %v", record.GetString("unique_id"), err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, productFromRecord(record))
	}
}

// HandleProductDelete removes a product by unique_id, along with any bundle
// children pointing at it.
func HandleProductDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := findProductByUniqueID(app, e.Request.PathValue("uniqueId"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Product not found")
		}
		uniqueID := record.GetString("unique_id")

		children, err := app.FindRecordsByFilter(
			"products", "parent = {:parent}", "", 0, 0,
			map[string]any{"parent": uniqueID})
		if err == nil {
			for _, child := range children {
				if err := app.Delete(child); err != nil {
					log.Printf("product_delete: could not delete child %s: %v", child.GetString("unique_id"), err)
				}
			}
		}

		if err := app.Delete(record); err != nil {
			log.Printf("product_delete: could not delete %s: %v", uniqueID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		SetToast(e, "success", "Product deleted")
		return e.NoContent(http.StatusNoContent)
	}
}

func setProductFields(record *core.Record, p services.Product) {
	record.Set("version", p.Version)
	record.Set("unique_id", p.UniqueID)
	record.Set("catalog_item", p.CatalogItem)
	record.Set("parent", p.Parent)
	record.Set("section", p.Section)
	record.Set("identifier", p.Identifier)
	record.Set("description", p.Description)
	record.Set("category", p.Category)
	record.Set("vendor", p.Vendor)
	record.Set("unit_of_measure", p.UnitOfMeasure)
	record.Set("quantity", p.Quantity)
	record.Set("cost", p.Cost)
	record.Set("price", p.Price)
	record.Set("calculated_cost", p.CalculatedCost)
	record.Set("calculated_price", p.CalculatedPrice)
	record.Set("extended_cost", p.ExtendedCost)
	record.Set("extended_price", p.ExtendedPrice)
	record.Set("sequence_number", p.SequenceNumber)
	record.Set("recurring_flag", p.RecurringFlag)
	record.Set("recurring_cost", p.RecurringCost)
	record.Set("recurring_bill_cycle", p.RecurringBillCycle)
	record.Set("recurring_cycle_type", p.RecurringCycleType)
	record.Set("taxable_flag", p.TaxableFlag)
}
