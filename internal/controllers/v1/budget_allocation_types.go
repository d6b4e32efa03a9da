package v1

import (
	"fmt"

	"github.com/famfin/backend/internal/models"
	ff_uuid "github.com/famfin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetAllocationUpdate is the body for allocation updates. Exactly one
// of amount and percentage must be set.
type BudgetAllocationUpdate struct {
	Amount     *decimal.Decimal `json:"amount" example:"150.00"`   // New amount for the allocation
	Percentage *decimal.Decimal `json:"percentage" example:"15.0"` // New percentage of the income event amount
}

type BudgetAllocationLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/allocations/5d87f1e6-41e5-4a3c-afcb-9133cbc3b1f0"`                 // The allocation itself
	IncomeEvent string `json:"incomeEvent" example:"https://example.com/api/v1/income-events/d1a7f9b2-32a1-4b48-bc0e-f48f0e0c9e27"`        // The income event the allocation belongs to
	Category    string `json:"category" example:"https://example.com/api/v1/categories/4b9f1b29-6a5d-4bd4-a6ff-2b6c4f9f04a4"`             // The category the allocation funds
}

type BudgetAllocation struct {
	models.DefaultModel
	IncomeEventID    uuid.UUID             `json:"incomeEventId" example:"d1a7f9b2-32a1-4b48-bc0e-f48f0e0c9e27"`    // ID of the income event
	BudgetCategoryID uuid.UUID             `json:"categoryId" example:"4b9f1b29-6a5d-4bd4-a6ff-2b6c4f9f04a4"`       // ID of the category
	Amount           decimal.Decimal       `json:"amount" example:"150.00"`                                         // Amount allocated to the category
	Percentage       decimal.Decimal       `json:"percentage" example:"15.0"`                                       // Percentage of the income event amount
	Links            BudgetAllocationLinks `json:"links"`
}

func newBudgetAllocation(c *gin.Context, model models.BudgetAllocation) BudgetAllocation {
	url := c.GetString(string(models.ContextURL))

	return BudgetAllocation{
		DefaultModel:     model.DefaultModel,
		IncomeEventID:    model.IncomeEventID,
		BudgetCategoryID: model.BudgetCategoryID,
		Amount:           model.Amount,
		Percentage:       model.Percentage,
		Links: BudgetAllocationLinks{
			Self:        fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			IncomeEvent: fmt.Sprintf("%s/v1/income-events/%s", url, model.IncomeEventID),
			Category:    fmt.Sprintf("%s/v1/categories/%s", url, model.BudgetCategoryID),
		},
	}
}

type BudgetAllocationResponse struct {
	Data  *BudgetAllocation `json:"data"`                                                          // Data for the allocation
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetAllocationListResponse struct {
	Data       []BudgetAllocation `json:"data"`                                                          // List of allocations
	Error      *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination        `json:"pagination"`                                                    // Pagination information
}

type BudgetAllocationQueryFilter struct {
	IncomeEvent ff_uuid.UUID `form:"income" filterField:"false"`   // By income event ID
	Category    ff_uuid.UUID `form:"category" filterField:"false"` // By category ID
	Offset      uint         `form:"offset" filterField:"false"`   // The offset of the first allocation returned. Defaults to 0.
	Limit       int          `form:"limit" filterField:"false"`    // Maximum number of allocations to return. Defaults to 50.
}
