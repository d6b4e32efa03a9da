package v1

import (
	"fmt"

	"github.com/famfin/backend/internal/models"
	ff_uuid "github.com/famfin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetCategoryEditable represents all user configurable parameters
type BudgetCategoryEditable struct {
	Name             string          `json:"name" example:"Groceries" default:""`                            // Name of the category
	ParentID         *uuid.UUID      `json:"parentId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`        // ID of the parent category for spending sub-categories
	TargetPercentage decimal.Decimal `json:"targetPercentage" example:"25" default:"0"`                      // Share of every income event allocated to this category
	Archived         bool            `json:"archived" example:"true" default:"false"`                        // Is the category archived?
}

func (editable BudgetCategoryEditable) model() models.BudgetCategory {
	return models.BudgetCategory{
		Name:             editable.Name,
		ParentID:         editable.ParentID,
		TargetPercentage: editable.TargetPercentage,
		Archived:         editable.Archived,
	}
}

type BudgetCategoryLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"`               // The category itself
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations?category=3b1ea324-d438-4419-882a-2fc91d71772f"` // Allocations for this category
}

type BudgetCategory struct {
	models.DefaultModel
	BudgetCategoryEditable
	SortOrder uint                `json:"sortOrder" example:"3"` // Position of the category in allocation order
	Links     BudgetCategoryLinks `json:"links"`
}

func newBudgetCategory(c *gin.Context, model models.BudgetCategory) BudgetCategory {
	url := c.GetString(string(models.ContextURL))

	return BudgetCategory{
		DefaultModel: model.DefaultModel,
		BudgetCategoryEditable: BudgetCategoryEditable{
			Name:             model.Name,
			ParentID:         model.ParentID,
			TargetPercentage: model.TargetPercentage,
			Archived:         model.Archived,
		},
		SortOrder: model.SortOrder,
		Links: BudgetCategoryLinks{
			Self:        fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?category=%s", url, model.ID),
		},
	}
}

type BudgetCategoryResponse struct {
	Data  *BudgetCategory `json:"data"`                                                          // Data for the category
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetCategoryListResponse struct {
	Data       []BudgetCategory `json:"data"`                                                          // List of categories
	Error      *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination      `json:"pagination"`                                                    // Pagination information
}

type BudgetCategoryQueryFilter struct {
	Name     string       `form:"name" filterField:"false"`   // By name
	Parent   ff_uuid.UUID `form:"parent" filterField:"false"` // By ID of the parent category
	Archived bool         `form:"archived"`                   // Is the category archived?
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first category returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of categories to return. Defaults to 50.
}

func (f BudgetCategoryQueryFilter) model() models.BudgetCategory {
	return models.BudgetCategory{
		Archived: f.Archived,
	}
}

// ValidatePercentagesRequest is the body for the percentage validation
// endpoint.
type ValidatePercentagesRequest struct {
	Categories []ValidatePercentagesCategory `json:"categories"`
}

type ValidatePercentagesCategory struct {
	ID               uuid.UUID       `json:"id" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the category
	TargetPercentage decimal.Decimal `json:"targetPercentage" example:"25"`                     // Percentage to validate
}

type ValidatePercentagesSuggestion struct {
	CategoryID uuid.UUID       `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the category the suggestion is for
	Current    decimal.Decimal `json:"current" example:"60"`                                      // Current percentage
	Suggested  decimal.Decimal `json:"suggested" example:"54.55"`                                 // Suggested percentage
}

type ValidatePercentagesData struct {
	IsValid         bool                            `json:"isValid" example:"false"` // Does the set sum to 100?
	TotalPercentage decimal.Decimal                 `json:"totalPercentage" example:"110"`
	Difference      decimal.Decimal                 `json:"difference" example:"-10"` // Difference to 100
	Suggestions     []ValidatePercentagesSuggestion `json:"suggestions"`              // Suggested corrections
}

type ValidatePercentagesResponse struct {
	Data  *ValidatePercentagesData `json:"data"`
	Error *string                  `json:"error" example:"the body of your request contains invalid or un-parseable data. Please check and try again"`
}
