package v1

import (
	"fmt"
	"time"

	"github.com/famfin/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeEventEditable represents all user configurable parameters
type IncomeEventEditable struct {
	Name          string          `json:"name" example:"Paycheck January" default:""`       // Name of the income event
	Amount        decimal.Decimal `json:"amount" example:"2840.98"`                         // Amount of the deposit
	ScheduledDate time.Time       `json:"scheduledDate" example:"2024-01-31T00:00:00Z"`     // Date the deposit is scheduled for
	Status        string          `json:"status" example:"scheduled" default:"scheduled"`   // One of scheduled, received, cancelled
}

func (editable IncomeEventEditable) model() models.IncomeEvent {
	return models.IncomeEvent{
		Name:          editable.Name,
		Amount:        editable.Amount,
		ScheduledDate: editable.ScheduledDate,
		Status:        editable.Status,
	}
}

type IncomeEventLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/income-events/d1a7f9b2-32a1-4b48-bc0e-f48f0e0c9e27"`                 // The income event itself
	Allocations  string `json:"allocations" example:"https://example.com/api/v1/income-events/d1a7f9b2-32a1-4b48-bc0e-f48f0e0c9e27/allocations"` // Allocation generation for this income event
	Attributions string `json:"attributions" example:"https://example.com/api/v1/attributions?income=d1a7f9b2-32a1-4b48-bc0e-f48f0e0c9e27"`   // Attributions funded by this income event
}

type IncomeEvent struct {
	models.DefaultModel
	IncomeEventEditable
	Links IncomeEventLinks `json:"links"`
}

func newIncomeEvent(c *gin.Context, model models.IncomeEvent) IncomeEvent {
	url := c.GetString(string(models.ContextURL))

	return IncomeEvent{
		DefaultModel: model.DefaultModel,
		IncomeEventEditable: IncomeEventEditable{
			Name:          model.Name,
			Amount:        model.Amount,
			ScheduledDate: model.ScheduledDate,
			Status:        model.Status,
		},
		Links: IncomeEventLinks{
			Self:         fmt.Sprintf("%s/v1/income-events/%s", url, model.ID),
			Allocations:  fmt.Sprintf("%s/v1/income-events/%s/allocations", url, model.ID),
			Attributions: fmt.Sprintf("%s/v1/attributions?income=%s", url, model.ID),
		},
	}
}

type IncomeEventResponse struct {
	Data  *IncomeEvent `json:"data"`                                                          // Data for the income event
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type IncomeEventListResponse struct {
	Data       []IncomeEvent `json:"data"`                                                          // List of income events
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type IncomeEventQueryFilter struct {
	Status   string    `form:"status"`                       // By status
	FromDate time.Time `form:"fromDate" filterField:"false"` // Income events scheduled at and after this date
	UntilDate time.Time `form:"untilDate" filterField:"false"` // Income events scheduled before and at this date
	Offset   uint      `form:"offset" filterField:"false"`   // The offset of the first income event returned. Defaults to 0.
	Limit    int       `form:"limit" filterField:"false"`    // Maximum number of income events to return. Defaults to 50.
}

func (f IncomeEventQueryFilter) model() models.IncomeEvent {
	return models.IncomeEvent{
		Status: f.Status,
	}
}

// GenerateAllocationsRequest is the body for allocation generation.
// Override percentages replace the category target percentage for this
// income event only.
type GenerateAllocationsRequest struct {
	Overrides map[uuid.UUID]decimal.Decimal `json:"overrides"`
}
