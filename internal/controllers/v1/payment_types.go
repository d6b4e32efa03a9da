package v1

import (
	"fmt"
	"time"

	"github.com/famfin/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentEditable represents all user configurable parameters
type PaymentEditable struct {
	Payee   string          `json:"payee" example:"Pacific Gas & Electric" default:""` // The party the payment goes to
	Amount  decimal.Decimal `json:"amount" example:"183.22"`                           // Amount of the payment
	DueDate time.Time       `json:"dueDate" example:"2024-02-15T00:00:00Z"`            // Date the payment is due
	Status  string          `json:"status" example:"pending" default:"pending"`        // One of pending, paid, cancelled
}

func (editable PaymentEditable) model() models.Payment {
	return models.Payment{
		Payee:   editable.Payee,
		Amount:  editable.Amount,
		DueDate: editable.DueDate,
		Status:  editable.Status,
	}
}

type PaymentLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/payments/99a28b3a-03fc-4f29-8902-5cb7f2f70c52"`                    // The payment itself
	Attributions string `json:"attributions" example:"https://example.com/api/v1/attributions?payment=99a28b3a-03fc-4f29-8902-5cb7f2f70c52"` // Attributions funding this payment
	Distribute   string `json:"distribute" example:"https://example.com/api/v1/payments/99a28b3a-03fc-4f29-8902-5cb7f2f70c52/distribute"`   // Automatic distribution for this payment
}

type Payment struct {
	models.DefaultModel
	PaymentEditable
	Links PaymentLinks `json:"links"`
}

func newPayment(c *gin.Context, model models.Payment) Payment {
	url := c.GetString(string(models.ContextURL))

	return Payment{
		DefaultModel: model.DefaultModel,
		PaymentEditable: PaymentEditable{
			Payee:   model.Payee,
			Amount:  model.Amount,
			DueDate: model.DueDate,
			Status:  model.Status,
		},
		Links: PaymentLinks{
			Self:         fmt.Sprintf("%s/v1/payments/%s", url, model.ID),
			Attributions: fmt.Sprintf("%s/v1/attributions?payment=%s", url, model.ID),
			Distribute:   fmt.Sprintf("%s/v1/payments/%s/distribute", url, model.ID),
		},
	}
}

type PaymentResponse struct {
	Data  *Payment `json:"data"`                                                          // Data for the payment
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PaymentListResponse struct {
	Data       []Payment   `json:"data"`                                                          // List of payments
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type PaymentQueryFilter struct {
	Payee  string `form:"payee" filterField:"false"`  // By payee, fuzzy matching
	Status string `form:"status"`                     // By status
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first payment returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of payments to return. Defaults to 50.
}

func (f PaymentQueryFilter) model() models.Payment {
	return models.Payment{
		Status: f.Status,
	}
}

// DistributeRequest is the body for automatic distribution. The
// candidates are the income events the payment may draw from.
type DistributeRequest struct {
	IncomeEventIDs []uuid.UUID `json:"incomeEventIds"`
}
