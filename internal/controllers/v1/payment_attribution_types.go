package v1

import (
	"fmt"

	"github.com/famfin/backend/internal/models"
	ff_uuid "github.com/famfin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentAttributionEditable represents all user configurable parameters
type PaymentAttributionEditable struct {
	PaymentID     uuid.UUID       `json:"paymentId" example:"99a28b3a-03fc-4f29-8902-5cb7f2f70c52"`     // ID of the payment
	IncomeEventID uuid.UUID       `json:"incomeEventId" example:"d1a7f9b2-32a1-4b48-bc0e-f48f0e0c9e27"` // ID of the income event that funds the payment
	Amount        decimal.Decimal `json:"amount" example:"120.00"`                                      // Amount funded by the income event
}

type PaymentAttributionLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/attributions/033229c6-9ecf-4992-a2aa-f4b32f27ed1d"`          // The attribution itself
	Payment     string `json:"payment" example:"https://example.com/api/v1/payments/99a28b3a-03fc-4f29-8902-5cb7f2f70c52"`           // The payment being funded
	IncomeEvent string `json:"incomeEvent" example:"https://example.com/api/v1/income-events/d1a7f9b2-32a1-4b48-bc0e-f48f0e0c9e27"`  // The income event funding the payment
}

type PaymentAttribution struct {
	models.DefaultModel
	PaymentAttributionEditable
	Percentage decimal.Decimal         `json:"percentage" example:"4.22"` // Share of the payment amount. Informational only.
	Links      PaymentAttributionLinks `json:"links"`
}

func newPaymentAttribution(c *gin.Context, model models.PaymentAttribution) PaymentAttribution {
	url := c.GetString(string(models.ContextURL))

	return PaymentAttribution{
		DefaultModel: model.DefaultModel,
		PaymentAttributionEditable: PaymentAttributionEditable{
			PaymentID:     model.PaymentID,
			IncomeEventID: model.IncomeEventID,
			Amount:        model.Amount,
		},
		Percentage: model.Percentage,
		Links: PaymentAttributionLinks{
			Self:        fmt.Sprintf("%s/v1/attributions/%s", url, model.ID),
			Payment:     fmt.Sprintf("%s/v1/payments/%s", url, model.PaymentID),
			IncomeEvent: fmt.Sprintf("%s/v1/income-events/%s", url, model.IncomeEventID),
		},
	}
}

// PaymentAttributionUpdate is the body for attribution updates. Only the
// amount can be changed, relink by deleting and recreating instead.
type PaymentAttributionUpdate struct {
	Amount decimal.Decimal `json:"amount" example:"95.00"` // New amount funded by the income event
}

type PaymentAttributionResponse struct {
	Data  *PaymentAttribution `json:"data"`                                                          // Data for the attribution
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PaymentAttributionListResponse struct {
	Data       []PaymentAttribution `json:"data"`                                                          // List of attributions
	Error      *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination          `json:"pagination"`                                                    // Pagination information
}

// PaymentAttributionSummary is one side of the ledger: all attributions
// for a payment or an income event, the attributed total and what is
// still uncovered.
type PaymentAttributionSummary struct {
	Attributions    []PaymentAttribution `json:"attributions"`                       // The attributions of the payment or income event
	TotalAttributed decimal.Decimal      `json:"totalAttributed" example:"655.00"`   // Sum of all attribution amounts
	Remaining       decimal.Decimal      `json:"remaining" example:"95.00"`          // Amount not yet attributed
}

type PaymentAttributionSummaryResponse struct {
	Data  *PaymentAttributionSummary `json:"data"`                                                           // The summary
	Error *string                    `json:"error" example:"the payment or income query parameter must be set"` // The error, if any occurred
}

type PaymentAttributionQueryFilter struct {
	Payment ff_uuid.UUID `form:"payment" filterField:"false"` // Summary for this payment ID
	Income  ff_uuid.UUID `form:"income" filterField:"false"`  // Summary for this income event ID
}
