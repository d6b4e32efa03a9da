package v1

import (
	"fmt"
	"time"

	"github.com/famfin/backend/internal/models"
	"github.com/famfin/backend/internal/reconcile"
	ff_uuid "github.com/famfin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankTransactionEditable represents all user configurable parameters
type BankTransactionEditable struct {
	AccountID    uuid.UUID       `json:"accountId" example:"af12cba2-9a0a-4ce7-b096-ec9148c7d4a8"` // ID of the bank account the transaction was imported from
	Amount       decimal.Decimal `json:"amount" example:"-183.22"`                                 // Amount of the transaction. Outflows are negative.
	Date         time.Time       `json:"date" example:"2024-02-14T00:00:00Z"`                      // Booking date of the transaction
	MerchantName string          `json:"merchantName" example:"PG&E WEB PAYMENT"`                  // Merchant as reported by the bank
	Description  string          `json:"description" example:"PG&E WEB PAYMENT 0229"`              // Free text description
	ImportHash   string          `json:"importHash" example:"e793b4f1..."`                         // Hash for duplicate detection on imports
	PaymentID    *uuid.UUID      `json:"paymentId"`                                                // Payment the transaction is reconciled against
}

func (editable BankTransactionEditable) model() models.BankTransaction {
	return models.BankTransaction{
		AccountID:    editable.AccountID,
		Amount:       editable.Amount,
		Date:         editable.Date,
		MerchantName: editable.MerchantName,
		Description:  editable.Description,
		ImportHash:   editable.ImportHash,
		PaymentID:    editable.PaymentID,
	}
}

type BankTransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/c4e8b71a-6b24-4f4c-8bbd-3d9b09ccafbe"` // The transaction itself
}

type BankTransaction struct {
	models.DefaultModel
	BankTransactionEditable
	Links BankTransactionLinks `json:"links"`
}

func newBankTransaction(c *gin.Context, model models.BankTransaction) BankTransaction {
	url := c.GetString(string(models.ContextURL))

	return BankTransaction{
		DefaultModel: model.DefaultModel,
		BankTransactionEditable: BankTransactionEditable{
			AccountID:    model.AccountID,
			Amount:       model.Amount,
			Date:         model.Date,
			MerchantName: model.MerchantName,
			Description:  model.Description,
			ImportHash:   model.ImportHash,
			PaymentID:    model.PaymentID,
		},
		Links: BankTransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type BankTransactionResponse struct {
	Data  *BankTransaction `json:"data"`                                                          // Data for the transaction
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BankTransactionListResponse struct {
	Data       []BankTransaction `json:"data"`                                                          // List of transactions
	Error      *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination       `json:"pagination"`                                                    // Pagination information
}

type BankTransactionQueryFilter struct {
	Account    ff_uuid.UUID `form:"account" filterField:"false"`    // By bank account ID
	FromDate   time.Time    `form:"fromDate" filterField:"false"`   // Transactions booked at and after this date
	UntilDate  time.Time    `form:"untilDate" filterField:"false"`  // Transactions booked before and at this date
	Reconciled *bool        `form:"reconciled" filterField:"false"` // Only reconciled or only unreconciled transactions
	Offset     uint         `form:"offset" filterField:"false"`     // The offset of the first transaction returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`      // Maximum number of transactions to return. Defaults to 50.
}

// MatchRequest tunes a matching run. All fields are optional.
type MatchRequest struct {
	DateRangeStart time.Time   `json:"dateRangeStart" example:"2024-02-01T00:00:00Z"` // Only consider transactions at and after this date
	DateRangeEnd   time.Time   `json:"dateRangeEnd" example:"2024-02-29T00:00:00Z"`   // Only consider transactions before and at this date
	AccountIDs     []uuid.UUID `json:"accountIds"`                                    // Only consider transactions from these accounts
	DateWindowDays int         `json:"dateWindowDays" example:"7"`                    // Days between transaction and due date at which the date term reaches zero
	MinConfidence  float64     `json:"minConfidence" example:"0.3"`                   // Matches at or below this confidence are discarded
}

// TransactionMatch is one suggested transaction/payment pair.
type TransactionMatch struct {
	TransactionID uuid.UUID `json:"transactionId" example:"c4e8b71a-6b24-4f4c-8bbd-3d9b09ccafbe"` // ID of the transaction
	PaymentID     uuid.UUID `json:"paymentId" example:"99a28b3a-03fc-4f29-8902-5cb7f2f70c52"`     // ID of the payment
	Confidence    float64   `json:"confidence" example:"0.93"`                                    // Score between 0 and 1
	MatchType     string    `json:"matchType" example:"exact_amount"`                             // One of exact_amount, close_amount, merchant_match, date_range
}

type TransactionMatchListResponse struct {
	Data  []TransactionMatch `json:"data"`                                              // Suggested matches, best first
	Error *string            `json:"error" example:"the date range start is after its end"` // The error, if any occurred
}

func newTransactionMatch(match reconcile.Match) TransactionMatch {
	return TransactionMatch{
		TransactionID: match.TransactionID,
		PaymentID:     match.PaymentID,
		Confidence:    match.Confidence,
		MatchType:     string(match.MatchType),
	}
}
