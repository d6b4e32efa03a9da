package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/famfin/backend/internal/controllers/v1"
	"github.com/famfin/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBankTransactions(t *testing.T, transactions []v1.BankTransactionEditable, expectedStatus ...int) v1.BankTransactionListResponse {
	for i := range transactions {
		if transactions[i].AccountID == uuid.Nil {
			transactions[i].AccountID = uuid.New()
		}

		if transactions[i].Amount.IsZero() {
			transactions[i].Amount = decimal.RequireFromString("-52.30")
		}

		if transactions[i].Date.IsZero() {
			transactions[i].Date = time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
		}
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", transactions)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.BankTransactionListResponse
	test.DecodeResponse(t, &r, &response)

	return response
}

func (suite *TestSuiteStandard) TestBankTransactionsCreate() {
	response := createTestBankTransactions(suite.T(), []v1.BankTransactionEditable{
		{MerchantName: "WHOLE FOODS MKT #123"},
		{MerchantName: "AMZN Mktp US"},
	})

	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "WHOLE FOODS MKT #123", response.Data[0].MerchantName)
	assert.NotEmpty(suite.T(), response.Data[0].Links.Self)
}

func (suite *TestSuiteStandard) TestBankTransactionsCreateFails() {
	tests := []struct {
		name   string
		body   any
		status int // expected HTTP status
	}{
		{"No body", "", http.StatusBadRequest},
		{"Empty list", []v1.BankTransactionEditable{}, http.StatusBadRequest},
		{"Object instead of list", `{ "merchantName": "ACME" }`, http.StatusBadRequest},
		{
			"Non-existing payment",
			[]v1.BankTransactionEditable{{
				AccountID: uuid.New(),
				Amount:    decimal.NewFromInt(-10),
				Date:      time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
				PaymentID: ptr(uuid.New()),
			}},
			http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestBankTransactionsCreateAtomic verifies that no transaction is
// written when one of the batch fails.
func (suite *TestSuiteStandard) TestBankTransactionsCreateAtomic() {
	body := []v1.BankTransactionEditable{
		{
			AccountID: uuid.New(),
			Amount:    decimal.NewFromInt(-10),
			Date:      time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			AccountID: uuid.New(),
			Amount:    decimal.NewFromInt(-20),
			Date:      time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
			PaymentID: ptr(uuid.New()),
		},
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	var list v1.BankTransactionListResponse
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &list)

	assert.Empty(suite.T(), list.Data)
}

func (suite *TestSuiteStandard) TestBankTransactionsGetFilter() {
	account := uuid.New()
	payment := createTestPayment(suite.T(), v1.PaymentEditable{})

	_ = createTestBankTransactions(suite.T(), []v1.BankTransactionEditable{
		{AccountID: account, Date: time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)},
		{AccountID: account, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), PaymentID: &payment.Data.ID},
		{Date: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)},
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Account", fmt.Sprintf("account=%s", account), 2},
		{"February", "fromDate=2024-02-01T00:00:00Z&untilDate=2024-02-29T00:00:00Z", 2},
		{"Reconciled", "reconciled=true", 1},
		{"Unreconciled", "reconciled=false", 2},
		{"Invalid account ID", "account=notaUUID", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.BankTransactionListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s", tt.query), "")

			if tt.name == "Invalid account ID" {
				test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
				return
			}

			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

// TestBankTransactionsReconcile verifies that a transaction can be
// linked to and unlinked from a payment with PATCH.
func (suite *TestSuiteStandard) TestBankTransactionsReconcile() {
	payment := createTestPayment(suite.T(), v1.PaymentEditable{})
	transactions := createTestBankTransactions(suite.T(), []v1.BankTransactionEditable{{MerchantName: "ACME"}})
	transaction := transactions.Data[0]

	r := test.Request(suite.T(), http.MethodPatch, transaction.Links.Self, map[string]any{
		"paymentId": payment.Data.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.BankTransactionResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	require.NotNil(suite.T(), updated.Data.PaymentID)
	assert.Equal(suite.T(), payment.Data.ID, *updated.Data.PaymentID)

	// Unlink again
	r = test.Request(suite.T(), http.MethodPatch, transaction.Links.Self, map[string]any{
		"paymentId": nil,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Nil(suite.T(), updated.Data.PaymentID)
}

func (suite *TestSuiteStandard) TestBankTransactionsDelete() {
	transactions := createTestBankTransactions(suite.T(), []v1.BankTransactionEditable{{}})

	r := test.Request(suite.T(), http.MethodDelete, transactions.Data[0].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, transactions.Data[0].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestBankTransactionsMatch verifies the matching endpoint end to end.
func (suite *TestSuiteStandard) TestBankTransactionsMatch() {
	payment := createTestPayment(suite.T(), v1.PaymentEditable{
		Payee:   "Whole Foods Market",
		Amount:  decimal.RequireFromString("45.67"),
		DueDate: time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
	})

	transactions := createTestBankTransactions(suite.T(), []v1.BankTransactionEditable{{
		Amount:       decimal.RequireFromString("-45.67"),
		Date:         time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		MerchantName: "WHOLE FOODS MARKET #123",
	}})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions/match", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var matches v1.TransactionMatchListResponse
	test.DecodeResponse(suite.T(), &r, &matches)

	require.Len(suite.T(), matches.Data, 1)
	assert.Equal(suite.T(), transactions.Data[0].ID, matches.Data[0].TransactionID)
	assert.Equal(suite.T(), payment.Data.ID, matches.Data[0].PaymentID)
	assert.Equal(suite.T(), "exact_amount", matches.Data[0].MatchType)
	assert.Greater(suite.T(), matches.Data[0].Confidence, 0.9)
}

func (suite *TestSuiteStandard) TestBankTransactionsMatchInvalidRange() {
	body := v1.MatchRequest{
		DateRangeStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DateRangeEnd:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions/match", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
