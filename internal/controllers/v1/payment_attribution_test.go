package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/famfin/backend/internal/controllers/v1"
	"github.com/famfin/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPaymentAttribution(t *testing.T, a v1.PaymentAttributionEditable, expectedStatus ...int) v1.PaymentAttributionResponse {
	if a.PaymentID == uuid.Nil {
		a.PaymentID = createTestPayment(t, v1.PaymentEditable{Amount: decimal.NewFromInt(500)}).Data.ID
	}

	if a.IncomeEventID == uuid.Nil {
		a.IncomeEventID = createTestIncomeEvent(t, v1.IncomeEventEditable{}).Data.ID
	}

	if a.Amount.IsZero() {
		a.Amount = decimal.NewFromInt(100)
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/attributions", a)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var attribution v1.PaymentAttributionResponse
	test.DecodeResponse(t, &r, &attribution)

	return attribution
}

func (suite *TestSuiteStandard) TestPaymentAttributionsCreate() {
	payment := createTestPayment(suite.T(), v1.PaymentEditable{Amount: decimal.NewFromInt(750)})

	attribution := createTestPaymentAttribution(suite.T(), v1.PaymentAttributionEditable{
		PaymentID: payment.Data.ID,
		Amount:    decimal.NewFromInt(300),
	})

	require.NotNil(suite.T(), attribution.Data)
	assert.True(suite.T(), attribution.Data.Amount.Equal(decimal.NewFromInt(300)))
	assert.True(suite.T(), attribution.Data.Percentage.Equal(decimal.NewFromInt(40)), "300 of 750 is 40%%, got %s", attribution.Data.Percentage)
}

func (suite *TestSuiteStandard) TestPaymentAttributionsCreateFails() {
	payment := createTestPayment(suite.T(), v1.PaymentEditable{Amount: decimal.NewFromInt(500)})
	income := createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{Amount: decimal.NewFromInt(1000)})

	_ = createTestPaymentAttribution(suite.T(), v1.PaymentAttributionEditable{
		PaymentID:     payment.Data.ID,
		IncomeEventID: income.Data.ID,
		Amount:        decimal.NewFromInt(400),
	})

	tests := []struct {
		name   string
		body   any
		status int // expected HTTP status
	}{
		{"No body", "", http.StatusBadRequest},
		{
			"Duplicate link",
			v1.PaymentAttributionEditable{PaymentID: payment.Data.ID, IncomeEventID: income.Data.ID, Amount: decimal.NewFromInt(10)},
			http.StatusConflict,
		},
		{
			"Exceeds payment",
			v1.PaymentAttributionEditable{PaymentID: payment.Data.ID, IncomeEventID: createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{}).Data.ID, Amount: decimal.NewFromInt(101)},
			http.StatusBadRequest,
		},
		{
			"Exceeds income event",
			v1.PaymentAttributionEditable{PaymentID: createTestPayment(suite.T(), v1.PaymentEditable{Amount: decimal.NewFromInt(5000)}).Data.ID, IncomeEventID: income.Data.ID, Amount: decimal.NewFromInt(1001)},
			http.StatusBadRequest,
		},
		{
			"Non-existing payment",
			v1.PaymentAttributionEditable{PaymentID: uuid.New(), IncomeEventID: income.Data.ID, Amount: decimal.NewFromInt(10)},
			http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/attributions", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestPaymentAttributionsGetSummary verifies the ledger summary for both
// sides.
func (suite *TestSuiteStandard) TestPaymentAttributionsGetSummary() {
	payment := createTestPayment(suite.T(), v1.PaymentEditable{Amount: decimal.NewFromInt(750)})

	_ = createTestPaymentAttribution(suite.T(), v1.PaymentAttributionEditable{
		PaymentID: payment.Data.ID,
		Amount:    decimal.NewFromInt(500),
	})
	_ = createTestPaymentAttribution(suite.T(), v1.PaymentAttributionEditable{
		PaymentID: payment.Data.ID,
		Amount:    decimal.NewFromInt(155),
	})

	r := test.Request(suite.T(), http.MethodGet, payment.Data.Links.Attributions, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var summary v1.PaymentAttributionSummaryResponse
	test.DecodeResponse(suite.T(), &r, &summary)

	require.NotNil(suite.T(), summary.Data)
	require.Len(suite.T(), summary.Data.Attributions, 2)
	assert.True(suite.T(), summary.Data.TotalAttributed.Equal(decimal.NewFromInt(655)))
	assert.True(suite.T(), summary.Data.Remaining.Equal(decimal.NewFromInt(95)))
}

func (suite *TestSuiteStandard) TestPaymentAttributionsGetFails() {
	payment := createTestPayment(suite.T(), v1.PaymentEditable{})
	income := createTestIncomeEvent(suite.T(), v1.IncomeEventEditable{})

	tests := []struct {
		name   string
		query  string
		status int // expected HTTP status
	}{
		{"No parameter", "", http.StatusBadRequest},
		{"Both parameters", fmt.Sprintf("payment=%s&income=%s", payment.Data.ID, income.Data.ID), http.StatusBadRequest},
		{"Invalid payment ID", "payment=notaUUID", http.StatusBadRequest},
		{"Non-existing payment", fmt.Sprintf("payment=%s", uuid.New()), http.StatusNotFound},
		{"Non-existing income event", fmt.Sprintf("income=%s", uuid.New()), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/attributions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestPaymentAttributionsUpdate() {
	attribution := createTestPaymentAttribution(suite.T(), v1.PaymentAttributionEditable{
		Amount: decimal.NewFromInt(300),
	})

	r := test.Request(suite.T(), http.MethodPatch, attribution.Data.Links.Self, v1.PaymentAttributionUpdate{
		Amount: decimal.NewFromInt(500),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.PaymentAttributionResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.True(suite.T(), updated.Data.Amount.Equal(decimal.NewFromInt(500)))
}

func (suite *TestSuiteStandard) TestPaymentAttributionsUpdateFails() {
	attribution := createTestPaymentAttribution(suite.T(), v1.PaymentAttributionEditable{
		Amount: decimal.NewFromInt(300),
	})

	tests := []struct {
		name   string
		id     string
		body   any
		status int // expected response status
	}{
		{"Exceeds payment", attribution.Data.ID.String(), v1.PaymentAttributionUpdate{Amount: decimal.NewFromInt(501)}, http.StatusBadRequest},
		{"Zero amount", attribution.Data.ID.String(), v1.PaymentAttributionUpdate{}, http.StatusBadRequest},
		{"Non-existing attribution", uuid.New().String(), v1.PaymentAttributionUpdate{Amount: decimal.NewFromInt(10)}, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/attributions/%s", tt.id), tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestPaymentAttributionsDelete verifies that deleting an attribution
// frees the amount on both sides.
func (suite *TestSuiteStandard) TestPaymentAttributionsDelete() {
	payment := createTestPayment(suite.T(), v1.PaymentEditable{Amount: decimal.NewFromInt(500)})

	attribution := createTestPaymentAttribution(suite.T(), v1.PaymentAttributionEditable{
		PaymentID: payment.Data.ID,
		Amount:    decimal.NewFromInt(500),
	})

	r := test.Request(suite.T(), http.MethodDelete, attribution.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The full payment amount can be attributed again
	_ = createTestPaymentAttribution(suite.T(), v1.PaymentAttributionEditable{
		PaymentID: payment.Data.ID,
		Amount:    decimal.NewFromInt(500),
	})
}
