package models_test

import (
	"github.com/famfin/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestPaymentAttributionUniquePair() {
	payment := suite.createTestPayment(models.Payment{})
	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{})

	_ = suite.createTestPaymentAttribution(models.PaymentAttribution{
		PaymentID:     payment.ID,
		IncomeEventID: incomeEvent.ID,
		Amount:        decimal.NewFromInt(30),
	})

	err := models.DB.Create(&models.PaymentAttribution{
		PaymentID:     payment.ID,
		IncomeEventID: incomeEvent.ID,
		Amount:        decimal.NewFromInt(20),
	}).Error

	assert.ErrorIs(suite.T(), err, models.ErrAttributionExists)
}

func (suite *TestSuiteStandard) TestPaymentAttributionAmountNotPositive() {
	payment := suite.createTestPayment(models.Payment{})
	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{})

	err := models.DB.Create(&models.PaymentAttribution{
		PaymentID:     payment.ID,
		IncomeEventID: incomeEvent.ID,
		Amount:        decimal.Zero,
	}).Error

	assert.ErrorIs(suite.T(), err, models.ErrAttributionAmountNotPositive)
}

func (suite *TestSuiteStandard) TestPaymentAttributionIntegrity() {
	payment := suite.createTestPayment(models.Payment{})

	err := models.DB.Create(&models.PaymentAttribution{
		PaymentID:     payment.ID,
		IncomeEventID: uuid.New(),
		Amount:        decimal.NewFromInt(10),
	}).Error

	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}
