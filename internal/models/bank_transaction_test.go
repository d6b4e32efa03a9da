package models_test

import (
	"time"

	"github.com/famfin/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestBankTransactionNilPaymentID() {
	nilID := uuid.Nil
	transaction := suite.createTestBankTransaction(models.BankTransaction{
		AccountID: uuid.New(),
		Amount:    decimal.RequireFromString("-12.30"),
		Date:      time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		PaymentID: &nilID,
	})

	assert.Nil(suite.T(), transaction.PaymentID, "a nil UUID pointer must be normalized to nil")
}

func (suite *TestSuiteStandard) TestBankTransactionPaymentIntegrity() {
	missing := uuid.New()
	err := models.DB.Create(&models.BankTransaction{
		AccountID: uuid.New(),
		Amount:    decimal.RequireFromString("-12.30"),
		PaymentID: &missing,
	}).Error

	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestBankTransactionReconcile() {
	payment := suite.createTestPayment(models.Payment{})
	transaction := suite.createTestBankTransaction(models.BankTransaction{
		AccountID:    uuid.New(),
		Amount:       decimal.RequireFromString("-100"),
		MerchantName: " ACME Corp ",
	})

	assert.Equal(suite.T(), "ACME Corp", transaction.MerchantName)

	err := models.DB.Model(&transaction).Select("PaymentID").Updates(models.BankTransaction{PaymentID: &payment.ID}).Error
	assert.Nil(suite.T(), err)

	err = models.DB.First(&transaction, transaction.ID).Error
	assert.Nil(suite.T(), err)
	assert.NotNil(suite.T(), transaction.PaymentID)
	assert.Equal(suite.T(), payment.ID, *transaction.PaymentID)
}
