package models_test

import (
	"testing"
	"time"

	"github.com/famfin/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestIncomeEventTrimWhitespace() {
	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{
		Name: "  Paycheck January\t",
	})

	assert.Equal(suite.T(), "Paycheck January", incomeEvent.Name)
}

func (suite *TestSuiteStandard) TestIncomeEventAmountRounded() {
	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{
		Amount: decimal.RequireFromString("1000.005"),
	})

	assert.True(suite.T(), incomeEvent.Amount.Equal(decimal.RequireFromString("1000.01")), "amount is %s", incomeEvent.Amount)
}

func (suite *TestSuiteStandard) TestIncomeEventAmountNotPositive() {
	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-100"},
		{"rounds to zero", "0.004"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&models.IncomeEvent{
				Name:   "Invalid " + tt.name,
				Amount: decimal.RequireFromString(tt.amount),
			}).Error

			assert.ErrorIs(t, err, models.ErrIncomeEventAmountNotPositive)
		})
	}
}

func (suite *TestSuiteStandard) TestIncomeEventStatus() {
	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{})
	assert.Equal(suite.T(), models.IncomeEventStatusScheduled, incomeEvent.Status, "status does not default to scheduled")

	err := models.DB.Create(&models.IncomeEvent{
		Name:   "Broken status",
		Amount: decimal.NewFromInt(100),
		Status: "paused",
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrIncomeEventStatusInvalid)
}

func (suite *TestSuiteStandard) TestIncomeEventDateUTC() {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		suite.Assert().FailNow("could not load timezone", err)
	}

	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{
		ScheduledDate: time.Date(2024, 1, 31, 9, 0, 0, 0, berlin),
	})

	assert.Equal(suite.T(), time.UTC, incomeEvent.ScheduledDate.Location())
}

func (suite *TestSuiteStandard) TestIncomeEventAmountLocked() {
	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{})
	category := suite.createTestBudgetCategory(models.BudgetCategory{
		Name:             "Essentials",
		TargetPercentage: decimal.NewFromInt(50),
	})

	// Without references the amount can still be changed
	err := models.DB.Model(&incomeEvent).Select("Amount").Updates(models.IncomeEvent{Amount: decimal.NewFromInt(1200)}).Error
	assert.Nil(suite.T(), err)

	_ = suite.createTestBudgetAllocation(models.BudgetAllocation{
		IncomeEventID:    incomeEvent.ID,
		BudgetCategoryID: category.ID,
		Amount:           decimal.NewFromInt(600),
		Percentage:       decimal.NewFromInt(50),
	})

	err = models.DB.Model(&incomeEvent).Select("Amount").Updates(models.IncomeEvent{Amount: decimal.NewFromInt(2000)}).Error
	assert.ErrorIs(suite.T(), err, models.ErrIncomeEventAmountLocked)

	// Other fields stay editable
	err = models.DB.Model(&incomeEvent).Select("Status").Updates(models.IncomeEvent{Status: models.IncomeEventStatusReceived}).Error
	assert.Nil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestIncomeEventDeleteCascades() {
	incomeEvent := suite.createTestIncomeEvent(models.IncomeEvent{})
	category := suite.createTestBudgetCategory(models.BudgetCategory{
		Name:             "Essentials",
		TargetPercentage: decimal.NewFromInt(50),
	})
	payment := suite.createTestPayment(models.Payment{})

	_ = suite.createTestBudgetAllocation(models.BudgetAllocation{
		IncomeEventID:    incomeEvent.ID,
		BudgetCategoryID: category.ID,
		Amount:           decimal.NewFromInt(500),
	})
	_ = suite.createTestPaymentAttribution(models.PaymentAttribution{
		PaymentID:     payment.ID,
		IncomeEventID: incomeEvent.ID,
		Amount:        decimal.NewFromInt(100),
	})

	err := models.DB.Delete(&incomeEvent).Error
	assert.Nil(suite.T(), err)

	var allocations, attributions int64
	models.DB.Model(&models.BudgetAllocation{}).Count(&allocations)
	models.DB.Model(&models.PaymentAttribution{}).Count(&attributions)
	assert.Equal(suite.T(), int64(0), allocations, "allocations were not deleted with the income event")
	assert.Equal(suite.T(), int64(0), attributions, "attributions were not deleted with the income event")
}
