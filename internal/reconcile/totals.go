package reconcile

import (
	"github.com/famfin/backend/internal/currency"
	"github.com/famfin/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The running totals below are summed in integer cents. Summing the
// stored decimals in SQL would reintroduce the rounding drift the core
// is built to avoid.

// attributedToPayment returns the attributed total for a payment,
// excluding the attribution with the given ID if it is not uuid.Nil.
func attributedToPayment(tx *gorm.DB, paymentID, exclude uuid.UUID) (currency.Cents, error) {
	var attributions []models.PaymentAttribution
	err := tx.Where(&models.PaymentAttribution{PaymentID: paymentID}).Find(&attributions).Error
	if err != nil {
		return 0, err
	}

	var total currency.Cents
	for _, a := range attributions {
		if a.ID == exclude {
			continue
		}
		total += currency.FromDecimal(a.Amount)
	}

	return total, nil
}

// attributedToIncomeEvent returns the attributed total for an income
// event, excluding the attribution with the given ID if it is not
// uuid.Nil.
func attributedToIncomeEvent(tx *gorm.DB, incomeEventID, exclude uuid.UUID) (currency.Cents, error) {
	var attributions []models.PaymentAttribution
	err := tx.Where(&models.PaymentAttribution{IncomeEventID: incomeEventID}).Find(&attributions).Error
	if err != nil {
		return 0, err
	}

	var total currency.Cents
	for _, a := range attributions {
		if a.ID == exclude {
			continue
		}
		total += currency.FromDecimal(a.Amount)
	}

	return total, nil
}

// allocatedToIncomeEvent returns the allocated total for an income
// event, excluding the allocation with the given ID if it is not
// uuid.Nil.
func allocatedToIncomeEvent(tx *gorm.DB, incomeEventID, exclude uuid.UUID) (currency.Cents, error) {
	var allocations []models.BudgetAllocation
	err := tx.Where(&models.BudgetAllocation{IncomeEventID: incomeEventID}).Find(&allocations).Error
	if err != nil {
		return 0, err
	}

	var total currency.Cents
	for _, a := range allocations {
		if a.ID == exclude {
			continue
		}
		total += currency.FromDecimal(a.Amount)
	}

	return total, nil
}
