package reconcile

import (
	"github.com/famfin/backend/internal/currency"
	"github.com/famfin/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Attribute links a payment to an income event with the given amount.
//
// The amount is bounded twice: the attributed total per payment must
// not exceed the payment amount and the attributed total per income
// event must not exceed the income event amount. Attribution and
// allocation are independent ledgers over the same income capacity;
// neither bound considers the other ledger.
func Attribute(db *gorm.DB, paymentID, incomeEventID uuid.UUID, amount decimal.Decimal) (models.PaymentAttribution, error) {
	var attribution models.PaymentAttribution

	err := db.Transaction(func(tx *gorm.DB) (err error) {
		attribution, err = attribute(tx, paymentID, incomeEventID, currency.FromDecimal(amount))
		return err
	})
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	return attribution, nil
}

// attribute performs the bound checks and the write inside the
// transaction of the caller.
func attribute(tx *gorm.DB, paymentID, incomeEventID uuid.UUID, amount currency.Cents) (models.PaymentAttribution, error) {
	if amount <= 0 {
		return models.PaymentAttribution{}, models.ErrAttributionAmountNotPositive
	}

	var payment models.Payment
	err := tx.First(&payment, paymentID).Error
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	var incomeEvent models.IncomeEvent
	err = tx.First(&incomeEvent, incomeEventID).Error
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	var existing int64
	err = tx.Model(&models.PaymentAttribution{}).
		Where(&models.PaymentAttribution{PaymentID: paymentID, IncomeEventID: incomeEventID}).
		Count(&existing).Error
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	if existing > 0 {
		return models.PaymentAttribution{}, models.ErrAttributionExists
	}

	attributed, err := attributedToPayment(tx, paymentID, uuid.Nil)
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	if attributed+amount > currency.FromDecimal(payment.Amount) {
		return models.PaymentAttribution{}, ErrExceedsPayment
	}

	attributed, err = attributedToIncomeEvent(tx, incomeEventID, uuid.Nil)
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	if attributed+amount > currency.FromDecimal(incomeEvent.Amount) {
		return models.PaymentAttribution{}, ErrExceedsIncome
	}

	attribution := models.PaymentAttribution{
		PaymentID:     paymentID,
		IncomeEventID: incomeEventID,
		Amount:        amount.Decimal(),
		Percentage:    currency.PercentageOf(amount, currency.FromDecimal(payment.Amount)),
	}

	err = tx.Create(&attribution).Error
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	return attribution, nil
}

// UpdateAttribution sets a new amount for an existing attribution. The
// bound checks exclude the attribution being updated from the running
// totals.
func UpdateAttribution(db *gorm.DB, id uuid.UUID, amount decimal.Decimal) (models.PaymentAttribution, error) {
	var attribution models.PaymentAttribution

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&attribution, id).Error
		if err != nil {
			return err
		}

		newAmount := currency.FromDecimal(amount)
		if newAmount <= 0 {
			return models.ErrAttributionAmountNotPositive
		}

		var payment models.Payment
		err = tx.First(&payment, attribution.PaymentID).Error
		if err != nil {
			return err
		}

		var incomeEvent models.IncomeEvent
		err = tx.First(&incomeEvent, attribution.IncomeEventID).Error
		if err != nil {
			return err
		}

		attributed, err := attributedToPayment(tx, attribution.PaymentID, attribution.ID)
		if err != nil {
			return err
		}

		if attributed+newAmount > currency.FromDecimal(payment.Amount) {
			return ErrExceedsPayment
		}

		attributed, err = attributedToIncomeEvent(tx, attribution.IncomeEventID, attribution.ID)
		if err != nil {
			return err
		}

		if attributed+newAmount > currency.FromDecimal(incomeEvent.Amount) {
			return ErrExceedsIncome
		}

		attribution.Amount = newAmount.Decimal()
		attribution.Percentage = currency.PercentageOf(newAmount, currency.FromDecimal(payment.Amount))

		return tx.Model(&attribution).
			Select("Amount", "Percentage").
			Updates(models.PaymentAttribution{Amount: attribution.Amount, Percentage: attribution.Percentage}).Error
	})
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	return attribution, nil
}

// RemoveAttribution deletes an attribution. The totals of the owning
// payment and income event simply reflect the removal.
func RemoveAttribution(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var attribution models.PaymentAttribution
		err := tx.First(&attribution, id).Error
		if err != nil {
			return err
		}

		return tx.Delete(&attribution).Error
	})
}

// AttributionSummary is the attribution state of one payment or income
// event.
type AttributionSummary struct {
	Attributions    []models.PaymentAttribution
	TotalAttributed decimal.Decimal
	Remaining       decimal.Decimal
}

// ForPayment returns all attributions of a payment together with the
// attributed total and the amount still unattributed.
func ForPayment(db *gorm.DB, paymentID uuid.UUID) (AttributionSummary, error) {
	var payment models.Payment
	err := db.First(&payment, paymentID).Error
	if err != nil {
		return AttributionSummary{}, err
	}

	var attributions []models.PaymentAttribution
	err = db.Where(&models.PaymentAttribution{PaymentID: paymentID}).
		Order("created_at asc").
		Find(&attributions).Error
	if err != nil {
		return AttributionSummary{}, err
	}

	return newAttributionSummary(attributions, currency.FromDecimal(payment.Amount)), nil
}

// ForIncomeEvent returns all attributions funded by an income event
// together with the attributed total and the remaining capacity.
func ForIncomeEvent(db *gorm.DB, incomeEventID uuid.UUID) (AttributionSummary, error) {
	var incomeEvent models.IncomeEvent
	err := db.First(&incomeEvent, incomeEventID).Error
	if err != nil {
		return AttributionSummary{}, err
	}

	var attributions []models.PaymentAttribution
	err = db.Where(&models.PaymentAttribution{IncomeEventID: incomeEventID}).
		Order("created_at asc").
		Find(&attributions).Error
	if err != nil {
		return AttributionSummary{}, err
	}

	return newAttributionSummary(attributions, currency.FromDecimal(incomeEvent.Amount)), nil
}

func newAttributionSummary(attributions []models.PaymentAttribution, owner currency.Cents) AttributionSummary {
	var total currency.Cents
	for _, a := range attributions {
		total += currency.FromDecimal(a.Amount)
	}

	return AttributionSummary{
		Attributions:    attributions,
		TotalAttributed: total.Decimal(),
		Remaining:       (owner - total).Decimal(),
	}
}
