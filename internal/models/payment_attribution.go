package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentAttribution links a payment to the income event that funds it.
// A payment can be funded by several income events and an income event
// can fund several payments, but each pair is linked at most once.
type PaymentAttribution struct {
	DefaultModel
	PaymentID     uuid.UUID       `gorm:"uniqueIndex:attribution_payment_income"`
	Payment       Payment         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	IncomeEventID uuid.UUID       `gorm:"uniqueIndex:attribution_payment_income"`
	IncomeEvent   IncomeEvent     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Amount        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Percentage    decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Share of the payment amount. Informational only.
}

var (
	ErrAttributionExists            = errors.New("there already is an attribution for this payment and income event, update it instead")
	ErrAttributionAmountNotPositive = errors.New("attribution amounts must be larger than zero")
)

func (a *PaymentAttribution) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*PaymentAttribution)
	return a.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies that the payment and the income event exist.
func (a *PaymentAttribution) checkIntegrity(tx *gorm.DB, toSave PaymentAttribution) error {
	err := tx.Session(&gorm.Session{NewDB: true}).First(&Payment{}, toSave.PaymentID).Error
	if err != nil {
		return err
	}

	return tx.Session(&gorm.Session{NewDB: true}).First(&IncomeEvent{}, toSave.IncomeEventID).Error
}

func (a *PaymentAttribution) BeforeSave(_ *gorm.DB) error {
	a.Amount = a.Amount.Round(2)
	a.Percentage = a.Percentage.Round(2)

	if !a.Amount.IsPositive() {
		return ErrAttributionAmountNotPositive
	}

	return nil
}
