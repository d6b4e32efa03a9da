package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankTransaction is an externally imported, already normalized bank
// transaction. Outflows carry a negative amount.
type BankTransaction struct {
	DefaultModel
	AccountID    uuid.UUID
	Amount       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date         time.Time
	MerchantName string
	Description  string
	ImportHash   string     // A SHA256 hash of a unique combination of values to use in duplicate detection for imports
	PaymentID    *uuid.UUID // Set once the transaction has been reconciled against a payment
	Payment      *Payment   `json:"-"`
}

func (t *BankTransaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BankTransaction)
	return t.checkIntegrity(tx, *toSave)
}

func (t *BankTransaction) BeforeUpdate(tx *gorm.DB) (err error) {
	if tx.Statement.Changed("PaymentID") {
		toSave := tx.Statement.Dest.(BankTransaction)
		err = t.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the reconciled payment exists.
func (t *BankTransaction) checkIntegrity(tx *gorm.DB, toSave BankTransaction) error {
	if toSave.PaymentID == nil || *toSave.PaymentID == uuid.Nil {
		return nil
	}

	return tx.Session(&gorm.Session{NewDB: true}).First(&Payment{}, *toSave.PaymentID).Error
}

// BeforeSave
//   - rounds the amount to two decimal places
//   - sets the timezone for the date to UTC
//   - trims whitespace from string fields
func (t *BankTransaction) BeforeSave(_ *gorm.DB) error {
	t.MerchantName = strings.TrimSpace(t.MerchantName)
	t.Description = strings.TrimSpace(t.Description)
	t.ImportHash = strings.TrimSpace(t.ImportHash)
	t.Amount = t.Amount.Round(2)

	// Ensure that the Payment ID is nil and not a pointer to a nil UUID
	if t.PaymentID != nil && *t.PaymentID == uuid.Nil {
		t.PaymentID = nil
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	return nil
}

// AfterFind enforces dates to be in UTC.
func (t *BankTransaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return
}
