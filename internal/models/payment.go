package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Statuses for a payment.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
)

// Payment represents a bill or other outgoing payment that is funded
// from one or more income events.
type Payment struct {
	DefaultModel
	Payee   string
	Amount  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	DueDate time.Time
	Status  string
}

var (
	ErrPaymentAmountNotPositive = errors.New("payment amounts must be larger than zero")
	ErrPaymentStatusInvalid     = errors.New("the payment status must be one of pending, paid, cancelled")
)

// BeforeSave
//   - rounds the amount to two decimal places
//   - defaults the status and validates it
//   - sets the timezone for the due date to UTC
//   - trims whitespace from string fields
func (p *Payment) BeforeSave(_ *gorm.DB) error {
	p.Payee = strings.TrimSpace(p.Payee)
	p.Amount = p.Amount.Round(2)

	if p.Status == "" {
		p.Status = PaymentStatusPending
	}

	switch p.Status {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusCancelled:
	default:
		return ErrPaymentStatusInvalid
	}

	if p.DueDate.IsZero() {
		p.DueDate = time.Now().In(time.UTC)
	} else {
		p.DueDate = p.DueDate.In(time.UTC)
	}

	return nil
}

func (p *Payment) AfterSave(_ *gorm.DB) error {
	if !decimal.Decimal.IsPositive(p.Amount) {
		return ErrPaymentAmountNotPositive
	}

	return nil
}

// AfterFind enforces dates to be in UTC.
func (p *Payment) AfterFind(tx *gorm.DB) (err error) {
	err = p.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	p.DueDate = p.DueDate.In(time.UTC)
	return
}
