package models

import (
	"strings"

	"gorm.io/gorm"
)

// PayeeRule pins imported transactions to a payee by glob pattern.
// The transaction matcher treats a rule hit as a perfect merchant
// match. Rules are evaluated in priority order, lowest first.
type PayeeRule struct {
	DefaultModel
	Priority uint
	Match    string
	Payee    string
}

func (r *PayeeRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	r.Payee = strings.TrimSpace(r.Payee)

	return nil
}
