package reconcile

import (
	"github.com/famfin/backend/internal/currency"
	"github.com/famfin/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// candidate is one income event considered by Distribute, with its
// remaining attribution capacity.
type candidate struct {
	incomeEvent models.IncomeEvent
	capacity    currency.Cents
	share       currency.Cents
}

// Distribute attributes the unattributed remainder of a payment across
// the candidate income events.
//
// When the combined capacity covers the remainder, the oldest income is
// consumed first (FIFO, ties broken by ID). Otherwise the available
// capacity is distributed pro-rata. All resulting ledger writes happen
// in one transaction; if any of them fails no attribution is kept.
//
// The remainder is computed from the current ledger state, so calling
// Distribute again without intervening changes creates no new
// attributions.
func Distribute(db *gorm.DB, paymentID uuid.UUID, candidateIDs []uuid.UUID) ([]models.PaymentAttribution, error) {
	attributions := make([]models.PaymentAttribution, 0)

	err := db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		err := tx.First(&payment, paymentID).Error
		if err != nil {
			return err
		}

		attributed, err := attributedToPayment(tx, paymentID, uuid.Nil)
		if err != nil {
			return err
		}

		target := currency.FromDecimal(payment.Amount) - attributed
		if target <= 0 {
			return nil
		}

		candidates, total, err := loadCandidates(tx, candidateIDs)
		if err != nil {
			return err
		}

		if total >= target {
			planFIFO(candidates, target)
		} else {
			planProRata(candidates, target, total)
		}

		for _, c := range candidates {
			if c.share == 0 {
				continue
			}

			attribution, err := attribute(tx, paymentID, c.incomeEvent.ID, c.share)
			if err != nil {
				return err
			}

			attributions = append(attributions, attribution)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return attributions, nil
}

// loadCandidates loads the candidate income events and their remaining
// capacity, dropping those that are already fully consumed. The result
// is sorted by scheduled date, oldest first, with the ID as tie breaker
// for determinism.
func loadCandidates(tx *gorm.DB, ids []uuid.UUID) ([]*candidate, currency.Cents, error) {
	candidates := make([]*candidate, 0, len(ids))

	var total currency.Cents
	for _, id := range ids {
		var incomeEvent models.IncomeEvent
		err := tx.First(&incomeEvent, id).Error
		if err != nil {
			return nil, 0, err
		}

		attributed, err := attributedToIncomeEvent(tx, id, uuid.Nil)
		if err != nil {
			return nil, 0, err
		}

		capacity := currency.FromDecimal(incomeEvent.Amount) - attributed
		if capacity <= 0 {
			continue
		}

		candidates = append(candidates, &candidate{incomeEvent: incomeEvent, capacity: capacity})
		total += capacity
	}

	slices.SortFunc(candidates, func(a, b *candidate) int {
		if !a.incomeEvent.ScheduledDate.Equal(b.incomeEvent.ScheduledDate) {
			if a.incomeEvent.ScheduledDate.Before(b.incomeEvent.ScheduledDate) {
				return -1
			}
			return 1
		}

		if a.incomeEvent.ID.String() < b.incomeEvent.ID.String() {
			return -1
		}
		return 1
	})

	return candidates, total, nil
}

// planFIFO greedily consumes capacity in scheduled date order until the
// target is covered.
func planFIFO(candidates []*candidate, target currency.Cents) {
	remaining := target
	for _, c := range candidates {
		if remaining == 0 {
			return
		}

		c.share = min(c.capacity, remaining)
		remaining -= c.share
	}
}

// planProRata distributes capacity proportionally when it cannot cover
// the target. Every share is capped at the candidate capacity; the
// rounding remainder goes to the candidate with the largest capacity,
// ties broken by earliest scheduled date.
func planProRata(candidates []*candidate, target, total currency.Cents) {
	if total == 0 {
		return
	}

	distributable := min(target, total)

	var sum currency.Cents
	largest := 0
	for i, c := range candidates {
		c.share = min(currency.ProRata(distributable, c.capacity, total), c.capacity)
		sum += c.share

		// Candidates are sorted by scheduled date, so on equal
		// capacity the earlier one keeps the remainder
		if c.capacity > candidates[largest].capacity {
			largest = i
		}
	}

	remainder := distributable - sum
	if remainder != 0 && candidates[largest].share+remainder <= candidates[largest].capacity {
		candidates[largest].share += remainder
	}
}
