package reconcile

import (
	"strings"
	"time"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/famfin/backend/internal/currency"
	"github.com/famfin/backend/internal/models"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// MatchType is the tier of a transaction/payment match.
type MatchType string

const (
	MatchTypeExactAmount   MatchType = "exact_amount"
	MatchTypeCloseAmount   MatchType = "close_amount"
	MatchTypeMerchantMatch MatchType = "merchant_match"
	MatchTypeDateRange     MatchType = "date_range"
)

// Scoring weights and defaults.
const (
	amountWeight   = 0.5
	dateWeight     = 0.3
	merchantWeight = 0.2

	// Relative amount difference at which the amount term reaches zero
	amountTolerance = 0.10

	DefaultDateWindowDays = 7
	DefaultMinConfidence  = 0.3
)

// Match is one scored transaction/payment pair.
type Match struct {
	TransactionID uuid.UUID
	PaymentID     uuid.UUID
	Confidence    float64
	MatchType     MatchType
}

// MatchOptions restricts and tunes a matching run. Zero values select
// the defaults.
type MatchOptions struct {
	DateRangeStart time.Time
	DateRangeEnd   time.Time
	AccountIDs     []uuid.UUID
	DateWindowDays int
	MinConfidence  float64
}

// MatchTransactions scores all unreconciled imported transactions
// against all pending payments and returns the pairs above the
// confidence floor, best first.
//
// No one-to-one assignment is enforced: a transaction or a payment may
// appear in more than one returned match.
func MatchTransactions(db *gorm.DB, options MatchOptions) ([]Match, error) {
	if !options.DateRangeStart.IsZero() && !options.DateRangeEnd.IsZero() &&
		options.DateRangeStart.After(options.DateRangeEnd) {
		return nil, ErrInvalidDateRange
	}

	if options.DateWindowDays == 0 {
		options.DateWindowDays = DefaultDateWindowDays
	}

	if options.MinConfidence == 0 {
		options.MinConfidence = DefaultMinConfidence
	}

	q := db.Where("payment_id IS NULL")
	if !options.DateRangeStart.IsZero() {
		q = q.Where("date >= date(?)", options.DateRangeStart)
	}
	if !options.DateRangeEnd.IsZero() {
		q = q.Where("date < date(?)", options.DateRangeEnd.AddDate(0, 0, 1))
	}
	if len(options.AccountIDs) > 0 {
		q = q.Where("account_id IN ?", options.AccountIDs)
	}

	var transactions []models.BankTransaction
	err := q.Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	var payments []models.Payment
	err = db.Where(&models.Payment{Status: models.PaymentStatusPending}).Find(&payments).Error
	if err != nil {
		return nil, err
	}

	var rules []models.PayeeRule
	err = db.Order("priority asc").Find(&rules).Error
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0)
	for _, transaction := range transactions {
		for _, payment := range payments {
			confidence := score(transaction, payment, rules, options.DateWindowDays)
			if confidence <= options.MinConfidence {
				continue
			}

			matches = append(matches, Match{
				TransactionID: transaction.ID,
				PaymentID:     payment.ID,
				Confidence:    confidence,
				MatchType:     tier(confidence),
			})
		}
	}

	// Best matches first, IDs as tie breakers for determinism
	slices.SortFunc(matches, func(a, b Match) int {
		if a.Confidence != b.Confidence {
			if a.Confidence > b.Confidence {
				return -1
			}
			return 1
		}

		if a.TransactionID != b.TransactionID {
			return strings.Compare(a.TransactionID.String(), b.TransactionID.String())
		}
		return strings.Compare(a.PaymentID.String(), b.PaymentID.String())
	})

	return matches, nil
}

// score combines the amount, date and merchant terms into a single
// confidence in [0,1].
func score(transaction models.BankTransaction, payment models.Payment, rules []models.PayeeRule, windowDays int) float64 {
	confidence := amountWeight*amountScore(transaction, payment) +
		dateWeight*dateScore(transaction.Date, payment.DueDate, windowDays) +
		merchantWeight*merchantScore(transaction, payment, rules)

	return clamp01(confidence)
}

// tier maps a confidence to its match type.
func tier(confidence float64) MatchType {
	switch {
	case confidence >= 0.9:
		return MatchTypeExactAmount
	case confidence >= 0.7:
		return MatchTypeCloseAmount
	case confidence >= 0.5:
		return MatchTypeMerchantMatch
	default:
		return MatchTypeDateRange
	}
}

// amountScore is 1 for exactly equal amounts and decays linearly to 0
// as the relative difference approaches the tolerance. Transaction
// amounts are compared by absolute value since outflows are negative.
func amountScore(transaction models.BankTransaction, payment models.Payment) float64 {
	t := currency.FromDecimal(transaction.Amount)
	if t < 0 {
		t = -t
	}
	p := currency.FromDecimal(payment.Amount)

	if t == p {
		return 1
	}

	if p == 0 {
		return 0
	}

	diff := float64(t-p) / float64(p)
	if diff < 0 {
		diff = -diff
	}

	if diff >= amountTolerance {
		return 0
	}

	return 1 - diff/amountTolerance
}

// dateScore is 1 when the transaction date equals the due date and
// decays linearly to 0 over the window before and after it.
func dateScore(date, dueDate time.Time, windowDays int) float64 {
	days := daysBetween(date, dueDate)
	if days >= windowDays {
		return 0
	}

	return 1 - float64(days)/float64(windowDays)
}

func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		days = -days
	}

	return days
}

// merchantScore compares the transaction merchant and description with
// the payee of the payment.
//
// A payee rule whose glob pattern matches the merchant and whose payee
// equals the payment payee counts as a perfect match. Otherwise the
// best normalized string similarity of merchant name and description
// against the payee is used.
func merchantScore(transaction models.BankTransaction, payment models.Payment, rules []models.PayeeRule) float64 {
	merchant := normalizeMerchant(transaction.MerchantName)
	description := normalizeMerchant(transaction.Description)
	payee := normalizeMerchant(payment.Payee)

	for _, rule := range rules {
		if normalizeMerchant(rule.Payee) != payee {
			continue
		}

		pattern := strings.ToLower(rule.Match)
		if glob.Glob(pattern, merchant) || glob.Glob(pattern, description) {
			return 1
		}
	}

	best := similarity(merchant, payee)
	if s := similarity(description, payee); s > best {
		best = s
	}

	return best
}

// similarity is the better of token overlap and Levenshtein ratio for
// two normalized strings, in [0,1].
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	if a == b {
		return 1
	}

	overlap := tokenOverlap(strings.Fields(a), strings.Fields(b))

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	ratio := 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)

	if overlap > ratio {
		return overlap
	}
	return ratio
}

// tokenOverlap is the share of distinct tokens both strings have in
// common.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, token := range a {
		set[token] = true
	}

	union := len(set)
	common := 0
	seen := make(map[string]bool, len(b))
	for _, token := range b {
		if seen[token] {
			continue
		}
		seen[token] = true

		if set[token] {
			common++
		} else {
			union++
		}
	}

	return float64(common) / float64(union)
}

// merchantNormalizer strips diacritics after NFD decomposition.
var merchantNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeMerchant lowercases a merchant string, removes diacritics
// and reduces it to space-separated alphanumeric tokens.
func normalizeMerchant(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	normalized, _, err := transform.String(merchantNormalizer, s)
	if err == nil {
		s = normalized
	}

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
