package subscriptions

import (
	"sort"
	"time"

	"github.com/rileysalas/clientdesk-backend/pkg/dates"
	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
)

// Status reflects whether a subscription has a price in force on the
// reference date. It is derived on every read, never persisted.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// sortedByStartDesc returns a stable copy ordered by most recent start first.
// All resolver lookups iterate this order, which makes overlapping-interval
// resolution deterministic: the most-recently-started candidate wins.
func sortedByStartDesc(amounts []models.SubscriptionAmount) []models.SubscriptionAmount {
	sorted := make([]models.SubscriptionAmount, len(amounts))
	copy(sorted, amounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.After(sorted[j].StartDate)
	})
	return sorted
}

// EffectiveAmount returns the price row whose half-open interval
// [StartDate, EndDate) contains the reference date, or nil when no interval
// matches. Overlapping rows resolve to the most recently started one.
func EffectiveAmount(amounts []models.SubscriptionAmount, ref time.Time) *models.SubscriptionAmount {
	day := dates.DateOnly(ref)
	for _, amount := range sortedByStartDesc(amounts) {
		if dates.DateOnly(amount.StartDate).After(day) {
			continue
		}
		if amount.EndDate != nil && !dates.DateOnly(*amount.EndDate).After(day) {
			continue
		}
		match := amount
		return &match
	}
	return nil
}

// LatestAmount returns the most recently declared price regardless of whether
// it has taken effect, or nil for an empty history.
func LatestAmount(amounts []models.SubscriptionAmount) *models.SubscriptionAmount {
	sorted := sortedByStartDesc(amounts)
	if len(sorted) == 0 {
		return nil
	}
	match := sorted[0]
	return &match
}

// StatusFor derives the display status: active iff an effective price exists.
func StatusFor(amounts []models.SubscriptionAmount, ref time.Time) Status {
	if EffectiveAmount(amounts, ref) != nil {
		return StatusActive
	}
	return StatusInactive
}

// LatestEndedDate returns the end date of the most-recently-started interval
// that has one set, used as the subscription's displayed end date. Nil means
// the subscription is ongoing.
func LatestEndedDate(amounts []models.SubscriptionAmount) *time.Time {
	for _, amount := range sortedByStartDesc(amounts) {
		if amount.EndDate != nil {
			end := dates.DateOnly(*amount.EndDate)
			return &end
		}
	}
	return nil
}
