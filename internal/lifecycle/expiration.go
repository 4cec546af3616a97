package lifecycle

import (
	"math"
	"time"
)

// ExpiryWarningDays is the window, in whole days before the end date,
// during which a period is flagged as expiring soon.
const ExpiryWarningDays = 7

// Expiration classifies a dated period against a point in time.
// DaysRemaining is nil when no end date is tracked; when Expired it
// holds the number of whole days elapsed since expiry (for "N days
// ago" displays), otherwise the days left until the end date.
type Expiration struct {
	Expired       bool `json:"isExpired"`
	ExpiringSoon  bool `json:"isExpiringSoon"`
	DaysRemaining *int `json:"daysRemaining"`
}

// wholeDays returns the day delta from `from` to `to`, taking the
// ceiling toward the date boundary: a period ending later today counts
// as one day remaining, one ended earlier today as day zero past expiry.
func wholeDays(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// EvaluateExpiration classifies an optional end date against now.
// A nil end date means no expiration is tracked: all flags false,
// DaysRemaining nil. Expired and ExpiringSoon are mutually exclusive.
func EvaluateExpiration(end *time.Time, now time.Time) Expiration {
	if end == nil {
		return Expiration{}
	}
	delta := wholeDays(now, *end)
	if delta <= 0 {
		elapsed := -delta
		return Expiration{Expired: true, DaysRemaining: &elapsed}
	}
	remaining := delta
	return Expiration{
		ExpiringSoon:  remaining <= ExpiryWarningDays,
		DaysRemaining: &remaining,
	}
}
