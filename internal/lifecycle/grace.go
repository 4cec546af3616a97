package lifecycle

import (
	"time"

	"fitclub/membership-app/internal/domain"
)

// Grace reports whether a period is inside its post-expiration grace
// window. DaysRemaining is nil when not in grace.
type Grace struct {
	InGrace       bool `json:"isInGracePeriod"`
	DaysRemaining *int `json:"daysRemaining"`
}

// EvaluateGrace decides whether a membership is currently in its grace
// window. All three conditions must hold: the stored status says
// grace_period, the grace window has not closed, and the base period
// has actually expired. The last check guards against stale status
// rows; a grace flag without a crossed end date is inconsistent data
// and resolves to "not in grace" rather than being trusted.
func EvaluateGrace(end, graceEnd *time.Time, status domain.MembershipStatus, now time.Time) Grace {
	if status != domain.StatusGracePeriod {
		return Grace{}
	}
	return evaluateGraceWindow(end, graceEnd, now)
}

// evaluateGraceWindow applies the date conditions shared by membership
// and trainer grace: base period expired, grace end still ahead.
func evaluateGraceWindow(end, graceEnd *time.Time, now time.Time) Grace {
	if graceEnd == nil || graceEnd.Before(now) {
		return Grace{}
	}
	if end == nil || end.After(now) {
		return Grace{}
	}
	remaining := wholeDays(now, *graceEnd)
	return Grace{InGrace: true, DaysRemaining: &remaining}
}
