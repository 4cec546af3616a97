package lifecycle

import (
	"time"

	"fitclub/membership-app/internal/domain"
)

// EvaluateTrainerPeriod classifies the trainer add-on's own validity
// window. It is gated on TrainerAssigned: without an assigned trainer
// there is nothing to expire. The membership's EndDate and Status are
// deliberately not consulted here; the trainer period runs on its own
// dates (the Regular-Monthly exception lives in the messaging gate,
// not in this evaluator).
func EvaluateTrainerPeriod(m *domain.Membership, now time.Time) Expiration {
	if !m.TrainerAssigned {
		return Expiration{}
	}
	return EvaluateExpiration(m.TrainerPeriodEnd, now)
}

// EvaluateTrainerGrace applies the grace-window rules to the trainer
// add-on's dates. There is no stored per-addon status, so only the
// date conditions apply: the trainer period must have expired and the
// trainer grace end must still be ahead.
func EvaluateTrainerGrace(m *domain.Membership, now time.Time) Grace {
	if !m.TrainerAssigned {
		return Grace{}
	}
	return evaluateGraceWindow(m.TrainerPeriodEnd, m.TrainerGracePeriodEnd, now)
}
