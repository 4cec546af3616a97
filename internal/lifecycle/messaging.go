package lifecycle

import (
	"time"

	"fitclub/membership-app/internal/domain"
)

// CanMessageTrainer decides whether member-to-trainer messaging is
// currently permitted. Messaging requires an assigned trainer whose
// period is either still valid or inside its own grace window.
//
// Regular-Monthly plans carry a named business exception: their trainer
// access dies the moment the membership's own end date passes, even if
// the trainer period or its grace window would still be open. This is
// the one place the membership and trainer evaluators interact.
func CanMessageTrainer(m *domain.Membership, now time.Time) bool {
	if !m.TrainerAssigned {
		return false
	}

	trainerExp := EvaluateTrainerPeriod(m, now)
	trainerGrace := EvaluateTrainerGrace(m, now)
	if trainerExp.Expired && !trainerGrace.InGrace {
		return false
	}

	if m.PlanTier == domain.TierRegularMonthly {
		if membershipExp := EvaluateExpiration(m.EndDate, now); membershipExp.Expired {
			return false
		}
	}
	return true
}
