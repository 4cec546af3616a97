package lifecycle

import (
	"time"

	"fitclub/membership-app/internal/domain"
)

// Status is the single derived view of one membership's state.
// Dashboards and admin lists consume this object as-is and never
// re-derive any of its fields from raw timestamps.
type Status struct {
	Membership        *domain.Membership `json:"membership"`
	Expiration        Expiration         `json:"expiration"`
	Grace             Grace              `json:"grace"`
	TrainerExpiration Expiration         `json:"trainerExpiration"`
	TrainerGrace      Grace              `json:"trainerGrace"`
	CanMessageTrainer bool               `json:"canMessageTrainer"`
	ChartEligible     bool               `json:"chartEligible"`
	CurrentWeek       WeekInfo           `json:"currentWeek"`
	MissingChartTypes []domain.ChartType `json:"missingChartTypes"`
}

// Aggregate runs every evaluator against one membership, its chart
// records and a single clock reading. Callers must not split the pass
// across multiple clock reads.
func Aggregate(m *domain.Membership, charts []domain.WeeklyChart, now time.Time) Status {
	return Status{
		Membership:        m,
		Expiration:        EvaluateExpiration(m.EndDate, now),
		Grace:             EvaluateGrace(m.EndDate, m.GracePeriodEnd, m.Status, now),
		TrainerExpiration: EvaluateTrainerPeriod(m, now),
		TrainerGrace:      EvaluateTrainerGrace(m, now),
		CanMessageTrainer: CanMessageTrainer(m, now),
		ChartEligible:     ChartEligible(m),
		CurrentWeek:       CurrentWeek(m.StartDate, now),
		MissingChartTypes: MissingChartTypes(m, charts, now),
	}
}
