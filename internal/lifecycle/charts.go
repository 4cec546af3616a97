package lifecycle

import (
	"time"

	"fitclub/membership-app/internal/domain"
)

const daysPerWeek = 7

// WeekInfo locates "now" on a membership's weekly calendar. Started is
// false when the membership has no start date yet or starts in the
// future; Number is the 1-based week index and only meaningful when
// Started is true.
type WeekInfo struct {
	Started bool `json:"started"`
	Number  int  `json:"number,omitempty"`
}

// ChartEligible reports whether weekly charts are a contracted
// entitlement for this membership: it must be active, and regular-tier
// plans additionally need a trainer add-on attached. Ineligible
// memberships report charts as not applicable, never as missing.
func ChartEligible(m *domain.Membership) bool {
	if m.Status != domain.StatusActive {
		return false
	}
	if m.PlanTier == domain.TierRegular || m.PlanTier == domain.TierRegularMonthly {
		return m.TrainerAttached()
	}
	return true
}

// CurrentWeek computes which membership week "now" falls in:
// floor(daysSinceStart/7)+1, clamped to a minimum of 1. A nil or
// future start date yields a not-started result rather than week 1.
func CurrentWeek(start *time.Time, now time.Time) WeekInfo {
	if start == nil || start.After(now) {
		return WeekInfo{}
	}
	days := int(now.Sub(*start).Hours() / 24)
	week := days/daysPerWeek + 1
	if week < 1 {
		week = 1
	}
	return WeekInfo{Started: true, Number: week}
}

// RequiredChartTypes lists the chart types due every eligible week for
// a tier. Workout charts are always due; diet charts are due for every
// tier except Basic, which is workout-only.
func RequiredChartTypes(tier domain.PlanTier) []domain.ChartType {
	if tier == domain.TierBasic {
		return []domain.ChartType{domain.ChartWorkout}
	}
	return []domain.ChartType{domain.ChartWorkout, domain.ChartDiet}
}

// MissingChartTypes returns the required chart types with no record
// for the membership's current week. Only the present week is
// considered; gaps in past weeks are not reminded upon. Multiple
// stored rows per (week, type) collapse to a single presence bit.
func MissingChartTypes(m *domain.Membership, charts []domain.WeeklyChart, now time.Time) []domain.ChartType {
	if !ChartEligible(m) {
		return nil
	}
	week := CurrentWeek(m.StartDate, now)
	if !week.Started {
		return nil
	}

	present := make(map[domain.ChartType]bool)
	for _, chart := range charts {
		if chart.MembershipID == m.ID && chart.WeekNumber == week.Number {
			present[chart.ChartType] = true
		}
	}

	var missing []domain.ChartType
	for _, required := range RequiredChartTypes(m.PlanTier) {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return missing
}
