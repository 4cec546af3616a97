package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fitclub/membership-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func activeMembership(planName string) *domain.Membership {
	m := &domain.Membership{
		ID:       primitive.NewObjectID(),
		PlanName: planName,
		Status:   domain.StatusActive,
	}
	m.DeriveTier()
	return m
}

func chartFor(m *domain.Membership, week int, chartType domain.ChartType) domain.WeeklyChart {
	return domain.WeeklyChart{
		ID:           primitive.NewObjectID(),
		MembershipID: m.ID,
		WeekNumber:   week,
		ChartType:    chartType,
	}
}

func TestCurrentWeek(t *testing.T) {
	tests := []struct {
		name        string
		startOffset int // days relative to now, negative = past
		wantStarted bool
		wantWeek    int
	}{
		{"started today", 0, true, 1},
		{"six days in", -6, true, 1},
		{"seven days in", -7, true, 2},
		{"fourteen days in", -14, true, 3},
		{"twenty days in", -20, true, 3},
		{"twenty-one days in", -21, true, 4},
		{"starts tomorrow", 1, false, 0},
		{"starts next month", 30, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := testNow.AddDate(0, 0, tt.startOffset)
			week := CurrentWeek(&start, testNow)
			assert.Equal(t, tt.wantStarted, week.Started)
			if tt.wantStarted {
				assert.Equal(t, tt.wantWeek, week.Number)
			}
		})
	}
}

func TestCurrentWeek_NoStartDate(t *testing.T) {
	week := CurrentWeek(nil, testNow)
	assert.False(t, week.Started)
}

func TestCurrentWeek_PartialDay(t *testing.T) {
	// 6 days and 20 hours in is still day 6, week 1.
	start := testNow.Add(-164 * time.Hour)
	week := CurrentWeek(&start, testNow)
	assert.True(t, week.Started)
	assert.Equal(t, 1, week.Number)
}

func TestChartEligible(t *testing.T) {
	premium := activeMembership("Premium")
	assert.True(t, ChartEligible(premium))

	pending := activeMembership("Premium")
	pending.Status = domain.StatusPending
	assert.False(t, ChartEligible(pending))

	regularNoTrainer := activeMembership("Regular")
	assert.False(t, ChartEligible(regularNoTrainer))

	regularWithTrainer := activeMembership("Regular")
	regularWithTrainer.TrainerAssigned = true
	assert.True(t, ChartEligible(regularWithTrainer))

	regularWithAddon := activeMembership("Regular Monthly")
	regularWithAddon.HasTrainerAddon = true
	assert.True(t, ChartEligible(regularWithAddon))
}

func TestChartEligible_RegularNeverEligibleWithoutTrainer(t *testing.T) {
	// Chart records existing in storage do not make a regular plan
	// eligible; applicability is governed by tier and attachment only.
	m := activeMembership("Regular")
	charts := []domain.WeeklyChart{chartFor(m, 1, domain.ChartWorkout)}

	assert.False(t, ChartEligible(m))
	assert.Nil(t, MissingChartTypes(m, charts, testNow))
}

func TestRequiredChartTypes(t *testing.T) {
	assert.Equal(t, []domain.ChartType{domain.ChartWorkout}, RequiredChartTypes(domain.TierBasic))
	assert.Equal(t, []domain.ChartType{domain.ChartWorkout, domain.ChartDiet}, RequiredChartTypes(domain.TierGeneral))
	assert.Equal(t, []domain.ChartType{domain.ChartWorkout, domain.ChartDiet}, RequiredChartTypes(domain.TierRegular))
}

func TestMissingChartTypes_PremiumDietMissing(t *testing.T) {
	m := activeMembership("Premium")
	m.StartDate = tp(testNow.AddDate(0, 0, -20)) // week 3
	charts := []domain.WeeklyChart{chartFor(m, 3, domain.ChartWorkout)}

	missing := MissingChartTypes(m, charts, testNow)

	assert.Equal(t, []domain.ChartType{domain.ChartDiet}, missing)
}

func TestMissingChartTypes_BasicDietNotRequired(t *testing.T) {
	m := activeMembership("Basic")
	m.StartDate = tp(testNow.AddDate(0, 0, -20))
	charts := []domain.WeeklyChart{chartFor(m, 3, domain.ChartWorkout)}

	assert.Empty(t, MissingChartTypes(m, charts, testNow))
}

func TestMissingChartTypes_BasicWorkoutAbsent(t *testing.T) {
	m := activeMembership("Basic")
	m.StartDate = tp(testNow.AddDate(0, 0, -20))

	missing := MissingChartTypes(m, []domain.WeeklyChart{}, testNow)

	assert.Equal(t, []domain.ChartType{domain.ChartWorkout}, missing)
}

func TestMissingChartTypes_OnlyCurrentWeekConsidered(t *testing.T) {
	// Gaps in past weeks are not reminded upon.
	m := activeMembership("Premium")
	m.StartDate = tp(testNow.AddDate(0, 0, -14)) // week 3
	charts := []domain.WeeklyChart{
		chartFor(m, 3, domain.ChartWorkout),
		chartFor(m, 3, domain.ChartDiet),
		// weeks 1 and 2 have nothing at all
	}

	assert.Empty(t, MissingChartTypes(m, charts, testNow))
}

func TestMissingChartTypes_DuplicateRowsCollapse(t *testing.T) {
	m := activeMembership("Premium")
	m.StartDate = tp(testNow.AddDate(0, 0, -2))
	charts := []domain.WeeklyChart{
		chartFor(m, 1, domain.ChartWorkout),
		chartFor(m, 1, domain.ChartWorkout),
		chartFor(m, 1, domain.ChartDiet),
	}

	assert.Empty(t, MissingChartTypes(m, charts, testNow))
}

func TestMissingChartTypes_OtherMembershipChartsIgnored(t *testing.T) {
	m := activeMembership("Premium")
	m.StartDate = tp(testNow.AddDate(0, 0, -2))
	other := activeMembership("Premium")
	charts := []domain.WeeklyChart{
		chartFor(other, 1, domain.ChartWorkout),
		chartFor(other, 1, domain.ChartDiet),
	}

	missing := MissingChartTypes(m, charts, testNow)

	assert.Equal(t, []domain.ChartType{domain.ChartWorkout, domain.ChartDiet}, missing)
}

func TestMissingChartTypes_NotStarted(t *testing.T) {
	m := activeMembership("Premium")
	m.StartDate = tp(testNow.AddDate(0, 0, 5))

	assert.Nil(t, MissingChartTypes(m, nil, testNow))
}
