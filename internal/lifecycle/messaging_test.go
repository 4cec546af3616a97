package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fitclub/membership-app/internal/domain"
)

func membershipWithPlan(planName string) *domain.Membership {
	m := &domain.Membership{
		PlanName:        planName,
		Status:          domain.StatusActive,
		TrainerAssigned: true,
	}
	m.DeriveTier()
	return m
}

func TestCanMessageTrainer_ValidPeriod(t *testing.T) {
	m := membershipWithPlan("Premium")
	m.EndDate = tp(testNow.AddDate(0, 1, 0))
	m.TrainerPeriodEnd = tp(testNow.AddDate(0, 0, 15))

	assert.True(t, CanMessageTrainer(m, testNow))
}

func TestCanMessageTrainer_NoTrainer(t *testing.T) {
	m := membershipWithPlan("Premium")
	m.TrainerAssigned = false
	m.TrainerPeriodEnd = tp(testNow.AddDate(0, 0, 15))

	assert.False(t, CanMessageTrainer(m, testNow))
}

func TestCanMessageTrainer_PeriodExpiredNoGrace(t *testing.T) {
	m := membershipWithPlan("Premium")
	m.TrainerPeriodEnd = tp(testNow.AddDate(0, 0, -3))

	assert.False(t, CanMessageTrainer(m, testNow))
}

func TestCanMessageTrainer_WithinTrainerGrace(t *testing.T) {
	m := membershipWithPlan("Premium")
	m.TrainerPeriodEnd = tp(testNow.AddDate(0, 0, -3))
	m.TrainerGracePeriodEnd = tp(testNow.AddDate(0, 0, 4))

	assert.True(t, CanMessageTrainer(m, testNow))
}

func TestCanMessageTrainer_RegularMonthlyMembershipExpired(t *testing.T) {
	// The tier exception: a live trainer period does not survive the
	// membership's own end date on Regular-Monthly plans.
	m := membershipWithPlan("Regular Monthly")
	m.EndDate = tp(testNow.AddDate(0, 0, -1))
	m.TrainerPeriodEnd = tp(testNow.AddDate(0, 0, 20))

	assert.False(t, CanMessageTrainer(m, testNow))
}

func TestCanMessageTrainer_RegularMonthlyMembershipStillActive(t *testing.T) {
	m := membershipWithPlan("Regular Monthly")
	m.EndDate = tp(testNow.AddDate(0, 0, 10))
	m.TrainerPeriodEnd = tp(testNow.AddDate(0, 0, 20))

	assert.True(t, CanMessageTrainer(m, testNow))
}

func TestCanMessageTrainer_PlainRegularSurvivesMembershipExpiry(t *testing.T) {
	// Non-monthly regular plans keep the default independence of the
	// two periods.
	m := membershipWithPlan("Regular")
	m.EndDate = tp(testNow.AddDate(0, 0, -1))
	m.TrainerPeriodEnd = tp(testNow.AddDate(0, 0, 20))

	assert.True(t, CanMessageTrainer(m, testNow))
}
