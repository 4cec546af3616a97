package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitclub/membership-app/internal/domain"
)

func TestEvaluateTrainerPeriod_NotAssigned(t *testing.T) {
	m := &domain.Membership{
		TrainerAssigned:  false,
		TrainerPeriodEnd: tp(testNow.AddDate(0, 0, -5)),
	}

	result := EvaluateTrainerPeriod(m, testNow)

	assert.False(t, result.Expired)
	assert.Nil(t, result.DaysRemaining)
}

func TestEvaluateTrainerPeriod_IndependentOfMembershipDates(t *testing.T) {
	// The membership itself is long expired; the trainer period runs
	// on its own dates.
	m := &domain.Membership{
		Status:           domain.StatusExpired,
		EndDate:          tp(testNow.AddDate(0, -2, 0)),
		TrainerAssigned:  true,
		TrainerPeriodEnd: tp(testNow.AddDate(0, 0, 10)),
	}

	result := EvaluateTrainerPeriod(m, testNow)

	assert.False(t, result.Expired)
	require.NotNil(t, result.DaysRemaining)
	assert.Equal(t, 10, *result.DaysRemaining)
}

func TestEvaluateTrainerPeriod_Expired(t *testing.T) {
	m := &domain.Membership{
		TrainerAssigned:  true,
		TrainerPeriodEnd: tp(testNow.AddDate(0, 0, -4)),
	}

	result := EvaluateTrainerPeriod(m, testNow)

	assert.True(t, result.Expired)
	require.NotNil(t, result.DaysRemaining)
	assert.Equal(t, 4, *result.DaysRemaining)
}

func TestEvaluateTrainerGrace(t *testing.T) {
	m := &domain.Membership{
		TrainerAssigned:       true,
		TrainerPeriodEnd:      tp(testNow.AddDate(0, 0, -2)),
		TrainerGracePeriodEnd: tp(testNow.AddDate(0, 0, 5)),
	}

	result := EvaluateTrainerGrace(m, testNow)

	assert.True(t, result.InGrace)
	require.NotNil(t, result.DaysRemaining)
	assert.Equal(t, 5, *result.DaysRemaining)
}

func TestEvaluateTrainerGrace_NotAssigned(t *testing.T) {
	m := &domain.Membership{
		TrainerAssigned:       false,
		TrainerPeriodEnd:      tp(testNow.AddDate(0, 0, -2)),
		TrainerGracePeriodEnd: tp(testNow.AddDate(0, 0, 5)),
	}

	assert.False(t, EvaluateTrainerGrace(m, testNow).InGrace)
}

func TestEvaluateTrainerGrace_PeriodNotYetExpired(t *testing.T) {
	m := &domain.Membership{
		TrainerAssigned:       true,
		TrainerPeriodEnd:      tp(testNow.AddDate(0, 0, 3)),
		TrainerGracePeriodEnd: tp(testNow.AddDate(0, 0, 10)),
	}

	assert.False(t, EvaluateTrainerGrace(m, testNow).InGrace)
}

func TestEvaluateTrainerPeriod_ZeroLengthPeriod(t *testing.T) {
	// Historical rows where the period end equals the start evaluate
	// as expired; repair happens at write time, not here.
	start := testNow.AddDate(0, -1, 0)
	m := &domain.Membership{
		TrainerAssigned:  true,
		StartDate:        &start,
		TrainerPeriodEnd: &start,
	}

	assert.True(t, EvaluateTrainerPeriod(m, testNow).Expired)
}
