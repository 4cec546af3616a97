package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestClassifyPlan(t *testing.T) {
	tests := []struct {
		name     string
		planName string
		want     PlanTier
	}{
		{"premium is general", "Premium", TierGeneral},
		{"gold annual is general", "Gold Annual", TierGeneral},
		{"basic exact", "Basic", TierBasic},
		{"basic with whitespace", "  basic ", TierBasic},
		{"basic as substring is not basic tier", "Basic Plus", TierGeneral},
		{"regular", "Regular", TierRegular},
		{"regular mixed case", "ReGuLaR Plan", TierRegular},
		{"regular monthly", "Regular Monthly", TierRegularMonthly},
		{"regular boys", "Regular Boys", TierRegularMonthly},
		{"regular girls", "regular girls batch", TierRegularMonthly},
		{"monthly without regular is general", "Monthly Premium", TierGeneral},
		{"empty name", "", TierGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPlan(tt.planName))
		})
	}
}

func TestDeriveTier(t *testing.T) {
	m := Membership{PlanName: "Regular Monthly Girls"}
	m.DeriveTier()
	assert.Equal(t, TierRegularMonthly, m.PlanTier)
}

func TestTrainerAttached(t *testing.T) {
	trainerID := primitive.NewObjectID()

	assert.False(t, (&Membership{}).TrainerAttached())
	assert.True(t, (&Membership{TrainerAssigned: true}).TrainerAttached())
	assert.True(t, (&Membership{HasTrainerAddon: true}).TrainerAttached())
	assert.True(t, (&Membership{TrainerID: &trainerID}).TrainerAttached())
}
