package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipStatus is the persisted lifecycle state of a membership.
// The stored value can lag behind true time-based state (a server-side
// job moves active memberships into grace_period), so evaluators never
// trust it alone; see internal/lifecycle.
type MembershipStatus string

const (
	StatusPending     MembershipStatus = "pending"
	StatusActive      MembershipStatus = "active"
	StatusGracePeriod MembershipStatus = "grace_period"
	StatusExpired     MembershipStatus = "expired"
	StatusRejected    MembershipStatus = "rejected"
	StatusCancelled   MembershipStatus = "cancelled"
)

// PlanTier is the entitlement class derived from the free-text plan name.
// It is computed once when a record is loaded or created (DeriveTier),
// never re-parsed from the name during evaluation.
type PlanTier string

const (
	// TierGeneral covers every plan that is neither basic nor regular
	// (e.g. "Premium", "Gold"). Charts always apply while active.
	TierGeneral PlanTier = "general"
	// TierBasic is the workout-only plan; its name is exactly "basic"
	// (case-insensitive). Diet charts are not part of the entitlement.
	TierBasic PlanTier = "basic"
	// TierRegular plans receive charts only when a trainer add-on is
	// attached.
	TierRegular PlanTier = "regular"
	// TierRegularMonthly is the monthly/boys/girls variant of regular.
	// Trainer access for this tier dies with the membership's own end
	// date instead of running on the trainer period alone.
	TierRegularMonthly PlanTier = "regular_monthly"
)

var regularMonthlyMarkers = []string{"monthly", "boys", "girls"}

// ClassifyPlan maps a free-text plan name to its tier.
func ClassifyPlan(planName string) PlanTier {
	name := strings.ToLower(strings.TrimSpace(planName))
	if name == "basic" {
		return TierBasic
	}
	if strings.Contains(name, "regular") {
		for _, marker := range regularMonthlyMarkers {
			if strings.Contains(name, marker) {
				return TierRegularMonthly
			}
		}
		return TierRegular
	}
	return TierGeneral
}

// Membership represents one purchased gym membership for a user.
// The trainer-period fields describe the trainer add-on's own validity
// window; they are meaningful only when TrainerAssigned is true and
// never extend or shrink the membership's own EndDate.
type Membership struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	PlanName string             `bson:"planName" json:"planName"`
	// Derived from PlanName on load/create, not persisted.
	PlanTier PlanTier         `bson:"-" json:"planTier"`
	Status   MembershipStatus `bson:"status" json:"status"`

	StartDate *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	// Only meaningful while Status is grace_period.
	GracePeriodEnd *time.Time `bson:"gracePeriodEnd,omitempty" json:"gracePeriodEnd,omitempty"`

	TrainerAssigned       bool                `bson:"trainerAssigned" json:"trainerAssigned"`
	TrainerID             *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	HasTrainerAddon       bool                `bson:"hasTrainerAddon" json:"hasTrainerAddon"`
	TrainerPeriodEnd      *time.Time          `bson:"trainerPeriodEnd,omitempty" json:"trainerPeriodEnd,omitempty"`
	TrainerGracePeriodEnd *time.Time          `bson:"trainerGracePeriodEnd,omitempty" json:"trainerGracePeriodEnd,omitempty"`

	DurationMonths int       `bson:"durationMonths" json:"durationMonths"`
	Price          float64   `bson:"price" json:"price"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DeriveTier computes PlanTier from PlanName. Repositories call this
// after decoding and services after constructing a membership, so that
// everything downstream sees a classified record.
func (m *Membership) DeriveTier() {
	m.PlanTier = ClassifyPlan(m.PlanName)
}

// TrainerAttached reports whether any form of trainer add-on is present.
// Any one of the three signals counts; historical records are not
// consistent about which of them is set.
func (m *Membership) TrainerAttached() bool {
	return m.HasTrainerAddon || m.TrainerID != nil || m.TrainerAssigned
}
