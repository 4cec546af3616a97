package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChartType distinguishes the two weekly chart kinds a trainer (or
// admin) publishes for a member.
type ChartType string

const (
	ChartWorkout ChartType = "workout"
	ChartDiet    ChartType = "diet"
)

// IsValid reports whether t is one of the known chart types.
func (t ChartType) IsValid() bool {
	return t == ChartWorkout || t == ChartDiet
}

// WeeklyChart is a workout or diet plan for one week of one membership.
// Storage may hold several rows per (membership, week, type); presence
// checks treat them as a boolean OR.
type WeeklyChart struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MembershipID primitive.ObjectID `bson:"membershipId" json:"membershipId"`
	// 1-based week index from the membership start date.
	WeekNumber int       `bson:"weekNumber" json:"weekNumber"`
	ChartType  ChartType `bson:"chartType" json:"chartType"`
	Title      string    `bson:"title,omitempty" json:"title,omitempty"`
	Content    string    `bson:"content,omitempty" json:"content,omitempty"`
	// Object key of an attached file in S3, set after upload confirm.
	FileObjectKey string `bson:"fileObjectKey,omitempty" json:"fileObjectKey,omitempty"`
	// Nil means the chart was authored by an admin rather than a trainer.
	CreatedBy *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
