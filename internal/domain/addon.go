package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerAddon records the purchase of a personal-trainer add-on for a
// membership. The lifecycle engine only reads it to confirm attachment
// and to size the trainer period at approval time.
type TrainerAddon struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MembershipID primitive.ObjectID `bson:"membershipId" json:"membershipId"`
	TrainerID    primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Months       int                `bson:"months" json:"months"`
	Price        float64            `bson:"price" json:"price"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
