package repository

import (
	"context"

	"fitclub/membership-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddMemberIDToTrainer(ctx context.Context, trainerID, memberID primitive.ObjectID) error
}

// MembershipRepository defines the interface for interacting with
// membership records. Implementations classify the plan tier on every
// read so callers always see a classified record.
type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.Membership) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Membership, error)
	// GetCurrentByUserID returns the user's most recent membership in
	// one of the live statuses (pending, active, grace_period).
	GetCurrentByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Membership, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Membership, error)
	ListByStatuses(ctx context.Context, statuses []domain.MembershipStatus) ([]domain.Membership, error)
	Update(ctx context.Context, membership *domain.Membership) error
}

// WeeklyChartRepository defines the interface for interacting with
// weekly chart records.
type WeeklyChartRepository interface {
	Create(ctx context.Context, chart *domain.WeeklyChart) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeeklyChart, error)
	GetByMembershipID(ctx context.Context, membershipID primitive.ObjectID) ([]domain.WeeklyChart, error)
	// GetByMembershipIDs is the aggregator's batch read for admin
	// status lists.
	GetByMembershipIDs(ctx context.Context, membershipIDs []primitive.ObjectID) ([]domain.WeeklyChart, error)
	Update(ctx context.Context, chart *domain.WeeklyChart) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TrainerAddonRepository defines the interface for interacting with
// trainer add-on purchases.
type TrainerAddonRepository interface {
	Create(ctx context.Context, addon *domain.TrainerAddon) (primitive.ObjectID, error)
	GetByMembershipID(ctx context.Context, membershipID primitive.ObjectID) (*domain.TrainerAddon, error)
}
