package mongo

import (
	"context"
	"errors"
	"time"

	"fitclub/membership-app/internal/domain"
	"fitclub/membership-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const membershipCollectionName = "memberships"

// mongoMembershipRepository implements repository.MembershipRepository
type mongoMembershipRepository struct {
	collection *mongo.Collection
}

// NewMongoMembershipRepository creates a new Membership repository.
func NewMongoMembershipRepository(db *mongo.Database) repository.MembershipRepository {
	return &mongoMembershipRepository{
		collection: db.Collection(membershipCollectionName),
	}
}

// Create inserts a new membership record.
func (r *mongoMembershipRepository) Create(ctx context.Context, membership *domain.Membership) (primitive.ObjectID, error) {
	if membership.UserID == primitive.NilObjectID || membership.PlanName == "" {
		return primitive.NilObjectID, errors.New("membership requires userId and planName")
	}
	membership.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	membership.CreatedAt = now
	membership.UpdatedAt = now
	membership.DeriveTier()

	result, err := r.collection.InsertOne(ctx, membership)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted membership ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single membership by its ID.
func (r *mongoMembershipRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Membership, error) {
	var membership domain.Membership
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&membership)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	membership.DeriveTier()
	return &membership, nil
}

// GetCurrentByUserID retrieves the newest live membership for a user.
// Live means pending, active or grace_period; terminal rows (expired,
// rejected, cancelled) are skipped so a renewal row wins over history.
func (r *mongoMembershipRepository) GetCurrentByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Membership, error) {
	filter := bson.M{
		"userId": userID,
		"status": bson.M{"$in": []domain.MembershipStatus{
			domain.StatusPending,
			domain.StatusActive,
			domain.StatusGracePeriod,
		}},
	}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var membership domain.Membership
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&membership)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	membership.DeriveTier()
	return &membership, nil
}

// GetByUserID retrieves all memberships for a user, newest first.
func (r *mongoMembershipRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Membership, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeMemberships(ctx, cursor)
}

// ListByStatuses retrieves all memberships whose status is in the
// given set, newest first. An empty set returns everything.
func (r *mongoMembershipRepository) ListByStatuses(ctx context.Context, statuses []domain.MembershipStatus) ([]domain.Membership, error) {
	filter := bson.M{}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeMemberships(ctx, cursor)
}

// Update replaces the mutable fields of a membership record.
func (r *mongoMembershipRepository) Update(ctx context.Context, membership *domain.Membership) error {
	if membership.ID == primitive.NilObjectID {
		return errors.New("membership ID is required for update")
	}
	membership.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"planName":              membership.PlanName,
		"status":                membership.Status,
		"startDate":             membership.StartDate,
		"endDate":               membership.EndDate,
		"gracePeriodEnd":        membership.GracePeriodEnd,
		"trainerAssigned":       membership.TrainerAssigned,
		"trainerId":             membership.TrainerID,
		"hasTrainerAddon":       membership.HasTrainerAddon,
		"trainerPeriodEnd":      membership.TrainerPeriodEnd,
		"trainerGracePeriodEnd": membership.TrainerGracePeriodEnd,
		"durationMonths":        membership.DurationMonths,
		"price":                 membership.Price,
		"updatedAt":             membership.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": membership.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func decodeMemberships(ctx context.Context, cursor *mongo.Cursor) ([]domain.Membership, error) {
	var memberships []domain.Membership
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	for i := range memberships {
		memberships[i].DeriveTier()
	}
	return memberships, nil
}

// EnsureMembershipIndexes creates necessary indexes. Call during startup.
func EnsureMembershipIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: a user's current membership by status.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Admin lists filter on status alone.
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			// The lapse sweep scans active memberships by end date.
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
