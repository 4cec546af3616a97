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

const addonCollectionName = "trainer_addons"

// mongoTrainerAddonRepository implements repository.TrainerAddonRepository
type mongoTrainerAddonRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainerAddonRepository creates a new TrainerAddon repository.
func NewMongoTrainerAddonRepository(db *mongo.Database) repository.TrainerAddonRepository {
	return &mongoTrainerAddonRepository{
		collection: db.Collection(addonCollectionName),
	}
}

// Create inserts a new trainer add-on purchase.
func (r *mongoTrainerAddonRepository) Create(ctx context.Context, addon *domain.TrainerAddon) (primitive.ObjectID, error) {
	if addon.MembershipID == primitive.NilObjectID || addon.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("addon requires membershipId and trainerId")
	}
	addon.ID = primitive.NewObjectID()
	addon.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, addon)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted addon ID")
	}
	return insertedID, nil
}

// GetByMembershipID retrieves the newest add-on for a membership.
func (r *mongoTrainerAddonRepository) GetByMembershipID(ctx context.Context, membershipID primitive.ObjectID) (*domain.TrainerAddon, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var addon domain.TrainerAddon
	err := r.collection.FindOne(ctx, bson.M{"membershipId": membershipID}, findOptions).Decode(&addon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &addon, nil
}

// EnsureTrainerAddonIndexes creates necessary indexes. Call during startup.
func EnsureTrainerAddonIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "membershipId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
