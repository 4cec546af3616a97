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

const chartCollectionName = "weekly_charts"

// mongoWeeklyChartRepository implements repository.WeeklyChartRepository
type mongoWeeklyChartRepository struct {
	collection *mongo.Collection
}

// NewMongoWeeklyChartRepository creates a new WeeklyChart repository.
func NewMongoWeeklyChartRepository(db *mongo.Database) repository.WeeklyChartRepository {
	return &mongoWeeklyChartRepository{
		collection: db.Collection(chartCollectionName),
	}
}

// Create inserts a new weekly chart.
func (r *mongoWeeklyChartRepository) Create(ctx context.Context, chart *domain.WeeklyChart) (primitive.ObjectID, error) {
	if chart.MembershipID == primitive.NilObjectID || chart.WeekNumber < 1 || !chart.ChartType.IsValid() {
		return primitive.NilObjectID, errors.New("chart requires membershipId, weekNumber >= 1 and a valid chartType")
	}
	chart.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	chart.CreatedAt = now
	chart.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, chart)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted chart ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single chart by its ID.
func (r *mongoWeeklyChartRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeeklyChart, error) {
	var chart domain.WeeklyChart
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&chart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &chart, nil
}

// GetByMembershipID retrieves all charts for one membership, ordered
// by week then type.
func (r *mongoWeeklyChartRepository) GetByMembershipID(ctx context.Context, membershipID primitive.ObjectID) ([]domain.WeeklyChart, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}, {Key: "chartType", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"membershipId": membershipID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeCharts(ctx, cursor)
}

// GetByMembershipIDs retrieves charts for a set of memberships in one
// round trip; used by the admin status list.
func (r *mongoWeeklyChartRepository) GetByMembershipIDs(ctx context.Context, membershipIDs []primitive.ObjectID) ([]domain.WeeklyChart, error) {
	if len(membershipIDs) == 0 {
		return []domain.WeeklyChart{}, nil
	}
	filter := bson.M{"membershipId": bson.M{"$in": membershipIDs}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeCharts(ctx, cursor)
}

// Update replaces the mutable fields of a chart.
func (r *mongoWeeklyChartRepository) Update(ctx context.Context, chart *domain.WeeklyChart) error {
	if chart.ID == primitive.NilObjectID {
		return errors.New("chart ID is required for update")
	}
	chart.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"title":         chart.Title,
		"content":       chart.Content,
		"fileObjectKey": chart.FileObjectKey,
		"updatedAt":     chart.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": chart.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a chart record.
func (r *mongoWeeklyChartRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func decodeCharts(ctx context.Context, cursor *mongo.Cursor) ([]domain.WeeklyChart, error) {
	var charts []domain.WeeklyChart
	if err := cursor.All(ctx, &charts); err != nil {
		return nil, err
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return charts, nil
}

// EnsureWeeklyChartIndexes creates necessary indexes. Call during startup.
func EnsureWeeklyChartIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Presence checks look up (membership, week, type).
			Keys:    bson.D{{Key: "membershipId", Value: 1}, {Key: "weekNumber", Value: 1}, {Key: "chartType", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "membershipId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
