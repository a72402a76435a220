package repositories

import (
	"context"
	"time"

	"fixit-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusChangeLogRepository is the append-only status ledger. There is no
// delete: entries outlive their issue on purpose.
type StatusChangeLogRepository interface {
	Append(ctx context.Context, entry *models.StatusChangeLog) error
	// FindByIssueID returns the issue's entries newest first.
	FindByIssueID(ctx context.Context, issueID primitive.ObjectID) ([]models.StatusChangeLog, error)
	// FindByAdminSince returns the admin's entries changed at or after the
	// given time, newest first. A zero time returns everything.
	FindByAdminSince(ctx context.Context, adminUID string, since time.Time) ([]models.StatusChangeLog, error)
	// FindBetween returns entries with start <= changedAt < end. Zero bounds
	// are open-ended.
	FindBetween(ctx context.Context, start, end time.Time) ([]models.StatusChangeLog, error)
}

type mongoStatusChangeLogRepository struct {
	collection *mongo.Collection
}

// NewMongoStatusChangeLogRepository wraps the statusChangeLogs collection.
func NewMongoStatusChangeLogRepository(collection *mongo.Collection) StatusChangeLogRepository {
	return &mongoStatusChangeLogRepository{collection: collection}
}

func (r *mongoStatusChangeLogRepository) Append(ctx context.Context, entry *models.StatusChangeLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *mongoStatusChangeLogRepository) FindByIssueID(ctx context.Context, issueID primitive.ObjectID) ([]models.StatusChangeLog, error) {
	return r.find(ctx, bson.M{"issueId": issueID})
}

func (r *mongoStatusChangeLogRepository) FindByAdminSince(ctx context.Context, adminUID string, since time.Time) ([]models.StatusChangeLog, error) {
	filter := bson.M{"changedByAdminUid": adminUID}
	if !since.IsZero() {
		filter["changedAt"] = bson.M{"$gte": since}
	}
	return r.find(ctx, filter)
}

func (r *mongoStatusChangeLogRepository) FindBetween(ctx context.Context, start, end time.Time) ([]models.StatusChangeLog, error) {
	window := bson.M{}
	if !start.IsZero() {
		window["$gte"] = start
	}
	if !end.IsZero() {
		window["$lt"] = end
	}

	filter := bson.M{}
	if len(window) > 0 {
		filter["changedAt"] = window
	}
	return r.find(ctx, filter)
}

func (r *mongoStatusChangeLogRepository) find(ctx context.Context, filter bson.M) ([]models.StatusChangeLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "changedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.StatusChangeLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
