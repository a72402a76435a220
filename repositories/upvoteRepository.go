package repositories

import (
	"context"

	"fixit-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UpvoteRepository tracks which users upvoted which issues.
type UpvoteRepository interface {
	Insert(ctx context.Context, upvote *models.Upvote) error
	Exists(ctx context.Context, issueID primitive.ObjectID, userUID string) (bool, error)
	DeleteByIssueID(ctx context.Context, issueID primitive.ObjectID) error
}

type mongoUpvoteRepository struct {
	collection *mongo.Collection
}

// NewMongoUpvoteRepository wraps the upvotes collection.
func NewMongoUpvoteRepository(collection *mongo.Collection) UpvoteRepository {
	return &mongoUpvoteRepository{collection: collection}
}

func (r *mongoUpvoteRepository) Insert(ctx context.Context, upvote *models.Upvote) error {
	_, err := r.collection.InsertOne(ctx, upvote)
	return err
}

func (r *mongoUpvoteRepository) Exists(ctx context.Context, issueID primitive.ObjectID, userUID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"issue": issueID, "user": userUID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *mongoUpvoteRepository) DeleteByIssueID(ctx context.Context, issueID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"issue": issueID})
	return err
}
