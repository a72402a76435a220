package repositories

import (
	"context"
	"errors"

	"fixit-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document does not exist in its collection.
var ErrNotFound = errors.New("document not found")

// IssueRepository is the narrow store surface the services need for issues.
type IssueRepository interface {
	Insert(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Issue, error)
	IncrementUpvotes(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountAll(ctx context.Context) (int64, error)
}

type mongoIssueRepository struct {
	collection *mongo.Collection
}

// NewMongoIssueRepository wraps the issues collection.
func NewMongoIssueRepository(collection *mongo.Collection) IssueRepository {
	return &mongoIssueRepository{collection: collection}
}

func (r *mongoIssueRepository) Insert(ctx context.Context, issue *models.Issue) error {
	_, err := r.collection.InsertOne(ctx, issue)
	return err
}

func (r *mongoIssueRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *mongoIssueRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Issue, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Issue
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *mongoIssueRepository) IncrementUpvotes(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Issue
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"upvotes": 1}}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *mongoIssueRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoIssueRepository) CountAll(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
