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

// AdminRepository persists admins and their running aggregates. Save writes
// the whole document back and is reserved for the aggregate path, which
// serializes per admin; everything else must use narrower writes so a stale
// in-memory copy can never clobber the aggregates.
type AdminRepository interface {
	Insert(ctx context.Context, admin *models.Admin) error
	FindByUID(ctx context.Context, uid string) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Save(ctx context.Context, admin *models.Admin) error
	UpdateLastLogin(ctx context.Context, uid string, at time.Time) error
	FindAll(ctx context.Context) ([]models.Admin, error)
	Delete(ctx context.Context, uid string) error
}

type mongoAdminRepository struct {
	collection *mongo.Collection
}

// NewMongoAdminRepository wraps the admins collection.
func NewMongoAdminRepository(collection *mongo.Collection) AdminRepository {
	return &mongoAdminRepository{collection: collection}
}

func (r *mongoAdminRepository) Insert(ctx context.Context, admin *models.Admin) error {
	_, err := r.collection.InsertOne(ctx, admin)
	return err
}

func (r *mongoAdminRepository) FindByUID(ctx context.Context, uid string) (*models.Admin, error) {
	id, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, ErrNotFound
	}

	var admin models.Admin
	err = r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *mongoAdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *mongoAdminRepository) Save(ctx context.Context, admin *models.Admin) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": admin.ID}, admin, opts)
	return err
}

func (r *mongoAdminRepository) UpdateLastLogin(ctx context.Context, uid string, at time.Time) error {
	id, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastLogin": at}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAdminRepository) FindAll(ctx context.Context) ([]models.Admin, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var admins []models.Admin
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *mongoAdminRepository) Delete(ctx context.Context, uid string) error {
	id, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
