package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/summaryhub/summaryhub/internal/models"
)

var (
	// ErrDuplicate is returned by Create when a unique constraint
	// (azureOid or email) is violated.
	ErrDuplicate = errors.New("user already exists")
	ErrNotFound  = errors.New("user not found")
)

// UserRepository defines persistence operations for users. Lookups return
// (nil, nil) when no user matches; mutations on a missing user return
// ErrNotFound.
type UserRepository interface {
	GetByOID(ctx context.Context, oid string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	RecordLogin(ctx context.Context, oid, email string, at time.Time) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a repository for the given collection and
// ensures the unique indexes the registration flow relies on: Create must
// fail on a duplicate subject rather than silently overwrite. Index creation
// failure is fatal here, running without the indexes would allow duplicate
// registrations.
func NewMongoUserRepository(col *mongo.Collection) (*MongoUserRepository, error) {
	_, err := col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "azureOid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("creating user indexes: %w", err)
	}
	return &MongoUserRepository{col: col}, nil
}

func (r *MongoUserRepository) GetByOID(ctx context.Context, oid string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"azureOid": oid})
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]*models.User, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.User{}
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, cur.Err()
}

func (r *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return u, nil
}

// RecordLogin stamps lastLogin and keeps the stored email in sync with the
// provider. Role is intentionally untouched.
func (r *MongoUserRepository) RecordLogin(ctx context.Context, oid, email string, at time.Time) (*models.User, error) {
	upd := bson.M{"$set": bson.M{"email": email, "lastLogin": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"azureOid": oid}, upd, opts).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	upd := bson.M{"$set": bson.M{"role": role}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, upd, opts).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
