package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/summaryhub/summaryhub/internal/summary"
	"github.com/summaryhub/summaryhub/pkg/logger"
)

// MongoRepo implements a MongoDB-backed repository for summaries.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	// owner-filtered listing is the hot query; the index is a performance
	// concern only, so a failure degrades rather than aborts
	idx := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}
	if _, err := col.Indexes().CreateOne(context.Background(), idx); err != nil {
		logger.Warnf("could not create summaries userId index: %v", err)
	}
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, s *summary.Summary) (*summary.Summary, error) {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	res, err := m.col.InsertOne(ctx, s)
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = id
	}
	return s, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*summary.Summary, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var s summary.Summary
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (m *MongoRepo) List(ctx context.Context, ownerID string) ([]*summary.Summary, error) {
	filter := bson.M{}
	if ownerID != "" {
		filter["userId"] = ownerID
	}
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*summary.Summary{}
	for cur.Next(ctx) {
		var s summary.Summary
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, id, url, text string) (*summary.Summary, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	upd := bson.M{"$set": bson.M{"url": url, "summary": text, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var s summary.Summary
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, upd, opts).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
