package insights

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("insight not found")
)

// Repository defines persistence operations for insights.
type Repository interface {
	Create(ctx context.Context, i *Insight) error
	GetByID(ctx context.Context, id string) (*Insight, error)
	ListAll(ctx context.Context) ([]*Insight, error)
	ListByQuestion(ctx context.Context, questionID string) ([]*Insight, error)
	UpdateSummary(ctx context.Context, id, summary string) (*Insight, error)
	Delete(ctx context.Context, id string) error
}

// MongoRepository implements Repository using a MongoDB collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	col.Indexes().CreateOne(context.Background(),
		mongo.IndexModel{Keys: bson.D{{Key: "questionId", Value: 1}, {Key: "createdAt", Value: -1}}})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, i *Insight) error {
	now := time.Now().UTC()
	if i.ID.IsZero() {
		i.ID = primitive.NewObjectID()
	}
	i.CreatedAt = now
	i.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, i)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Insight, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var i Insight
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&i); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *MongoRepository) list(ctx context.Context, filter bson.M) ([]*Insight, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Insight{}
	for cur.Next(ctx) {
		var i Insight
		if err := cur.Decode(&i); err != nil {
			return nil, err
		}
		out = append(out, &i)
	}
	return out, cur.Err()
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]*Insight, error) {
	return r.list(ctx, bson.M{})
}

func (r *MongoRepository) ListByQuestion(ctx context.Context, questionID string) ([]*Insight, error) {
	return r.list(ctx, bson.M{"questionId": questionID})
}

func (r *MongoRepository) UpdateSummary(ctx context.Context, id, summary string) (*Insight, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set := bson.M{"summary": summary, "updatedAt": time.Now().UTC()}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var i Insight
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&i); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
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
