package answers

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
	ErrNotFound = errors.New("answer not found")
)

// Repository defines persistence operations for answers.
type Repository interface {
	Create(ctx context.Context, a *Answer) error
	GetByID(ctx context.Context, id string) (*Answer, error)
	ListByQuestion(ctx context.Context, questionID string) ([]*Answer, error)
	UpdateBody(ctx context.Context, id, body string) (*Answer, error)
	Delete(ctx context.Context, id string) error
	DeleteByQuestion(ctx context.Context, questionID string) error
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

func (r *MongoRepository) Create(ctx context.Context, a *Answer) error {
	now := time.Now().UTC()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Answer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var a Answer
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) ListByQuestion(ctx context.Context, questionID string) ([]*Answer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"questionId": questionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Answer{}
	for cur.Next(ctx) {
		var a Answer
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, cur.Err()
}

func (r *MongoRepository) UpdateBody(ctx context.Context, id, body string) (*Answer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set := bson.M{"answer": body, "updatedAt": time.Now().UTC()}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a Answer
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
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

// DeleteByQuestion removes every answer for the question. Deleting zero
// documents is not an error: a question may simply have no answers.
func (r *MongoRepository) DeleteByQuestion(ctx context.Context, questionID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"questionId": questionID})
	return err
}
