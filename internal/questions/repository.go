package questions

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("question not found")
)

// Repository defines persistence operations for questions. All listings are
// ordered newest-first.
type Repository interface {
	Create(ctx context.Context, q *Question) error
	GetByID(ctx context.Context, id string) (*Question, error)
	GetManyByID(ctx context.Context, ids []string) (map[string]*Question, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f Filter) ([]*Question, error)
	Update(ctx context.Context, id string, p Patch) (*Question, error)
	Delete(ctx context.Context, id string) error
}

// MongoRepository implements Repository using a MongoDB collection.
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates the repository and ensures secondary indexes
// used by the list queries.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	col.Indexes().CreateOne(context.Background(),
		mongo.IndexModel{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, q *Question) error {
	now := time.Now().UTC()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	q.CreatedAt = now
	q.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, q)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var q Question
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&q); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *MongoRepository) GetManyByID(ctx context.Context, ids []string) (map[string]*Question, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	out := map[string]*Question{}
	if len(oids) == 0 {
		return out, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var q Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		out[q.ID.Hex()] = &q
	}
	return out, cur.Err()
}

func (r *MongoRepository) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoRepository) List(ctx context.Context, f Filter) ([]*Question, error) {
	query := bson.M{}
	if f.Search != "" {
		// quoted pattern keeps the contract at plain substring matching
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	if len(f.Tags) > 0 {
		query["tags"] = bson.M{"$in": f.Tags}
	}
	if f.CreatedBy != "" {
		query["createdBy"] = f.CreatedBy
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Question{}
	for cur.Next(ctx) {
		var q Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		out = append(out, &q)
	}
	return out, cur.Err()
}

func (r *MongoRepository) Update(ctx context.Context, id string, p Patch) (*Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var q Question
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&q); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
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
