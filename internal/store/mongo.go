package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps each document under _id = key in a collection of the
// configured database.
type MongoStore struct {
	db *mongo.Database
}

// ConnectMongo dials uri and verifies the connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, errors.New("store: mongodb uri required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store: mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("store: mongodb ping: %w", err)
	}
	return client, nil
}

// NewMongoStore wraps a database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	if db == nil {
		panic("store: mongodb database cannot be nil")
	}
	return &MongoStore{db: db}
}

// Get finds the document by _id.
func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if id == "" {
		return nil, errors.New("store: id required")
	}
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: mongodb get %s/%s: %w", collection, id, err)
	}
	return Document(fromBSON(raw).(map[string]any)), nil
}

// Put replaces the document, inserting it when absent.
func (s *MongoStore) Put(ctx context.Context, collection, id string, doc Document) error {
	if id == "" {
		return errors.New("store: id required")
	}
	replacement := bson.M{}
	for k, v := range doc {
		replacement[k] = v
	}
	replacement["_id"] = id

	opts := options.Replace().SetUpsert(true)
	if _, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, replacement, opts); err != nil {
		return fmt.Errorf("store: mongodb replace %s/%s: %w", collection, id, err)
	}
	return nil
}

// Backend implements Store.
func (s *MongoStore) Backend() string { return BackendMongoDB }

// fromBSON converts driver container types into plain maps and slices so
// Document accessors see the same shapes every backend produces.
func fromBSON(v any) any {
	switch t := v.(type) {
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = fromBSON(val)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, elem := range t {
			out[elem.Key] = fromBSON(elem.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = fromBSON(val)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	default:
		return v
	}
}
