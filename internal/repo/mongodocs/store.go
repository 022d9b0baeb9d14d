package mongodocs

import (
	"context"
	"fmt"
	"time"

	"github.com/geocoder89/formhub/internal/domain/document"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type collection interface {
	InsertOne(ctx context.Context, doc any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
}

// Store appends documents to MongoDB collections of one database.
type Store struct {
	client     *mongo.Client
	collection func(name string) collection
}

// Connect dials uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))

	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(database)

	return &Store{
		client: client,
		collection: func(name string) collection {
			return db.Collection(name)
		},
	}, nil
}

func (s *Store) Add(ctx context.Context, coll string, doc document.Document) (string, error) {
	res, err := s.collection(coll).InsertOne(ctx, bson.M(doc))

	if err != nil {
		return "", fmt.Errorf("mongo insert into %s: %w", coll, err)
	}

	return idString(res.InsertedID), nil
}

// Set writes doc under the given id, replacing any previous version.
func (s *Store) Set(ctx context.Context, coll, id string, doc document.Document) error {
	body := bson.M{"_id": id}
	for k, v := range doc {
		body[k] = v
	}

	_, err := s.collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, body, options.Replace().SetUpsert(true))

	if err != nil {
		return fmt.Errorf("mongo upsert %s/%s: %w", coll, id, err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func idString(v any) string {
	switch id := v.(type) {
	case bson.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
