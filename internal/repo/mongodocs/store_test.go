package mongodocs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/formhub/internal/domain/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type fakeCollection struct {
	inserted []any
	replaced []any
	filters  []any
	err      error
	id       bson.ObjectID
}

func (f *fakeCollection) InsertOne(ctx context.Context, doc any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inserted = append(f.inserted, doc)
	return &mongo.InsertOneResult{InsertedID: f.id}, nil
}

func (f *fakeCollection) ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.filters = append(f.filters, filter)
	f.replaced = append(f.replaced, replacement)
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func newFakeStore(c *fakeCollection, seen *string) *Store {
	return &Store{collection: func(name string) collection {
		*seen = name
		return c
	}}
}

func TestStoreAdd(t *testing.T) {
	c := &fakeCollection{id: bson.NewObjectID()}
	var name string
	s := newFakeStore(c, &name)

	created := time.Now().UTC()
	id, err := s.Add(context.Background(), "users", document.Document{
		"email":     "a@b.com",
		"password":  "abcdef",
		"createdAt": created,
	})
	require.NoError(t, err)

	assert.Equal(t, c.id.Hex(), id)
	assert.Equal(t, "users", name)
	require.Len(t, c.inserted, 1)

	doc := c.inserted[0].(bson.M)
	assert.Equal(t, "a@b.com", doc["email"])
	assert.Equal(t, created, doc["createdAt"])
}

func TestStoreSetUpsertsByID(t *testing.T) {
	c := &fakeCollection{}
	var name string
	s := newFakeStore(c, &name)

	err := s.Set(context.Background(), "profiles", "uid-1", document.Document{"email": "a@b.com"})
	require.NoError(t, err)

	assert.Equal(t, "profiles", name)
	require.Len(t, c.replaced, 1)
	assert.Equal(t, bson.M{"_id": "uid-1"}, c.filters[0])
	assert.Equal(t, bson.M{"_id": "uid-1", "email": "a@b.com"}, c.replaced[0])
}

func TestStoreAddError(t *testing.T) {
	c := &fakeCollection{err: errors.New("server selection timeout")}
	var name string
	s := newFakeStore(c, &name)

	_, err := s.Add(context.Background(), "users", document.Document{"email": "a@b.com"})
	assert.ErrorContains(t, err, "server selection timeout")
}
