package redisdocs

import (
	"context"
	"fmt"
	"time"

	"github.com/geocoder89/formhub/internal/domain/document"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store keeps each document as a hash at <prefix><collection>:<id> and the
// ids of a collection in the set <prefix><collection>.
type Store struct {
	rdb    *redis.Client
	prefix string
	newID  func() string
}

func New(cfg Config) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return NewWithClient(rdb, cfg.Prefix)
}

func NewWithClient(rdb *redis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix, newID: uuid.NewString}
}

func (s *Store) Add(ctx context.Context, collection string, doc document.Document) (string, error) {
	id := s.newID()

	if err := s.write(ctx, collection, id, doc); err != nil {
		return "", err
	}

	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, doc document.Document) error {
	return s.write(ctx, collection, id, doc)
}

func (s *Store) write(ctx context.Context, collection, id string, doc document.Document) error {
	key := s.docKey(collection, id)
	fields := flatten(doc)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields)
		}
		pipe.SAdd(ctx, s.indexKey(collection), id)
		return nil
	})

	if err != nil {
		return fmt.Errorf("redis write %s: %w", key, err)
	}

	return nil
}

// Get returns the stored fields of one document; a missing document is an
// empty map.
func (s *Store) Get(ctx context.Context, collection, id string) (map[string]string, error) {
	return s.rdb.HGetAll(ctx, s.docKey(collection, id)).Result()
}

func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	return s.rdb.SCard(ctx, s.indexKey(collection)).Result()
}

// this ping function checks redis connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close(context.Context) error {
	return s.rdb.Close()
}

func (s *Store) docKey(collection, id string) string {
	return s.prefix + collection + ":" + id
}

func (s *Store) indexKey(collection string) string {
	return s.prefix + collection
}

func flatten(doc document.Document) map[string]any {
	out := make(map[string]any, len(doc))

	for k, v := range doc {
		switch val := v.(type) {
		case time.Time:
			out[k] = val.UTC().Format(time.RFC3339Nano)
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}

	return out
}
