package s3docs

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bytedance/sonic"
	"github.com/geocoder89/formhub/internal/domain/document"
	"github.com/google/uuid"
)

type Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Store writes each document as a JSON object at <collection>/<id>.json.
type Store struct {
	api    objectAPI
	bucket string
	newID  func() string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)

	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Store{api: client, bucket: cfg.Bucket, newID: uuid.NewString}, nil
}

func (s *Store) Add(ctx context.Context, collection string, doc document.Document) (string, error) {
	id := s.newID()

	if err := s.put(ctx, collection, id, doc); err != nil {
		return "", err
	}

	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, doc document.Document) error {
	return s.put(ctx, collection, id, doc)
}

func (s *Store) put(ctx context.Context, collection, id string, doc document.Document) error {
	body, err := sonic.ConfigStd.Marshal(doc)

	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	key := ObjectKey(collection, id)

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})

	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func ObjectKey(collection, id string) string {
	return collection + "/" + id + ".json"
}
