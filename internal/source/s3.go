package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"blogsearch/internal/domain"
)

// ObjectStore is the read side of an object store
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// S3Options configure an S3 client
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string // empty for AWS
	AccessKeyID     string
	SecretAccessKey string
}

// S3Client reads objects from one bucket
type S3Client struct {
	s3     *s3.Client
	bucket string
}

// NewS3Client creates a client. A non-empty endpoint selects path-style
// addressing for S3-compatible stores.
func NewS3Client(ctx context.Context, opts S3Options) (*S3Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Client{s3: client, bucket: opts.Bucket}, nil
}

// Get retrieves an object
func (c *S3Client) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

// List returns all keys with the given prefix
func (c *S3Client) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// S3Source reads parsed JSON articles stored under a prefix
type S3Source struct {
	Store  ObjectStore
	Prefix string
}

// NewS3Source creates a source over store
func NewS3Source(store ObjectStore, prefix string) *S3Source {
	return &S3Source{Store: store, Prefix: prefix}
}

// FetchPublishedDocuments implements DocumentSource
func (s *S3Source) FetchPublishedDocuments(ctx context.Context) ([]domain.Document, error) {
	keys, err := s.Store.List(ctx, s.Prefix)
	if err != nil {
		return nil, err
	}

	var articles []Article
	for _, key := range keys {
		if !strings.EqualFold(path.Ext(key), ".json") {
			continue
		}
		data, err := s.Store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		var a Article
		if err := json.Unmarshal(data, &a); err != nil {
			log.Printf("Skipping object %s: %v", key, err)
			continue
		}
		if a.Path == "" {
			rel := strings.TrimPrefix(strings.TrimPrefix(key, s.Prefix), "/")
			a.Path = "/" + strings.TrimSuffix(rel, path.Ext(rel))
		}
		articles = append(articles, a)
	}
	return Documents(articles), nil
}
