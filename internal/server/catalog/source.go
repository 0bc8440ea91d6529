package catalog

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of *s3.Client used to fetch a catalog.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options describe an S3-compatible endpoint (AWS or MinIO).
type S3Options struct {
	AccessKey     string
	SecretKey     string
	Region        string
	BaseEndpoint  string
	DefaultBucket string
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) ObjectGetter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Client builds an S3 client with static credentials.
func NewS3Client(ctx context.Context, o S3Options) (ObjectGetter, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.AccessKey,
			o.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	}), nil
}

// Load resolves a catalog source:
//
//	""                 embedded default catalog
//	s3://bucket/key    object in S3 (bucket may be empty: s3:///key)
//	anything else      local file path
//
// The S3 client is created lazily and only for s3:// sources.
func Load(ctx context.Context, source string, o S3Options) (*Catalog, error) {
	switch {
	case source == "":
		return Default(), nil
	case strings.HasPrefix(source, "s3://"):
		client, err := NewS3Client(ctx, o)
		if err != nil {
			return nil, fmt.Errorf("catalog s3 client: %w", err)
		}
		return LoadS3(ctx, client, source, o.DefaultBucket)
	default:
		return LoadFile(source)
	}
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog read: %w", err)
	}
	return Parse(data)
}

// LoadS3 fetches and parses the catalog at an s3:// URL.
func LoadS3(ctx context.Context, client ObjectGetter, source, defaultBucket string) (*Catalog, error) {
	bucket, key, err := parseS3URL(source)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		bucket = defaultBucket
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog read body: %w", err)
	}
	return Parse(data)
}

func parseS3URL(source string) (bucket, key string, err error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", "", fmt.Errorf("catalog source: %w", err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || key == "" {
		return "", "", fmt.Errorf("catalog source %q: expected s3://bucket/key", source)
	}
	return u.Host, key, nil
}
