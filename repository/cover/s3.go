package coverrepo

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"smartlibrary/util/httpx"
)

const keyPrefix = "smart-library-covers/"

// Config for the S3-compatible backend (AWS S3 or MinIO).
type Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional; set for MinIO-style custom endpoints
}

type s3Store struct {
	client *s3.Client
	bucket string
	region string
	base   *url.URL // non-nil when a custom endpoint is configured
}

func NewS3(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("cover bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithHTTPClient(httpx.Client()),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	var base *url.URL
	if cfg.Endpoint != "" {
		if u, err := url.Parse(cfg.Endpoint); err == nil {
			base = u
		}
	}
	return &s3Store{client: client, bucket: cfg.Bucket, region: region, base: base}, nil
}

func (s *s3Store) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	key := keyPrefix + fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitize(filename))
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", err
	}
	return s.urlFor(key), nil
}

func (s *s3Store) Delete(ctx context.Context, coverURL string) error {
	key, err := s.keyFor(coverURL)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key})
	return err
}

func (s *s3Store) urlFor(key string) string {
	if s.base != nil {
		u := *s.base
		u.Path = strings.TrimSuffix(u.Path, "/") + "/" + s.bucket + "/" + key
		return u.String()
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *s3Store) keyFor(coverURL string) (string, error) {
	u, err := url.Parse(coverURL)
	if err != nil {
		return "", err
	}
	path := strings.TrimPrefix(u.Path, "/")
	// Path-style URLs carry the bucket as the first segment.
	path = strings.TrimPrefix(path, s.bucket+"/")
	if path == "" {
		return "", fmt.Errorf("no object key in cover url %q", coverURL)
	}
	return path, nil
}

func sanitize(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ReplaceAll(name, " ", "_")
}
