// Package media uploads profile images to S3-compatible object storage and
// returns the URL the backend should store.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/greenhub/internal/filex"
	"github.com/dmitrijs2005/greenhub/internal/netx"
	"github.com/google/uuid"
)

// Uploader stores a local file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Config holds the object storage settings. An empty Bucket disables
// uploads.
type Config struct {
	Bucket    string `json:"bucket" yaml:"bucket" env:"BUCKET"`
	Region    string `json:"region" yaml:"region" env:"REGION"`
	Endpoint  string `json:"endpoint" yaml:"endpoint" env:"ENDPOINT"`
	AccessKey string `json:"access_key" yaml:"access_key" env:"ACCESS_KEY"`
	SecretKey string `json:"secret_key" yaml:"secret_key" env:"SECRET_KEY"`
	PublicURL string `json:"public_url" yaml:"public_url" env:"PUBLIC_URL"`
}

// PutObjectAPI is the part of *s3.Client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

type S3Uploader struct {
	api       PutObjectAPI
	bucket    string
	region    string
	publicURL string
	newKey    func(ext string) string
}

// NewS3Uploader builds an uploader from cfg, or returns nil when no bucket
// is configured. Static credentials are used when both keys are set;
// otherwise the default AWS credential chain applies. A custom Endpoint
// (MinIO and friends) switches to path-style addressing.
func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" && cfg.Endpoint != "" {
		publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return NewS3UploaderWithAPI(api, cfg.Bucket, region, publicURL), nil
}

// NewS3UploaderWithAPI wires an uploader around an existing client.
func NewS3UploaderWithAPI(api PutObjectAPI, bucket, region, publicURL string) *S3Uploader {
	return &S3Uploader{
		api:       api,
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimRight(publicURL, "/"),
		newKey:    ProfileKey,
	}
}

// ProfileKey returns a fresh object key under profiles/.
func ProfileKey(ext string) string {
	return "profiles/" + uuid.NewString() + strings.ToLower(ext)
}

// Upload puts the file at path under a new key and returns its URL.
func (u *S3Uploader) Upload(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	key := u.newKey(filepath.Ext(path))
	_, err = u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(netx.ImageContentType(path)),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.URL(key), nil
}

// URL returns the public address of key.
func (u *S3Uploader) URL(key string) string {
	if u.publicURL != "" {
		return u.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

// IsLocalFile reports whether ref names an existing file rather than a URL.
func IsLocalFile(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return false
	}
	return filex.IsRegularFile(ref)
}
