// Package publish uploads rendered scenes to S3-compatible object storage.
//
// The publisher works with AWS S3 and with compatible services such as
// Cloudflare R2 or MinIO when an endpoint is configured:
//
//	p, err := publish.NewS3Publisher(ctx, publish.Config{
//	    Bucket:   "scenes",
//	    Prefix:   "fsnav",
//	    Endpoint: "https://<account>.r2.cloudflarestorage.com",
//	}, logger)
//	keys, err := p.PublishAll(ctx, objects)
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"

	fserrors "github.com/matzehuels/fsnav/pkg/errors"
)

// Config describes the target bucket.
type Config struct {
	Bucket   string `toml:"bucket" mapstructure:"bucket"`
	Prefix   string `toml:"prefix" mapstructure:"prefix"`
	Region   string `toml:"region" mapstructure:"region"`
	Endpoint string `toml:"endpoint" mapstructure:"endpoint"`

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string `toml:"-" mapstructure:"access_key_id"`
	SecretAccessKey string `toml:"-" mapstructure:"secret_access_key"`
}

// DefaultRegion is used when Config.Region is empty. R2 accepts "auto".
const DefaultRegion = "auto"

// Object is one artifact to upload.
type Object struct {
	Name        string // relative to the configured prefix
	Data        []byte
	ContentType string
}

// ObjectPutter is the subset of *s3.Client used by the publisher.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads objects to one bucket.
type S3Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *log.Logger
}

// NewS3Publisher builds an S3 client from cfg and the ambient AWS
// configuration.
func NewS3Publisher(ctx context.Context, cfg Config, logger *log.Logger) (*S3Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fserrors.New(fserrors.ErrCodeInvalidInput, "publish bucket is not configured")
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3PublisherWithClient(client, cfg, logger), nil
}

// NewS3PublisherWithClient uses an existing client.
func NewS3PublisherWithClient(client ObjectPutter, cfg Config, logger *log.Logger) *S3Publisher {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &S3Publisher{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger,
	}
}

// Key returns the object key for name.
func (p *S3Publisher) Key(name string) string {
	name = strings.TrimLeft(name, "/")
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// URI returns the s3:// address of name.
func (p *S3Publisher) URI(name string) string {
	return "s3://" + p.bucket + "/" + p.Key(name)
}

// Publish uploads one object and returns its key.
func (p *S3Publisher) Publish(ctx context.Context, obj Object) (string, error) {
	if obj.Name == "" {
		return "", fserrors.New(fserrors.ErrCodeInvalidInput, "object name cannot be empty")
	}
	key := p.Key(obj.Name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(obj.Data),
	}
	if obj.ContentType != "" {
		in.ContentType = aws.String(obj.ContentType)
	}
	if _, err := p.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	p.logger.Debug("published object", "bucket", p.bucket, "key", key, "bytes", len(obj.Data))
	return key, nil
}

// PublishAll uploads objects in order and stops at the first failure.
// The keys uploaded so far are returned either way.
func (p *S3Publisher) PublishAll(ctx context.Context, objs []Object) ([]string, error) {
	keys := make([]string, 0, len(objs))
	for _, obj := range objs {
		key, err := p.Publish(ctx, obj)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
