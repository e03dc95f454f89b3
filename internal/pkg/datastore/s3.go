package datastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps datasets as objects in an S3 compatible bucket. The
// revision is the object ETag; conditional writes use If-Match.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// S3Settings configures NewS3Client.
type S3Settings struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client loads the AWS configuration. A custom endpoint (R2, MinIO)
// switches to path-style addressing.
func NewS3Client(ctx context.Context, settings S3Settings) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(settings.Region)}
	if settings.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKey, settings.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Store returns a store over bucket. prefix is prepended to every key.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(path string) *string {
	return aws.String(s.prefix + path)
}

func (s *S3Store) Read(ctx context.Context, path string) (*Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(path),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, unavailable("read", path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, unavailable("read", path, err)
	}
	return &Object{Path: path, Data: data, Revision: aws.ToString(out.ETag)}, nil
}

func (s *S3Store) Write(ctx context.Context, path string, data []byte, opts WriteOptions) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(path),
		Body:   bytes.NewReader(data),
	}
	if opts.Message != "" {
		input.Metadata = map[string]string{"change-message": opts.Message}
	}
	if opts.ExpectedRevision != "" {
		input.IfMatch = aws.String(opts.ExpectedRevision)
	}

	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		if apiErrorCode(err) == "PreconditionFailed" || apiErrorCode(err) == "ConditionalRequestConflict" || isS3NotFound(err) {
			return "", fmt.Errorf("%w: write %s: %v", ErrRevisionMismatch, path, err)
		}
		return "", unavailable("write", path, err)
	}
	return aws.ToString(out.ETag), nil
}

func (s *S3Store) Delete(ctx context.Context, path string, message string) error {
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(path),
	}); err != nil {
		if isS3NotFound(err) {
			return ErrNotFound
		}
		return unavailable("delete", path, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(path),
	}); err != nil {
		return unavailable("delete", path, err)
	}
	return nil
}

func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return true
	}
	code := apiErrorCode(err)
	return code == "NoSuchKey" || code == "NotFound"
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
