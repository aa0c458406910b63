package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
)

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads images to a bucket under prefix. baseURL is the public
// address of the bucket or its CDN.
type S3Store struct {
	client  S3API
	bucket  string
	prefix  string
	baseURL string
	clock   clock.Clock
}

func NewS3Store(client S3API, bucket, prefix, baseURL string, clk clock.Clock) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, baseURL: baseURL, clock: clk}
}

func (s *S3Store) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	name, err := ObjectName(filename, s.clock.Now())
	if err != nil {
		return "", err
	}
	key := path.Join(s.prefix, name)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return publicURL(s.baseURL, key), nil
}
