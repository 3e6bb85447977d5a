package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/gfgm/gfgm/backend/config"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// S3API is the subset of the S3 client used by S3ImageStore
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore keeps images as objects in a single bucket
type S3ImageStore struct {
	client S3API
	bucket string
}

var _ ImageStore = (*S3ImageStore)(nil)

func NewS3ImageStore(client S3API, bucket string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket}
}

// NewS3ImageStoreFromConfig builds the store from an initialized S3 client
func NewS3ImageStoreFromConfig(cfg *config.S3Config) *S3ImageStore {
	return NewS3ImageStore(cfg.Client, cfg.BucketName)
}

func (s *S3ImageStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	// the SDK needs a seekable body to sign the payload
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	name := StoredName(originalName)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return name, nil
}

func (s *S3ImageStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !validStoredName(name) {
		return nil, types.NotFoundf("image %q", name)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, types.NotFoundf("image %q", name)
		}
		return nil, err
	}
	return out.Body, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, name string) error {
	if !validStoredName(name) {
		return fmt.Errorf("invalid image name %q", name)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	return err
}
