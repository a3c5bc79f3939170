package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the storage backend uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3StorageService struct {
	client S3API
	bucket string
	prefix string
}

func NewS3StorageService(client S3API, bucket, prefix string) StorageService {
	return &s3StorageService{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *s3StorageService) key(filename string) string {
	return path.Join(s.prefix, path.Base(filename))
}

// EnsureUploadDir is a no-op, buckets are provisioned outside the service.
func (s *s3StorageService) EnsureUploadDir() error {
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is not configured")
	}
	return nil
}

func (s *s3StorageService) SaveFile(ctx context.Context, file *multipart.FileHeader, fileType string) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return s.SaveBytes(ctx, data, file.Filename, fileType)
}

func (s *s3StorageService) SaveBytes(ctx context.Context, data []byte, originalName, fileType string) (string, string, error) {
	uniqueFilename, err := uniqueUploadName(originalName, fileType)
	if err != nil {
		return "", "", err
	}
	key := s.key(uniqueFilename)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return uniqueFilename, fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *s3StorageService) ReadFile(ctx context.Context, filename string) ([]byte, error) {
	key := s.key(filename)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *s3StorageService) DeleteFile(ctx context.Context, filename string) error {
	key := s.key(filename)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
