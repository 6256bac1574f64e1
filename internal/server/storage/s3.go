package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// S3Config holds the settings for an S3-compatible endpoint (MinIO in the
// default docker-compose setup).
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store keeps photo blobs in an S3 bucket under date-based prefixes.
type S3Store struct {
	cfg S3Config
}

func NewS3Store(cfg S3Config) *S3Store {
	return &S3Store{cfg: cfg}
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.RootUser,     // MINIO_ROOT_USER
			s.cfg.RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// getRandomStorageKey spreads objects across date-based prefixes while
// keeping the original extension.
func getRandomStorageKey(name string) string {
	d := time.Now()
	ext := strings.ToLower(filepath.Ext(name))
	return fmt.Sprintf("photos/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func (s *S3Store) Save(ctx context.Context, name string, contentType string, data []byte) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	key := getRandomStorageKey(name)
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}

	return key, nil
}

func (s *S3Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := getObject(client, ctx, &s3.GetObjectInput{
		Bucket: &s.cfg.Bucket,
		Key:    &path,
	})
	if err != nil {
		return nil, err
	}

	return out.Body, nil
}

func (s *S3Store) Delete(ctx context.Context, path string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &s.cfg.Bucket,
		Key:    &path,
	})
	return err
}
