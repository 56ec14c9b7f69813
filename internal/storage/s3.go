package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectAPI interface {
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 implementa Files sobre un bucket S3 (o compatible).
type S3 struct {
	objects objectAPI
	presign func(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	bucket  string
}

// NewS3 carga la config de AWS. Con AccessKey usa credenciales estáticas,
// si no la cadena por defecto del SDK. Endpoint habilita path-style (MinIO).
func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: s3 bucket required")
	}
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	pc := s3.NewPresignClient(client)

	return &S3{
		objects: client,
		bucket:  cfg.Bucket,
		presign: func(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
			req, err := pc.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			}, s3.WithPresignExpires(ttl))
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
	}, nil
}

func (s *S3) Driver() string { return "s3" }

// normalizeKey acepta "s3://bucket/key", "/key" o "key".
func (s *S3) normalizeKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "s3://"+s.bucket+"/")
	key = strings.TrimLeft(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return key, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	k, err := s.normalizeKey(key)
	if err != nil {
		return err
	}
	if _, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
	}); err != nil {
		return fmt.Errorf("storage: delete %s: %w", k, err)
	}
	return nil
}

func (s *S3) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	k, err := s.normalizeKey(key)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	url, err := s.presign(ctx, s.bucket, k, ttl)
	if err != nil {
		return "", fmt.Errorf("storage: presign %s: %w", k, err)
	}
	return url, nil
}
