package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pictora/server/internal/shared/config"
)

// Storage errors.
var (
	ErrMissingFile     = errors.New("file is required")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file exceeds the upload limit")
)

// MaxUploadSize caps a single upload.
const MaxUploadSize = 10 << 20

const defaultFolder = "uploads"

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"video/mp4":  true,
}

// Service uploads user assets to object storage and hands back the
// public URL clients pass into task submissions.
type Service struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	log           *zap.Logger
}

// NewService creates the storage service against an S3-compatible
// endpoint.
func NewService(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Service{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		log:           log,
	}, nil
}

// objectKey builds the storage key: a folder prefix, a millisecond
// timestamp and a random infix to keep same-named uploads apart, then
// the client's filename.
func objectKey(folder, filename string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" || strings.Contains(folder, "..") {
		folder = defaultFolder
	}
	infix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s/%d_%s_%s", folder, time.Now().UnixMilli(), infix, path.Base(filename))
}

// Upload stores body under a generated key and returns the public URL.
func (s *Service) Upload(ctx context.Context, folder, filename, contentType string, size int64, body io.Reader) (string, error) {
	if !allowedTypes[contentType] {
		return "", ErrUnsupportedType
	}
	if size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	key := objectKey(folder, filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	s.log.Info("asset uploaded",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int64("size", size),
	)
	return s.publicBaseURL + "/" + key, nil
}
