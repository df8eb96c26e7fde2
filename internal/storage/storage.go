package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mini-maxit/modelboard/internal/logger"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// BlobStorage stores submitted artifacts in one logical bucket.
type BlobStorage interface {
	// Upload stores data under objectPath and returns the stored path.
	Upload(ctx context.Context, objectPath string, data []byte) (string, error)
	Download(ctx context.Context, objectPath string) ([]byte, error)
	Delete(ctx context.Context, objectPath string) error
	Bucket() string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type minioStorage struct {
	client *minio.Client
	bucket string
	logger *zap.SugaredLogger
}

// NewMinioStorage connects to MinIO and creates the bucket if it does not exist.
func NewMinioStorage(ctx context.Context, cfg MinioConfig) (BlobStorage, error) {
	log := logger.NewNamedLogger("minioStorage")

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		log.Infof("Created bucket %s", cfg.Bucket)
	}

	log.Infof("MinIO storage initialized [endpoint: %s, bucket: %s]", cfg.Endpoint, cfg.Bucket)
	return &minioStorage{client: client, bucket: cfg.Bucket, logger: log}, nil
}

func (s *minioStorage) Bucket() string { return s.bucket }

func (s *minioStorage) Upload(ctx context.Context, objectPath string, data []byte) (string, error) {
	if objectPath == "" {
		return "", pkgerrors.ErrEmptyArtifactPath
	}
	info, err := s.client.PutObject(ctx, s.bucket, objectPath, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/x-python"})
	if err != nil {
		s.logger.Errorf("Failed to upload %s: %s", objectPath, err)
		return "", fmt.Errorf("%w: %w", pkgerrors.ErrFailedToUpload, err)
	}
	return info.Key, nil
}

func (s *minioStorage) Download(ctx context.Context, objectPath string) ([]byte, error) {
	if objectPath == "" {
		return nil, pkgerrors.ErrEmptyArtifactPath
	}
	obj, err := s.client.GetObject(ctx, s.bucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.translateError(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.translateError(err)
	}
	return data, nil
}

func (s *minioStorage) Delete(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return pkgerrors.ErrEmptyArtifactPath
	}
	return s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{})
}

func (s *minioStorage) translateError(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" {
		return pkgerrors.ErrArtifactNotFound
	}
	return err
}

type localStorage struct {
	rootDir string
	bucket  string
	logger  *zap.SugaredLogger
}

// NewLocalStorage keeps artifacts under rootDir/bucket on the local filesystem.
func NewLocalStorage(rootDir, bucket string) (BlobStorage, error) {
	bucketDir := filepath.Join(rootDir, bucket)
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &localStorage{
		rootDir: rootDir,
		bucket:  bucket,
		logger:  logger.NewNamedLogger("localStorage"),
	}, nil
}

func (s *localStorage) Bucket() string { return s.bucket }

func (s *localStorage) Upload(_ context.Context, objectPath string, data []byte) (string, error) {
	fullPath, err := s.resolve(objectPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", pkgerrors.ErrFailedToUpload, err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		s.logger.Errorf("Failed to write %s: %s", fullPath, err)
		return "", fmt.Errorf("%w: %w", pkgerrors.ErrFailedToUpload, err)
	}
	return objectPath, nil
}

func (s *localStorage) Download(_ context.Context, objectPath string) ([]byte, error) {
	fullPath, err := s.resolve(objectPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, pkgerrors.ErrArtifactNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *localStorage) Delete(_ context.Context, objectPath string) error {
	fullPath, err := s.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps an object path into the bucket directory, rejecting paths that escape it.
func (s *localStorage) resolve(objectPath string) (string, error) {
	if objectPath == "" {
		return "", pkgerrors.ErrEmptyArtifactPath
	}
	cleaned := path.Clean("/" + objectPath)
	if strings.Contains(cleaned, "..") || cleaned == "/" {
		return "", fmt.Errorf("invalid artifact path %q", objectPath)
	}
	return filepath.Join(s.rootDir, s.bucket, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}
