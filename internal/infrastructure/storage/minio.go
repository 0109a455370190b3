// Package storage реализует ports.FileStorage поверх S3-совместимого хранилища (MinIO).
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/application/ports"
	domainErrors "github.com/Haleralex/paytogether/internal/domain/errors"
)

var _ ports.FileStorage = (*MinioStorage)(nil)

// Config - настройки подключения к хранилищу.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicURL - базовый адрес, по которому объекты отдаются клиентам.
	// Пустой означает scheme://endpoint/bucket.
	PublicURL string
}

// MinioStorage хранит файлы в одном bucket.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *zap.Logger
}

// NewMinioStorage создаёт клиента. Сетевых запросов не выполняет.
func NewMinioStorage(cfg Config, logger *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		logger:    logger,
	}, nil
}

// EnsureBucket создаёт bucket, если его ещё нет.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("storage bucket created", zap.String("bucket", s.bucket))
	return nil
}

// HealthCheck проверяет доступность bucket.
func (s *MinioStorage) HealthCheck(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}

func (s *MinioStorage) objectURL(key string) string {
	return s.publicURL + "/" + key
}

// PutObject загружает объект.
func (s *MinioStorage) PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ports.StoredObject, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return ports.StoredObject{}, fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return ports.StoredObject{
		Key:         key,
		Size:        info.Size,
		ContentType: contentType,
		URL:         s.objectURL(key),
	}, nil
}

// GetObject открывает объект на чтение. Вызывающий закрывает reader.
func (s *MinioStorage) GetObject(ctx context.Context, key string) (io.ReadCloser, ports.StoredObject, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ports.StoredObject{}, s.translate(key, err)
	}

	// GetObject ленивый: ошибка отсутствия объекта приходит только из Stat.
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, ports.StoredObject{}, s.translate(key, err)
	}

	return obj, ports.StoredObject{
		Key:         key,
		Size:        stat.Size,
		ContentType: stat.ContentType,
		URL:         s.objectURL(key),
	}, nil
}

// StatObject проверяет наличие объекта без чтения содержимого.
func (s *MinioStorage) StatObject(ctx context.Context, key string) (ports.StoredObject, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return ports.StoredObject{}, s.translate(key, err)
	}
	return ports.StoredObject{
		Key:         key,
		Size:        info.Size,
		ContentType: info.ContentType,
		URL:         s.objectURL(key),
	}, nil
}

// Download читает объект целиком.
func (s *MinioStorage) Download(ctx context.Context, key string) ([]byte, error) {
	rc, _, err := s.GetObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

// PresignedUploadURL выдаёт URL для прямой загрузки (PUT) клиентом.
func (s *MinioStorage) PresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return u.String(), nil
}

// RemoveObject удаляет объект. Отсутствующий объект не считается ошибкой.
func (s *MinioStorage) RemoveObject(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

// KeyFromURL извлекает ключ объекта из публичного URL этого bucket.
// Для чужих URL возвращает false.
func (s *MinioStorage) KeyFromURL(rawURL string) (string, bool) {
	prefix := s.publicURL + "/"
	if strings.HasPrefix(rawURL, prefix) {
		key := strings.TrimPrefix(rawURL, prefix)
		if i := strings.IndexAny(key, "?#"); i >= 0 {
			key = key[:i]
		}
		if key == "" {
			return "", false
		}
		if unescaped, err := url.PathUnescape(key); err == nil {
			key = unescaped
		}
		return key, true
	}
	return "", false
}

func (s *MinioStorage) translate(key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" {
		return fmt.Errorf("object %s: %w", key, domainErrors.ErrEntityNotFound)
	}
	return fmt.Errorf("failed to get object %s: %w", key, err)
}
