// Package file содержит use cases для файлов в объектном хранилище.
package file

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/errors"
)

// File error codes.
const (
	CodeStorageFailure = "fichier.stockage.erreur"
	CodeFileNotFound   = "fichier.non.trouve"
	CodeFileEmpty      = "fichier.vide"
	CodeFileTooLarge   = "fichier.taille.depassee"
	CodeFileType       = "fichier.type.invalide"
)

// Config ограничивает загружаемые файлы.
type Config struct {
	KeyPrefix        string
	MaxSize          int64
	PresignExpiry    time.Duration
	AllowedMIMETypes []string
}

// Service - загрузка и выдача файлов.
type Service struct {
	storage ports.FileStorage
	cfg     Config
	now     func() time.Time
}

func NewService(storage ports.FileStorage, cfg Config) *Service {
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = 15 * time.Minute
	}
	return &Service{storage: storage, cfg: cfg, now: time.Now}
}

// UploadURL - результат RequestUploadURL.
type UploadURL struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// RequestUploadURL выдаёт presigned PUT URL для прямой загрузки клиентом.
func (s *Service) RequestUploadURL(ctx context.Context, fileName string) (*UploadURL, error) {
	key := s.newKey(fileName)
	url, err := s.storage.PresignedUploadURL(ctx, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, errors.NewFileStorageError(err, CodeStorageFailure)
	}
	return &UploadURL{Key: key, URL: url, ExpiresAt: s.now().Add(s.cfg.PresignExpiry)}, nil
}

// Upload сохраняет файл, переданный через multipart.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader, size int64, contentType string) (*ports.StoredObject, error) {
	if size <= 0 {
		return nil, errors.NewValidationError(CodeFileEmpty)
	}
	if s.cfg.MaxSize > 0 && size > s.cfg.MaxSize {
		return nil, errors.NewValidationError(CodeFileTooLarge, s.cfg.MaxSize)
	}
	if !s.allowed(contentType) {
		return nil, errors.NewValidationError(CodeFileType, contentType)
	}

	obj, err := s.storage.PutObject(ctx, s.newKey(fileName), r, size, contentType)
	if err != nil {
		return nil, errors.NewFileStorageError(err, CodeStorageFailure)
	}
	return &obj, nil
}

// Open возвращает поток объекта; вызывающий закрывает его.
func (s *Service) Open(ctx context.Context, key string) (io.ReadCloser, ports.StoredObject, error) {
	body, obj, err := s.storage.GetObject(ctx, key)
	if err != nil {
		if stderrors.Is(err, errors.ErrEntityNotFound) {
			return nil, ports.StoredObject{}, errors.NewNotFoundError(CodeFileNotFound, key)
		}
		return nil, ports.StoredObject{}, errors.NewFileStorageError(err, CodeStorageFailure)
	}
	return body, obj, nil
}

// Download читает объект целиком.
func (s *Service) Download(ctx context.Context, key string) ([]byte, error) {
	data, err := s.storage.Download(ctx, key)
	if err != nil {
		if stderrors.Is(err, errors.ErrEntityNotFound) {
			return nil, errors.NewNotFoundError(CodeFileNotFound, key)
		}
		return nil, errors.NewFileStorageError(err, CodeStorageFailure)
	}
	return data, nil
}

func (s *Service) allowed(contentType string) bool {
	if len(s.cfg.AllowedMIMETypes) == 0 {
		return true
	}
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	for _, t := range s.cfg.AllowedMIMETypes {
		if strings.EqualFold(t, mediaType) {
			return true
		}
	}
	return false
}

// newKey строит ключ вида <prefix>/<yyyy/mm>/<uuid><ext>.
func (s *Service) newKey(fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(fileName, "\\", "/"))))
	if len(ext) > 10 {
		ext = ""
	}
	key := fmt.Sprintf("%s/%s%s", s.now().UTC().Format("2006/01"), uuid.NewString(), ext)
	if s.cfg.KeyPrefix != "" {
		key = strings.Trim(s.cfg.KeyPrefix, "/") + "/" + key
	}
	return key
}
