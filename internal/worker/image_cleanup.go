package worker

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	domainErrors "github.com/Haleralex/paytogether/internal/domain/errors"
)

// ImageCleanupConfig - параметры очистки незагруженных изображений.
type ImageCleanupConfig struct {
	GracePeriod time.Duration
	BatchSize   int
}

// ImageCleanup сверяет изображения сделок, застрявшие в PENDING или FAILED
// дольше GracePeriod, с хранилищем.
//
// Правила:
//   - объект найден в bucket (или URL внешний и статус PENDING) - изображение
//     переводится в UPLOADED;
//   - главное изображение никогда не удаляется, иначе deal остаётся без обложки;
//   - остальные изображения удаляются вместе с объектом.
type ImageCleanup struct {
	images  ports.DealImageRepository
	storage ports.FileStorage
	cfg     ImageCleanupConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewImageCleanup создаёт задачу.
func NewImageCleanup(images ports.DealImageRepository, storage ports.FileStorage, cfg ImageCleanupConfig, logger *zap.Logger) *ImageCleanup {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = 24 * time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	return &ImageCleanup{images: images, storage: storage, cfg: cfg, logger: logger, now: time.Now}
}

func (j *ImageCleanup) Name() string { return "image-cleanup" }

// Run обрабатывает один batch. Если хранилище недоступно, изображение
// остаётся как есть и будет обработано при следующем запуске.
func (j *ImageCleanup) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.cfg.GracePeriod)

	stale, err := j.images.FindStale(ctx,
		[]entities.ImageStatus{entities.ImageStatusPending, entities.ImageStatusFailed},
		cutoff, j.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to find stale images: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	var uploaded, doomed []uuid.UUID
	for _, img := range stale {
		key, own := j.storage.KeyFromURL(img.URL)

		present := false
		if own {
			present, err = j.objectExists(ctx, key)
			if err != nil {
				j.logger.Warn("failed to check image object",
					zap.String("image_id", img.ID.String()),
					zap.String("key", key),
					zap.Error(err),
				)
				continue
			}
		} else {
			present = img.Status == entities.ImageStatusPending
		}

		switch {
		case present:
			uploaded = append(uploaded, img.ID)
		case img.Principal:
			j.logger.Warn("principal image is missing, keeping it",
				zap.String("image_id", img.ID.String()),
				zap.String("deal_id", img.DealID.String()),
				zap.String("url", img.URL),
			)
		default:
			if own {
				if err := j.storage.RemoveObject(ctx, key); err != nil {
					j.logger.Warn("failed to remove stale image object",
						zap.String("image_id", img.ID.String()),
						zap.String("key", key),
						zap.Error(err),
					)
					continue
				}
			}
			doomed = append(doomed, img.ID)
		}
	}

	marked, err := j.images.MarkUploaded(ctx, uploaded)
	if err != nil {
		return fmt.Errorf("failed to mark images uploaded: %w", err)
	}
	deleted, err := j.images.DeleteImages(ctx, doomed)
	if err != nil {
		return fmt.Errorf("failed to delete stale images: %w", err)
	}

	j.logger.Info("stale deal images processed",
		zap.Int("found", len(stale)),
		zap.Int64("uploaded", marked),
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
	)
	return nil
}

func (j *ImageCleanup) objectExists(ctx context.Context, key string) (bool, error) {
	_, err := j.storage.StatObject(ctx, key)
	if err == nil {
		return true, nil
	}
	if stderrors.Is(err, domainErrors.ErrEntityNotFound) {
		return false, nil
	}
	return false, err
}
