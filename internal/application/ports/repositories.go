// Package ports определяет интерфейсы (порты) для внешних зависимостей.
// Эти интерфейсы реализуются в Infrastructure Layer.
//
// Pattern: Repository Pattern + Ports & Adapters (Hexagonal Architecture)
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/domain/entities"
)

// DealRepository определяет контракт для хранения deals.
//
// Deal - Aggregate Root: изображения сохраняются вместе с ним атомарно.
// Методы поиска возвращают пустой slice (не error), если ничего не найдено.
type DealRepository interface {
	// Save сохраняет deal вместе с изображениями (UPSERT по ID).
	Save(ctx context.Context, deal *entities.Deal) error

	// FindByID загружает deal по ID.
	// Возвращает errors.ErrEntityNotFound если не найден.
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Deal, error)

	FindAll(ctx context.Context) ([]*entities.Deal, error)
	FindByStatus(ctx context.Context, status entities.DealStatus) ([]*entities.Deal, error)
	FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Deal, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entities.Deal, error)

	// DeleteByID удаляет deal (изображения удаляются каскадно).
	// Возвращает errors.ErrEntityNotFound если удалять нечего.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// DealImageRepository обслуживает фоновую очистку изображений.
type DealImageRepository interface {
	// FindStale возвращает изображения в указанных статусах, созданные раньше olderThan.
	FindStale(ctx context.Context, statuses []entities.ImageStatus, olderThan time.Time, limit int) ([]StaleImage, error)

	// DeleteImages удаляет изображения по ID и возвращает число удалённых строк.
	DeleteImages(ctx context.Context, ids []uuid.UUID) (int64, error)

	// MarkUploaded переводит изображения в UPLOADED.
	MarkUploaded(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// StaleImage - изображение, ожидающее очистки.
type StaleImage struct {
	ID        uuid.UUID
	DealID    uuid.UUID
	URL       string
	Principal bool
	Status    entities.ImageStatus
}

// UserRepository определяет контракт для хранения пользователей.
type UserRepository interface {
	Save(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByEmail загружает пользователя по email.
	// Email уникален в системе (UNIQUE constraint).
	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// ExistsByEmail проверяет существование без загрузки всей entity.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	FindAll(ctx context.Context) ([]*entities.User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository определяет контракт для хранения категорий.
type CategoryRepository interface {
	Save(ctx context.Context, category *entities.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Category, error)
	FindAll(ctx context.Context) ([]*entities.Category, error)

	// ExistsByName проверяет уникальность имени (без учёта регистра),
	// исключая категорию excludeID (uuid.Nil - не исключать).
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// CommentRepository определяет контракт для хранения комментариев.
type CommentRepository interface {
	Save(ctx context.Context, comment *entities.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error)
	FindAll(ctx context.Context) ([]*entities.Comment, error)

	// FindByDeal возвращает комментарии deal в хронологическом порядке.
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*entities.Comment, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// AdvertisementRepository определяет контракт для хранения рекламы.
type AdvertisementRepository interface {
	Save(ctx context.Context, ad *entities.Advertisement) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Advertisement, error)
	FindAll(ctx context.Context) ([]*entities.Advertisement, error)

	// FindActive возвращает активные объявления, окно показа которых включает at.
	FindActive(ctx context.Context, at time.Time) ([]*entities.Advertisement, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository определяет контракт для хранения платежей.
type PaymentRepository interface {
	Save(ctx context.Context, payment *entities.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
	FindAll(ctx context.Context) ([]*entities.Payment, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Payment, error)
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*entities.Payment, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
