package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	domainErrors "github.com/Haleralex/paytogether/internal/domain/errors"
)

var _ ports.AdvertisementRepository = (*AdvertisementRepository)(nil)

// AdvertisementRepository хранит рекламные баннеры.
type AdvertisementRepository struct {
	db
}

func NewAdvertisementRepository(pool *pgxpool.Pool) *AdvertisementRepository {
	return &AdvertisementRepository{db: db{pool: pool}}
}

const advertisementColumns = `id, title, description, image_url, link_url, start_date, end_date,
	active, creator_id, created_at, updated_at`

func scanAdvertisement(row rowScanner) (*entities.Advertisement, error) {
	var (
		ad                   entities.Advertisement
		description, linkURL *string
		creatorID            *uuid.UUID
	)
	err := row.Scan(
		&ad.ID, &ad.Title, &description, &ad.ImageURL, &linkURL, &ad.StartDate, &ad.EndDate,
		&ad.Active, &creatorID, &ad.CreatedAt, &ad.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ad.Description = stringOrEmpty(description)
	ad.LinkURL = stringOrEmpty(linkURL)
	ad.CreatorID = uuidOrNil(creatorID)
	return &ad, nil
}

func (r *AdvertisementRepository) Save(ctx context.Context, ad *entities.Advertisement) error {
	q := r.getQuerier(ctx)

	_, err := q.Exec(ctx, `
		INSERT INTO advertisements (`+advertisementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			link_url = EXCLUDED.link_url,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`,
		ad.ID, ad.Title, nullString(ad.Description), ad.ImageURL, nullString(ad.LinkURL),
		ad.StartDate, ad.EndDate, ad.Active, nullUUID(ad.CreatorID), ad.CreatedAt, ad.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save advertisement: %w", err)
	}
	return nil
}

func (r *AdvertisementRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Advertisement, error) {
	q := r.getQuerier(ctx)

	ad, err := scanAdvertisement(q.QueryRow(ctx, `SELECT `+advertisementColumns+` FROM advertisements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to find advertisement by id: %w", err)
	}
	return ad, nil
}

func (r *AdvertisementRepository) FindAll(ctx context.Context) ([]*entities.Advertisement, error) {
	q := r.getQuerier(ctx)

	rows, err := q.Query(ctx, `SELECT `+advertisementColumns+` FROM advertisements ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}
	return collect(rows, scanAdvertisement)
}

// FindActive возвращает активные баннеры, период показа которых включает at.
// Отсутствующая граница периода считается открытой.
func (r *AdvertisementRepository) FindActive(ctx context.Context, at time.Time) ([]*entities.Advertisement, error) {
	q := r.getQuerier(ctx)

	rows, err := q.Query(ctx, `
		SELECT `+advertisementColumns+`
		FROM advertisements
		WHERE active
			AND (start_date IS NULL OR start_date <= $1)
			AND (end_date IS NULL OR end_date >= $1)
		ORDER BY created_at DESC`, at)
	if err != nil {
		return nil, fmt.Errorf("failed to list active advertisements: %w", err)
	}
	return collect(rows, scanAdvertisement)
}

func (r *AdvertisementRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.getQuerier(ctx), "advertisements", id)
}
