// Package postgres - DealRepository implementation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	domainErrors "github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// Compile-time check
var (
	_ ports.DealRepository      = (*DealRepository)(nil)
	_ ports.DealImageRepository = (*DealRepository)(nil)
)

// DealRepository хранит deals и их изображения (таблицы deals и deal_images).
//
// Изображения сохраняются вместе с deal в одной транзакции:
// список в БД всегда совпадает со списком в entity.
type DealRepository struct {
	db
}

// NewDealRepository создаёт новый DealRepository.
func NewDealRepository(pool *pgxpool.Pool) *DealRepository {
	return &DealRepository{db: db{pool: pool}}
}

// ============================================
// Records
// ============================================

// dealRecord - строка таблицы deals.
type dealRecord struct {
	ID               uuid.UUID
	Title            string
	Description      *string
	TotalPrice       decimal.Decimal
	SharePrice       decimal.Decimal
	ParticipantCount int
	StartDate        *time.Time
	EndDate          *time.Time
	Status           string
	CreatorID        *uuid.UUID
	CategoryID       *uuid.UUID
	Highlights       []string
	ExpirationDate   *time.Time
	City             *string
	Country          *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// dealImageRecord - строка таблицы deal_images.
type dealImageRecord struct {
	ID        uuid.UUID
	DealID    uuid.UUID
	URL       string
	Principal bool
	Status    string
	Position  int
	CreatedAt time.Time
}

func toDealRecord(d *entities.Deal) dealRecord {
	rec := dealRecord{
		ID:               d.ID,
		Title:            d.Title,
		Description:      nullString(d.Description),
		ParticipantCount: d.ParticipantCount,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		Status:           string(d.Status),
		CreatorID:        nullUUID(d.CreatorID),
		CategoryID:       nullUUID(d.CategoryID),
		Highlights:       d.Highlights,
		ExpirationDate:   d.ExpirationDate,
		City:             nullString(d.City),
		Country:          nullString(d.Country),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.TotalPrice != nil {
		rec.TotalPrice = *d.TotalPrice
	}
	if d.SharePrice != nil {
		rec.SharePrice = *d.SharePrice
	}
	if rec.Highlights == nil {
		rec.Highlights = []string{}
	}
	return rec
}

func toDealImageRecords(d *entities.Deal) []dealImageRecord {
	records := make([]dealImageRecord, 0, len(d.Images))
	for i, img := range d.Images {
		records = append(records, dealImageRecord{
			ID:        img.ID,
			DealID:    d.ID,
			URL:       img.URL,
			Principal: img.Principal,
			Status:    string(img.Status),
			Position:  i,
			CreatedAt: img.CreatedAt,
		})
	}
	return records
}

func toDealModel(rec dealRecord, images []dealImageRecord) *entities.Deal {
	total := rec.TotalPrice
	share := rec.SharePrice

	deal := &entities.Deal{
		ID:               rec.ID,
		Title:            rec.Title,
		Description:      stringOrEmpty(rec.Description),
		TotalPrice:       &total,
		SharePrice:       &share,
		ParticipantCount: rec.ParticipantCount,
		StartDate:        rec.StartDate,
		EndDate:          rec.EndDate,
		Status:           entities.DealStatus(rec.Status),
		CreatorID:        uuidOrNil(rec.CreatorID),
		CategoryID:       uuidOrNil(rec.CategoryID),
		Highlights:       rec.Highlights,
		ExpirationDate:   rec.ExpirationDate,
		City:             stringOrEmpty(rec.City),
		Country:          stringOrEmpty(rec.Country),
		Audit:            entities.Audit{CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt},
	}
	if deal.Highlights == nil {
		deal.Highlights = []string{}
	}

	deal.Images = make([]entities.DealImage, 0, len(images))
	for _, img := range images {
		deal.Images = append(deal.Images, entities.DealImage{
			ID:        img.ID,
			URL:       img.URL,
			Principal: img.Principal,
			Status:    entities.ImageStatus(img.Status),
			CreatedAt: img.CreatedAt,
		})
	}
	return deal
}

const dealColumns = `id, title, description, total_price, share_price, participant_count,
	start_date, end_date, status, creator_id, category_id, highlights,
	expiration_date, city, country, created_at, updated_at`

func scanDeal(row rowScanner) (dealRecord, error) {
	var rec dealRecord
	err := row.Scan(
		&rec.ID,
		&rec.Title,
		&rec.Description,
		&rec.TotalPrice,
		&rec.SharePrice,
		&rec.ParticipantCount,
		&rec.StartDate,
		&rec.EndDate,
		&rec.Status,
		&rec.CreatorID,
		&rec.CategoryID,
		&rec.Highlights,
		&rec.ExpirationDate,
		&rec.City,
		&rec.Country,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

func scanDealImage(row rowScanner) (dealImageRecord, error) {
	var rec dealImageRecord
	err := row.Scan(&rec.ID, &rec.DealID, &rec.URL, &rec.Principal, &rec.Status, &rec.Position, &rec.CreatedAt)
	return rec, err
}

// ============================================
// Commands
// ============================================

// Save сохраняет deal (UPSERT) и заменяет список его изображений.
func (r *DealRepository) Save(ctx context.Context, deal *entities.Deal) error {
	rec := toDealRecord(deal)
	images := toDealImageRecords(deal)

	return r.inTx(ctx, func(q querier) error {
		query := `
			INSERT INTO deals (` + dealColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				total_price = EXCLUDED.total_price,
				share_price = EXCLUDED.share_price,
				participant_count = EXCLUDED.participant_count,
				start_date = EXCLUDED.start_date,
				end_date = EXCLUDED.end_date,
				status = EXCLUDED.status,
				creator_id = EXCLUDED.creator_id,
				category_id = EXCLUDED.category_id,
				highlights = EXCLUDED.highlights,
				expiration_date = EXCLUDED.expiration_date,
				city = EXCLUDED.city,
				country = EXCLUDED.country,
				updated_at = EXCLUDED.updated_at
		`
		_, err := q.Exec(ctx, query,
			rec.ID, rec.Title, rec.Description, rec.TotalPrice, rec.SharePrice, rec.ParticipantCount,
			rec.StartDate, rec.EndDate, rec.Status, rec.CreatorID, rec.CategoryID, rec.Highlights,
			rec.ExpirationDate, rec.City, rec.Country, rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save deal: %w", err)
		}

		if _, err := q.Exec(ctx, `DELETE FROM deal_images WHERE deal_id = $1`, rec.ID); err != nil {
			return fmt.Errorf("failed to replace deal images: %w", err)
		}
		for _, img := range images {
			_, err := q.Exec(ctx, `
				INSERT INTO deal_images (id, deal_id, url, principal, status, position, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				img.ID, img.DealID, img.URL, img.Principal, img.Status, img.Position, img.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to save deal image: %w", err)
			}
		}
		return nil
	})
}

// DeleteByID удаляет deal; изображения и комментарии удаляются каскадом.
// Deal с платежами удалить нельзя.
func (r *DealRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := deleteByID(ctx, r.getQuerier(ctx), "deals", id)
	if isForeignKeyViolation(err) {
		return domainErrors.NewForbiddenError(validators.CodeDealHasPayments, id.String())
	}
	return err
}

// ============================================
// Queries
// ============================================

// FindByID загружает deal вместе с изображениями.
func (r *DealRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Deal, error) {
	q := r.getQuerier(ctx)

	rec, err := scanDeal(q.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to find deal by id: %w", err)
	}

	images, err := r.loadImages(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return toDealModel(rec, images[id]), nil
}

func (r *DealRepository) FindAll(ctx context.Context) ([]*entities.Deal, error) {
	return r.findWhere(ctx, "", nil)
}

func (r *DealRepository) FindByStatus(ctx context.Context, status entities.DealStatus) ([]*entities.Deal, error) {
	return r.findWhere(ctx, "WHERE status = $1", []any{string(status)})
}

func (r *DealRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Deal, error) {
	return r.findWhere(ctx, "WHERE creator_id = $1", []any{creatorID})
}

func (r *DealRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entities.Deal, error) {
	return r.findWhere(ctx, "WHERE category_id = $1", []any{categoryID})
}

// findWhere загружает deals по условию и подгружает изображения одним запросом.
func (r *DealRepository) findWhere(ctx context.Context, where string, args []any) ([]*entities.Deal, error) {
	q := r.getQuerier(ctx)

	rows, err := q.Query(ctx, `SELECT `+dealColumns+` FROM deals `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	records, err := collect(rows, scanDeal)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	images, err := r.loadImages(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	deals := make([]*entities.Deal, 0, len(records))
	for _, rec := range records {
		deals = append(deals, toDealModel(rec, images[rec.ID]))
	}
	return deals, nil
}

func (r *DealRepository) loadImages(ctx context.Context, q querier, dealIDs []uuid.UUID) (map[uuid.UUID][]dealImageRecord, error) {
	byDeal := make(map[uuid.UUID][]dealImageRecord, len(dealIDs))
	if len(dealIDs) == 0 {
		return byDeal, nil
	}

	rows, err := q.Query(ctx, `
		SELECT id, deal_id, url, principal, status, position, created_at
		FROM deal_images
		WHERE deal_id = ANY($1)
		ORDER BY deal_id, position`, dealIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load deal images: %w", err)
	}
	images, err := collect(rows, scanDealImage)
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		byDeal[img.DealID] = append(byDeal[img.DealID], img)
	}
	return byDeal, nil
}

// ============================================
// Image maintenance
// ============================================

// FindStale возвращает изображения в указанных статусах, созданные раньше olderThan.
func (r *DealRepository) FindStale(ctx context.Context, statuses []entities.ImageStatus, olderThan time.Time, limit int) ([]ports.StaleImage, error) {
	q := r.getQuerier(ctx)

	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	rows, err := q.Query(ctx, `
		SELECT id, deal_id, url, principal, status
		FROM deal_images
		WHERE status = ANY($1) AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3`, values, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find stale images: %w", err)
	}
	return collect(rows, func(row rowScanner) (ports.StaleImage, error) {
		var (
			img    ports.StaleImage
			status string
		)
		err := row.Scan(&img.ID, &img.DealID, &img.URL, &img.Principal, &status)
		img.Status = entities.ImageStatus(status)
		return img, err
	})
}

// DeleteImages удаляет изображения по ID и возвращает количество удалённых строк.
func (r *DealRepository) DeleteImages(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := r.getQuerier(ctx)

	result, err := q.Exec(ctx, `DELETE FROM deal_images WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete images: %w", err)
	}
	return result.RowsAffected(), nil
}

// MarkUploaded переводит изображения в UPLOADED.
func (r *DealRepository) MarkUploaded(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := r.getQuerier(ctx)

	result, err := q.Exec(ctx, `UPDATE deal_images SET status = $1 WHERE id = ANY($2)`,
		string(entities.ImageStatusUploaded), ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark images uploaded: %w", err)
	}
	return result.RowsAffected(), nil
}
