package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	domainErrors "github.com/Haleralex/paytogether/internal/domain/errors"
)

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository хранит категории deals.
type CategoryRepository struct {
	db
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db{pool: pool}}
}

const categoryColumns = `id, name, description, icon, created_at, updated_at`

func scanCategory(row rowScanner) (*entities.Category, error) {
	var (
		c                 entities.Category
		description, icon *string
	)
	if err := row.Scan(&c.ID, &c.Name, &description, &icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Description = stringOrEmpty(description)
	c.Icon = stringOrEmpty(icon)
	return &c, nil
}

// Save сохраняет категорию (UPSERT). Имя уникально без учёта регистра.
func (r *CategoryRepository) Save(ctx context.Context, c *entities.Category) error {
	q := r.getQuerier(ctx)

	_, err := q.Exec(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			icon = EXCLUDED.icon,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.Name, nullString(c.Description), nullString(c.Icon), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "categories_name_unique") {
			return fmt.Errorf("category %q: %w", c.Name, domainErrors.ErrEntityAlreadyExists)
		}
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	q := r.getQuerier(ctx)

	c, err := scanCategory(q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to find category by id: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]*entities.Category, error) {
	q := r.getQuerier(ctx)

	rows, err := q.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return collect(rows, scanCategory)
}

// ExistsByName проверяет имя без учёта регистра, исключая категорию excludeID.
func (r *CategoryRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	q := r.getQuerier(ctx)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1) AND id <> $2)`,
		name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

func (r *CategoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.getQuerier(ctx), "categories", id)
}
