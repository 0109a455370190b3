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

var _ ports.CommentRepository = (*CommentRepository)(nil)

// CommentRepository хранит комментарии к deals.
type CommentRepository struct {
	db
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db{pool: pool}}
}

const commentColumns = `id, deal_id, author_id, content, parent_id, created_at, updated_at`

func scanComment(row rowScanner) (*entities.Comment, error) {
	var c entities.Comment
	if err := row.Scan(&c.ID, &c.DealID, &c.AuthorID, &c.Content, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) Save(ctx context.Context, c *entities.Comment) error {
	q := r.getQuerier(ctx)

	_, err := q.Exec(ctx, `
		INSERT INTO comments (`+commentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.DealID, c.AuthorID, c.Content, c.ParentID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("comment references a missing deal or parent: %w", domainErrors.ErrEntityNotFound)
		}
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error) {
	q := r.getQuerier(ctx)

	c, err := scanComment(q.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to find comment by id: %w", err)
	}
	return c, nil
}

func (r *CommentRepository) FindAll(ctx context.Context) ([]*entities.Comment, error) {
	q := r.getQuerier(ctx)

	rows, err := q.Query(ctx, `SELECT `+commentColumns+` FROM comments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return collect(rows, scanComment)
}

// FindByDeal возвращает комментарии deal в хронологическом порядке.
func (r *CommentRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*entities.Comment, error) {
	q := r.getQuerier(ctx)

	rows, err := q.Query(ctx, `SELECT `+commentColumns+` FROM comments WHERE deal_id = $1 ORDER BY created_at ASC`, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by deal: %w", err)
	}
	return collect(rows, scanComment)
}

func (r *CommentRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.getQuerier(ctx), "comments", id)
}
