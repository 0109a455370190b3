// Package postgres - UserRepository implementation.
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

// Compile-time check: UserRepository implements ports.UserRepository
var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository реализует ports.UserRepository с использованием PostgreSQL.
//
// Transaction-aware: автоматически использует транзакцию из context если есть.
type UserRepository struct {
	db
}

// NewUserRepository создаёт новый UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db{pool: pool}}
}

// Save сохраняет пользователя (INSERT или UPDATE).
// Дубликат email возвращается как ErrEntityAlreadyExists.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			role = EXCLUDED.role,
			enabled = EXCLUDED.enabled,
			external_id = EXCLUDED.external_id,
			photo_profile_url = EXCLUDED.photo_profile_url,
			updated_at = EXCLUDED.updated_at
	`

	_, err := q.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		string(user.Role),
		user.Enabled,
		nullString(user.ExternalID),
		nullString(user.PhotoProfileURL),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_unique") {
			return fmt.Errorf("user with email %s: %w", user.Email, domainErrors.ErrEntityAlreadyExists)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

const userColumns = `id, email, first_name, last_name, role, enabled, external_id, photo_profile_url, created_at, updated_at`

// scanUser сканирует строку в domain entity User.
func scanUser(row rowScanner) (*entities.User, error) {
	var (
		user                 entities.User
		role                 string
		externalID, photoURL *string
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&role,
		&user.Enabled,
		&externalID,
		&photoURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = entities.Role(role)
	user.ExternalID = stringOrEmpty(externalID)
	user.PhotoProfileURL = stringOrEmpty(photoURL)
	user.Audit = entities.Audit{CreatedAt: createdAt, UpdatedAt: updatedAt}
	return &user, nil
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*entities.User, error) {
	q := r.getQuerier(ctx)

	user, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindByID загружает пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByEmail загружает пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

// ExistsByEmail проверяет существование пользователя по email без загрузки полей.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := r.getQuerier(ctx)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// FindAll возвращает всех пользователей, новые первыми.
func (r *UserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	q := r.getQuerier(ctx)

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return collect(rows, scanUser)
}

// DeleteByID удаляет пользователя.
func (r *UserRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.getQuerier(ctx), "users", id)
}
