package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	domainErrors "github.com/Haleralex/paytogether/internal/domain/errors"
)

var _ ports.PaymentRepository = (*PaymentRepository)(nil)

// PaymentRepository хранит платежи участников.
// Суммы хранятся как NUMERIC(15,2).
type PaymentRepository struct {
	db
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db{pool: pool}}
}

const paymentColumns = `id, deal_id, user_id, amount, method, status, transaction_reference, created_at, updated_at`

func scanPayment(row rowScanner) (*entities.Payment, error) {
	var (
		p              entities.Payment
		amount         decimal.Decimal
		method, status string
		reference      *string
	)
	err := row.Scan(&p.ID, &p.DealID, &p.UserID, &amount, &method, &status, &reference, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Amount = &amount
	p.Method = entities.PaymentMethod(method)
	p.Status = entities.PaymentStatus(status)
	p.TransactionReference = stringOrEmpty(reference)
	return &p, nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *entities.Payment) error {
	q := r.getQuerier(ctx)

	var amount decimal.Decimal
	if p.Amount != nil {
		amount = *p.Amount
	}

	_, err := q.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			method = EXCLUDED.method,
			status = EXCLUDED.status,
			transaction_reference = EXCLUDED.transaction_reference,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.DealID, p.UserID, amount, string(p.Method), string(p.Status),
		nullString(p.TransactionReference), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("payment references a missing deal: %w", domainErrors.ErrEntityNotFound)
		}
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	q := r.getQuerier(ctx)

	p, err := scanPayment(q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to find payment by id: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) FindAll(ctx context.Context) ([]*entities.Payment, error) {
	return r.findWhere(ctx, "", nil)
}

func (r *PaymentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Payment, error) {
	return r.findWhere(ctx, "WHERE user_id = $1", []any{userID})
}

func (r *PaymentRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*entities.Payment, error) {
	return r.findWhere(ctx, "WHERE deal_id = $1", []any{dealID})
}

func (r *PaymentRepository) findWhere(ctx context.Context, where string, args []any) ([]*entities.Payment, error) {
	q := r.getQuerier(ctx)

	rows, err := q.Query(ctx, `SELECT `+paymentColumns+` FROM payments `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return collect(rows, scanPayment)
}

func (r *PaymentRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.getQuerier(ctx), "payments", id)
}
