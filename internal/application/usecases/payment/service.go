// Package payment содержит use cases для платежей участников.
package payment

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/events"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// Service - CRUD платежей.
type Service struct {
	payments  ports.PaymentRepository
	deals     ports.DealRepository
	publisher ports.EventPublisher
	uow       ports.UnitOfWork
	now       func() time.Time
}

func NewService(
	payments ports.PaymentRepository,
	deals ports.DealRepository,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
) *Service {
	return &Service{
		payments:  payments,
		deals:     deals,
		publisher: publisher,
		uow:       uow,
		now:       time.Now,
	}
}

func notFound(err error, code string, id uuid.UUID) error {
	if stderrors.Is(err, errors.ErrEntityNotFound) {
		return errors.NewNotFoundError(code, id.String())
	}
	return fmt.Errorf("payment service: %w", err)
}

// Create регистрирует платёж за долю в deal.
//
// Сценарий:
// 1. Новый платёж всегда PENDING (статус меняет только Update), затем валидация
// 2. Deal должен существовать и быть PUBLISHED
// 3. Сохранение и PaymentCreated в одной транзакции
func (s *Service) Create(ctx context.Context, input *entities.Payment) (*entities.Payment, error) {
	if input == nil {
		return nil, validators.ValidatePayment(input)
	}
	payment := *input
	payment.Status = entities.PaymentStatusPending
	if err := validators.ValidatePayment(&payment); err != nil {
		return nil, err
	}

	payment.ID = uuid.New()
	payment.Audit = entities.Audit{}
	payment.Touch(s.now())

	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		deal, err := s.deals.FindByID(txCtx, payment.DealID)
		if err != nil {
			return notFound(err, validators.CodeDealNotFound, payment.DealID)
		}
		if deal.Status != entities.DealStatusPublished {
			return errors.NewForbiddenError(validators.CodePaymentDealNotOpen, string(deal.Status))
		}

		if err := s.payments.Save(txCtx, &payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		event := events.NewPaymentCreated(payment.ID, payment.DealID, payment.UserID,
			payment.Amount.StringFixed(2), string(payment.Method))
		if err := s.publisher.Publish(txCtx, event); err != nil {
			return fmt.Errorf("failed to publish PaymentCreated event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, validators.CodePaymentNotFound, id)
	}
	return payment, nil
}

func (s *Service) List(ctx context.Context) ([]*entities.Payment, error) {
	payments, err := s.payments.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return nonNil(payments), nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Payment, error) {
	payments, err := s.payments.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by user: %w", err)
	}
	return nonNil(payments), nil
}

func (s *Service) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*entities.Payment, error) {
	payments, err := s.payments.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by deal: %w", err)
	}
	return nonNil(payments), nil
}

// Update меняет статус и ссылку на транзакцию; сумма и участники неизменны.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input *entities.Payment) (*entities.Payment, error) {
	payment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Status != "" {
		payment.Status = input.Status
	}
	if input.TransactionReference != "" {
		payment.TransactionReference = input.TransactionReference
	}
	if input.Method != "" {
		payment.Method = input.Method
	}
	if err := validators.ValidatePayment(payment); err != nil {
		return nil, err
	}
	payment.Touch(s.now())

	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	return payment, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.payments.DeleteByID(ctx, id); err != nil {
		return notFound(err, validators.CodePaymentNotFound, id)
	}
	return nil
}

func nonNil(payments []*entities.Payment) []*entities.Payment {
	if payments == nil {
		return []*entities.Payment{}
	}
	return payments
}
