package deal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// GetByID возвращает deal или NotFound("deal.non.trouve").
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*entities.Deal, error) {
	return s.load(ctx, id)
}

// List возвращает все deals.
func (s *Service) List(ctx context.Context) ([]*entities.Deal, error) {
	deals, err := s.deals.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	return emptyIfNil(deals), nil
}

// ListByStatus возвращает deals в указанном статусе.
func (s *Service) ListByStatus(ctx context.Context, status entities.DealStatus) ([]*entities.Deal, error) {
	if !status.IsValid() {
		return nil, errors.NewValidationError(validators.CodeDealStatusInvalid, string(status))
	}
	deals, err := s.deals.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals by status: %w", err)
	}
	return emptyIfNil(deals), nil
}

// ListByCreator возвращает deals, созданные пользователем.
func (s *Service) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Deal, error) {
	deals, err := s.deals.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals by creator: %w", err)
	}
	return emptyIfNil(deals), nil
}

// ListByCategory возвращает deals категории.
func (s *Service) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entities.Deal, error) {
	deals, err := s.deals.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals by category: %w", err)
	}
	return emptyIfNil(deals), nil
}
