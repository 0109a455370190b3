package deal

import (
	"context"
	"fmt"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/events"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// Create валидирует и сохраняет новый deal.
//
// Сценарий:
// 1. Валидация полей и списка изображений
// 2. Статус по умолчанию DRAFT; явный статус должен быть достижим из DRAFT
// 3. Сохранение deal и событие DealCreated в одной транзакции
func (s *Service) Create(ctx context.Context, input *entities.Deal) (*entities.Deal, error) {
	if err := validators.ValidateDeal(input); err != nil {
		return nil, err
	}
	if err := validators.ValidateDealImages(input); err != nil {
		return nil, err
	}
	if input.Status != "" {
		if err := checkTransition(entities.DealStatusDraft, input.Status); err != nil {
			return nil, err
		}
	}

	deal := entities.NewDeal(*input, s.now())

	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.deals.Save(txCtx, deal); err != nil {
			return fmt.Errorf("failed to save deal: %w", err)
		}

		event := events.NewDealCreated(deal.ID, deal.Title, deal.CreatorID, deal.CategoryID, string(deal.Status))
		if err := s.publisher.Publish(txCtx, event); err != nil {
			return fmt.Errorf("failed to publish DealCreated event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return deal, nil
}
