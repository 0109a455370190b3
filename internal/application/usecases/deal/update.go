package deal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/events"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// Update полностью заменяет изменяемые поля deal.
// Пустой статус во входных данных сохраняет текущий.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input *entities.Deal) (*entities.Deal, error) {
	if err := validators.ValidateDeal(input); err != nil {
		return nil, err
	}
	if err := validators.ValidateDealImages(input); err != nil {
		return nil, err
	}

	var result *entities.Deal
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		deal, err := s.load(txCtx, id)
		if err != nil {
			return err
		}

		previous := deal.Status
		if input.Status != "" {
			if err := checkTransition(previous, input.Status); err != nil {
				return err
			}
		}

		deal.ReplaceWith(input, s.now())
		if err := s.save(txCtx, deal, previous); err != nil {
			return err
		}
		result = deal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PartialUpdate применяет только переданные поля.
// Результат слияния проходит полную валидацию перед сохранением.
func (s *Service) PartialUpdate(ctx context.Context, id uuid.UUID, patch *entities.Deal) (*entities.Deal, error) {
	if patch != nil {
		patch.ID = id
	}
	if err := validators.ValidateDealForPartialUpdate(patch); err != nil {
		return nil, err
	}

	var result *entities.Deal
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		deal, err := s.load(txCtx, id)
		if err != nil {
			return err
		}

		previous := deal.Status
		if patch.Status != "" {
			if err := checkTransition(previous, patch.Status); err != nil {
				return err
			}
		}

		deal.MergeFrom(patch, s.now())
		if patch.Status != "" {
			deal.Status = patch.Status
		}
		if err := validators.ValidateDeal(deal); err != nil {
			return err
		}
		if err := validators.ValidateDealImages(deal); err != nil {
			return err
		}

		if err := s.save(txCtx, deal, previous); err != nil {
			return err
		}
		result = deal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ChangeStatus применяет таблицу переходов.
// Повторная установка текущего статуса - no-op без события.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, next entities.DealStatus) (*entities.Deal, error) {
	var result *entities.Deal
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		deal, err := s.load(txCtx, id)
		if err != nil {
			return err
		}

		previous := deal.Status
		if err := checkTransition(previous, next); err != nil {
			return err
		}
		if previous == next {
			result = deal
			return nil
		}

		deal.Status = next
		deal.Touch(s.now())
		if err := s.save(txCtx, deal, previous); err != nil {
			return err
		}
		result = deal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// save сохраняет deal и публикует DealStatusChanged, если статус изменился.
func (s *Service) save(ctx context.Context, deal *entities.Deal, previous entities.DealStatus) error {
	if err := s.deals.Save(ctx, deal); err != nil {
		return fmt.Errorf("failed to save deal: %w", err)
	}
	if deal.Status == previous {
		return nil
	}
	event := events.NewDealStatusChanged(deal.ID, string(previous), string(deal.Status))
	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish DealStatusChanged event: %w", err)
	}
	return nil
}
