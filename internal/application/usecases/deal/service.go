// Package deal содержит сервис deals: валидация, таблица переходов статуса,
// сохранение через provider и публикация событий.
package deal

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// Service - use cases для deals.
type Service struct {
	deals     ports.DealRepository
	publisher ports.EventPublisher
	uow       ports.UnitOfWork
	now       func() time.Time
}

// NewService создаёт сервис deals.
func NewService(deals ports.DealRepository, publisher ports.EventPublisher, uow ports.UnitOfWork) *Service {
	return &Service{
		deals:     deals,
		publisher: publisher,
		uow:       uow,
		now:       time.Now,
	}
}

// load загружает deal, переводя отсутствие записи в NotFound.
func (s *Service) load(ctx context.Context, id uuid.UUID) (*entities.Deal, error) {
	deal, err := s.deals.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, errors.ErrEntityNotFound) {
			return nil, errors.NewNotFoundError(validators.CodeDealNotFound, id.String())
		}
		return nil, fmt.Errorf("failed to load deal: %w", err)
	}
	return deal, nil
}

// checkTransition переводит нарушение таблицы переходов в Forbidden.
// Отсутствующий или неизвестный статус остаётся ошибкой валидации.
func checkTransition(current, next entities.DealStatus) error {
	err := validators.ValidateDealTransition(current, next)
	switch errors.CodeOf(err) {
	case validators.CodeDealStatusExpiredLocked, validators.CodeDealStatusTransitionFail:
		return errors.AsForbidden(err)
	}
	return err
}

func emptyIfNil(deals []*entities.Deal) []*entities.Deal {
	if deals == nil {
		return []*entities.Deal{}
	}
	return deals
}
