// Package advertisement содержит use cases для рекламных баннеров.
package advertisement

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

// Service - CRUD рекламы и выборка активных баннеров.
type Service struct {
	ads ports.AdvertisementRepository
	now func() time.Time
}

func NewService(ads ports.AdvertisementRepository) *Service {
	return &Service{ads: ads, now: time.Now}
}

func notFound(err error, id uuid.UUID) error {
	if stderrors.Is(err, errors.ErrEntityNotFound) {
		return errors.NewNotFoundError(validators.CodeAdvertisementNotFound, id.String())
	}
	return fmt.Errorf("advertisement repository: %w", err)
}

func (s *Service) Create(ctx context.Context, input *entities.Advertisement) (*entities.Advertisement, error) {
	if err := validators.ValidateAdvertisement(input); err != nil {
		return nil, err
	}

	ad := *input
	ad.ID = uuid.New()
	ad.Audit = entities.Audit{}
	ad.Touch(s.now())

	if err := s.ads.Save(ctx, &ad); err != nil {
		return nil, fmt.Errorf("failed to save advertisement: %w", err)
	}
	return &ad, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*entities.Advertisement, error) {
	ad, err := s.ads.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return ad, nil
}

func (s *Service) List(ctx context.Context) ([]*entities.Advertisement, error) {
	ads, err := s.ads.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}
	return nonNil(ads), nil
}

// ListActive возвращает баннеры, которые показываются сейчас.
func (s *Service) ListActive(ctx context.Context) ([]*entities.Advertisement, error) {
	ads, err := s.ads.FindActive(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list active advertisements: %w", err)
	}
	return nonNil(ads), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input *entities.Advertisement) (*entities.Advertisement, error) {
	if err := validators.ValidateAdvertisement(input); err != nil {
		return nil, err
	}
	ad, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ad.Title = input.Title
	ad.Description = input.Description
	ad.ImageURL = input.ImageURL
	ad.LinkURL = input.LinkURL
	ad.StartDate = input.StartDate
	ad.EndDate = input.EndDate
	ad.Active = input.Active
	ad.Touch(s.now())

	if err := s.ads.Save(ctx, ad); err != nil {
		return nil, fmt.Errorf("failed to save advertisement: %w", err)
	}
	return ad, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ads.DeleteByID(ctx, id); err != nil {
		return notFound(err, id)
	}
	return nil
}

func nonNil(ads []*entities.Advertisement) []*entities.Advertisement {
	if ads == nil {
		return []*entities.Advertisement{}
	}
	return ads
}
