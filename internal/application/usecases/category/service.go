// Package category содержит use cases для категорий deals.
package category

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// Service - CRUD категорий. Имя категории уникально без учёта регистра.
type Service struct {
	categories ports.CategoryRepository
	now        func() time.Time
}

func NewService(categories ports.CategoryRepository) *Service {
	return &Service{categories: categories, now: time.Now}
}

func notFound(err error, id uuid.UUID) error {
	if stderrors.Is(err, errors.ErrEntityNotFound) {
		return errors.NewNotFoundError(validators.CodeCategoryNotFound, id.String())
	}
	return fmt.Errorf("category repository: %w", err)
}

func (s *Service) ensureUniqueName(ctx context.Context, name string, excludeID uuid.UUID) error {
	exists, err := s.categories.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if exists {
		return errors.NewDuplicateError(validators.CodeCategoryNameExists, name)
	}
	return nil
}

// Create сохраняет новую категорию.
func (s *Service) Create(ctx context.Context, input *entities.Category) (*entities.Category, error) {
	if err := validators.ValidateCategory(input); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := s.ensureUniqueName(ctx, input.Name, uuid.Nil); err != nil {
		return nil, err
	}

	category := *input
	category.ID = uuid.New()
	category.Audit = entities.Audit{}
	category.Touch(s.now())

	if err := s.categories.Save(ctx, &category); err != nil {
		if errors.IsDuplicate(err) {
			return nil, errors.NewDuplicateError(validators.CodeCategoryNameExists, category.Name)
		}
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return &category, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return category, nil
}

func (s *Service) List(ctx context.Context) ([]*entities.Category, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []*entities.Category{}
	}
	return categories, nil
}

// Update заменяет имя, описание и иконку.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input *entities.Category) (*entities.Category, error) {
	if err := validators.ValidateCategory(input); err != nil {
		return nil, err
	}
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if err := s.ensureUniqueName(ctx, name, id); err != nil {
		return nil, err
	}

	category.Name = name
	category.Description = input.Description
	category.Icon = input.Icon
	category.Touch(s.now())

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return category, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.DeleteByID(ctx, id); err != nil {
		return notFound(err, id)
	}
	return nil
}
