// Package comment содержит use cases для комментариев к deals.
package comment

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

// Service - CRUD комментариев.
//
// Комментарий можно оставить только к существующему deal; ответ - только
// на комментарий того же deal.
type Service struct {
	comments ports.CommentRepository
	deals    ports.DealRepository
	now      func() time.Time
}

func NewService(comments ports.CommentRepository, deals ports.DealRepository) *Service {
	return &Service{comments: comments, deals: deals, now: time.Now}
}

func notFound(err error, code string, id uuid.UUID) error {
	if stderrors.Is(err, errors.ErrEntityNotFound) {
		return errors.NewNotFoundError(code, id.String())
	}
	return fmt.Errorf("comment service: %w", err)
}

// Create сохраняет комментарий.
func (s *Service) Create(ctx context.Context, input *entities.Comment) (*entities.Comment, error) {
	if err := validators.ValidateComment(input); err != nil {
		return nil, err
	}
	if _, err := s.deals.FindByID(ctx, input.DealID); err != nil {
		return nil, notFound(err, validators.CodeDealNotFound, input.DealID)
	}
	if input.IsReply() {
		parent, err := s.comments.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, notFound(err, validators.CodeCommentNotFound, *input.ParentID)
		}
		if parent.DealID != input.DealID {
			return nil, errors.NewValidationError(validators.CodeCommentParentMismatch)
		}
	}

	comment := *input
	comment.ID = uuid.New()
	comment.Audit = entities.Audit{}
	comment.Touch(s.now())

	if err := s.comments.Save(ctx, &comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return &comment, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, validators.CodeCommentNotFound, id)
	}
	return comment, nil
}

func (s *Service) List(ctx context.Context) ([]*entities.Comment, error) {
	comments, err := s.comments.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return nonNil(comments), nil
}

// ListByDeal возвращает комментарии deal.
func (s *Service) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*entities.Comment, error) {
	comments, err := s.comments.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by deal: %w", err)
	}
	return nonNil(comments), nil
}

// Update меняет только текст комментария.
func (s *Service) Update(ctx context.Context, id uuid.UUID, content string) (*entities.Comment, error) {
	comment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment.Content = content
	if err := validators.ValidateComment(comment); err != nil {
		return nil, err
	}
	comment.Touch(s.now())
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return comment, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.comments.DeleteByID(ctx, id); err != nil {
		return notFound(err, validators.CodeCommentNotFound, id)
	}
	return nil
}

func nonNil(comments []*entities.Comment) []*entities.Comment {
	if comments == nil {
		return []*entities.Comment{}
	}
	return comments
}
