// Package user содержит use cases для пользователей.
//
// Учётные данные хранятся у identity provider; локальная запись хранит
// профиль и ссылку на внешний аккаунт (ExternalID).
package user

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/events"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// Service - регистрация и администрирование пользователей.
type Service struct {
	users     ports.UserRepository
	identity  ports.IdentityProvider
	publisher ports.EventPublisher
	uow       ports.UnitOfWork
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	users ports.UserRepository,
	identity ports.IdentityProvider,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:     users,
		identity:  identity,
		publisher: publisher,
		uow:       uow,
		logger:    logger,
		now:       time.Now,
	}
}

func notFound(err error, id uuid.UUID) error {
	if stderrors.Is(err, errors.ErrEntityNotFound) {
		return errors.NewNotFoundError(validators.CodeUserNotFound, id.String())
	}
	return fmt.Errorf("user repository: %w", err)
}

// Register создаёт аккаунт у identity provider и локальный профиль.
//
// Сценарий:
// 1. Валидация и проверка уникальности email
// 2. Создание аккаунта и назначение роли у identity provider
// 3. Сохранение профиля и UserRegistered в одной транзакции
// 4. При ошибке шага 3 внешний аккаунт удаляется
func (s *Service) Register(ctx context.Context, input *entities.User, password string) (*entities.User, error) {
	if input != nil {
		input.Email = entities.NormalizeEmail(input.Email)
		if input.Role == "" {
			input.Role = entities.RoleUser
		}
	}
	if err := validators.ValidateUser(input); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if exists {
		return nil, errors.NewDuplicateError(validators.CodeUserEmailExists, input.Email)
	}

	externalID, err := s.identity.CreateUser(ctx, ports.IdentityAccount{
		Username:  input.Email,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  password,
		Enabled:   true,
	})
	if err != nil {
		return nil, err
	}
	if err := s.identity.AssignRealmRole(ctx, externalID, string(input.Role)); err != nil {
		s.rollbackAccount(ctx, externalID)
		return nil, err
	}

	user := *input
	user.ID = uuid.New()
	user.ExternalID = externalID
	user.Enabled = true
	user.Audit = entities.Audit{}
	user.Touch(s.now())

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.users.Save(txCtx, &user); err != nil {
			if errors.IsDuplicate(err) {
				return errors.NewDuplicateError(validators.CodeUserEmailExists, user.Email)
			}
			return fmt.Errorf("failed to save user: %w", err)
		}
		if err := s.publisher.Publish(txCtx, events.NewUserRegistered(user.ID, user.Email)); err != nil {
			return fmt.Errorf("failed to publish UserRegistered event: %w", err)
		}
		return nil
	})
	if err != nil {
		s.rollbackAccount(ctx, externalID)
		return nil, err
	}
	return &user, nil
}

func (s *Service) rollbackAccount(ctx context.Context, externalID string) {
	if err := s.identity.DeleteUser(ctx, externalID); err != nil {
		s.logger.Error("failed to roll back identity account",
			zap.String("external_id", externalID),
			zap.Error(err),
		)
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return user, nil
}

// GetByEmail используется для /api/auth/me, когда токен не несёт uuid.
func (s *Service) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, err := s.users.FindByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if stderrors.Is(err, errors.ErrEntityNotFound) {
			return nil, errors.NewNotFoundError(validators.CodeUserNotFound, email)
		}
		return nil, fmt.Errorf("user repository: %w", err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]*entities.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*entities.User{}
	}
	return users, nil
}

// UpdateProfile меняет имя и фото; email и роль меняются отдельно.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, photoURL string) (*entities.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.PhotoProfileURL = photoURL
	if err := validators.ValidateUser(user); err != nil {
		return nil, err
	}

	if err := s.identity.UpdateUser(ctx, user.ExternalID, ports.IdentityAccount{
		Username:  user.Email,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Enabled:   user.Enabled,
	}); err != nil {
		return nil, err
	}

	user.Touch(s.now())
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

// SetEnabled включает или блокирует аккаунт.
func (s *Service) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*entities.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.identity.SetEnabled(ctx, user.ExternalID, enabled); err != nil {
		return nil, err
	}
	user.Enabled = enabled
	user.Touch(s.now())
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

// ResetPassword задаёт новый пароль у identity provider.
func (s *Service) ResetPassword(ctx context.Context, id uuid.UUID, password string, temporary bool) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.identity.ResetPassword(ctx, user.ExternalID, password, temporary)
}

// AssignRole назначает роль у identity provider и в профиле.
func (s *Service) AssignRole(ctx context.Context, id uuid.UUID, role entities.Role) (*entities.User, error) {
	if !role.IsValid() {
		return nil, errors.NewValidationError(validators.CodeUserRoleInvalid, string(role))
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.identity.AssignRealmRole(ctx, user.ExternalID, string(role)); err != nil {
		return nil, err
	}
	user.Role = role
	user.Touch(s.now())
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

// Delete удаляет внешний аккаунт и локальный профиль.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.ExternalID != "" {
		if err := s.identity.DeleteUser(ctx, user.ExternalID); err != nil {
			return err
		}
	}
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return notFound(err, id)
	}
	return nil
}
