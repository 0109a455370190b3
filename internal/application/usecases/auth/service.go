// Package auth содержит use cases аутентификации: вход, обновление токена
// и выход с локальным отзывом access токена.
package auth

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/application/ports"
)

// Service делегирует выдачу токенов identity provider.
type Service struct {
	identity ports.IdentityProvider
	tokens   ports.TokenStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(identity ports.IdentityProvider, tokens ports.TokenStore, logger *zap.Logger) *Service {
	return &Service{identity: identity, tokens: tokens, logger: logger, now: time.Now}
}

// Login выдаёт токены по логину и паролю.
func (s *Service) Login(ctx context.Context, username, password string) (*ports.TokenSet, error) {
	return s.identity.Token(ctx, username, password)
}

// Refresh обменивает refresh token на новую пару токенов.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*ports.TokenSet, error) {
	return s.identity.Refresh(ctx, refreshToken)
}

// Logout завершает сессию у identity provider (если передан refresh token)
// и отзывает access token до истечения его срока.
func (s *Service) Logout(ctx context.Context, tokenID string, expiresAt time.Time, refreshToken string) error {
	if refreshToken != "" {
		if err := s.identity.Logout(ctx, refreshToken); err != nil {
			// Локальный отзыв важнее: сессия у провайдера истечёт сама.
			s.logger.Warn("identity provider logout failed", zap.Error(err))
		}
	}
	if tokenID == "" {
		return nil
	}

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.tokens.Revoke(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked проверяет, был ли токен отозван через Logout.
func (s *Service) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.tokens.IsRevoked(ctx, tokenID)
}
