// Package cache - Redis клиент и хранилище отозванных токенов.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/application/ports"
)

// Config - параметры подключения к Redis.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Redis оборачивает go-redis клиент.
type Redis struct {
	Client *redis.Client
}

// NewRedis создаёт клиента. Недоступный Redis не мешает старту:
// проверки отзыва будут возвращать ошибку, а health check покажет проблему.
func NewRedis(cfg Config, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	}

	return &Redis{Client: client}
}

// Close закрывает клиента.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping проверяет соединение с Redis.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// ============================================
// Token store
// ============================================

// keyValue - подмножество redis.Cmdable, которое использует TokenStore.
type keyValue interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStore хранит идентификаторы отозванных токенов (jti) до их истечения.
type TokenStore struct {
	kv     keyValue
	prefix string
}

// NewTokenStore создаёт хранилище с префиксом ключей "<prefix>revoked:".
func NewTokenStore(client *redis.Client, prefix string) *TokenStore {
	return newTokenStore(client, prefix)
}

func newTokenStore(kv keyValue, prefix string) *TokenStore {
	if prefix == "" {
		prefix = "paytogether:"
	}
	return &TokenStore{kv: kv, prefix: prefix + "revoked:"}
}

func (s *TokenStore) key(tokenID string) string {
	return s.prefix + tokenID
}

// Revoke помечает токен отозванным на ttl.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := s.kv.Set(ctx, s.key(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked сообщает, был ли токен отозван.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := s.kv.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
