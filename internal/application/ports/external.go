package ports

import (
	"context"
	"io"
	"time"
)

// IdentityProvider - внешний сервис аутентификации и управления пользователями
// (Keycloak-совместимый API).
type IdentityProvider interface {
	// Token выдаёт токены по логину и паролю (password grant).
	Token(ctx context.Context, username, password string) (*TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
	Logout(ctx context.Context, refreshToken string) error

	// Introspect проверяет токен на стороне провайдера.
	Introspect(ctx context.Context, accessToken string) (bool, error)

	// CreateUser создаёт учётную запись и возвращает её внешний ID.
	CreateUser(ctx context.Context, account IdentityAccount) (string, error)
	UpdateUser(ctx context.Context, externalID string, account IdentityAccount) error
	DeleteUser(ctx context.Context, externalID string) error
	AssignRealmRole(ctx context.Context, externalID, role string) error
	ResetPassword(ctx context.Context, externalID, password string, temporary bool) error
	SetEnabled(ctx context.Context, externalID string, enabled bool) error
}

// TokenSet - ответ token endpoint.
type TokenSet struct {
	AccessToken      string
	RefreshToken     string
	ExpiresIn        time.Duration
	RefreshExpiresIn time.Duration
	TokenType        string
}

// IdentityAccount - данные учётной записи у identity provider.
type IdentityAccount struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Enabled   bool
}

// FileStorage - объектное хранилище (MinIO).
type FileStorage interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (StoredObject, error)

	// GetObject возвращает поток объекта; вызывающий обязан закрыть его.
	GetObject(ctx context.Context, key string) (io.ReadCloser, StoredObject, error)

	// Download читает объект целиком в память.
	Download(ctx context.Context, key string) ([]byte, error)

	PresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// StatObject возвращает метаданные объекта.
	// Отсутствующий объект - errors.ErrEntityNotFound.
	StatObject(ctx context.Context, key string) (StoredObject, error)
	RemoveObject(ctx context.Context, key string) error

	// KeyFromURL извлекает ключ объекта из URL, если URL указывает на наш bucket.
	KeyFromURL(rawURL string) (string, bool)
}

// StoredObject - метаданные объекта в хранилище.
type StoredObject struct {
	Key         string
	Size        int64
	ContentType string
	URL         string
}

// TokenStore хранит отозванные access токены до истечения их срока (Redis).
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
