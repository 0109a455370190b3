// Package middleware - Authentication middleware.
//
// Токен берётся из заголовка Authorization (Bearer) или из cookie access_token,
// проверяется подпись (RS256 публичным ключом identity provider'а или HS256
// общим секретом), затем проверяется отзыв токена (logout).
package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
	"github.com/Haleralex/paytogether/internal/pkg/logger"
)

const (
	// PrincipalKey - ключ для хранения Principal в контексте gin
	PrincipalKey = "auth_principal"
	// AccessTokenCookie - cookie, которую выставляет login
	AccessTokenCookie = "access_token"

	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// Principal - аутентифицированный пользователь запроса.
type Principal struct {
	Subject string
	// UserID - локальный ID пользователя из claim uuid. uuid.Nil, если claim нет.
	UserID      uuid.UUID
	Email       string
	Username    string
	TokenID     string
	ExpiresAt   time.Time
	Authorities []string
}

// HasAuthority проверяет наличие роли.
func (p *Principal) HasAuthority(role string) bool {
	for _, a := range p.Authorities {
		if a == role {
			return true
		}
	}
	return false
}

// IsOwnerOrAdmin - владелец ресурса или администратор.
func (p *Principal) IsOwnerOrAdmin(ownerID uuid.UUID) bool {
	if p.HasAuthority(RoleAdmin) {
		return true
	}
	return p.UserID != uuid.Nil && p.UserID == ownerID
}

// RevocationChecker сообщает, отозван ли токен.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthConfig - конфигурация проверки токенов.
type AuthConfig struct {
	// PublicKeyPEM - RSA ключ identity provider'а (RS256). Имеет приоритет над Secret.
	PublicKeyPEM string
	// Secret - общий секрет для HS256.
	Secret   string
	Issuer   string
	ClientID string
	// Leeway - допустимое расхождение часов.
	Leeway time.Duration
}

// TokenVerifier проверяет подпись и claims токена.
type TokenVerifier struct {
	key      any
	methods  []string
	issuer   string
	clientID string
	leeway   time.Duration
}

// NewTokenVerifier создаёт verifier по конфигурации.
func NewTokenVerifier(cfg AuthConfig) (*TokenVerifier, error) {
	v := &TokenVerifier{issuer: cfg.Issuer, clientID: cfg.ClientID, leeway: cfg.Leeway}

	switch {
	case cfg.PublicKeyPEM != "":
		key, err := parsePublicKey(cfg.PublicKeyPEM)
		if err != nil {
			return nil, err
		}
		v.key, v.methods = key, []string{jwt.SigningMethodRS256.Alg()}
	case cfg.Secret != "":
		v.key, v.methods = []byte(cfg.Secret), []string{jwt.SigningMethodHS256.Alg()}
	default:
		return nil, errors.New("auth: either public key or secret must be configured")
	}
	return v, nil
}

// parsePublicKey принимает PEM целиком или только base64 тело ключа (как его отдаёт realm).
func parsePublicKey(raw string) (*rsa.PublicKey, error) {
	pem := strings.TrimSpace(raw)
	if !strings.HasPrefix(pem, "-----BEGIN") {
		pem = "-----BEGIN PUBLIC KEY-----\n" + pem + "\n-----END PUBLIC KEY-----"
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("auth: invalid public key: %w", err)
	}
	return key, nil
}

// Verify разбирает токен и строит Principal.
func (v *TokenVerifier) Verify(token string) (*Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...); err != nil {
		return nil, err
	}

	p := &Principal{
		Subject:     stringClaim(claims, "sub"),
		UserID:      uuidClaim(claims, "uuid"),
		Email:       stringClaim(claims, "email"),
		Username:    stringClaim(claims, "preferred_username"),
		TokenID:     stringClaim(claims, "jti"),
		Authorities: extractAuthorities(claims, v.clientID),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Time
	}
	return p, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}

func uuidClaim(claims jwt.MapClaims, name string) uuid.UUID {
	id, err := uuid.Parse(stringClaim(claims, name))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// extractAuthorities собирает роли из role, realm_access.roles и
// resource_access.<client>.roles и приводит их к виду ROLE_<NAME>.
func extractAuthorities(claims jwt.MapClaims, clientID string) []string {
	var roles []string

	switch r := claims["role"].(type) {
	case string:
		roles = append(roles, r)
	case []any:
		roles = append(roles, toStrings(r)...)
	}
	if realm, ok := claims["realm_access"].(map[string]any); ok {
		roles = append(roles, toStrings(realm["roles"])...)
	}
	if clientID != "" {
		if resources, ok := claims["resource_access"].(map[string]any); ok {
			if client, ok := resources[clientID].(map[string]any); ok {
				roles = append(roles, toStrings(client["roles"])...)
			}
		}
	}

	seen := make(map[string]bool, len(roles))
	authorities := make([]string, 0, len(roles))
	for _, r := range roles {
		a := strings.ToUpper(strings.TrimSpace(r))
		if a == "" {
			continue
		}
		if !strings.HasPrefix(a, "ROLE_") {
			a = "ROLE_" + a
		}
		if !seen[a] {
			seen[a] = true
			authorities = append(authorities, a)
		}
	}
	return authorities
}

func toStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// extractToken читает Bearer токен или cookie.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// Auth middleware требует валидный, не отозванный токен.
//
// Схема работы:
// 1. Извлекает токен из заголовка или cookie
// 2. Проверяет подпись и срок действия
// 3. Проверяет отзыв (если revocation задан)
// 4. Кладёт Principal в контекст или возвращает 401
func Auth(verifier *TokenVerifier, revocation RevocationChecker, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			common.Error(c, http.StatusUnauthorized, common.CodeUnauthenticated)
			return
		}

		principal, err := verifier.Verify(token)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			common.Error(c, http.StatusUnauthorized, common.CodeUnauthenticated)
			return
		}

		if revocation != nil && principal.TokenID != "" {
			revoked, err := revocation.IsRevoked(c.Request.Context(), principal.TokenID)
			if err != nil {
				common.HandleError(c, fmt.Errorf("revocation check: %w", err))
				return
			}
			if revoked {
				common.Error(c, http.StatusUnauthorized, common.CodeUnauthenticated)
				return
			}
		}

		c.Set(PrincipalKey, principal)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), principal.Subject))
		c.Next()
	}
}

// UserIDResolver находит локальный ID пользователя по email.
type UserIDResolver func(ctx context.Context, email string) (uuid.UUID, error)

// ResolveUserID дополняет Principal локальным ID, если в токене нет claim uuid
// (например, mapper не настроен в realm). Должен стоять после Auth.
// Ошибка поиска не прерывает запрос: Principal остаётся без UserID.
func ResolveUserID(resolve UserIDResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, ok := GetPrincipal(c); ok && principal.UserID == uuid.Nil && principal.Email != "" {
			if id, err := resolve(c.Request.Context(), principal.Email); err == nil {
				principal.UserID = id
			}
		}
		c.Next()
	}
}

// RequireRole проверяет, что у Principal есть хотя бы одна из ролей.
// Должен стоять после Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			common.Error(c, http.StatusUnauthorized, common.CodeUnauthenticated)
			return
		}
		for _, role := range roles {
			if principal.HasAuthority(role) {
				c.Next()
				return
			}
		}
		common.Error(c, http.StatusForbidden, common.CodeAccessDenied)
	}
}

// GetPrincipal возвращает Principal текущего запроса.
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}
