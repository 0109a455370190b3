// Package handlers - Authentication HTTP handlers.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
	"github.com/Haleralex/paytogether/internal/adapters/http/middleware"
	"github.com/Haleralex/paytogether/internal/application/dtos"
	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
)

// AuthService - вход, обновление и выход.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*ports.TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*ports.TokenSet, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time, refreshToken string) error
}

// UserLookup находит локальный профиль по email для /me.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// CookieConfig - параметры cookie с access токеном.
type CookieConfig struct {
	Domain string
	Secure bool
}

// AuthHandler обрабатывает /api/auth.
type AuthHandler struct {
	auth   AuthService
	users  UserLookup
	cookie CookieConfig
}

// NewAuthHandler создаёт AuthHandler. users может быть nil.
func NewAuthHandler(auth AuthService, users UserLookup, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, cookie: cookie}
}

// Login выдаёт токены и выставляет HttpOnly cookie access_token.
//
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if !BindJSON(c, &req) {
		return
	}

	tokens, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	middleware.RecordLogin(err == nil)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	h.setCookie(c, tokens.AccessToken, tokens.ExpiresIn)
	common.JSON(c, http.StatusOK, toTokenResponse(tokens))
}

// Refresh обменивает refresh token на новую пару.
//
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dtos.RefreshRequest
	if !BindJSON(c, &req) {
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	h.setCookie(c, tokens.AccessToken, tokens.ExpiresIn)
	common.JSON(c, http.StatusOK, toTokenResponse(tokens))
}

// Logout отзывает текущий access token и завершает сессию у провайдера.
//
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, common.CodeUnauthenticated)
		return
	}

	// тело опционально
	var req dtos.LogoutRequest
	if c.Request.ContentLength > 0 && !BindJSON(c, &req) {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), principal.TokenID, principal.ExpiresAt, req.RefreshToken); err != nil {
		common.HandleError(c, err)
		return
	}

	h.setCookie(c, "", -1)
	common.NoContent(c)
}

// Me возвращает текущего пользователя.
//
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, common.CodeUnauthenticated)
		return
	}

	resp := dtos.PrincipalDTO{
		Subject:     principal.Subject,
		Email:       principal.Email,
		Authorities: principal.Authorities,
	}
	if resp.Authorities == nil {
		resp.Authorities = []string{}
	}
	if principal.UserID != uuid.Nil {
		resp.ID = principal.UserID.String()
	} else if h.users != nil && principal.Email != "" {
		// профиля может не быть (аккаунт создан напрямую в Keycloak)
		if user, err := h.users.GetByEmail(c.Request.Context(), principal.Email); err == nil {
			resp.ID = user.ID.String()
		}
	}
	common.JSON(c, http.StatusOK, resp)
}

// setCookie выставляет access_token; maxAge < 0 удаляет cookie.
func (h *AuthHandler) setCookie(c *gin.Context, value string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func toTokenResponse(t *ports.TokenSet) dtos.TokenResponse {
	return dtos.TokenResponse{
		AccessToken:      t.AccessToken,
		RefreshToken:     t.RefreshToken,
		ExpiresIn:        int64(t.ExpiresIn / time.Second),
		RefreshExpiresIn: int64(t.RefreshExpiresIn / time.Second),
		TokenType:        t.TokenType,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации.
func (h *AuthHandler) RegisterRoutes(public, authenticated *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)
	public.POST("/auth/refresh", h.Refresh)

	authenticated.POST("/auth/logout", h.Logout)
	authenticated.GET("/auth/me", h.Me)
}
