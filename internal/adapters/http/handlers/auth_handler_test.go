package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/paytogether/internal/adapters/http/middleware"
	"github.com/Haleralex/paytogether/internal/application/dtos"
	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*ports.TokenSet, error) {
	args := m.Called(ctx, username, password)
	t, _ := args.Get(0).(*ports.TokenSet)
	return t, args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenSet, error) {
	args := m.Called(ctx, refreshToken)
	t, _ := args.Get(0).(*ports.TokenSet)
	return t, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time, refreshToken string) error {
	return m.Called(ctx, tokenID, expiresAt, refreshToken).Error(0)
}

func tokenSet() *ports.TokenSet {
	return &ports.TokenSet{
		AccessToken:      "access.jwt",
		RefreshToken:     "refresh.jwt",
		ExpiresIn:        5 * time.Minute,
		RefreshExpiresIn: 30 * time.Minute,
		TokenType:        "Bearer",
	}
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("SetsHttpOnlyCookie", func(t *testing.T) {
		svc := new(mockAuthService)
		groups := newTestGroups(nil)
		NewAuthHandler(svc, nil, CookieConfig{Secure: true}).RegisterRoutes(groups.public, groups.authenticated)
		svc.On("Login", mock.Anything, "marie", "secret").Return(tokenSet(), nil)

		w := doRequest(t, groups.engine, http.MethodPost, "/api/auth/login", map[string]any{"username": "marie", "password": "secret"})

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[dtos.TokenResponse](t, w)
		assert.Equal(t, "access.jwt", resp.AccessToken)
		assert.Equal(t, int64(300), resp.ExpiresIn)
		assert.Equal(t, int64(1800), resp.RefreshExpiresIn)

		cookie := findCookie(w, middleware.AccessTokenCookie)
		require.NotNil(t, cookie)
		assert.Equal(t, "access.jwt", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, 300, cookie.MaxAge)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		svc := new(mockAuthService)
		groups := newTestGroups(nil)
		NewAuthHandler(svc, nil, CookieConfig{}).RegisterRoutes(groups.public, groups.authenticated)
		svc.On("Login", mock.Anything, "marie", "wrong").
			Return(nil, errors.NewUnauthorizedError("auth.identifiants.invalides"))

		w := doRequest(t, groups.engine, http.MethodPost, "/api/auth/login", map[string]any{"username": "marie", "password": "wrong"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "auth.identifiants.invalides", decodeError(t, w).ErrorCode)
		assert.Nil(t, findCookie(w, middleware.AccessTokenCookie))
	})

	t.Run("MissingPassword", func(t *testing.T) {
		groups := newTestGroups(nil)
		NewAuthHandler(new(mockAuthService), nil, CookieConfig{}).RegisterRoutes(groups.public, groups.authenticated)

		w := doRequest(t, groups.engine, http.MethodPost, "/api/auth/login", map[string]any{"username": "marie"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation.password.required", decodeError(t, w).ErrorCode)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := new(mockAuthService)
	groups := newTestGroups(nil)
	NewAuthHandler(svc, nil, CookieConfig{}).RegisterRoutes(groups.public, groups.authenticated)
	svc.On("Refresh", mock.Anything, "refresh.jwt").Return(tokenSet(), nil)

	w := doRequest(t, groups.engine, http.MethodPost, "/api/auth/refresh", map[string]any{"refreshToken": "refresh.jwt"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "refresh.jwt", decodeBody[dtos.TokenResponse](t, w).RefreshToken)
}

func TestAuthHandler_Logout(t *testing.T) {
	expiresAt := time.Now().Add(time.Minute).Truncate(time.Second)
	principal := userPrincipal()
	principal.TokenID = "jti-1"
	principal.ExpiresAt = expiresAt

	t.Run("WithRefreshToken", func(t *testing.T) {
		svc := new(mockAuthService)
		groups := newTestGroups(principal)
		NewAuthHandler(svc, nil, CookieConfig{}).RegisterRoutes(groups.public, groups.authenticated)
		svc.On("Logout", mock.Anything, "jti-1", expiresAt, "refresh.jwt").Return(nil)

		w := doRequest(t, groups.engine, http.MethodPost, "/api/auth/logout", map[string]any{"refreshToken": "refresh.jwt"})

		assert.Equal(t, http.StatusNoContent, w.Code)
		cookie := findCookie(w, middleware.AccessTokenCookie)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Less(t, cookie.MaxAge, 0)
		svc.AssertExpectations(t)
	})

	t.Run("WithoutBody", func(t *testing.T) {
		svc := new(mockAuthService)
		groups := newTestGroups(principal)
		NewAuthHandler(svc, nil, CookieConfig{}).RegisterRoutes(groups.public, groups.authenticated)
		svc.On("Logout", mock.Anything, "jti-1", expiresAt, "").Return(nil)

		w := doRequest(t, groups.engine, http.MethodPost, "/api/auth/logout", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("RevocationFailure", func(t *testing.T) {
		svc := new(mockAuthService)
		groups := newTestGroups(principal)
		NewAuthHandler(svc, nil, CookieConfig{}).RegisterRoutes(groups.public, groups.authenticated)
		svc.On("Logout", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		w := doRequest(t, groups.engine, http.MethodPost, "/api/auth/logout", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("WithLocalProfile", func(t *testing.T) {
		users := new(mockUserService)
		localID := uuid.New()
		users.On("GetByEmail", mock.Anything, "user@paytogether.fr").Return(&entities.User{ID: localID}, nil)
		principal := userPrincipal()
		principal.UserID = uuid.Nil
		groups := newTestGroups(principal)
		NewAuthHandler(new(mockAuthService), users, CookieConfig{}).RegisterRoutes(groups.public, groups.authenticated)

		w := doRequest(t, groups.engine, http.MethodGet, "/api/auth/me", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[dtos.PrincipalDTO](t, w)
		assert.Equal(t, localID.String(), resp.ID)
		assert.Equal(t, "kc-user", resp.Subject)
		assert.Equal(t, []string{middleware.RoleUser}, resp.Authorities)
	})

	t.Run("FromTokenClaim", func(t *testing.T) {
		users := new(mockUserService)
		groups := newTestGroups(userPrincipal())
		NewAuthHandler(new(mockAuthService), users, CookieConfig{}).RegisterRoutes(groups.public, groups.authenticated)

		w := doRequest(t, groups.engine, http.MethodGet, "/api/auth/me", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testUserID.String(), decodeBody[dtos.PrincipalDTO](t, w).ID)
		users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("WithoutLocalProfile", func(t *testing.T) {
		users := new(mockUserService)
		users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, errors.ErrEntityNotFound)
		principal := userPrincipal()
		principal.UserID = uuid.Nil
		groups := newTestGroups(principal)
		NewAuthHandler(new(mockAuthService), users, CookieConfig{}).RegisterRoutes(groups.public, groups.authenticated)

		w := doRequest(t, groups.engine, http.MethodGet, "/api/auth/me", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, strings.Contains(w.Body.String(), `"uuid"`))
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		groups := newTestGroups(nil)
		NewAuthHandler(new(mockAuthService), nil, CookieConfig{}).RegisterRoutes(groups.public, groups.authenticated)

		w := doRequest(t, groups.engine, http.MethodGet, "/api/auth/me", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
