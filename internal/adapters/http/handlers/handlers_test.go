package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
	"github.com/Haleralex/paytogether/internal/adapters/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	SetupValidator()
}

// testGroups - группы маршрутов без аутентификации: principal подставляется явно.
type testGroups struct {
	engine        *gin.Engine
	public        *gin.RouterGroup
	authenticated *gin.RouterGroup
	admin         *gin.RouterGroup
}

func newTestGroups(principal *middleware.Principal) testGroups {
	engine := gin.New()
	api := engine.Group("/api")
	withPrincipal := func(c *gin.Context) {
		if principal != nil {
			c.Set(middleware.PrincipalKey, principal)
		}
		c.Next()
	}
	auth := api.Group("", withPrincipal, middleware.RequireRole(middleware.RoleUser, middleware.RoleAdmin))
	return testGroups{
		engine:        engine,
		public:        api,
		authenticated: auth,
		admin:         auth.Group("", middleware.RequireRole(middleware.RoleAdmin)),
	}
}

var (
	testUserID  = uuid.MustParse("7b1d2c3e-0000-4000-8000-000000000001")
	testAdminID = uuid.MustParse("7b1d2c3e-0000-4000-8000-0000000000ad")
)

func adminPrincipal() *middleware.Principal {
	return &middleware.Principal{
		Subject:     "kc-admin",
		UserID:      testAdminID,
		Email:       "admin@paytogether.fr",
		Authorities: []string{middleware.RoleAdmin},
	}
}

func userPrincipal() *middleware.Principal {
	return &middleware.Principal{
		Subject:     "kc-user",
		UserID:      testUserID,
		Email:       "user@paytogether.fr",
		Authorities: []string{middleware.RoleUser},
	}
}

func doRequest(t *testing.T, engine http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
