package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
	"github.com/Haleralex/paytogether/internal/adapters/http/middleware"
)

// CodeUnknownUser - токен не связан с локальным профилем (нет claim uuid).
const CodeUnknownUser = "auth.utilisateur.inconnu"

// RequireActor возвращает Principal с локальным ID пользователя.
// Автор создаваемых ресурсов всегда берётся отсюда, а не из тела запроса.
func RequireActor(c *gin.Context) (*middleware.Principal, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, common.CodeUnauthenticated)
		return nil, false
	}
	if principal.UserID == uuid.Nil {
		common.Error(c, http.StatusForbidden, CodeUnknownUser)
		return nil, false
	}
	return principal, true
}

// AuthorizeOwner пропускает владельца ресурса и администратора, остальным 403.
func AuthorizeOwner(c *gin.Context, ownerID uuid.UUID) bool {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, common.CodeUnauthenticated)
		return false
	}
	if !principal.IsOwnerOrAdmin(ownerID) {
		common.Error(c, http.StatusForbidden, common.CodeAccessDenied)
		return false
	}
	return true
}
