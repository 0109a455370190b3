// Package handlers - User HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
	"github.com/Haleralex/paytogether/internal/application/dtos"
	"github.com/Haleralex/paytogether/internal/domain/entities"
)

// ============================================
// Service Interface
// ============================================

// UserService - операции над пользователями.
type UserService interface {
	Register(ctx context.Context, input *entities.User, password string) (*entities.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	List(ctx context.Context) ([]*entities.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, photoURL string) (*entities.User, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*entities.User, error)
	ResetPassword(ctx context.Context, id uuid.UUID, password string, temporary bool) error
	AssignRole(ctx context.Context, id uuid.UUID, role entities.Role) (*entities.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ============================================
// User Handler
// ============================================

// UserHandler обрабатывает HTTP запросы /api/utilisateurs.
//
// Аккаунт у identity provider создаётся сервисом, handler только
// преобразует HTTP <-> DTO.
type UserHandler struct {
	users UserService
}

// NewUserHandler создаёт новый UserHandler.
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterUser регистрирует пользователя.
//
// @Router /api/utilisateurs [post]
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req dtos.RegisterUserDTO
	if !BindJSON(c, &req) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), &entities.User{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            entities.Role(req.Role),
		PhotoProfileURL: req.PhotoProfileURL,
	}, req.Password)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusCreated, dtos.ToUserDTO(user))
}

// GetUser возвращает пользователя по ID.
//
// @Router /api/utilisateurs/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToUserDTO(user))
}

// ListUsers возвращает всех пользователей.
//
// @Router /api/utilisateurs [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToUserDTOList(users))
}

// UpdateUser обновляет профиль.
//
// @Router /api/utilisateurs/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dtos.UpdateUserDTO
	if !BindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), id, req.FirstName, req.LastName, req.PhotoProfileURL)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToUserDTO(user))
}

// EnableUser / DisableUser переключают доступ к аккаунту.
//
// @Router /api/utilisateurs/{id}/activer [put]
func (h *UserHandler) EnableUser(c *gin.Context) {
	h.setEnabled(c, true)
}

// @Router /api/utilisateurs/{id}/desactiver [put]
func (h *UserHandler) DisableUser(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *UserHandler) setEnabled(c *gin.Context, enabled bool) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.SetEnabled(c.Request.Context(), id, enabled)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToUserDTO(user))
}

// ResetPassword задаёт новый пароль у identity provider.
//
// @Router /api/utilisateurs/{id}/mot-de-passe [put]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dtos.ResetPasswordDTO
	if !BindJSON(c, &req) {
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), id, req.Password, req.Temporary); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}

// AssignRole назначает роль.
//
// @Router /api/utilisateurs/{id}/role [put]
func (h *UserHandler) AssignRole(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dtos.AssignRoleDTO
	if !BindJSON(c, &req) {
		return
	}

	user, err := h.users.AssignRole(c.Request.Context(), id, entities.Role(req.Role))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToUserDTO(user))
}

// DeleteUser удаляет пользователя локально и у identity provider.
//
// @Router /api/utilisateurs/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}

// RegisterRoutes регистрирует маршруты пользователей.
//
// Routes:
// - POST   /utilisateurs                   - регистрация (публичная)
// - GET    /utilisateurs/:id, PUT /:id     - аутентифицированные
// - остальное                             - ROLE_ADMIN
func (h *UserHandler) RegisterRoutes(public, authenticated, admin *gin.RouterGroup) {
	public.POST("/utilisateurs", h.RegisterUser)

	authenticated.GET("/utilisateurs/:id", h.GetUser)
	authenticated.PUT("/utilisateurs/:id", h.UpdateUser)

	admin.GET("/utilisateurs", h.ListUsers)
	admin.PUT("/utilisateurs/:id/activer", h.EnableUser)
	admin.PUT("/utilisateurs/:id/desactiver", h.DisableUser)
	admin.PUT("/utilisateurs/:id/mot-de-passe", h.ResetPassword)
	admin.PUT("/utilisateurs/:id/role", h.AssignRole)
	admin.DELETE("/utilisateurs/:id", h.DeleteUser)
}
