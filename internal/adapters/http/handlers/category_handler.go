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

// CategoryService - операции над категориями.
type CategoryService interface {
	Create(ctx context.Context, input *entities.Category) (*entities.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error)
	List(ctx context.Context) ([]*entities.Category, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.Category) (*entities.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryHandler обрабатывает /api/categories.
type CategoryHandler struct {
	categories CategoryService
}

func NewCategoryHandler(categories CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CreateCategory создаёт категорию. Требует ROLE_ADMIN.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dtos.CategoryDTO
	if !BindJSON(c, &req) {
		return
	}

	category, err := h.categories.Create(c.Request.Context(), dtos.ToCategoryModel(req))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusCreated, dtos.ToCategoryDTO(category))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToCategoryDTO(category))
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToCategoryDTOList(categories))
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dtos.CategoryDTO
	if !BindJSON(c, &req) {
		return
	}

	category, err := h.categories.Update(c.Request.Context(), id, dtos.ToCategoryModel(req))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToCategoryDTO(category))
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}

// RegisterRoutes регистрирует маршруты категорий.
func (h *CategoryHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/categories", h.ListCategories)
	public.GET("/categories/:id", h.GetCategory)

	admin.POST("/categories", h.CreateCategory)
	admin.PUT("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)
}
