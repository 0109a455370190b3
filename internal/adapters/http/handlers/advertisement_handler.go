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

// AdvertisementService - операции над рекламными баннерами.
type AdvertisementService interface {
	Create(ctx context.Context, input *entities.Advertisement) (*entities.Advertisement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Advertisement, error)
	List(ctx context.Context) ([]*entities.Advertisement, error)
	ListActive(ctx context.Context) ([]*entities.Advertisement, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.Advertisement) (*entities.Advertisement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdvertisementHandler обрабатывает /api/publicites.
type AdvertisementHandler struct {
	ads AdvertisementService
}

func NewAdvertisementHandler(ads AdvertisementService) *AdvertisementHandler {
	return &AdvertisementHandler{ads: ads}
}

func (h *AdvertisementHandler) CreateAdvertisement(c *gin.Context) {
	var req dtos.AdvertisementDTO
	if !BindJSON(c, &req) {
		return
	}

	model, err := dtos.ToAdvertisementModel(req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	ad, err := h.ads.Create(c.Request.Context(), model)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusCreated, dtos.ToAdvertisementDTO(ad))
}

func (h *AdvertisementHandler) GetAdvertisement(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	ad, err := h.ads.GetByID(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToAdvertisementDTO(ad))
}

func (h *AdvertisementHandler) ListAdvertisements(c *gin.Context) {
	ads, err := h.ads.List(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToAdvertisementDTOList(ads))
}

// ListActiveAdvertisements возвращает баннеры, активные на текущий момент.
func (h *AdvertisementHandler) ListActiveAdvertisements(c *gin.Context) {
	ads, err := h.ads.ListActive(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToAdvertisementDTOList(ads))
}

func (h *AdvertisementHandler) UpdateAdvertisement(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dtos.AdvertisementDTO
	if !BindJSON(c, &req) {
		return
	}

	model, err := dtos.ToAdvertisementModel(req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	ad, err := h.ads.Update(c.Request.Context(), id, model)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToAdvertisementDTO(ad))
}

func (h *AdvertisementHandler) DeleteAdvertisement(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ads.Delete(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}

func (h *AdvertisementHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/publicites", h.ListAdvertisements)
	public.GET("/publicites/actives", h.ListActiveAdvertisements)
	public.GET("/publicites/:id", h.GetAdvertisement)

	admin.POST("/publicites", h.CreateAdvertisement)
	admin.PUT("/publicites/:id", h.UpdateAdvertisement)
	admin.DELETE("/publicites/:id", h.DeleteAdvertisement)
}
