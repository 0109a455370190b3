// Package handlers - Deal HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
	"github.com/Haleralex/paytogether/internal/adapters/http/middleware"
	"github.com/Haleralex/paytogether/internal/application/dtos"
	"github.com/Haleralex/paytogether/internal/domain/entities"
)

// ============================================
// Service Interface
// ============================================

// DealService - операции над сделками, нужные handler'у.
type DealService interface {
	Create(ctx context.Context, input *entities.Deal) (*entities.Deal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Deal, error)
	List(ctx context.Context) ([]*entities.Deal, error)
	ListByStatus(ctx context.Context, status entities.DealStatus) ([]*entities.Deal, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Deal, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entities.Deal, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.Deal) (*entities.Deal, error)
	PartialUpdate(ctx context.Context, id uuid.UUID, patch *entities.Deal) (*entities.Deal, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, next entities.DealStatus) (*entities.Deal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ============================================
// Deal Handler
// ============================================

// DealHandler обрабатывает HTTP запросы /api/deals.
type DealHandler struct {
	deals DealService
}

// NewDealHandler создаёт новый DealHandler.
func NewDealHandler(deals DealService) *DealHandler {
	return &DealHandler{deals: deals}
}

// CreateDeal создаёт сделку. Создатель - текущий пользователь.
//
// @Router /api/deals [post]
func (h *DealHandler) CreateDeal(c *gin.Context) {
	actor, ok := RequireActor(c)
	if !ok {
		return
	}

	var req dtos.DealDTO
	if !BindJSON(c, &req) {
		return
	}

	model, err := dtos.ToDealModel(req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	model.CreatorID = actor.UserID

	deal, err := h.deals.Create(c.Request.Context(), model)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	middleware.RecordDealCreated(string(deal.Status))
	common.JSON(c, http.StatusCreated, dtos.ToDealDTO(deal))
}

// GetDeal возвращает сделку по ID.
//
// @Router /api/deals/{id} [get]
func (h *DealHandler) GetDeal(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	deal, err := h.deals.GetByID(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToDealDTO(deal))
}

// ListDeals возвращает все сделки.
//
// @Router /api/deals [get]
func (h *DealHandler) ListDeals(c *gin.Context) {
	h.respondList(c, func(ctx context.Context) ([]*entities.Deal, error) {
		return h.deals.List(ctx)
	})
}

// ListDealsByStatus возвращает сделки в статусе.
//
// @Router /api/deals/statut/{statut} [get]
func (h *DealHandler) ListDealsByStatus(c *gin.Context) {
	status := entities.DealStatus(c.Param("statut"))
	h.respondList(c, func(ctx context.Context) ([]*entities.Deal, error) {
		return h.deals.ListByStatus(ctx, status)
	})
}

// ListDealsByCreator возвращает сделки автора.
//
// @Router /api/deals/createur/{uuid} [get]
func (h *DealHandler) ListDealsByCreator(c *gin.Context) {
	creatorID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	h.respondList(c, func(ctx context.Context) ([]*entities.Deal, error) {
		return h.deals.ListByCreator(ctx, creatorID)
	})
}

// ListDealsByCategory возвращает сделки категории.
//
// @Router /api/deals/categorie/{uuid} [get]
func (h *DealHandler) ListDealsByCategory(c *gin.Context) {
	categoryID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	h.respondList(c, func(ctx context.Context) ([]*entities.Deal, error) {
		return h.deals.ListByCategory(ctx, categoryID)
	})
}

func (h *DealHandler) respondList(c *gin.Context, list func(context.Context) ([]*entities.Deal, error)) {
	deals, err := list(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToDealDTOList(deals))
}

// UpdateDeal полностью заменяет сделку.
//
// @Router /api/deals/{id} [put]
func (h *DealHandler) UpdateDeal(c *gin.Context) {
	h.update(c, h.deals.Update)
}

// PatchDeal частично обновляет сделку: отсутствующие поля не меняются.
//
// @Router /api/deals/{id} [patch]
func (h *DealHandler) PatchDeal(c *gin.Context) {
	h.update(c, h.deals.PartialUpdate)
}

func (h *DealHandler) update(c *gin.Context, apply func(context.Context, uuid.UUID, *entities.Deal) (*entities.Deal, error)) {
	id, ok := h.authorize(c)
	if !ok {
		return
	}

	var req dtos.DealDTO
	if !BindJSON(c, &req) {
		return
	}

	model, err := dtos.ToDealModel(req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	// создатель не переназначается через PUT/PATCH
	model.CreatorID = uuid.Nil

	deal, err := apply(c.Request.Context(), id, model)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToDealDTO(deal))
}

// ChangeDealStatus меняет статус по таблице переходов.
//
// @Router /api/deals/{id}/statut [patch]
func (h *DealHandler) ChangeDealStatus(c *gin.Context) {
	id, ok := h.authorize(c)
	if !ok {
		return
	}

	var req dtos.DealStatusDTO
	if !BindJSON(c, &req) {
		return
	}

	deal, err := h.deals.ChangeStatus(c.Request.Context(), id, entities.DealStatus(req.Status))
	if err != nil {
		common.HandleError(c, err)
		return
	}

	middleware.RecordDealStatusChange(string(deal.Status))
	common.JSON(c, http.StatusOK, dtos.ToDealDTO(deal))
}

// DeleteDeal удаляет сделку.
//
// @Router /api/deals/{id} [delete]
func (h *DealHandler) DeleteDeal(c *gin.Context) {
	id, ok := h.authorize(c)
	if !ok {
		return
	}

	if err := h.deals.Delete(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}

// authorize читает ID из пути и проверяет, что сделку меняет её создатель или администратор.
func (h *DealHandler) authorize(c *gin.Context) (uuid.UUID, bool) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	deal, err := h.deals.GetByID(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return uuid.Nil, false
	}
	if !AuthorizeOwner(c, deal.CreatorID) {
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes регистрирует маршруты. Чтение публичное, запись требует аутентификации.
func (h *DealHandler) RegisterRoutes(public, authenticated *gin.RouterGroup) {
	public.GET("/deals", h.ListDeals)
	public.GET("/deals/:id", h.GetDeal)
	public.GET("/deals/statut/:statut", h.ListDealsByStatus)
	public.GET("/deals/createur/:uuid", h.ListDealsByCreator)
	public.GET("/deals/categorie/:uuid", h.ListDealsByCategory)

	authenticated.POST("/deals", h.CreateDeal)
	authenticated.PUT("/deals/:id", h.UpdateDeal)
	authenticated.PATCH("/deals/:id", h.PatchDeal)
	authenticated.PATCH("/deals/:id/statut", h.ChangeDealStatus)
	authenticated.DELETE("/deals/:id", h.DeleteDeal)
}
