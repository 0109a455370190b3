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
// Payment Handler
// ============================================

// PaymentService - операции над платежами.
type PaymentService interface {
	Create(ctx context.Context, input *entities.Payment) (*entities.Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
	List(ctx context.Context) ([]*entities.Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Payment, error)
	ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*entities.Payment, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.Payment) (*entities.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentHandler обрабатывает /api/paiements.
type PaymentHandler struct {
	payments PaymentService
}

// NewPaymentHandler создаёт новый PaymentHandler.
func NewPaymentHandler(payments PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreatePayment регистрирует платёж участника.
// Плательщик - текущий пользователь; администратор может указать другого.
// Статус из запроса игнорируется.
//
// @Router /api/paiements [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	actor, ok := RequireActor(c)
	if !ok {
		return
	}

	var req dtos.PaymentDTO
	if !BindJSON(c, &req) {
		return
	}

	model, err := dtos.ToPaymentModel(req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if !actor.HasAuthority(middleware.RoleAdmin) || model.UserID == uuid.Nil {
		model.UserID = actor.UserID
	}
	model.Status = ""

	payment, err := h.payments.Create(c.Request.Context(), model)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	middleware.RecordPaymentCreated(string(payment.Method))
	common.JSON(c, http.StatusCreated, dtos.ToPaymentDTO(payment))
}

// GetPayment возвращает платёж по ID.
//
// @Router /api/paiements/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.payments.GetByID(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToPaymentDTO(payment))
}

// ListPayments возвращает все платежи.
//
// @Router /api/paiements [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	h.respondList(c, h.payments.List)
}

// ListUserPayments возвращает платежи пользователя.
//
// @Router /api/paiements/utilisateur/{userId} [get]
func (h *PaymentHandler) ListUserPayments(c *gin.Context) {
	userID, ok := ParseUUIDParam(c, "userId")
	if !ok {
		return
	}
	h.respondList(c, func(ctx context.Context) ([]*entities.Payment, error) {
		return h.payments.ListByUser(ctx, userID)
	})
}

// ListDealPayments возвращает платежи по deal.
//
// @Router /api/paiements/deal/{dealId} [get]
func (h *PaymentHandler) ListDealPayments(c *gin.Context) {
	dealID, ok := ParseUUIDParam(c, "dealId")
	if !ok {
		return
	}
	h.respondList(c, func(ctx context.Context) ([]*entities.Payment, error) {
		return h.payments.ListByDeal(ctx, dealID)
	})
}

func (h *PaymentHandler) respondList(c *gin.Context, list func(context.Context) ([]*entities.Payment, error)) {
	payments, err := list(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToPaymentDTOList(payments))
}

// UpdatePayment обновляет платёж (статус, ссылка на транзакцию).
//
// @Router /api/paiements/{id} [put]
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dtos.PaymentDTO
	if !BindJSON(c, &req) {
		return
	}

	model, err := dtos.ToPaymentModel(req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	payment, err := h.payments.Update(c.Request.Context(), id, model)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToPaymentDTO(payment))
}

// DeletePayment удаляет платёж.
//
// @Router /api/paiements/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.payments.Delete(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}

// RegisterRoutes регистрирует маршруты платежей. Изменение и удаление - только администратор.
func (h *PaymentHandler) RegisterRoutes(public, authenticated, admin *gin.RouterGroup) {
	public.GET("/paiements", h.ListPayments)
	public.GET("/paiements/:id", h.GetPayment)
	public.GET("/paiements/utilisateur/:userId", h.ListUserPayments)
	public.GET("/paiements/deal/:dealId", h.ListDealPayments)

	authenticated.POST("/paiements", h.CreatePayment)
	admin.PUT("/paiements/:id", h.UpdatePayment)
	admin.DELETE("/paiements/:id", h.DeletePayment)
}
