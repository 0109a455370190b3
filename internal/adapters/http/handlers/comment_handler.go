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

// CommentService - операции над комментариями.
type CommentService interface {
	Create(ctx context.Context, input *entities.Comment) (*entities.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error)
	List(ctx context.Context) ([]*entities.Comment, error)
	ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*entities.Comment, error)
	Update(ctx context.Context, id uuid.UUID, content string) (*entities.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentHandler обрабатывает /api/commentaires.
type CommentHandler struct {
	comments CommentService
}

func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// CreateComment публикует комментарий от имени текущего пользователя.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	actor, ok := RequireActor(c)
	if !ok {
		return
	}

	var req dtos.CommentDTO
	if !BindJSON(c, &req) {
		return
	}

	model, err := dtos.ToCommentModel(req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	model.AuthorID = actor.UserID

	comment, err := h.comments.Create(c.Request.Context(), model)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusCreated, dtos.ToCommentDTO(comment))
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.comments.GetByID(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToCommentDTO(comment))
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.comments.List(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToCommentDTOList(comments))
}

// ListDealComments возвращает комментарии deal в порядке создания.
func (h *CommentHandler) ListDealComments(c *gin.Context) {
	dealID, ok := ParseUUIDParam(c, "dealId")
	if !ok {
		return
	}

	comments, err := h.comments.ListByDeal(c.Request.Context(), dealID)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToCommentDTOList(comments))
}

// UpdateComment меняет только текст комментария.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := h.authorize(c)
	if !ok {
		return
	}

	var req dtos.CommentDTO
	if !BindJSON(c, &req) {
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), id, req.Content)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.ToCommentDTO(comment))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := h.authorize(c)
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}

// authorize пропускает автора комментария и администратора.
func (h *CommentHandler) authorize(c *gin.Context) (uuid.UUID, bool) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	comment, err := h.comments.GetByID(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return uuid.Nil, false
	}
	if !AuthorizeOwner(c, comment.AuthorID) {
		return uuid.Nil, false
	}
	return id, true
}

func (h *CommentHandler) RegisterRoutes(public, authenticated *gin.RouterGroup) {
	public.GET("/commentaires", h.ListComments)
	public.GET("/commentaires/:id", h.GetComment)
	public.GET("/commentaires/deal/:dealId", h.ListDealComments)

	authenticated.POST("/commentaires", h.CreateComment)
	authenticated.PUT("/commentaires/:id", h.UpdateComment)
	authenticated.DELETE("/commentaires/:id", h.DeleteComment)
}
