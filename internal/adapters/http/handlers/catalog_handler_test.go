package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/paytogether/internal/application/dtos"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// ============================================
// Mocks
// ============================================

type mockCategoryService struct{ mock.Mock }

func (m *mockCategoryService) Create(ctx context.Context, input *entities.Category) (*entities.Category, error) {
	args := m.Called(ctx, input)
	c, _ := args.Get(0).(*entities.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entities.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) List(ctx context.Context) ([]*entities.Category, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]*entities.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) Update(ctx context.Context, id uuid.UUID, input *entities.Category) (*entities.Category, error) {
	args := m.Called(ctx, id, input)
	c, _ := args.Get(0).(*entities.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCommentService struct{ mock.Mock }

func (m *mockCommentService) Create(ctx context.Context, input *entities.Comment) (*entities.Comment, error) {
	args := m.Called(ctx, input)
	c, _ := args.Get(0).(*entities.Comment)
	return c, args.Error(1)
}

func (m *mockCommentService) GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entities.Comment)
	return c, args.Error(1)
}

func (m *mockCommentService) List(ctx context.Context) ([]*entities.Comment, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]*entities.Comment)
	return c, args.Error(1)
}

func (m *mockCommentService) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*entities.Comment, error) {
	args := m.Called(ctx, dealID)
	c, _ := args.Get(0).([]*entities.Comment)
	return c, args.Error(1)
}

func (m *mockCommentService) Update(ctx context.Context, id uuid.UUID, content string) (*entities.Comment, error) {
	args := m.Called(ctx, id, content)
	c, _ := args.Get(0).(*entities.Comment)
	return c, args.Error(1)
}

func (m *mockCommentService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockAdvertisementService struct{ mock.Mock }

func (m *mockAdvertisementService) Create(ctx context.Context, input *entities.Advertisement) (*entities.Advertisement, error) {
	args := m.Called(ctx, input)
	a, _ := args.Get(0).(*entities.Advertisement)
	return a, args.Error(1)
}

func (m *mockAdvertisementService) GetByID(ctx context.Context, id uuid.UUID) (*entities.Advertisement, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*entities.Advertisement)
	return a, args.Error(1)
}

func (m *mockAdvertisementService) List(ctx context.Context) ([]*entities.Advertisement, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).([]*entities.Advertisement)
	return a, args.Error(1)
}

func (m *mockAdvertisementService) ListActive(ctx context.Context) ([]*entities.Advertisement, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).([]*entities.Advertisement)
	return a, args.Error(1)
}

func (m *mockAdvertisementService) Update(ctx context.Context, id uuid.UUID, input *entities.Advertisement) (*entities.Advertisement, error) {
	args := m.Called(ctx, id, input)
	a, _ := args.Get(0).(*entities.Advertisement)
	return a, args.Error(1)
}

func (m *mockAdvertisementService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// ============================================
// Category
// ============================================

func TestCategoryHandler(t *testing.T) {
	setup := func(admin bool) (*mockCategoryService, testGroups) {
		svc := new(mockCategoryService)
		principal := userPrincipal()
		if admin {
			principal = adminPrincipal()
		}
		groups := newTestGroups(principal)
		NewCategoryHandler(svc).RegisterRoutes(groups.public, groups.admin)
		return svc, groups
	}

	t.Run("CreateAsAdmin", func(t *testing.T) {
		svc, groups := setup(true)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Category) bool {
			return c.Name == "Alimentation"
		})).Return(&entities.Category{ID: uuid.New(), Name: "Alimentation"}, nil)

		w := doRequest(t, groups.engine, http.MethodPost, "/api/categories", map[string]any{"nom": "Alimentation"})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Alimentation", decodeBody[dtos.CategoryDTO](t, w).Name)
		svc.AssertExpectations(t)
	})

	t.Run("CreateAsUserForbidden", func(t *testing.T) {
		svc, groups := setup(false)

		w := doRequest(t, groups.engine, http.MethodPost, "/api/categories", map[string]any{"nom": "Alimentation"})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "auth.acces.refuse", decodeError(t, w).ErrorCode)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		svc, groups := setup(true)
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, errors.NewDuplicateError(validators.CodeCategoryNameExists, "Alimentation"))

		w := doRequest(t, groups.engine, http.MethodPost, "/api/categories", map[string]any{"nom": "Alimentation"})

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, validators.CodeCategoryNameExists, resp.ErrorCode)
		assert.Equal(t, []any{"Alimentation"}, resp.Params)
	})

	t.Run("ListIsPublic", func(t *testing.T) {
		svc, groups := setup(false)
		svc.On("List", mock.Anything).Return([]*entities.Category{{ID: uuid.New(), Name: "A"}}, nil)

		w := doRequest(t, groups.engine, http.MethodGet, "/api/categories", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody[[]dtos.CategoryDTO](t, w), 1)
	})

	t.Run("DeleteNotFound", func(t *testing.T) {
		svc, groups := setup(true)
		id := uuid.New()
		svc.On("Delete", mock.Anything, id).Return(errors.NewNotFoundError(validators.CodeCategoryNotFound, id.String()))

		w := doRequest(t, groups.engine, http.MethodDelete, "/api/categories/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, validators.CodeCategoryNotFound, decodeError(t, w).ErrorCode)
	})
}

// ============================================
// Comment
// ============================================

func TestCommentHandler(t *testing.T) {
	setup := func() (*mockCommentService, testGroups) {
		svc := new(mockCommentService)
		groups := newTestGroups(userPrincipal())
		NewCommentHandler(svc).RegisterRoutes(groups.public, groups.authenticated)
		return svc, groups
	}

	t.Run("Create", func(t *testing.T) {
		svc, groups := setup()
		dealID := uuid.New()
		svc.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Comment) bool {
			return c.DealID == dealID && c.AuthorID == testUserID && c.Content == "Super offre"
		})).Return(&entities.Comment{ID: uuid.New(), DealID: dealID, AuthorID: testUserID, Content: "Super offre"}, nil)

		// auteurUuid из тела игнорируется: автор берётся из токена
		w := doRequest(t, groups.engine, http.MethodPost, "/api/commentaires", map[string]any{
			"dealUuid":   dealID.String(),
			"auteurUuid": uuid.NewString(),
			"contenu":    "Super offre",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, dealID.String(), decodeBody[dtos.CommentDTO](t, w).DealID)
		svc.AssertExpectations(t)
	})

	t.Run("CreateInvalidDealUUID", func(t *testing.T) {
		_, groups := setup()

		w := doRequest(t, groups.engine, http.MethodPost, "/api/commentaires", map[string]any{
			"dealUuid": "nope",
			"contenu":  "x",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation.dealUuid.uuid", decodeError(t, w).ErrorCode)
	})

	t.Run("ListByDeal", func(t *testing.T) {
		svc, groups := setup()
		dealID := uuid.New()
		svc.On("ListByDeal", mock.Anything, dealID).Return([]*entities.Comment{
			{ID: uuid.New(), DealID: dealID, Content: "a", Audit: entities.Audit{CreatedAt: time.Now()}},
		}, nil)

		w := doRequest(t, groups.engine, http.MethodGet, "/api/commentaires/deal/"+dealID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody[[]dtos.CommentDTO](t, w), 1)
	})

	t.Run("UpdatePassesContentOnly", func(t *testing.T) {
		svc, groups := setup()
		id := uuid.New()
		svc.On("GetByID", mock.Anything, id).Return(&entities.Comment{ID: id, AuthorID: testUserID}, nil)
		svc.On("Update", mock.Anything, id, "Corrigé").Return(&entities.Comment{ID: id, Content: "Corrigé"}, nil)

		w := doRequest(t, groups.engine, http.MethodPut, "/api/commentaires/"+id.String(), map[string]any{"contenu": "Corrigé"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Corrigé", decodeBody[dtos.CommentDTO](t, w).Content)
	})

	t.Run("OtherUserCannotEditOrDelete", func(t *testing.T) {
		svc, groups := setup()
		id := uuid.New()
		svc.On("GetByID", mock.Anything, id).Return(&entities.Comment{ID: id, AuthorID: uuid.New()}, nil)

		w := doRequest(t, groups.engine, http.MethodPut, "/api/commentaires/"+id.String(), map[string]any{"contenu": "Pirate"})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doRequest(t, groups.engine, http.MethodDelete, "/api/commentaires/"+id.String(), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

// ============================================
// Advertisement
// ============================================

func TestAdvertisementHandler(t *testing.T) {
	svc := new(mockAdvertisementService)
	groups := newTestGroups(adminPrincipal())
	NewAdvertisementHandler(svc).RegisterRoutes(groups.public, groups.admin)

	t.Run("ListActive", func(t *testing.T) {
		svc.On("ListActive", mock.Anything).Return([]*entities.Advertisement{
			{ID: uuid.New(), Title: "Soldes", ImageURL: "https://cdn/p.jpg", Active: true},
		}, nil).Once()

		w := doRequest(t, groups.engine, http.MethodGet, "/api/publicites/actives", nil)

		require.Equal(t, http.StatusOK, w.Code)
		list := decodeBody[[]dtos.AdvertisementDTO](t, w)
		require.Len(t, list, 1)
		assert.True(t, list[0].Active)
	})

	t.Run("Create", func(t *testing.T) {
		svc.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Advertisement) bool {
			return a.Title == "Soldes" && a.ImageURL == "https://cdn/p.jpg"
		})).Return(&entities.Advertisement{ID: uuid.New(), Title: "Soldes", ImageURL: "https://cdn/p.jpg"}, nil).Once()

		w := doRequest(t, groups.engine, http.MethodPost, "/api/publicites", map[string]any{
			"titre":    "Soldes",
			"urlImage": "https://cdn/p.jpg",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("UnexpectedErrorIsInternal", func(t *testing.T) {
		id := uuid.New()
		svc.On("GetByID", mock.Anything, id).Return(nil, assert.AnError).Once()

		w := doRequest(t, groups.engine, http.MethodGet, "/api/publicites/"+id.String(), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "erreur.interne", resp.ErrorCode)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}
