package deal

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/paytogether/internal/application/usecases/usecasetest"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/events"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// ============================================
// Mocks
// ============================================

type mockDealRepository struct {
	mock.Mock
}

func (m *mockDealRepository) Save(ctx context.Context, deal *entities.Deal) error {
	return m.Called(ctx, deal).Error(0)
}

func (m *mockDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Deal, error) {
	args := m.Called(ctx, id)
	deal, _ := args.Get(0).(*entities.Deal)
	return deal, args.Error(1)
}

func (m *mockDealRepository) FindAll(ctx context.Context) ([]*entities.Deal, error) {
	args := m.Called(ctx)
	deals, _ := args.Get(0).([]*entities.Deal)
	return deals, args.Error(1)
}

func (m *mockDealRepository) FindByStatus(ctx context.Context, status entities.DealStatus) ([]*entities.Deal, error) {
	args := m.Called(ctx, status)
	deals, _ := args.Get(0).([]*entities.Deal)
	return deals, args.Error(1)
}

func (m *mockDealRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Deal, error) {
	args := m.Called(ctx, creatorID)
	deals, _ := args.Get(0).([]*entities.Deal)
	return deals, args.Error(1)
}

func (m *mockDealRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entities.Deal, error) {
	args := m.Called(ctx, categoryID)
	deals, _ := args.Get(0).([]*entities.Deal)
	return deals, args.Error(1)
}

func (m *mockDealRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// ============================================
// Helpers
// ============================================

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validInput() *entities.Deal {
	return &entities.Deal{
		Title:      "Deal valide",
		TotalPrice: dec("100.00"),
		SharePrice: dec("25.00"),
		Images:     []entities.DealImage{{URL: "https://cdn/a.jpg", Principal: true}},
	}
}

func storedDeal(status entities.DealStatus) *entities.Deal {
	d := validInput()
	d.ID = uuid.New()
	d.Status = status
	return d
}

func newTestService() (*Service, *mockDealRepository, *usecasetest.RecordingPublisher) {
	repo := &mockDealRepository{}
	pub := usecasetest.NewRecordingPublisher()
	svc := NewService(repo, pub, &usecasetest.InlineUnitOfWork{})
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, pub
}

func requireCode(t *testing.T, err error, kind errors.Kind, code string) {
	t.Helper()
	require.Error(t, err)
	de, ok := errors.As(err)
	require.True(t, ok, "expected DomainError, got %v", err)
	assert.Equal(t, kind, de.Kind)
	assert.Equal(t, code, de.Code)
}

// ============================================
// Create
// ============================================

func TestCreate_Success(t *testing.T) {
	svc, repo, pub := newTestService()
	repo.On("Save", mock.Anything, mock.AnythingOfType("*entities.Deal")).Return(nil)

	deal, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, deal.ID)
	assert.Equal(t, entities.DealStatusDraft, deal.Status)
	assert.False(t, deal.CreatedAt.IsZero())
	assert.Len(t, pub.EventsOfType(events.EventTypeDealCreated), 1)
	repo.AssertExpectations(t)
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc, repo, pub := newTestService()
	input := validInput()
	input.Title = "   "

	_, err := svc.Create(context.Background(), input)

	requireCode(t, err, errors.KindValidation, validators.CodeDealTitleRequired)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, pub.Events())
}

func TestCreate_ImageChecks(t *testing.T) {
	svc, _, _ := newTestService()
	input := validInput()
	input.Images = []entities.DealImage{{URL: "a"}, {URL: "b"}}

	_, err := svc.Create(context.Background(), input)

	requireCode(t, err, errors.KindValidation, validators.CodeDealPrincipalMissing)
}

func TestCreate_ExpiredStatusForbidden(t *testing.T) {
	svc, _, _ := newTestService()
	input := validInput()
	input.Status = entities.DealStatusExpired

	_, err := svc.Create(context.Background(), input)

	requireCode(t, err, errors.KindForbidden, validators.CodeDealStatusTransitionFail)
}

func TestCreate_SaveError(t *testing.T) {
	svc, repo, pub := newTestService()
	repo.On("Save", mock.Anything, mock.Anything).Return(stderrors.New("db down"))

	_, err := svc.Create(context.Background(), validInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Empty(t, pub.Events())
}

// ============================================
// Queries
// ============================================

func TestGetByID_NotFound(t *testing.T) {
	svc, repo, _ := newTestService()
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, errors.ErrEntityNotFound)

	_, err := svc.GetByID(context.Background(), id)

	requireCode(t, err, errors.KindNotFound, validators.CodeDealNotFound)
}

func TestList_EmptyIsNotError(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("FindAll", mock.Anything).Return(nil, nil)
	repo.On("FindByCreator", mock.Anything, mock.Anything).Return(nil, nil)

	deals, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, deals)
	assert.Empty(t, deals)

	deals, err = svc.ListByCreator(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, deals)
}

func TestListByStatus(t *testing.T) {
	svc, repo, _ := newTestService()
	published := storedDeal(entities.DealStatusPublished)
	repo.On("FindByStatus", mock.Anything, entities.DealStatusPublished).Return([]*entities.Deal{published}, nil)

	deals, err := svc.ListByStatus(context.Background(), entities.DealStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, []*entities.Deal{published}, deals)

	_, err = svc.ListByStatus(context.Background(), "ARCHIVED")
	requireCode(t, err, errors.KindValidation, validators.CodeDealStatusInvalid)
}

// ============================================
// Updates
// ============================================

func TestUpdate_NotFound(t *testing.T) {
	svc, repo, _ := newTestService()
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, errors.ErrEntityNotFound)

	_, err := svc.Update(context.Background(), id, validInput())

	requireCode(t, err, errors.KindNotFound, validators.CodeDealNotFound)
}

func TestUpdate_ExpiredIsImmutable(t *testing.T) {
	svc, repo, pub := newTestService()
	existing := storedDeal(entities.DealStatusExpired)
	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)

	input := validInput()
	input.Status = entities.DealStatusPublished
	_, err := svc.Update(context.Background(), existing.ID, input)

	requireCode(t, err, errors.KindForbidden, validators.CodeDealStatusExpiredLocked)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, pub.Events())
}

func TestUpdate_PublishesStatusChange(t *testing.T) {
	svc, repo, pub := newTestService()
	existing := storedDeal(entities.DealStatusDraft)
	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	input := validInput()
	input.Title = "Titre modifié"
	input.Status = entities.DealStatusPublished
	deal, err := svc.Update(context.Background(), existing.ID, input)

	require.NoError(t, err)
	assert.Equal(t, "Titre modifié", deal.Title)
	assert.Equal(t, entities.DealStatusPublished, deal.Status)
	require.Len(t, pub.EventsOfType(events.EventTypeDealStatusChanged), 1)
}

func TestUpdate_EmptyStatusKeepsCurrent(t *testing.T) {
	svc, repo, pub := newTestService()
	existing := storedDeal(entities.DealStatusPublished)
	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	deal, err := svc.Update(context.Background(), existing.ID, validInput())

	require.NoError(t, err)
	assert.Equal(t, entities.DealStatusPublished, deal.Status)
	assert.Empty(t, pub.Events())
}

func TestPartialUpdate(t *testing.T) {
	t.Run("merges present fields", func(t *testing.T) {
		svc, repo, _ := newTestService()
		existing := storedDeal(entities.DealStatusDraft)
		existing.City = "Dakar"
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
		repo.On("Save", mock.Anything, existing).Return(nil)

		deal, err := svc.PartialUpdate(context.Background(), existing.ID, &entities.Deal{SharePrice: dec("20")})

		require.NoError(t, err)
		assert.True(t, deal.SharePrice.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, "Dakar", deal.City)
		assert.Equal(t, "Deal valide", deal.Title)
	})

	t.Run("invalid present field", func(t *testing.T) {
		svc, repo, _ := newTestService()
		_, err := svc.PartialUpdate(context.Background(), uuid.New(), &entities.Deal{TotalPrice: dec("-1")})

		requireCode(t, err, errors.KindValidation, validators.CodeDealPricePositive)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("nil id", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.PartialUpdate(context.Background(), uuid.Nil, &entities.Deal{Title: "x"})

		requireCode(t, err, errors.KindValidation, validators.CodeDealIDRequired)
	})

	t.Run("merged dates must stay coherent", func(t *testing.T) {
		svc, repo, _ := newTestService()
		existing := storedDeal(entities.DealStatusDraft)
		start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
		existing.StartDate = &start
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)

		end := start.AddDate(0, 0, -1)
		_, err := svc.PartialUpdate(context.Background(), existing.ID, &entities.Deal{EndDate: &end})

		requireCode(t, err, errors.KindValidation, validators.CodeDealEndDateCoherence)
	})

	t.Run("illegal transition", func(t *testing.T) {
		svc, repo, _ := newTestService()
		existing := storedDeal(entities.DealStatusDraft)
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)

		_, err := svc.PartialUpdate(context.Background(), existing.ID, &entities.Deal{Status: entities.DealStatusExpired})

		requireCode(t, err, errors.KindForbidden, validators.CodeDealStatusTransitionFail)
	})
}

func TestChangeStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   entities.DealStatus
		next      entities.DealStatus
		kind      errors.Kind
		code      string
		wantEvent bool
	}{
		{"draft to published", entities.DealStatusDraft, entities.DealStatusPublished, 0, "", true},
		{"published to expired", entities.DealStatusPublished, entities.DealStatusExpired, 0, "", true},
		{"same state is a no-op", entities.DealStatusPublished, entities.DealStatusPublished, 0, "", false},
		{"draft to expired", entities.DealStatusDraft, entities.DealStatusExpired, errors.KindForbidden, validators.CodeDealStatusTransitionFail, false},
		{"expired to draft", entities.DealStatusExpired, entities.DealStatusDraft, errors.KindForbidden, validators.CodeDealStatusExpiredLocked, false},
		{"absent status", entities.DealStatusDraft, "", errors.KindValidation, validators.CodeDealStatusRequired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, pub := newTestService()
			existing := storedDeal(tt.current)
			repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
			repo.On("Save", mock.Anything, existing).Return(nil).Maybe()

			deal, err := svc.ChangeStatus(context.Background(), existing.ID, tt.next)

			if tt.code != "" {
				requireCode(t, err, tt.kind, tt.code)
				repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.next, deal.Status)
			assert.Equal(t, tt.wantEvent, len(pub.EventsOfType(events.EventTypeDealStatusChanged)) == 1)
		})
	}
}

// ============================================
// Delete
// ============================================

func TestDelete(t *testing.T) {
	svc, repo, _ := newTestService()
	known, unknown := uuid.New(), uuid.New()
	repo.On("DeleteByID", mock.Anything, known).Return(nil)
	repo.On("DeleteByID", mock.Anything, unknown).Return(errors.ErrEntityNotFound)

	assert.NoError(t, svc.Delete(context.Background(), known))
	requireCode(t, svc.Delete(context.Background(), unknown), errors.KindNotFound, validators.CodeDealNotFound)
}
