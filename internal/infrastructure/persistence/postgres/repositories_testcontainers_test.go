// Package postgres - интеграционные тесты для PostgreSQL repositories с testcontainers.
//
// Запуск тестов:
//
//	go test ./internal/infrastructure/persistence/postgres/...
//
// Требования:
//   - Docker запущен
//   - С флагом -short тесты пропускаются
package postgres

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	domerrors "github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/events"
)

// ============================================
// Test Helpers
// ============================================

// testContainer хранит контейнер и pool для тестов.
type testContainer struct {
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
}

// Shared container for all tests
var sharedTestContainer *testContainer

// migrationScripts возвращает *.up.sql в порядке версий.
func migrationScripts(t *testing.T) []string {
	scripts, err := filepath.Glob(filepath.Join("..", "..", "..", "..", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, scripts)
	sort.Strings(scripts)
	return scripts
}

// setupSharedTestDB создаёт или возвращает переиспользуемый PostgreSQL контейнер.
func setupSharedTestDB(t *testing.T) *testContainer {
	if testing.Short() {
		t.Skip("skipping testcontainers test in short mode")
	}
	if sharedTestContainer != nil {
		cleanupTables(t, sharedTestContainer.pool)
		return sharedTestContainer
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.WithInitScripts(migrationScripts(t)...),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	require.NoError(t, err)
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	sharedTestContainer = &testContainer{container: container, pool: pool}
	return sharedTestContainer
}

// cleanupTables очищает все таблицы для следующего теста.
func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	tables := []string{"outbox", "payments", "comments", "deal_images", "deals", "advertisements", "categories", "users"}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Logf("Warning: failed to cleanup %s: %v", table, err)
		}
	}
}

func newTestDeal(status entities.DealStatus, now time.Time) *entities.Deal {
	total := decimal.RequireFromString("100.00")
	share := decimal.RequireFromString("25.00")
	return entities.NewDeal(entities.Deal{
		Title:      "Huile 20L",
		TotalPrice: &total,
		SharePrice: &share,
		Status:     status,
		CreatorID:  uuid.New(),
		CategoryID: uuid.New(),
		Highlights: []string{"Livraison gratuite"},
		Images: []entities.DealImage{
			{URL: "https://cdn/principal.jpg", Principal: true},
			{URL: "https://cdn/second.jpg"},
		},
	}, now)
}

// ============================================
// DealRepository Tests
// ============================================

func TestDealRepository_Integration(t *testing.T) {
	tc := setupSharedTestDB(t)
	repo := NewDealRepository(tc.pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("SaveAndFind", func(t *testing.T) {
		deal := newTestDeal(entities.DealStatusDraft, now)
		require.NoError(t, repo.Save(ctx, deal))

		loaded, err := repo.FindByID(ctx, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, deal.Title, loaded.Title)
		assert.True(t, deal.TotalPrice.Equal(*loaded.TotalPrice))
		assert.Equal(t, []string{"Livraison gratuite"}, loaded.Highlights)
		require.Len(t, loaded.Images, 2)
		assert.True(t, loaded.Images[0].Principal)
		assert.Equal(t, entities.ImageStatusPending, loaded.Images[1].Status)
	})

	t.Run("SaveReplacesImages", func(t *testing.T) {
		deal := newTestDeal(entities.DealStatusDraft, now)
		require.NoError(t, repo.Save(ctx, deal))

		deal.Images = deal.Images[:1]
		deal.Status = entities.DealStatusPublished
		require.NoError(t, repo.Save(ctx, deal))

		loaded, err := repo.FindByID(ctx, deal.ID)
		require.NoError(t, err)
		assert.Len(t, loaded.Images, 1)
		assert.Equal(t, entities.DealStatusPublished, loaded.Status)
	})

	t.Run("FindByStatus", func(t *testing.T) {
		expired := newTestDeal(entities.DealStatusExpired, now)
		require.NoError(t, repo.Save(ctx, expired))

		deals, err := repo.FindByStatus(ctx, entities.DealStatusExpired)
		require.NoError(t, err)
		require.Len(t, deals, 1)
		assert.Equal(t, expired.ID, deals[0].ID)
		assert.Len(t, deals[0].Images, 2)
	})

	t.Run("FindStaleAndDeleteImages", func(t *testing.T) {
		old := newTestDeal(entities.DealStatusDraft, now.Add(-72*time.Hour))
		require.NoError(t, repo.Save(ctx, old))

		stale, err := repo.FindStale(ctx, []entities.ImageStatus{entities.ImageStatusPending}, now.Add(-24*time.Hour), 10)
		require.NoError(t, err)
		require.Len(t, stale, 2)
		assert.Equal(t, old.ID, stale[0].DealID)

		deleted, err := repo.DeleteImages(ctx, []uuid.UUID{stale[0].ID, stale[1].ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)
	})

	t.Run("MarkUploaded", func(t *testing.T) {
		old := newTestDeal(entities.DealStatusDraft, now.Add(-72*time.Hour))
		require.NoError(t, repo.Save(ctx, old))

		marked, err := repo.MarkUploaded(ctx, []uuid.UUID{old.Images[0].ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), marked)

		loaded, err := repo.FindByID(ctx, old.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ImageStatusUploaded, loaded.Images[0].Status)

		stale, err := repo.FindStale(ctx, []entities.ImageStatus{entities.ImageStatusPending}, now.Add(-24*time.Hour), 10)
		require.NoError(t, err)
		require.Len(t, stale, 1)
		assert.Equal(t, old.Images[1].ID, stale[0].ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domerrors.ErrEntityNotFound)

		err = repo.DeleteByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domerrors.ErrEntityNotFound)
	})
}

// ============================================
// UserRepository Tests
// ============================================

func TestUserRepository_Integration(t *testing.T) {
	tc := setupSharedTestDB(t)
	repo := NewUserRepository(tc.pool)
	ctx := context.Background()
	now := time.Now().UTC()

	user := &entities.User{
		ID: uuid.New(), Email: "awa@example.com", FirstName: "Awa", LastName: "Ndiaye",
		Role: entities.RoleUser, Enabled: true, ExternalID: "kc-1",
		Audit: entities.Audit{CreatedAt: now, UpdatedAt: now},
	}
	require.NoError(t, repo.Save(ctx, user))

	t.Run("FindByEmail", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "awa@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "kc-1", found.ExternalID)
		assert.Equal(t, "", found.PhotoProfileURL)
	})

	t.Run("ExistsByEmail", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "awa@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		dup := *user
		dup.ID = uuid.New()
		dup.ExternalID = "kc-2"
		err := repo.Save(ctx, &dup)
		assert.True(t, domerrors.IsDuplicate(err))
	})
}

// ============================================
// CategoryRepository / PaymentRepository Tests
// ============================================

func TestCategoryRepository_Integration_ExistsByName(t *testing.T) {
	tc := setupSharedTestDB(t)
	repo := NewCategoryRepository(tc.pool)
	ctx := context.Background()
	now := time.Now().UTC()

	c := &entities.Category{ID: uuid.New(), Name: "Alimentation", Audit: entities.Audit{CreatedAt: now, UpdatedAt: now}}
	require.NoError(t, repo.Save(ctx, c))

	exists, err := repo.ExistsByName(ctx, "ALIMENTATION", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "alimentation", c.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPaymentRepository_Integration_DealWithPaymentsCannotBeDeleted(t *testing.T) {
	tc := setupSharedTestDB(t)
	deals := NewDealRepository(tc.pool)
	payments := NewPaymentRepository(tc.pool)
	ctx := context.Background()
	now := time.Now().UTC()

	deal := newTestDeal(entities.DealStatusPublished, now)
	require.NoError(t, deals.Save(ctx, deal))

	amount := decimal.RequireFromString("25.00")
	p := &entities.Payment{
		ID: uuid.New(), DealID: deal.ID, UserID: uuid.New(), Amount: &amount,
		Method: entities.PaymentMethodMobileMoney, Status: entities.PaymentStatusPending,
		Audit: entities.Audit{CreatedAt: now, UpdatedAt: now},
	}
	require.NoError(t, payments.Save(ctx, p))

	byDeal, err := payments.FindByDeal(ctx, deal.ID)
	require.NoError(t, err)
	require.Len(t, byDeal, 1)
	assert.True(t, amount.Equal(*byDeal[0].Amount))

	err = deals.DeleteByID(ctx, deal.ID)
	assert.True(t, domerrors.IsForbidden(err))
}

// ============================================
// UnitOfWork + Outbox Tests
// ============================================

func TestUnitOfWork_Integration_OutboxSharesTransaction(t *testing.T) {
	tc := setupSharedTestDB(t)
	uow := NewUnitOfWork(tc.pool)
	deals := NewDealRepository(tc.pool)
	outbox := NewOutboxRepository(tc.pool)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("CommitSuccess", func(t *testing.T) {
		deal := newTestDeal(entities.DealStatusDraft, now)
		err := uow.Execute(ctx, func(txCtx context.Context) error {
			if err := deals.Save(txCtx, deal); err != nil {
				return err
			}
			return outbox.Publish(txCtx, events.NewDealCreated(deal.ID, deal.Title, deal.CreatorID, deal.CategoryID, string(deal.Status)))
		})
		require.NoError(t, err)

		var pending []string
		err = uow.Execute(ctx, func(txCtx context.Context) error {
			msgs, err := outbox.FindUnpublished(txCtx, 10)
			for _, m := range msgs {
				pending = append(pending, m.EventType)
				if err := outbox.MarkPublished(txCtx, m.ID); err != nil {
					return err
				}
			}
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, []string{events.EventTypeDealCreated}, pending)
	})

	t.Run("RollbackOnError", func(t *testing.T) {
		deal := newTestDeal(entities.DealStatusDraft, now)
		err := uow.Execute(ctx, func(txCtx context.Context) error {
			if err := deals.Save(txCtx, deal); err != nil {
				return err
			}
			if err := outbox.Publish(txCtx, events.NewDealCreated(deal.ID, deal.Title, deal.CreatorID, deal.CategoryID, "DRAFT")); err != nil {
				return err
			}
			return fmt.Errorf("boom")
		})
		require.Error(t, err)

		_, err = deals.FindByID(ctx, deal.ID)
		assert.ErrorIs(t, err, domerrors.ErrEntityNotFound)

		msgs, err := outbox.FindUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("FailedEventsAreRequeued", func(t *testing.T) {
		event := events.NewUserRegistered(uuid.New(), "x@example.com")
		require.NoError(t, outbox.Publish(ctx, event))
		require.NoError(t, outbox.MarkFailed(ctx, event.EventID().String(), "nats down"))

		requeued, err := outbox.RequeueFailed(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(1), requeued)

		requeued, err = outbox.RequeueFailed(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), requeued)
	})
}
