package advertisement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

type memoryAds struct {
	items    map[uuid.UUID]*entities.Advertisement
	activeAt time.Time
}

func (m *memoryAds) Save(_ context.Context, ad *entities.Advertisement) error {
	m.items[ad.ID] = ad
	return nil
}

func (m *memoryAds) FindByID(_ context.Context, id uuid.UUID) (*entities.Advertisement, error) {
	if ad, ok := m.items[id]; ok {
		return ad, nil
	}
	return nil, errors.ErrEntityNotFound
}

func (m *memoryAds) FindAll(context.Context) ([]*entities.Advertisement, error) {
	return nil, nil
}

func (m *memoryAds) FindActive(_ context.Context, at time.Time) ([]*entities.Advertisement, error) {
	m.activeAt = at
	var out []*entities.Advertisement
	for _, ad := range m.items {
		if ad.IsRunning(at) {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (m *memoryAds) DeleteByID(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return errors.ErrEntityNotFound
	}
	delete(m.items, id)
	return nil
}

func TestAdvertisementService(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &memoryAds{items: map[uuid.UUID]*entities.Advertisement{}}
	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	ad, err := svc.Create(ctx, &entities.Advertisement{
		Title: "Soldes", ImageURL: "https://cdn.example.com/a.png", LinkURL: "https://example.com/soldes",
		StartDate: &start, EndDate: &end, Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, now, ad.CreatedAt)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, now, repo.activeAt)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)

	_, err = svc.Update(ctx, uuid.New(), ad)
	assert.Equal(t, validators.CodeAdvertisementNotFound, errors.CodeOf(err))

	require.NoError(t, svc.Delete(ctx, ad.ID))
}

func TestCreate_EndBeforeStart(t *testing.T) {
	svc := NewService(&memoryAds{items: map[uuid.UUID]*entities.Advertisement{}})
	start := time.Now()
	end := start.Add(-time.Hour)

	_, err := svc.Create(context.Background(), &entities.Advertisement{
		Title: "X", ImageURL: "https://cdn.example.com/x.png", StartDate: &start, EndDate: &end,
	})

	assert.True(t, errors.IsValidation(err))
}
