package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/application/usecases/usecasetest"
	"github.com/Haleralex/paytogether/internal/domain/entities"
	domainErrors "github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/events"
)

// ============================================
// Image cleanup
// ============================================

type fakeImages struct {
	stale     []ports.StaleImage
	statuses  []entities.ImageStatus
	olderThan time.Time
	deleted   []uuid.UUID
	uploaded  []uuid.UUID
}

func (f *fakeImages) FindStale(_ context.Context, statuses []entities.ImageStatus, olderThan time.Time, limit int) ([]ports.StaleImage, error) {
	f.statuses = statuses
	f.olderThan = olderThan
	if len(f.stale) > limit {
		return f.stale[:limit], nil
	}
	return f.stale, nil
}

func (f *fakeImages) DeleteImages(_ context.Context, ids []uuid.UUID) (int64, error) {
	f.deleted = append(f.deleted, ids...)
	return int64(len(ids)), nil
}

func (f *fakeImages) MarkUploaded(_ context.Context, ids []uuid.UUID) (int64, error) {
	f.uploaded = append(f.uploaded, ids...)
	return int64(len(ids)), nil
}

type fakeStorage struct {
	objects   map[string]bool
	statErr   map[string]error
	removed   []string
	removeErr map[string]error
}

const bucketURL = "http://minio:9000/paytogether/"

func (f *fakeStorage) PutObject(context.Context, string, io.Reader, int64, string) (ports.StoredObject, error) {
	return ports.StoredObject{}, nil
}

func (f *fakeStorage) GetObject(context.Context, string) (io.ReadCloser, ports.StoredObject, error) {
	return nil, ports.StoredObject{}, nil
}

func (f *fakeStorage) Download(context.Context, string) ([]byte, error) { return nil, nil }

func (f *fakeStorage) PresignedUploadURL(context.Context, string, time.Duration) (string, error) {
	return "", nil
}

func (f *fakeStorage) StatObject(_ context.Context, key string) (ports.StoredObject, error) {
	if err := f.statErr[key]; err != nil {
		return ports.StoredObject{}, err
	}
	if !f.objects[key] {
		return ports.StoredObject{}, fmt.Errorf("object %s: %w", key, domainErrors.ErrEntityNotFound)
	}
	return ports.StoredObject{Key: key}, nil
}

func (f *fakeStorage) RemoveObject(_ context.Context, key string) error {
	if err := f.removeErr[key]; err != nil {
		return err
	}
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeStorage) KeyFromURL(rawURL string) (string, bool) {
	if strings.HasPrefix(rawURL, bucketURL) {
		return strings.TrimPrefix(rawURL, bucketURL), true
	}
	return "", false
}

func TestImageCleanup_Run(t *testing.T) {
	missing := ports.StaleImage{ID: uuid.New(), URL: bucketURL + "deals/a.jpg", Status: entities.ImageStatusPending}
	failedExternal := ports.StaleImage{ID: uuid.New(), URL: "https://cdn.other.com/b.jpg", Status: entities.ImageStatusFailed}
	removeFails := ports.StaleImage{ID: uuid.New(), URL: bucketURL + "deals/c.jpg", Status: entities.ImageStatusPending}
	present := ports.StaleImage{ID: uuid.New(), URL: bucketURL + "deals/d.jpg", Status: entities.ImageStatusPending}
	pendingExternal := ports.StaleImage{ID: uuid.New(), URL: "https://cdn.other.com/e.jpg", Status: entities.ImageStatusPending}

	images := &fakeImages{stale: []ports.StaleImage{missing, failedExternal, removeFails, present, pendingExternal}}
	storage := &fakeStorage{
		objects:   map[string]bool{"deals/d.jpg": true},
		removeErr: map[string]error{"deals/c.jpg": errors.New("timeout")},
	}

	job := NewImageCleanup(images, storage, ImageCleanupConfig{GracePeriod: 2 * time.Hour}, zap.NewNop())
	now := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, now.Add(-2*time.Hour), images.olderThan)
	assert.ElementsMatch(t, []entities.ImageStatus{entities.ImageStatusPending, entities.ImageStatusFailed}, images.statuses)
	assert.Equal(t, []string{"deals/a.jpg"}, storage.removed)
	assert.ElementsMatch(t, []uuid.UUID{missing.ID, failedExternal.ID}, images.deleted)
	assert.ElementsMatch(t, []uuid.UUID{present.ID, pendingExternal.ID}, images.uploaded)
}

func TestImageCleanup_KeepsPrincipalImage(t *testing.T) {
	principal := ports.StaleImage{ID: uuid.New(), URL: bucketURL + "deals/cover.jpg", Principal: true, Status: entities.ImageStatusFailed}
	images := &fakeImages{stale: []ports.StaleImage{principal}}
	storage := &fakeStorage{}

	job := NewImageCleanup(images, storage, ImageCleanupConfig{}, zap.NewNop())
	require.NoError(t, job.Run(context.Background()))

	assert.Empty(t, images.deleted)
	assert.Empty(t, images.uploaded)
	assert.Empty(t, storage.removed)
}

func TestImageCleanup_StorageUnavailable(t *testing.T) {
	img := ports.StaleImage{ID: uuid.New(), URL: bucketURL + "deals/a.jpg", Status: entities.ImageStatusPending}
	images := &fakeImages{stale: []ports.StaleImage{img}}
	storage := &fakeStorage{statErr: map[string]error{"deals/a.jpg": errors.New("connection refused")}}

	job := NewImageCleanup(images, storage, ImageCleanupConfig{}, zap.NewNop())
	require.NoError(t, job.Run(context.Background()))

	assert.Empty(t, images.deleted)
	assert.Empty(t, images.uploaded)
}

// Deal, созданный обычным POST /api/deals (статус изображений не передан),
// не должен терять изображения после grace period.
func TestImageCleanup_OrdinaryDealKeepsImages(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	deal := entities.NewDeal(entities.Deal{
		Title: "Deal valide",
		Images: []entities.DealImage{
			{URL: "https://cdn.paytogether.fr/a.jpg", Principal: true},
			{URL: bucketURL + "deals/b.jpg"},
		},
	}, created)
	require.Equal(t, entities.ImageStatusPending, deal.Images[0].Status)

	stale := make([]ports.StaleImage, 0, len(deal.Images))
	for _, img := range deal.Images {
		stale = append(stale, ports.StaleImage{
			ID: img.ID, DealID: deal.ID, URL: img.URL, Principal: img.Principal, Status: img.Status,
		})
	}
	images := &fakeImages{stale: stale}
	storage := &fakeStorage{objects: map[string]bool{"deals/b.jpg": true}}

	job := NewImageCleanup(images, storage, ImageCleanupConfig{GracePeriod: 24 * time.Hour}, zap.NewNop())
	job.now = func() time.Time { return created.Add(25 * time.Hour) }

	require.NoError(t, job.Run(context.Background()))

	assert.Empty(t, images.deleted)
	assert.Empty(t, storage.removed)
	assert.ElementsMatch(t, []uuid.UUID{deal.Images[0].ID, deal.Images[1].ID}, images.uploaded)
}

func TestImageCleanup_NothingStale(t *testing.T) {
	images := &fakeImages{}
	job := NewImageCleanup(images, &fakeStorage{}, ImageCleanupConfig{}, zap.NewNop())

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, images.deleted)
	assert.Equal(t, "image-cleanup", job.Name())
}

// ============================================
// Outbox relay
// ============================================

type fakeOutbox struct {
	pending    []ports.OutboxMessage
	published  []string
	failed     map[string]string
	maxRetries int
	retention  time.Duration
}

func (f *fakeOutbox) Publish(context.Context, events.DomainEvent) error        { return nil }
func (f *fakeOutbox) PublishBatch(context.Context, []events.DomainEvent) error { return nil }

func (f *fakeOutbox) FindUnpublished(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, id string) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeOutbox) MarkFailed(_ context.Context, id, reason string) error {
	if f.failed == nil {
		f.failed = make(map[string]string)
	}
	f.failed[id] = reason
	return nil
}

func (f *fakeOutbox) RequeueFailed(_ context.Context, maxRetries int) (int64, error) {
	f.maxRetries = maxRetries
	return 0, nil
}

func (f *fakeOutbox) CleanupPublished(_ context.Context, olderThan time.Duration) (int64, error) {
	f.retention = olderThan
	return 0, nil
}

type fakeSink struct {
	sent []string
	fail map[string]bool
}

func (s *fakeSink) Send(_ context.Context, msg ports.OutboxMessage) error {
	if s.fail[msg.ID] {
		return errors.New("broker unavailable")
	}
	s.sent = append(s.sent, msg.ID)
	return nil
}

func (s *fakeSink) Close() error { return nil }

func TestOutboxRelay_Run(t *testing.T) {
	outbox := &fakeOutbox{pending: []ports.OutboxMessage{
		{ID: "e1", EventType: "deal.created"},
		{ID: "e2", EventType: "payment.created"},
		{ID: "e3", EventType: "deal.status.changed"},
	}}
	sink := &fakeSink{fail: map[string]bool{"e2": true}}
	uow := &usecasetest.InlineUnitOfWork{}

	relay := NewOutboxRelay(outbox, uow, sink, OutboxRelayConfig{}, zap.NewNop())
	require.NoError(t, relay.Run(context.Background()))

	assert.Equal(t, []string{"e1", "e3"}, sink.sent)
	assert.Equal(t, []string{"e1", "e3"}, outbox.published)
	assert.Equal(t, "broker unavailable", outbox.failed["e2"])
	assert.Equal(t, 5, outbox.maxRetries)
	assert.Equal(t, 7*24*time.Hour, outbox.retention)
	assert.Equal(t, 1, uow.Calls)
}

func TestOutboxRelay_BatchSize(t *testing.T) {
	outbox := &fakeOutbox{pending: []ports.OutboxMessage{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}}}
	sink := &fakeSink{}

	relay := NewOutboxRelay(outbox, &usecasetest.InlineUnitOfWork{}, sink, OutboxRelayConfig{BatchSize: 2}, zap.NewNop())
	require.NoError(t, relay.Run(context.Background()))

	assert.Equal(t, []string{"e1", "e2"}, sink.sent)
}

// ============================================
// Scheduler
// ============================================

type countingJob struct {
	runs atomic.Int32
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return nil
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	err := s.Add("not a cron", &countingJob{})
	assert.ErrorContains(t, err, "counting")
}

func TestScheduler_RunsJobs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}

	s := NewScheduler(zap.NewNop())
	job := &countingJob{}
	require.NoError(t, s.Add("@every 1s", job))

	s.Start()
	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
