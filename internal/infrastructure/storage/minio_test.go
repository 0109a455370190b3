package storage

import (
	"errors"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/Haleralex/paytogether/internal/domain/errors"
)

func newTestStorage(t *testing.T, cfg Config) *MinioStorage {
	t.Helper()
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:9000"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "paytogether"
	}
	s, err := NewMinioStorage(cfg, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestNewMinioStorage_DefaultPublicURL(t *testing.T) {
	s := newTestStorage(t, Config{})
	assert.Equal(t, "http://localhost:9000/paytogether/deals/a.jpg", s.objectURL("deals/a.jpg"))

	secure := newTestStorage(t, Config{UseSSL: true})
	assert.Equal(t, "https://localhost:9000/paytogether/x", secure.objectURL("x"))
}

func TestKeyFromURL(t *testing.T) {
	s := newTestStorage(t, Config{PublicURL: "https://cdn.example.com/files/"})

	tests := []struct {
		name   string
		url    string
		key    string
		stored bool
	}{
		{"own object", "https://cdn.example.com/files/deals/2026/02/a.jpg", "deals/2026/02/a.jpg", true},
		{"query stripped", "https://cdn.example.com/files/deals/a.jpg?X-Amz-Signature=abc", "deals/a.jpg", true},
		{"escaped", "https://cdn.example.com/files/deals/my%20photo.png", "deals/my photo.png", true},
		{"foreign host", "https://images.other.com/deals/a.jpg", "", false},
		{"bucket root", "https://cdn.example.com/files/", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := s.KeyFromURL(tt.url)
			assert.Equal(t, tt.stored, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestTranslate(t *testing.T) {
	s := newTestStorage(t, Config{})

	notFound := minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
	err := s.translate("deals/a.jpg", notFound)
	assert.True(t, errors.Is(err, domainErrors.ErrEntityNotFound))

	other := s.translate("deals/a.jpg", errors.New("connection refused"))
	assert.False(t, errors.Is(other, domainErrors.ErrEntityNotFound))
	assert.Contains(t, other.Error(), "connection refused")
}
