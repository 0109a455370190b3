package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Haleralex/paytogether/internal/application/ports"
)

var _ ports.TokenStore = (*MemoryTokenStore)(nil)

// MemoryTokenStore - отозванные токены в памяти процесса.
// Используется, когда Redis отключён (development, тесты, один экземпляр).
type MemoryTokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryTokenStore создаёт пустое хранилище.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke помечает токен отозванным на ttl.
func (s *MemoryTokenStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = s.now().Add(ttl)
	return nil
}

// IsRevoked сообщает, был ли токен отозван. Истёкшие записи удаляются при обращении.
func (s *MemoryTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
