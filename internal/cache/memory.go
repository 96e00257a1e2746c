package cache

import (
	"sync"
	"time"

	"github.com/xaenox/discord-catchup/internal/models"
)

// MemoryStore keeps cache entries for the lifetime of the process. It is used
// when no cache directory is configured, so repeated aggregations within one
// session still avoid remote enumeration.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

type memEntry struct {
	fetchedAt time.Time
	threads   []models.ThreadRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(channelID string) ([]models.ThreadRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[channelID]
	if !exists {
		return nil, false
	}
	if s.now().Sub(e.fetchedAt) > FreshnessWindow {
		return nil, false
	}

	threads := make([]models.ThreadRecord, len(e.threads))
	copy(threads, e.threads)
	return threads, true
}

func (s *MemoryStore) Save(channelID string, threads []models.ThreadRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]models.ThreadRecord, len(threads))
	copy(stored, threads)
	s.entries[channelID] = memEntry{
		fetchedAt: s.now(),
		threads:   stored,
	}
}
