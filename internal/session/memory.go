package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

type memoryEntry struct {
	values    map[string]string
	expiresAt time.Time
}

type memoryFlash struct {
	value     string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Used in development when
// REDIS_URL is empty, and in tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	flashes  map[string]memoryFlash
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		flashes:  make(map[string]memoryFlash),
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	return maps.Clone(entry.values), nil
}

func (s *MemoryStore) Save(_ context.Context, id string, values map[string]string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = memoryEntry{values: maps.Clone(values), expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) PushFlash(_ context.Context, id, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flashes[id+":"+key] = memoryFlash{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) PopFlash(_ context.Context, id, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := id + ":" + key
	flash, ok := s.flashes[k]
	if !ok {
		return "", false, nil
	}
	delete(s.flashes, k)
	if s.now().After(flash.expiresAt) {
		return "", false, nil
	}
	return flash.value, true, nil
}

// Cleanup drops expired sessions and flashes that were never loaded again.
func (s *MemoryStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
	for k, flash := range s.flashes {
		if now.After(flash.expiresAt) {
			delete(s.flashes, k)
		}
	}
}

// CleanupLoop runs Cleanup every interval until ctx is done.
func (s *MemoryStore) CleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
