package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"goeda/domain/dataset"
	"goeda/internal"
	"goeda/internal/errors"
	"goeda/ports"

	"github.com/google/uuid"
)

var logger = internal.DefaultLogger.For("DatasetStore")

type entry struct {
	table      *dataset.Table
	uploadedAt time.Time
	lastAccess time.Time
}

// MemoryStore keeps uploaded tables in memory keyed by a random id.
// Entries idle for longer than the TTL are evicted; when the store is full the
// least recently used entry makes room for a new one.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	max     int
	now     func() time.Time
}

var _ ports.DatasetStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store; ttl <= 0 disables expiry and max <= 0 the size cap
func NewMemoryStore(ttl time.Duration, max int) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
	}
}

// Put stores the table and returns its new id
func (s *MemoryStore) Put(ctx context.Context, table *dataset.Table) (string, error) {
	if table == nil {
		return "", errors.InvalidInput("cannot store an empty dataset")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if s.max > 0 && len(s.entries) >= s.max {
		s.evictOldestLocked()
	}

	id := uuid.NewString()
	s.entries[id] = &entry{table: table, uploadedAt: now, lastAccess: now}
	logger.Info("stored dataset %s (%s, %d rows)", id, table.Name(), table.Rows())
	return id, nil
}

// Get returns the table for id and refreshes its idle timer
func (s *MemoryStore) Get(ctx context.Context, id string) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	now := s.now()
	if !ok || s.expired(e, now) {
		delete(s.entries, id)
		return nil, errors.NotFound("dataset " + id)
	}
	e.lastAccess = now
	return e.table, nil
}

// Delete removes id; deleting an unknown id is not an error
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// List describes the live datasets, newest first
func (s *MemoryStore) List(ctx context.Context) ([]ports.DatasetInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]ports.DatasetInfo, 0, len(s.entries))
	for id, e := range s.entries {
		if s.expired(e, now) {
			continue
		}
		out = append(out, ports.DatasetInfo{
			ID:         id,
			Name:       e.table.Name(),
			Rows:       e.table.Rows(),
			Columns:    e.table.NumColumns(),
			UploadedAt: e.uploadedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

// Len returns the number of stored entries, expired or not
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops expired entries and reports how many were removed
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// Run sweeps on every tick until ctx is cancelled
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Debug("evicted %d expired datasets", n)
			}
		}
	}
}

func (s *MemoryStore) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastAccess) > s.ttl
}

func (s *MemoryStore) sweepLocked(now time.Time) int {
	n := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.lastAccess.Before(oldest) {
			oldestID, oldest = id, e.lastAccess
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
		logger.Warn("dataset store full, evicted %s", oldestID)
	}
}
