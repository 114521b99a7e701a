package tagstore

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	Version   string
	UpdatedAt time.Time
}

// LocalStore keeps tag versions in-process.
// Only useful when a single process owns the cached data (e.g. with the
// ristretto or bigcache providers). Optional cleanup loop prunes versions
// not touched for longer than retention; entries that still reference a
// pruned tag read as stale.
type LocalStore struct {
	mu       sync.RWMutex
	versions map[string]localEntry
	ticker   *time.Ticker
	stopCh   chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

var _ Store = (*LocalStore)(nil)

func NewLocalStore(cleanupInterval, retention time.Duration) *LocalStore {
	s := &LocalStore{versions: make(map[string]localEntry)}
	if cleanupInterval > 0 && retention > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.Cleanup(retention)
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

// Versions takes the read lock once for the whole batch.
func (s *LocalStore) Versions(_ context.Context, keys []string) ([]Dependency, error) {
	out := make([]Dependency, len(keys))
	s.mu.RLock()
	for i, k := range keys {
		if e, ok := s.versions[k]; ok {
			out[i] = At(k, e.Version)
		} else {
			out[i] = Absent(k)
		}
	}
	s.mu.RUnlock()
	return out, nil
}

func (s *LocalStore) Touch(_ context.Context, keys []string, version string) error {
	now := time.Now()
	s.mu.Lock()
	for _, k := range keys {
		s.versions[k] = localEntry{Version: version, UpdatedAt: now}
	}
	s.mu.Unlock()
	return nil
}

// Cleanup drops versions last touched before now-retention.
func (s *LocalStore) Cleanup(retention time.Duration) int {
	if retention <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-retention)

	removed := 0
	s.mu.Lock()
	for k, e := range s.versions {
		if e.UpdatedAt.Before(cutoff) {
			delete(s.versions, k)
			removed++
		}
	}
	s.mu.Unlock()
	return removed
}

func (s *LocalStore) Close(_ context.Context) error {
	s.once.Do(func() {
		if s.stopCh != nil {
			s.ticker.Stop()
			close(s.stopCh)
			s.wg.Wait()
		}
	})
	return nil
}
