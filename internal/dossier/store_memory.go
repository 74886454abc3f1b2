package dossier

import (
	"context"
	"sort"
	"sync"

	"certitrack/pkg/platform/sentinel"
)

// InMemoryStore keeps dossiers in process memory. It intentionally favors
// clarity over performance.
type InMemoryStore struct {
	mu       sync.RWMutex
	dossiers map[string]Dossier
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{dossiers: make(map[string]Dossier)}
}

func (s *InMemoryStore) Create(_ context.Context, d Dossier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dossiers[d.ID]; ok {
		return sentinel.ErrConflict
	}
	s.dossiers[d.ID] = d
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (Dossier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.dossiers[id]; ok {
		return d, nil
	}
	return Dossier{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) Update(_ context.Context, d Dossier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dossiers[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.dossiers[d.ID] = d
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dossiers[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.dossiers, id)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Dossier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Dossier, 0, len(s.dossiers))
	for _, d := range s.dossiers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
