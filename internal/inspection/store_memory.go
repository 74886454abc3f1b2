package inspection

import (
	"context"
	"sort"
	"sync"

	"certitrack/pkg/platform/sentinel"
)

// InMemoryStore keeps inspections in process memory.
type InMemoryStore struct {
	mu          sync.RWMutex
	inspections map[string]Inspection
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{inspections: make(map[string]Inspection)}
}

func (s *InMemoryStore) Create(_ context.Context, i Inspection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inspections[i.ID]; ok {
		return sentinel.ErrConflict
	}
	s.inspections[i.ID] = i
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (Inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.inspections[id]; ok {
		return i, nil
	}
	return Inspection{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) Update(_ context.Context, i Inspection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inspections[i.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.inspections[i.ID] = i
	return nil
}

func (s *InMemoryStore) ListByDossier(_ context.Context, dossierID string) ([]Inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Inspection
	for _, i := range s.inspections {
		if i.DossierID == dossierID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Date.Equal(out[b].Date) {
			return out[a].ID < out[b].ID
		}
		return out[a].Date.Before(out[b].Date)
	})
	return out, nil
}
