package feenote

import (
	"context"
	"sort"
	"sync"

	"certitrack/pkg/platform/sentinel"
)

// InMemoryStore keeps fee notes in process memory.
type InMemoryStore struct {
	mu    sync.RWMutex
	notes map[string]FeeNote
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{notes: make(map[string]FeeNote)}
}

func (s *InMemoryStore) Create(_ context.Context, n FeeNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[n.ID]; ok {
		return sentinel.ErrConflict
	}
	s.notes[n.ID] = n
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (FeeNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.notes[id]; ok {
		return n, nil
	}
	return FeeNote{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) Update(_ context.Context, n FeeNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[n.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.notes[n.ID] = n
	return nil
}

func (s *InMemoryStore) ListByDossier(_ context.Context, dossierID string) ([]FeeNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []FeeNote
	for _, n := range s.notes {
		if n.DossierID == dossierID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
