package certificate

import (
	"context"
	"sort"
	"sync"

	"certitrack/pkg/platform/sentinel"
)

// InMemoryStore keeps certificates in process memory.
type InMemoryStore struct {
	mu    sync.RWMutex
	certs map[string]Certificate
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{certs: make(map[string]Certificate)}
}

func (s *InMemoryStore) Create(_ context.Context, c Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certs[c.ID]; ok {
		return sentinel.ErrConflict
	}
	s.certs[c.ID] = c
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.certs[id]; ok {
		return c, nil
	}
	return Certificate{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) Update(_ context.Context, c Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certs[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.certs[c.ID] = c
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certs[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.certs, id)
	return nil
}

func (s *InMemoryStore) ListByDossier(_ context.Context, dossierID string) ([]Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Certificate
	for _, c := range s.certs {
		if c.DossierID == dossierID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IssuedAt.Equal(out[j].IssuedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].IssuedAt.Before(out[j].IssuedAt)
	})
	return out, nil
}
