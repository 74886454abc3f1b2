package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps trails in process memory. It intentionally favors
// clarity over performance.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.DossierID] = append(s.events[event.DossierID], event)
	return nil
}

func (s *InMemoryStore) ListByDossier(_ context.Context, dossierID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[dossierID]...), nil
}

// DeleteByDossier removes a dossier's trail. Only the explicit cleanup path
// uses this; normal operation never deletes events.
func (s *InMemoryStore) DeleteByDossier(_ context.Context, dossierID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, dossierID)
	return nil
}
