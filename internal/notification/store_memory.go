package notification

import (
	"context"
	"sync"

	"certitrack/pkg/platform/sentinel"
)

// InMemoryStore keeps notifications in insertion order in process memory.
type InMemoryStore struct {
	mu            sync.RWMutex
	notifications []Notification
	index         map[string]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{index: make(map[string]int)}
}

func (s *InMemoryStore) Append(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[n.ID]; ok {
		return sentinel.ErrConflict
	}
	s.index[n.ID] = len(s.notifications)
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *InMemoryStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.notifications[i].Read = true
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification{}, s.notifications...), nil
}

func (s *InMemoryStore) UnreadCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}
