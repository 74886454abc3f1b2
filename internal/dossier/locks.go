package dossier

import "sync"

// keyedMutex serializes mutations per dossier id so "append audit event,
// then apply status" is atomic and trail order matches call order.
// Mutations on different ids proceed concurrently. Entries are never
// reclaimed; the map is bounded by the number of dossiers ever touched.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(id string) *sync.Mutex {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m
}
