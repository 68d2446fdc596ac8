package gate

import "sync"

// MemoryFlags is an in-process FlagStore.
type MemoryFlags struct {
	mu    sync.Mutex
	flags map[string]bool
}

// NewMemoryFlags returns an empty store.
func NewMemoryFlags() *MemoryFlags {
	return &MemoryFlags{flags: make(map[string]bool)}
}

func (m *MemoryFlags) Get(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags[key]
}

func (m *MemoryFlags) Set(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[key] = true
	return nil
}

func (m *MemoryFlags) Clear(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flags, key)
	return nil
}
