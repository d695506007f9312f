package configdb

import (
	"context"
	"sync"
)

// MemoryBackend is an in-memory Backend, the package default used by
// tests and by any deployment that accepts losing configuration history
// across a restart.
type MemoryBackend struct {
	mu         sync.Mutex
	payloads   map[uint64][]byte
	current    uint64
	hasCurrent bool
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{payloads: make(map[uint64][]byte)}
}

func (m *MemoryBackend) Save(_ context.Context, gen uint64, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	m.payloads[gen] = cp
	return nil
}

func (m *MemoryBackend) Load(_ context.Context, gen uint64) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payloads[gen]
	return p, ok, nil
}

func (m *MemoryBackend) Exists(_ context.Context, gen uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.payloads[gen]
	return ok, nil
}

func (m *MemoryBackend) SetCurrent(_ context.Context, gen uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = gen
	m.hasCurrent = true
	return nil
}

func (m *MemoryBackend) Current(_ context.Context) (uint64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.hasCurrent, nil
}
