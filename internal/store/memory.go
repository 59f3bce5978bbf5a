package store

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Memory is an in-memory slot store with the same versioning contract
// as the sqlite store. It backs tests and ephemeral demo runs.
type Memory struct {
	mu       sync.RWMutex
	slots    map[string]memSlot
	notifier *Notifier
	log      *zap.Logger
}

type memSlot struct {
	value   []byte
	version uint64
}

func NewMemory(notifier *Notifier, log *zap.Logger) *Memory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Memory{slots: make(map[string]memSlot), notifier: notifier, log: log}
}

func (m *Memory) Read(_ context.Context, key string) (json.RawMessage, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slot, ok := m.slots[key]
	if !ok {
		return nil, 0, nil
	}
	out := make([]byte, len(slot.value))
	copy(out, slot.value)
	return out, slot.version, nil
}

func (m *Memory) Write(_ context.Context, key string, value json.RawMessage, version uint64) error {
	m.mu.Lock()
	current := m.slots[key].version
	if current != version {
		m.mu.Unlock()
		return ErrVersionConflict
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.slots[key] = memSlot{value: stored, version: version + 1}
	m.mu.Unlock()

	if m.notifier != nil {
		m.notifier.Announce(key)
	}
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = make(map[string]memSlot)
	return nil
}
