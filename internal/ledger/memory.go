package ledger

import (
	"fmt"
	"sync"
)

// Memory is an in-process Ledger used by tests and the local CLI. It
// mirrors the semantics of the remote store: balances are the single
// source of truth and adjustments are applied atomically.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemory creates a Memory ledger seeded with the given entries.
func NewMemory(entries ...Entry) *Memory {
	m := &Memory{entries: make(map[string]*Entry, len(entries))}
	for _, e := range entries {
		entry := e
		m.entries[e.ID] = &entry
	}
	return m
}

// Add inserts or replaces a directory entry.
func (m *Memory) Add(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := e
	m.entries[e.ID] = &entry
}

// ListEligible implements Ledger.
func (m *Memory) ListEligible(minBalance int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for _, e := range m.entries {
		if e.Status == StatusActive && e.Balance >= minBalance {
			out = append(out, *e)
		}
	}
	return out, nil
}

// AdjustBalance implements Ledger.
func (m *Memory) AdjustBalance(id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	e.Balance += delta
	return nil
}

// TopBalanceHolder implements Ledger.
func (m *Memory) TopBalanceHolder() (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var top *Entry
	for _, e := range m.entries {
		if top == nil || e.Balance > top.Balance || (e.Balance == top.Balance && e.ID < top.ID) {
			top = e
		}
	}
	if top == nil {
		return Entry{}, ErrEmpty
	}
	return *top, nil
}

// Balance returns the current balance for an ID. Test helper.
func (m *Memory) Balance(id string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return 0, false
	}
	return e.Balance, true
}
