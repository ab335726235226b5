// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package journal

import (
	"sync"

	"github.com/luxfi/fhe16/events"
)

var (
	_ Journal = (*Memory)(nil)
	_ Unit    = (*memoryUnit)(nil)
)

// Memory is an in-memory journal. Suitable for tests and for embedding the
// host in a process that supplies its own durability.
type Memory struct {
	mu       sync.RWMutex
	entries  []Entry
	nextSeq  uint64
	nextUnit uint64
	closed   bool
}

// NewMemory creates a new in-memory journal
func NewMemory() *Memory {
	return &Memory{
		entries: make([]Entry, 0),
	}
}

// Begin opens a new atomic unit
func (m *Memory) Begin() (Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrJournalClosed
	}

	unitID := m.nextUnit
	m.nextUnit++
	return &memoryUnit{journal: m, id: unitID}, nil
}

// Entries returns every committed record in log order
func (m *Memory) Entries() ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrJournalClosed
	}

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// Close releases the journal
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}

// commit appends a unit's records contiguously under a single lock hold, so
// units never interleave even with concurrent writers.
func (m *Memory) commit(unitID uint64, evs []events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrJournalClosed
	}

	for _, ev := range evs {
		m.entries = append(m.entries, Entry{
			Seq:   m.nextSeq,
			Unit:  unitID,
			Event: ev,
		})
		m.nextSeq++
	}
	return nil
}

// memoryUnit buffers records until Commit copies them into the journal
type memoryUnit struct {
	journal *Memory
	id      uint64
	pending []events.Event
	closed  bool
}

// Emit appends a record to the unit
func (u *memoryUnit) Emit(ev events.Event) error {
	if u.closed {
		return ErrUnitClosed
	}
	if err := ev.Verify(); err != nil {
		return err
	}
	u.pending = append(u.pending, ev)
	return nil
}

// Commit persists every emitted record atomically and closes the unit
func (u *memoryUnit) Commit() error {
	if u.closed {
		return ErrUnitClosed
	}
	u.closed = true
	return u.journal.commit(u.id, u.pending)
}

// Abort discards every emitted record and closes the unit
func (u *memoryUnit) Abort() error {
	if u.closed {
		return ErrUnitClosed
	}
	u.closed = true
	u.pending = nil
	return nil
}
