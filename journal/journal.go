// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package journal provides the append-only record log the FHE16 host emits
// into. A Unit is the caller-issued atomicity boundary: records emitted
// within one unit persist all together on Commit or not at all on Abort,
// and replay contiguously in emission order.
package journal

import (
	"errors"

	"github.com/luxfi/fhe16/events"
)

var (
	// ErrUnitClosed is returned when emitting on a committed or aborted unit
	ErrUnitClosed = errors.New("unit already closed")

	// ErrJournalClosed is returned when operating on a closed journal
	ErrJournalClosed = errors.New("journal closed")
)

// Entry is one committed record together with its position in the log
type Entry struct {
	// Seq is the global position of the record, strictly increasing
	Seq uint64

	// Unit identifies the atomic unit the record was committed in. Entries
	// of one unit are contiguous in the log.
	Unit uint64

	// Event is the record itself
	Event events.Event
}

// Journal is an append-only, unit-atomic record log
type Journal interface {
	// Begin opens a new atomic unit
	Begin() (Unit, error)

	// Entries returns every committed record in log order
	Entries() ([]Entry, error)

	// Close releases the journal
	Close() error
}

// Unit buffers records until committed. Implementations guarantee that a
// unit's records appear contiguously and in emission order once committed,
// and that nothing from an aborted unit is ever observable.
type Unit interface {
	// Emit appends a record to the unit
	Emit(ev events.Event) error

	// Commit persists every emitted record atomically and closes the unit
	Commit() error

	// Abort discards every emitted record and closes the unit
	Abort() error
}
