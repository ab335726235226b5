// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/fhe16"
	"github.com/luxfi/fhe16/events"
)

// testEvent builds a distinct record per byte
func testEvent(b byte) events.Event {
	return &events.InputHandleRegistered{
		Caller: fhe16.Caller{b},
		Handle: fhe16.Handle{b},
	}
}

func runJournalTests(t *testing.T, open func(t *testing.T) Journal) {
	t.Run("commit makes records visible in order", func(t *testing.T) {
		j := open(t)
		defer j.Close()

		unit, err := j.Begin()
		require.NoError(t, err)
		require.NoError(t, unit.Emit(testEvent(1)))
		require.NoError(t, unit.Emit(testEvent(2)))
		require.NoError(t, unit.Commit())

		entries, err := j.Entries()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, testEvent(1), entries[0].Event)
		require.Equal(t, testEvent(2), entries[1].Event)
		require.Less(t, entries[0].Seq, entries[1].Seq)
		require.Equal(t, entries[0].Unit, entries[1].Unit)
	})

	t.Run("abort discards every record of the unit", func(t *testing.T) {
		j := open(t)
		defer j.Close()

		unit, err := j.Begin()
		require.NoError(t, err)
		require.NoError(t, unit.Emit(testEvent(1)))
		require.NoError(t, unit.Emit(testEvent(2)))
		require.NoError(t, unit.Abort())

		entries, err := j.Entries()
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("closed unit rejects further use", func(t *testing.T) {
		j := open(t)
		defer j.Close()

		unit, err := j.Begin()
		require.NoError(t, err)
		require.NoError(t, unit.Commit())

		require.ErrorIs(t, unit.Emit(testEvent(1)), ErrUnitClosed)
		require.ErrorIs(t, unit.Commit(), ErrUnitClosed)
		require.ErrorIs(t, unit.Abort(), ErrUnitClosed)
	})

	t.Run("units replay contiguously", func(t *testing.T) {
		j := open(t)
		defer j.Close()

		for b := byte(0); b < 3; b++ {
			unit, err := j.Begin()
			require.NoError(t, err)
			require.NoError(t, unit.Emit(testEvent(b)))
			require.NoError(t, unit.Emit(testEvent(b+10)))
			require.NoError(t, unit.Commit())
		}

		entries, err := j.Entries()
		require.NoError(t, err)
		require.Len(t, entries, 6)
		for i := 0; i < 6; i += 2 {
			require.Equal(t, entries[i].Unit, entries[i+1].Unit)
		}
	})
}

func TestMemoryJournal(t *testing.T) {
	runJournalTests(t, func(t *testing.T) Journal {
		return NewMemory()
	})
}

func TestSQLiteJournal(t *testing.T) {
	runJournalTests(t, func(t *testing.T) Journal {
		j, err := OpenSQLite(filepath.Join(t.TempDir(), "journal.db"))
		require.NoError(t, err)
		return j
	})
}

func TestMemoryJournalClosed(t *testing.T) {
	j := NewMemory()
	require.NoError(t, j.Close())

	_, err := j.Begin()
	require.ErrorIs(t, err, ErrJournalClosed)

	_, err = j.Entries()
	require.ErrorIs(t, err, ErrJournalClosed)
}
