// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package lending

import (
	"errors"
	"testing"

	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/fhe16"
	"github.com/luxfi/fhe16/events"
	"github.com/luxfi/fhe16/host"
	"github.com/luxfi/fhe16/journal"
)

func newTestService(t *testing.T) (*Service, *host.Host, *journal.Memory) {
	t.Helper()
	jrnl := journal.NewMemory()
	h := host.New(fhe16.Namespace{0x01}, jrnl, log.NoLog{}, nil)
	return NewService(h, log.NoLog{}), h, jrnl
}

func TestWithdrawEmitsChainedRecords(t *testing.T) {
	svc, h, jrnl := newTestService(t)
	caller := fhe16.Caller{0xCA}
	balance := fhe16.Handle{0x0B}
	amount := fhe16.Handle{0x0A}

	final, err := svc.Withdraw(caller, balance, amount)
	require.NoError(t, err)

	entries, err := jrnl.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 4)

	// Fixed emission order inside one unit
	ge := entries[0].Event.(*events.BinaryOpRequested)
	sub := entries[1].Event.(*events.BinaryOpRequested)
	sel := entries[2].Event.(*events.TernaryOpRequested)
	done := entries[3].Event.(*events.WithdrawCompleted)
	for _, e := range entries[1:] {
		require.Equal(t, entries[0].Unit, e.Unit)
	}

	require.Equal(t, fhe16.Ge, ge.Op)
	require.Equal(t, fhe16.Sub, sub.Op)
	require.Equal(t, fhe16.Select, sel.Op)

	// Step 3 consumes the result handles of steps 1 and 2 plus the original
	// balance: the dependency subgraph is visible in record contents alone.
	require.Equal(t, ge.ResultHandle, sel.AHandle)
	require.Equal(t, sub.ResultHandle, sel.BHandle)
	require.Equal(t, balance, sel.CHandle)
	require.Equal(t, final, sel.ResultHandle)

	// The completion record carries the whole graph for audit
	require.Equal(t, balance, done.Balance)
	require.Equal(t, amount, done.Amount)
	require.Equal(t, ge.ResultHandle, done.GeResultHandle)
	require.Equal(t, sub.ResultHandle, done.SubResultHandle)
	require.Equal(t, final, done.FinalHandle)

	// Independent recomputation of the three-node graph matches the record
	ns := h.Namespace()
	geHandle := fhe16.DeriveBinaryHandle(ns, fhe16.Ge, balance, amount)
	subHandle := fhe16.DeriveBinaryHandle(ns, fhe16.Sub, balance, amount)
	finalHandle := fhe16.DeriveTernaryHandle(ns, fhe16.Select, geHandle, subHandle, balance)
	require.Equal(t, geHandle, done.GeResultHandle)
	require.Equal(t, subHandle, done.SubResultHandle)
	require.Equal(t, finalHandle, done.FinalHandle)
}

func TestDepositEmitsRecords(t *testing.T) {
	svc, h, jrnl := newTestService(t)
	caller := fhe16.Caller{0xCA}
	balance := fhe16.Handle{0x0B}
	amount := fhe16.Handle{0x0A}

	final, err := svc.Deposit(caller, balance, amount)
	require.NoError(t, err)
	require.Equal(t, fhe16.DeriveBinaryHandle(h.Namespace(), fhe16.Add, balance, amount), final)

	entries, err := jrnl.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	add := entries[0].Event.(*events.BinaryOpRequested)
	done := entries[1].Event.(*events.DepositCompleted)
	require.Equal(t, fhe16.Add, add.Op)
	require.Equal(t, final, add.ResultHandle)
	require.Equal(t, final, done.FinalHandle)
}

// faultyJournal fails the nth emit of a unit, leaving earlier emits intact
type faultyJournal struct {
	*journal.Memory
	failOn int
}

type faultyUnit struct {
	journal.Unit
	journal *faultyJournal
	emits   int
}

var errEmitFailed = errors.New("emit failed")

func (j *faultyJournal) Begin() (journal.Unit, error) {
	unit, err := j.Memory.Begin()
	if err != nil {
		return nil, err
	}
	return &faultyUnit{Unit: unit, journal: j}, nil
}

func (u *faultyUnit) Emit(ev events.Event) error {
	u.emits++
	if u.emits == u.journal.failOn {
		return errEmitFailed
	}
	return u.Unit.Emit(ev)
}

func TestWithdrawSelectFailureLeavesNoRecords(t *testing.T) {
	// Force the third step (the select) to fail: the ge and sub records
	// already emitted in the same unit must be discarded with it.
	jrnl := &faultyJournal{Memory: journal.NewMemory(), failOn: 3}
	h := host.New(fhe16.Namespace{0x01}, jrnl, log.NoLog{}, nil)
	svc := NewService(h, log.NoLog{})

	_, err := svc.Withdraw(fhe16.Caller{0xCA}, fhe16.Handle{0x0B}, fhe16.Handle{0x0A})
	require.ErrorIs(t, err, errEmitFailed)

	entries, err := jrnl.Entries()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWithdrawIsDeterministic(t *testing.T) {
	svc, _, _ := newTestService(t)
	caller := fhe16.Caller{0xCA}
	balance := fhe16.Handle{0x0B}
	amount := fhe16.Handle{0x0A}

	first, err := svc.Withdraw(caller, balance, amount)
	require.NoError(t, err)

	second, err := svc.Withdraw(caller, balance, amount)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
