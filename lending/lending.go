// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package lending composes FHE16 requests into multi-step workflows over
// encrypted balances. Each workflow runs inside one atomic unit: the
// constituent request records appear in fixed emission order, chained by
// result handles, and a completion record summarizes the whole graph. If
// any step fails, no record of the invocation persists.
package lending

import (
	"github.com/luxfi/log"

	"github.com/luxfi/fhe16"
	"github.com/luxfi/fhe16/events"
	"github.com/luxfi/fhe16/host"
)

// Service issues lending workflows against an FHE16 host
type Service struct {
	host *host.Host
	log  log.Logger
}

// NewService creates a lending workflow service
func NewService(h *host.Host, logger log.Logger) *Service {
	return &Service{
		host: h,
		log:  logger,
	}
}

// Initialize logs service startup. It emits no records.
func (s *Service) Initialize() {
	s.log.Info("lending demo initialized",
		log.Stringer("namespace", s.host.Namespace()),
	)
}

// Withdraw requests a conditional balance deduction over encrypted values:
//
//	ge    = Ge(balance, amount)        // does the balance cover the amount?
//	sub   = Sub(balance, amount)       // the deducted balance
//	final = Select(ge, sub, balance)   // deducted if covered, else unchanged
//
// The three steps chain result handles as operands and are emitted in this
// order inside one atomic unit, so the dependency subgraph is
// reconstructable from record contents and order alone. Returns the final
// handle, under which the executor will publish the updated balance.
func (s *Service) Withdraw(caller fhe16.Caller, balance, amount fhe16.Handle) (fhe16.Handle, error) {
	var final fhe16.Handle
	err := s.host.Atomic(func(session *host.Session) error {
		geHandle, err := session.RequestBinary(caller, fhe16.Ge, balance, amount)
		if err != nil {
			return err
		}

		subHandle, err := session.RequestBinary(caller, fhe16.Sub, balance, amount)
		if err != nil {
			return err
		}

		final, err = session.RequestTernary(caller, fhe16.Select, geHandle, subHandle, balance)
		if err != nil {
			return err
		}

		return session.Emit(&events.WithdrawCompleted{
			Caller:          caller,
			Balance:         balance,
			Amount:          amount,
			GeResultHandle:  geHandle,
			SubResultHandle: subHandle,
			FinalHandle:     final,
		})
	})
	if err != nil {
		return fhe16.Handle{}, err
	}

	s.log.Info("withdraw requested",
		log.Stringer("caller", caller),
		log.Stringer("final", final),
	)
	return final, nil
}

// Deposit requests an unconditional balance addition:
//
//	final = Add(balance, amount)
//
// Returns the final handle.
func (s *Service) Deposit(caller fhe16.Caller, balance, amount fhe16.Handle) (fhe16.Handle, error) {
	var final fhe16.Handle
	err := s.host.Atomic(func(session *host.Session) error {
		var err error
		final, err = session.RequestBinary(caller, fhe16.Add, balance, amount)
		if err != nil {
			return err
		}

		return session.Emit(&events.DepositCompleted{
			Caller:      caller,
			Balance:     balance,
			Amount:      amount,
			FinalHandle: final,
		})
	})
	if err != nil {
		return fhe16.Handle{}, err
	}

	s.log.Info("deposit requested",
		log.Stringer("caller", caller),
		log.Stringer("final", final),
	)
	return final, nil
}
