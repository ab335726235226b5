// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package host implements the FHE16 request entry points. The host never
// touches plaintext or ciphertext: it derives result handles for requested
// operations and emits one immutable record per request into the journal.
// The off-chain executor consumes those records and publishes computed
// results keyed by the derived handles.
//
// Entry points are permissionless and stateless: no ownership or provenance
// checks are performed on operand handles, and no handle registry is kept.
package host

import (
	"github.com/luxfi/log"

	"github.com/luxfi/fhe16"
	"github.com/luxfi/fhe16/events"
	"github.com/luxfi/fhe16/journal"
)

// Host binds a namespace to a journal. All handles derived through a Host
// are namespaced by its identity, so two hosts never collide on identical
// (operation, operands) tuples.
type Host struct {
	namespace fhe16.Namespace
	journal   journal.Journal
	log       log.Logger
	metrics   *Metrics
}

// New creates a host issuing derivations under [namespace]. metrics may be
// nil to disable collection.
func New(namespace fhe16.Namespace, jrnl journal.Journal, logger log.Logger, metrics *Metrics) *Host {
	return &Host{
		namespace: namespace,
		journal:   jrnl,
		log:       logger,
		metrics:   metrics,
	}
}

// Namespace returns the host's issuing identity
func (h *Host) Namespace() fhe16.Namespace {
	return h.namespace
}

// Initialize logs host startup. It emits no records.
func (h *Host) Initialize() {
	h.log.Info("FHE16 host initialized",
		log.Stringer("namespace", h.namespace),
	)
}

// Atomic runs fn inside one atomic unit. Every record emitted through the
// session persists if fn returns nil and the commit succeeds; if fn returns
// an error, every record of the unit is discarded, including those already
// emitted by earlier steps.
func (h *Host) Atomic(fn func(*Session) error) error {
	unit, err := h.journal.Begin()
	if err != nil {
		return err
	}

	session := &Session{host: h, unit: unit}
	if err := fn(session); err != nil {
		if abortErr := unit.Abort(); abortErr != nil {
			h.log.Warn("failed to abort unit", log.Err(abortErr))
		}
		h.metrics.unitAborted()
		return err
	}

	if err := unit.Commit(); err != nil {
		h.metrics.unitAborted()
		return err
	}
	h.metrics.unitCommitted()
	return nil
}

// RegisterInputHandle associates an externally supplied handle with a
// caller-chosen tag in its own atomic unit
func (h *Host) RegisterInputHandle(caller fhe16.Caller, handle fhe16.Handle, clientTag fhe16.ClientTag) error {
	return h.Atomic(func(s *Session) error {
		return s.RegisterInputHandle(caller, handle, clientTag)
	})
}

// RequestUnary requests a unary operation in its own atomic unit
func (h *Host) RequestUnary(caller fhe16.Caller, op fhe16.UnaryOp, input fhe16.Handle) (fhe16.Handle, error) {
	var result fhe16.Handle
	err := h.Atomic(func(s *Session) error {
		var err error
		result, err = s.RequestUnary(caller, op, input)
		return err
	})
	return result, err
}

// RequestBinary requests a binary operation in its own atomic unit
func (h *Host) RequestBinary(caller fhe16.Caller, op fhe16.BinaryOp, lhs, rhs fhe16.Handle) (fhe16.Handle, error) {
	var result fhe16.Handle
	err := h.Atomic(func(s *Session) error {
		var err error
		result, err = s.RequestBinary(caller, op, lhs, rhs)
		return err
	})
	return result, err
}

// RequestTernary requests a ternary operation in its own atomic unit
func (h *Host) RequestTernary(caller fhe16.Caller, op fhe16.TernaryOp, a, b, c fhe16.Handle) (fhe16.Handle, error) {
	var result fhe16.Handle
	err := h.Atomic(func(s *Session) error {
		var err error
		result, err = s.RequestTernary(caller, op, a, b, c)
		return err
	})
	return result, err
}

// Session exposes the request entry points inside one atomic unit. Sessions
// are created by Host.Atomic and are not safe for concurrent use.
type Session struct {
	host *Host
	unit journal.Unit
}

// RegisterInputHandle associates an externally supplied handle with a
// caller-chosen opaque tag and emits one record. The handle is not checked
// to denote well-formed ciphertext.
func (s *Session) RegisterInputHandle(caller fhe16.Caller, handle fhe16.Handle, clientTag fhe16.ClientTag) error {
	if err := s.unit.Emit(&events.InputHandleRegistered{
		Caller:    caller,
		Handle:    handle,
		ClientTag: clientTag,
	}); err != nil {
		return err
	}

	s.host.log.Debug("input handle registered",
		log.Stringer("caller", caller),
		log.Stringer("handle", handle),
	)
	s.host.metrics.recordEmitted("register")
	return nil
}

// RequestUnary derives the result handle for a unary operation and emits
// one record. The returned handle is where the executor will publish the
// computed result.
func (s *Session) RequestUnary(caller fhe16.Caller, op fhe16.UnaryOp, input fhe16.Handle) (fhe16.Handle, error) {
	if err := op.Valid(); err != nil {
		return fhe16.Handle{}, err
	}

	result := fhe16.DeriveUnaryHandle(s.host.namespace, op, input)
	if err := s.unit.Emit(&events.UnaryOpRequested{
		Caller:       caller,
		Op:           op,
		InputHandle:  input,
		ResultHandle: result,
	}); err != nil {
		return fhe16.Handle{}, err
	}

	s.host.log.Debug("unary op requested",
		log.Stringer("op", op),
		log.Stringer("result", result),
	)
	s.host.metrics.recordEmitted("unary")
	return result, nil
}

// RequestBinary derives the result handle for a binary operation and emits
// one record. Operand order is significant even for commutative operations.
func (s *Session) RequestBinary(caller fhe16.Caller, op fhe16.BinaryOp, lhs, rhs fhe16.Handle) (fhe16.Handle, error) {
	if err := op.Valid(); err != nil {
		return fhe16.Handle{}, err
	}

	result := fhe16.DeriveBinaryHandle(s.host.namespace, op, lhs, rhs)
	if err := s.unit.Emit(&events.BinaryOpRequested{
		Caller:       caller,
		Op:           op,
		LHSHandle:    lhs,
		RHSHandle:    rhs,
		ResultHandle: result,
	}); err != nil {
		return fhe16.Handle{}, err
	}

	s.host.log.Debug("binary op requested",
		log.Stringer("op", op),
		log.Stringer("result", result),
	)
	s.host.metrics.recordEmitted("binary")
	return result, nil
}

// RequestTernary derives the result handle for a ternary operation and
// emits one record
func (s *Session) RequestTernary(caller fhe16.Caller, op fhe16.TernaryOp, a, b, c fhe16.Handle) (fhe16.Handle, error) {
	if err := op.Valid(); err != nil {
		return fhe16.Handle{}, err
	}

	result := fhe16.DeriveTernaryHandle(s.host.namespace, op, a, b, c)
	if err := s.unit.Emit(&events.TernaryOpRequested{
		Caller:       caller,
		Op:           op,
		AHandle:      a,
		BHandle:      b,
		CHandle:      c,
		ResultHandle: result,
	}); err != nil {
		return fhe16.Handle{}, err
	}

	s.host.log.Debug("ternary op requested",
		log.Stringer("op", op),
		log.Stringer("result", result),
	)
	s.host.metrics.recordEmitted("ternary")
	return result, nil
}

// Emit appends a workflow-level record (e.g. a completion summary) to the
// unit
func (s *Session) Emit(ev events.Event) error {
	if err := s.unit.Emit(ev); err != nil {
		return err
	}
	s.host.metrics.recordEmitted("workflow")
	return nil
}
