// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package events defines the immutable records emitted by the FHE16 host.
// Each request produces exactly one record; the off-chain executor consumes
// them from the append-only log and performs the real encrypted computation.
// Field order, field widths and type IDs are part of the wire contract.
package events

import (
	"errors"
	"fmt"

	"github.com/luxfi/geth/rlp"

	"github.com/luxfi/fhe16"
)

// CodecVersion is the version of the event wire encoding
const CodecVersion uint16 = 0

// Event type IDs. Pinned: never reorder or reuse.
const (
	// InputHandleRegisteredID is the InputHandleRegistered type ID
	InputHandleRegisteredID uint32 = 0

	// UnaryOpRequestedID is the UnaryOpRequested type ID
	UnaryOpRequestedID uint32 = 1

	// BinaryOpRequestedID is the BinaryOpRequested type ID
	BinaryOpRequestedID uint32 = 2

	// TernaryOpRequestedID is the TernaryOpRequested type ID
	TernaryOpRequestedID uint32 = 3

	// WithdrawCompletedID is the WithdrawCompleted type ID
	WithdrawCompletedID uint32 = 4

	// DepositCompletedID is the DepositCompleted type ID
	DepositCompletedID uint32 = 5
)

var (
	// ErrInvalidEvent is returned when an event record is invalid
	ErrInvalidEvent = errors.New("invalid event")

	// ErrUnknownEventType is returned when an envelope carries an unknown type ID
	ErrUnknownEventType = errors.New("unknown event type")
)

// Event is an immutable record emitted by the host
type Event interface {
	// TypeID returns the pinned wire type ID of the record
	TypeID() uint32

	// Verify verifies the record
	Verify() error
}

// envelope wraps a record with its codec version and type ID so that a log
// entry is self-describing.
type envelope struct {
	Version uint16 `serialize:"true"`
	TypeID  uint32 `serialize:"true"`
	Data    []byte `serialize:"true"`
}

// Marshal serializes an event record with its envelope
func Marshal(ev Event) ([]byte, error) {
	if err := ev.Verify(); err != nil {
		return nil, err
	}
	data, err := rlp.EncodeToBytes(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return rlp.EncodeToBytes(&envelope{
		Version: CodecVersion,
		TypeID:  ev.TypeID(),
		Data:    data,
	})
}

// Parse deserializes an enveloped event record
func Parse(b []byte) (Event, error) {
	env := &envelope{}
	if err := rlp.DecodeBytes(b, env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if env.Version != CodecVersion {
		return nil, fmt.Errorf("%w: codec version %d", ErrInvalidEvent, env.Version)
	}

	var ev Event
	switch env.TypeID {
	case InputHandleRegisteredID:
		ev = &InputHandleRegistered{}
	case UnaryOpRequestedID:
		ev = &UnaryOpRequested{}
	case BinaryOpRequestedID:
		ev = &BinaryOpRequested{}
	case TernaryOpRequestedID:
		ev = &TernaryOpRequested{}
	case WithdrawCompletedID:
		ev = &WithdrawCompleted{}
	case DepositCompletedID:
		ev = &DepositCompleted{}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownEventType, env.TypeID)
	}

	if err := rlp.DecodeBytes(env.Data, ev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if err := ev.Verify(); err != nil {
		return nil, err
	}
	return ev, nil
}

// InputHandleRegistered records the association of an externally supplied
// handle with a caller-chosen opaque tag. The host performs no validation
// that the handle denotes well-formed ciphertext.
type InputHandleRegistered struct {
	Caller    fhe16.Caller    `serialize:"true"`
	Handle    fhe16.Handle    `serialize:"true"`
	ClientTag fhe16.ClientTag `serialize:"true"`
}

// TypeID returns the pinned wire type ID of the record
func (*InputHandleRegistered) TypeID() uint32 { return InputHandleRegisteredID }

// Verify verifies the record
func (*InputHandleRegistered) Verify() error { return nil }

// UnaryOpRequested records a request for a single-operand operation
type UnaryOpRequested struct {
	Caller       fhe16.Caller  `serialize:"true"`
	Op           fhe16.UnaryOp `serialize:"true"`
	InputHandle  fhe16.Handle  `serialize:"true"`
	ResultHandle fhe16.Handle  `serialize:"true"`
}

// TypeID returns the pinned wire type ID of the record
func (*UnaryOpRequested) TypeID() uint32 { return UnaryOpRequestedID }

// Verify verifies the record
func (e *UnaryOpRequested) Verify() error {
	if err := e.Op.Valid(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	return nil
}

// BinaryOpRequested records a request for a two-operand operation
type BinaryOpRequested struct {
	Caller       fhe16.Caller   `serialize:"true"`
	Op           fhe16.BinaryOp `serialize:"true"`
	LHSHandle    fhe16.Handle   `serialize:"true"`
	RHSHandle    fhe16.Handle   `serialize:"true"`
	ResultHandle fhe16.Handle   `serialize:"true"`
}

// TypeID returns the pinned wire type ID of the record
func (*BinaryOpRequested) TypeID() uint32 { return BinaryOpRequestedID }

// Verify verifies the record
func (e *BinaryOpRequested) Verify() error {
	if err := e.Op.Valid(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	return nil
}

// TernaryOpRequested records a request for a three-operand operation
type TernaryOpRequested struct {
	Caller       fhe16.Caller    `serialize:"true"`
	Op           fhe16.TernaryOp `serialize:"true"`
	AHandle      fhe16.Handle    `serialize:"true"`
	BHandle      fhe16.Handle    `serialize:"true"`
	CHandle      fhe16.Handle    `serialize:"true"`
	ResultHandle fhe16.Handle    `serialize:"true"`
}

// TypeID returns the pinned wire type ID of the record
func (*TernaryOpRequested) TypeID() uint32 { return TernaryOpRequestedID }

// Verify verifies the record
func (e *TernaryOpRequested) Verify() error {
	if err := e.Op.Valid(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	return nil
}

// WithdrawCompleted summarizes a chained conditional-withdraw workflow. It
// carries the original operands and every intermediate and final handle so
// the dependency subgraph can be audited without replaying the constituent
// op records.
type WithdrawCompleted struct {
	Caller          fhe16.Caller `serialize:"true"`
	Balance         fhe16.Handle `serialize:"true"`
	Amount          fhe16.Handle `serialize:"true"`
	GeResultHandle  fhe16.Handle `serialize:"true"`
	SubResultHandle fhe16.Handle `serialize:"true"`
	FinalHandle     fhe16.Handle `serialize:"true"`
}

// TypeID returns the pinned wire type ID of the record
func (*WithdrawCompleted) TypeID() uint32 { return WithdrawCompletedID }

// Verify verifies the record
func (*WithdrawCompleted) Verify() error { return nil }

// DepositCompleted summarizes a deposit workflow
type DepositCompleted struct {
	Caller      fhe16.Caller `serialize:"true"`
	Balance     fhe16.Handle `serialize:"true"`
	Amount      fhe16.Handle `serialize:"true"`
	FinalHandle fhe16.Handle `serialize:"true"`
}

// TypeID returns the pinned wire type ID of the record
func (*DepositCompleted) TypeID() uint32 { return DepositCompletedID }

// Verify verifies the record
func (*DepositCompleted) Verify() error { return nil }
