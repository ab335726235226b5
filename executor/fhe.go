// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

// Package executor implements the log-consuming side of the FHE16 contract.
// It correlates request records with derived handles, tracks which operands
// are resolved, and dispatches ready jobs to an evaluation backend. The
// actual homomorphic evaluation is behind the Evaluator interface; this
// package never inspects ciphertext contents.
package executor

import (
	"errors"

	"github.com/luxfi/fhe16"
)

// Ciphertext represents encrypted data produced or consumed by evaluation
type Ciphertext interface {
	// Bytes returns the serialized ciphertext
	Bytes() []byte
}

// Evaluator performs homomorphic evaluation of FHE16 operations
type Evaluator interface {
	// EvaluateUnary evaluates a single-operand operation
	EvaluateUnary(op fhe16.UnaryOp, input Ciphertext) (Ciphertext, error)

	// EvaluateBinary evaluates a two-operand operation
	EvaluateBinary(op fhe16.BinaryOp, lhs, rhs Ciphertext) (Ciphertext, error)

	// EvaluateTernary evaluates a three-operand operation
	EvaluateTernary(op fhe16.TernaryOp, a, b, c Ciphertext) (Ciphertext, error)
}

var (
	// ErrHandleMismatch is returned when a record's result handle does not
	// match an independent recomputation of the derivation
	ErrHandleMismatch = errors.New("result handle does not match derivation")

	// ErrBadArity is returned when a job carries the wrong operand count
	ErrBadArity = errors.New("wrong operand count for arity")
)

// Job is one requested operation awaiting evaluation
type Job struct {
	// Caller is the identity recorded in the request
	Caller fhe16.Caller

	// Arity is the operand count, 1 to 3
	Arity int

	// Op is the operation discriminant within its arity's catalog
	Op uint8

	// Operands are the input handles in request order
	Operands []fhe16.Handle

	// Result is the handle the computed ciphertext will be published under
	Result fhe16.Handle
}

// Evaluate dispatches the job to the evaluator with resolved operand
// ciphertexts, given in the same order as Operands
func (j *Job) Evaluate(ev Evaluator, inputs []Ciphertext) (Ciphertext, error) {
	if len(inputs) != j.Arity || len(j.Operands) != j.Arity {
		return nil, ErrBadArity
	}

	switch j.Arity {
	case 1:
		return ev.EvaluateUnary(fhe16.UnaryOp(j.Op), inputs[0])
	case 2:
		return ev.EvaluateBinary(fhe16.BinaryOp(j.Op), inputs[0], inputs[1])
	case 3:
		return ev.EvaluateTernary(fhe16.TernaryOp(j.Op), inputs[0], inputs[1], inputs[2])
	default:
		return nil, ErrBadArity
	}
}
