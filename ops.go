// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package fhe16

import (
	"errors"
	"fmt"
)

// ErrInvalidOp is returned when an operation code is outside its catalog
var ErrInvalidOp = errors.New("invalid operation code")

// UnaryOp is a single-operand FHE16 operation code.
//
// The numeric value of every operation code is a wire contract shared with
// the off-chain executor: it is hashed into every derived handle and
// serialized into every request record. Values are pinned explicitly and
// must never be reordered or reused.
type UnaryOp uint8

const (
	Not UnaryOp = 0 // C_FHE16_NOT
	Abs UnaryOp = 1 // FHE16_ABS
	Neg UnaryOp = 2 // FHE16_NEG
)

// BinaryOp is a two-operand FHE16 operation code.
type BinaryOp uint8

const (
	// Logic
	And BinaryOp = 0 // C_FHE16_AND
	Or  BinaryOp = 1 // C_FHE16_OR
	Xor BinaryOp = 2 // C_FHE16_XOR

	// Arithmetic
	Add  BinaryOp = 3 // FHE16_ADD
	Sub  BinaryOp = 4 // FHE16_SUB
	SDiv BinaryOp = 5 // FHE16_SDIV

	// Comparison
	Eq       BinaryOp = 6  // FHE16_EQ
	Neq      BinaryOp = 7  // FHE16_NEQ
	Gt       BinaryOp = 8  // FHE16_GT
	Ge       BinaryOp = 9  // FHE16_GE
	Lt       BinaryOp = 10 // FHE16_LT
	Le       BinaryOp = 11 // FHE16_LE
	Max      BinaryOp = 12 // FHE16_MAX
	Min      BinaryOp = 13 // FHE16_MIN
	MaxOrMin BinaryOp = 14 // FHE16_MAXorMIN
	Compare  BinaryOp = 15 // FHE16_COMPARE

	// Vector
	OrVec  BinaryOp = 16 // FHE16_ORVEC
	AndVec BinaryOp = 17 // FHE16_ANDVEC
	XorVec BinaryOp = 18 // FHE16_XORVEC

	// Shift
	LShiftL BinaryOp = 19 // FHE16_LSHIFTL

	// Other
	SMulL             BinaryOp = 20 // FHE16_SMULL
	AddPowTwo         BinaryOp = 21 // FHE16_ADD_POWTWO
	SubPowTwo         BinaryOp = 22 // FHE16_SUB_POWTWO
	GateTemplate      BinaryOp = 23 // FHE16_GATE_TEMPLATE
	PrefixTemplate    BinaryOp = 24 // FHE16_PREFIX_TEMPLATE
	AddPowTwoTemplate BinaryOp = 25 // FHE16_ADD_POWTWO_TEMPLATE

	// Combined
	OrXor  BinaryOp = 26 // C_FHE16_OR_XOR
	AndXor BinaryOp = 27 // C_FHE16_AND_XOR
)

// TernaryOp is a three-operand FHE16 operation code.
type TernaryOp uint8

const (
	Add3   TernaryOp = 0 // FHE16_ADD3
	Eq3    TernaryOp = 1 // C_FHE16_EQ3
	Maj3   TernaryOp = 2 // C_FHE16_MAJ3
	Xor3   TernaryOp = 3 // C_FHE16_XOR3
	Select TernaryOp = 4 // FHE16_SELECT
)

var unaryOpNames = map[UnaryOp]string{
	Not: "Not",
	Abs: "Abs",
	Neg: "Neg",
}

var binaryOpNames = map[BinaryOp]string{
	And:               "And",
	Or:                "Or",
	Xor:               "Xor",
	Add:               "Add",
	Sub:               "Sub",
	SDiv:              "SDiv",
	Eq:                "Eq",
	Neq:               "Neq",
	Gt:                "Gt",
	Ge:                "Ge",
	Lt:                "Lt",
	Le:                "Le",
	Max:               "Max",
	Min:               "Min",
	MaxOrMin:          "MaxOrMin",
	Compare:           "Compare",
	OrVec:             "OrVec",
	AndVec:            "AndVec",
	XorVec:            "XorVec",
	LShiftL:           "LShiftL",
	SMulL:             "SMulL",
	AddPowTwo:         "AddPowTwo",
	SubPowTwo:         "SubPowTwo",
	GateTemplate:      "GateTemplate",
	PrefixTemplate:    "PrefixTemplate",
	AddPowTwoTemplate: "AddPowTwoTemplate",
	OrXor:             "OrXor",
	AndXor:            "AndXor",
}

var ternaryOpNames = map[TernaryOp]string{
	Add3:   "Add3",
	Eq3:    "Eq3",
	Maj3:   "Maj3",
	Xor3:   "Xor3",
	Select: "Select",
}

// String returns the catalog name of the operation code
func (op UnaryOp) String() string {
	if name, ok := unaryOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("UnaryOp(%d)", uint8(op))
}

// Valid returns nil if the operation code is a member of the unary catalog
func (op UnaryOp) Valid() error {
	if _, ok := unaryOpNames[op]; !ok {
		return fmt.Errorf("%w: unary op %d", ErrInvalidOp, uint8(op))
	}
	return nil
}

// String returns the catalog name of the operation code
func (op BinaryOp) String() string {
	if name, ok := binaryOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("BinaryOp(%d)", uint8(op))
}

// Valid returns nil if the operation code is a member of the binary catalog
func (op BinaryOp) Valid() error {
	if _, ok := binaryOpNames[op]; !ok {
		return fmt.Errorf("%w: binary op %d", ErrInvalidOp, uint8(op))
	}
	return nil
}

// String returns the catalog name of the operation code
func (op TernaryOp) String() string {
	if name, ok := ternaryOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("TernaryOp(%d)", uint8(op))
}

// Valid returns nil if the operation code is a member of the ternary catalog
func (op TernaryOp) Valid() error {
	if _, ok := ternaryOpNames[op]; !ok {
		return fmt.Errorf("%w: ternary op %d", ErrInvalidOp, uint8(op))
	}
	return nil
}
