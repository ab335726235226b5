// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package fhe16

import (
	"crypto/sha256"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestDeriveHandleDeterminism(t *testing.T) {
	ns := Namespace{0x01}
	input := Handle{0xAA}
	lhs := Handle{0xBB}
	rhs := Handle{0xCC}

	require.Equal(t,
		DeriveUnaryHandle(ns, Not, input),
		DeriveUnaryHandle(ns, Not, input),
	)
	require.Equal(t,
		DeriveBinaryHandle(ns, Add, lhs, rhs),
		DeriveBinaryHandle(ns, Add, lhs, rhs),
	)
	require.Equal(t,
		DeriveTernaryHandle(ns, Select, input, lhs, rhs),
		DeriveTernaryHandle(ns, Select, input, lhs, rhs),
	)
}

func TestDeriveHandleSensitivity(t *testing.T) {
	ns := Namespace{0x01}
	lhs := Handle{0xBB}
	rhs := Handle{0xCC}
	base := DeriveBinaryHandle(ns, Add, lhs, rhs)

	// Changing the operation changes the handle
	require.NotEqual(t, base, DeriveBinaryHandle(ns, Sub, lhs, rhs))

	// Changing the namespace changes the handle
	otherNS := Namespace{0x02}
	require.NotEqual(t, base, DeriveBinaryHandle(otherNS, Add, lhs, rhs))

	// Flipping a single byte of either operand changes the handle (sampled
	// positions, not exhaustive)
	for _, pos := range []int{0, 1, 15, 31} {
		flippedLHS := lhs
		flippedLHS[pos] ^= 0x01
		require.NotEqual(t, base, DeriveBinaryHandle(ns, Add, flippedLHS, rhs))

		flippedRHS := rhs
		flippedRHS[pos] ^= 0x01
		require.NotEqual(t, base, DeriveBinaryHandle(ns, Add, lhs, flippedRHS))
	}

	// Operand order is significant: no canonicalization for commutative ops
	require.NotEqual(t, base, DeriveBinaryHandle(ns, Add, rhs, lhs))
}

func TestDeriveHandleArityIsolation(t *testing.T) {
	// Overlapping operand byte patterns and identical op bytes must still
	// produce distinct handles per arity, because the domain tags differ.
	ns := Namespace{0x01}
	operand := Handle{0xAA}

	unary := DeriveUnaryHandle(ns, UnaryOp(0), operand)
	binary := DeriveBinaryHandle(ns, BinaryOp(0), operand, operand)
	ternary := DeriveTernaryHandle(ns, TernaryOp(0), operand, operand, operand)

	require.NotEqual(t, unary, binary)
	require.NotEqual(t, unary, ternary)
	require.NotEqual(t, binary, ternary)
}

func TestDeriveBinaryHandleReferenceVector(t *testing.T) {
	// Independently recompute sha256(tag || ns || opByte || lhs || rhs) and
	// assert byte-exact equality with the derivation engine.
	ns := Namespace{0x50} // 'P'
	lhs := Handle{0x01, 0x02}
	rhs := Handle{0x03, 0x04}

	h := sha256.New()
	h.Write([]byte("FHE16_BINARY_V1"))
	h.Write(ns[:])
	h.Write([]byte{0x03}) // Add discriminant, pinned in the registry
	h.Write(lhs[:])
	h.Write(rhs[:])

	want, err := ids.ToID(h.Sum(nil))
	require.NoError(t, err)
	require.Equal(t, want, DeriveBinaryHandle(ns, Add, lhs, rhs))
}
