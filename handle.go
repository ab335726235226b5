// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package fhe16

import (
	"github.com/luxfi/ids"
)

// Handle is a 32-byte content-addressed identifier standing in for an
// encrypted value. A handle is never a pointer into storage: it is either
// derived from an operation and its operands, or asserted by a caller via
// input registration. The off-chain executor publishes computed ciphertexts
// keyed by these handles.
type Handle = ids.ID

// Namespace is the identity of the authority issuing derivations. It is
// mixed into every derived handle so that two authorities requesting the
// same operation over the same operands never collide.
type Namespace = ids.ID

// Caller identifies the entity that issued a request. It is recorded in
// every emitted record but is never an input to handle derivation.
type Caller = ids.ID

// Domain separation tags. Each tag pins both the operation arity and the
// derivation scheme version, so handles from different arities (or from a
// future scheme revision) live in disjoint hash namespaces. These strings
// are a byte-for-byte wire contract with the off-chain executor.
const (
	HandleDomainUnary   = "FHE16_UNARY_V1"
	HandleDomainBinary  = "FHE16_BINARY_V1"
	HandleDomainTernary = "FHE16_TERNARY_V1"
)

// DeriveUnaryHandle returns the result handle for a unary operation over
// [input], issued under [ns].
func DeriveUnaryHandle(ns Namespace, op UnaryOp, input Handle) Handle {
	return deriveHandle(HandleDomainUnary, ns, byte(op), input)
}

// DeriveBinaryHandle returns the result handle for a binary operation over
// [lhs] and [rhs], issued under [ns]. Operand order is significant even for
// commutative operations: no canonicalization is performed, so swapping the
// operands of And/Or/Add yields a different handle.
func DeriveBinaryHandle(ns Namespace, op BinaryOp, lhs, rhs Handle) Handle {
	return deriveHandle(HandleDomainBinary, ns, byte(op), lhs, rhs)
}

// DeriveTernaryHandle returns the result handle for a ternary operation over
// [a], [b] and [c], issued under [ns].
func DeriveTernaryHandle(ns Namespace, op TernaryOp, a, b, c Handle) Handle {
	return deriveHandle(HandleDomainTernary, ns, byte(op), a, b, c)
}

// deriveHandle hashes tag || ns || op || operand... with sha256. Every field
// is fixed-length, so the concatenation is unambiguous without delimiters.
func deriveHandle(domainTag string, ns Namespace, op byte, operands ...Handle) Handle {
	buf := make([]byte, 0, len(domainTag)+ids.IDLen+1+len(operands)*ids.IDLen)
	buf = append(buf, domainTag...)
	buf = append(buf, ns[:]...)
	buf = append(buf, op)
	for _, operand := range operands {
		buf = append(buf, operand[:]...)
	}
	return Handle(ComputeHash256Array(buf))
}
