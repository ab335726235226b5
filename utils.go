// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package fhe16

import (
	"crypto/sha256"
)

const (
	// HandleLen is the length of a handle in bytes
	HandleLen = 32

	// ClientTagLen is the length of a caller-chosen input tag in bytes
	ClientTagLen = 32
)

// ClientTag is an opaque caller-chosen tag attached to a registered input
// handle. The host never interprets it.
type ClientTag = [ClientTagLen]byte

// ComputeHash256 computes the SHA256 hash of data
func ComputeHash256(data []byte) []byte {
	hash := ComputeHash256Array(data)
	return hash[:]
}

// ComputeHash256Array computes the SHA256 hash of data as a fixed array
func ComputeHash256Array(data []byte) [sha256.Size]byte {
	return sha256.Sum256(data)
}
