// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package events

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/fhe16"
)

// generateTestHandle creates a random handle for testing
func generateTestHandle() fhe16.Handle {
	var h fhe16.Handle
	rand.Read(h[:])
	return h
}

func TestBinaryOpRequestedRoundTrip(t *testing.T) {
	ev := &BinaryOpRequested{
		Caller:       generateTestHandle(),
		Op:           fhe16.Add,
		LHSHandle:    generateTestHandle(),
		RHSHandle:    generateTestHandle(),
		ResultHandle: generateTestHandle(),
	}

	b, err := Marshal(ev)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	parsed, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, BinaryOpRequestedID, parsed.TypeID())
	require.Equal(t, ev, parsed)
}

func TestTernaryOpRequestedRoundTrip(t *testing.T) {
	ev := &TernaryOpRequested{
		Caller:       generateTestHandle(),
		Op:           fhe16.Select,
		AHandle:      generateTestHandle(),
		BHandle:      generateTestHandle(),
		CHandle:      generateTestHandle(),
		ResultHandle: generateTestHandle(),
	}

	b, err := Marshal(ev)
	require.NoError(t, err)

	parsed, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, ev, parsed)
}

func TestInputHandleRegisteredRoundTrip(t *testing.T) {
	tag := fhe16.ClientTag{0xDE, 0xAD}
	ev := &InputHandleRegistered{
		Caller:    generateTestHandle(),
		Handle:    generateTestHandle(),
		ClientTag: tag,
	}

	b, err := Marshal(ev)
	require.NoError(t, err)

	parsed, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, ev, parsed)
}

func TestWithdrawCompletedRoundTrip(t *testing.T) {
	ev := &WithdrawCompleted{
		Caller:          generateTestHandle(),
		Balance:         generateTestHandle(),
		Amount:          generateTestHandle(),
		GeResultHandle:  generateTestHandle(),
		SubResultHandle: generateTestHandle(),
		FinalHandle:     generateTestHandle(),
	}

	b, err := Marshal(ev)
	require.NoError(t, err)

	parsed, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, ev, parsed)
}

func TestMarshalRejectsInvalidOp(t *testing.T) {
	ev := &UnaryOpRequested{
		Caller:      generateTestHandle(),
		Op:          fhe16.UnaryOp(99),
		InputHandle: generateTestHandle(),
	}

	_, err := Marshal(ev)
	require.ErrorIs(t, err, fhe16.ErrInvalidOp)
}

func TestParseRejectsUnknownType(t *testing.T) {
	// Hand-roll an envelope with an unregistered type ID
	b, err := Marshal(&DepositCompleted{
		Caller:      generateTestHandle(),
		Balance:     generateTestHandle(),
		Amount:      generateTestHandle(),
		FinalHandle: generateTestHandle(),
	})
	require.NoError(t, err)

	// A junk buffer fails to parse
	_, err = Parse([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)

	// A valid buffer parses
	_, err = Parse(b)
	require.NoError(t, err)
}
