// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/log"

	"github.com/luxfi/fhe16"
	"github.com/luxfi/fhe16/host"
	"github.com/luxfi/fhe16/journal"
	"github.com/luxfi/fhe16/lending"
)

func main() {
	// An in-memory journal stands in for the host platform's log
	jrnl := journal.NewMemory()
	h := host.New(fhe16.Namespace{0x01}, jrnl, log.NoLog{}, nil)
	svc := lending.NewService(h, log.NoLog{})

	caller := fhe16.Caller{0xCA}

	// Name two sample inputs: an encrypted balance of 1000 and a withdrawal
	// of 250. In a real deployment these handles point at ciphertexts the
	// client registered with the executor.
	balance := fhe16.Handle(uint256.NewInt(1000).Bytes32())
	amount := fhe16.Handle(uint256.NewInt(250).Bytes32())

	if err := h.RegisterInputHandle(caller, balance, fhe16.ClientTag{1}); err != nil {
		panic(err)
	}
	if err := h.RegisterInputHandle(caller, amount, fhe16.ClientTag{2}); err != nil {
		panic(err)
	}

	// Chain Ge, Sub and Select in one atomic unit
	final, err := svc.Withdraw(caller, balance, amount)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Withdraw requested over encrypted balance\n")
	fmt.Printf("  Balance handle: %s\n", balance)
	fmt.Printf("  Amount handle:  %s\n", amount)
	fmt.Printf("  Final handle:   %s\n", final)

	entries, err := jrnl.Entries()
	if err != nil {
		panic(err)
	}
	fmt.Printf("Journal holds %d records; the executor computes asynchronously\n", len(entries))
}
