// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

// fhe16 is a CLI for issuing FHE16 operation requests against a local
// journal: register input handles, request operations, run the lending
// demo workflows, and inspect the emitted records.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/spf13/cobra"

	"github.com/luxfi/fhe16"
	"github.com/luxfi/fhe16/events"
	"github.com/luxfi/fhe16/host"
	"github.com/luxfi/fhe16/journal"
	"github.com/luxfi/fhe16/lending"
)

var (
	journalPath  string
	namespaceHex string
	callerHex    string
	logLevelStr  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fhe16",
		Short: "FHE16 operation request tooling",
		Long: `fhe16 derives content-addressed handles for operations over encrypted
values and emits one immutable record per request into an append-only
journal. An off-chain executor consumes the records and publishes computed
results keyed by the derived handles.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&journalPath, "journal", "fhe16.db", "Path to the journal database")
	cmd.PersistentFlags().StringVar(&namespaceHex, "namespace", "0x01", "Issuing namespace (hex)")
	cmd.PersistentFlags().StringVar(&callerHex, "caller", "0xCA", "Caller identity (hex)")
	cmd.PersistentFlags().StringVar(&logLevelStr, "log-level", "info", "Log level")

	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newRequestCmd())
	cmd.AddCommand(newWithdrawCmd())
	cmd.AddCommand(newDepositCmd())
	cmd.AddCommand(newEventsCmd())

	return cmd
}

// newLogger builds the process logger the same way the namespace and level
// flags describe it
func newLogger() (log.Logger, error) {
	level, err := log.ToLevel(logLevelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return log.NewLogger(
		"fhe16",
		*log.NewWrappedCore(level, os.Stdout, log.JSON.ConsoleEncoder()),
	), nil
}

func openHost() (*host.Host, *lending.Service, journal.Journal, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, nil, err
	}

	jrnl, err := journal.OpenSQLite(journalPath)
	if err != nil {
		return nil, nil, nil, err
	}

	h := host.New(fhe16.Namespace(common.HexToHash(namespaceHex)), jrnl, logger, nil)
	h.Initialize()
	svc := lending.NewService(h, logger)
	svc.Initialize()
	return h, svc, jrnl, nil
}

// parseHandle accepts either a 0x-prefixed hex handle or a decimal amount,
// which is widened to a 32-byte big-endian value (the demo convention for
// naming plaintext sample inputs)
func parseHandle(s string) (fhe16.Handle, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return fhe16.Handle(common.HexToHash(s)), nil
	}
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return fhe16.Handle{}, fmt.Errorf("invalid handle %q: %w", s, err)
	}
	return fhe16.Handle(amount.Bytes32()), nil
}

func caller() fhe16.Caller {
	return fhe16.Caller(common.HexToHash(callerHex))
}

func newRegisterCmd() *cobra.Command {
	var (
		handleStr string
		tagHex    string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an externally supplied input handle",
		Long: `Associate an input handle with a caller-chosen 32-byte tag.

Example:
  fhe16 register --handle 0xAA.. --tag 0x01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, _, jrnl, err := openHost()
			if err != nil {
				return err
			}
			defer jrnl.Close()

			handle, err := parseHandle(handleStr)
			if err != nil {
				return err
			}

			var tag fhe16.ClientTag
			tagBytes, err := hex.DecodeString(strings.TrimPrefix(tagHex, "0x"))
			if err != nil || len(tagBytes) > len(tag) {
				return fmt.Errorf("invalid tag %q", tagHex)
			}
			copy(tag[:], tagBytes)

			if err := h.RegisterInputHandle(caller(), handle, tag); err != nil {
				return err
			}

			fmt.Printf("Input handle registered:\n")
			fmt.Printf("  Handle: %s\n", handle)
			fmt.Printf("  Tag:    %x\n", tag)
			return nil
		},
	}

	cmd.Flags().StringVar(&handleStr, "handle", "", "Input handle (hex or decimal)")
	cmd.Flags().StringVar(&tagHex, "tag", "0x00", "Client tag (hex, up to 32 bytes)")
	_ = cmd.MarkFlagRequired("handle")

	return cmd
}

func newRequestCmd() *cobra.Command {
	var operandStrs []string

	cmd := &cobra.Command{
		Use:   "request <op>",
		Short: "Request an operation over encrypted values",
		Long: `Derive the result handle for an operation and emit a request record.
The arity is taken from the operand count.

Example:
  fhe16 request Add --operand 1000 --operand 250`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, _, jrnl, err := openHost()
			if err != nil {
				return err
			}
			defer jrnl.Close()

			operands := make([]fhe16.Handle, 0, len(operandStrs))
			for _, s := range operandStrs {
				operand, err := parseHandle(s)
				if err != nil {
					return err
				}
				operands = append(operands, operand)
			}

			result, err := request(h, args[0], operands)
			if err != nil {
				return err
			}

			fmt.Printf("Operation requested:\n")
			fmt.Printf("  Op:     %s\n", args[0])
			for i, operand := range operands {
				fmt.Printf("  Arg %d:  %s\n", i, operand)
			}
			fmt.Printf("  Result: %s\n", result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&operandStrs, "operand", nil, "Operand handle (repeat 1-3 times)")
	_ = cmd.MarkFlagRequired("operand")

	return cmd
}

// request resolves an operation name in the catalog matching the operand
// count and issues it
func request(h *host.Host, opName string, operands []fhe16.Handle) (fhe16.Handle, error) {
	switch len(operands) {
	case 1:
		for op := fhe16.UnaryOp(0); op.Valid() == nil; op++ {
			if op.String() == opName {
				return h.RequestUnary(caller(), op, operands[0])
			}
		}
	case 2:
		for op := fhe16.BinaryOp(0); op.Valid() == nil; op++ {
			if op.String() == opName {
				return h.RequestBinary(caller(), op, operands[0], operands[1])
			}
		}
	case 3:
		for op := fhe16.TernaryOp(0); op.Valid() == nil; op++ {
			if op.String() == opName {
				return h.RequestTernary(caller(), op, operands[0], operands[1], operands[2])
			}
		}
	default:
		return fhe16.Handle{}, fmt.Errorf("%w: %d operands", fhe16.ErrInvalidOp, len(operands))
	}
	return fhe16.Handle{}, fmt.Errorf("%w: no %d-operand op named %q", fhe16.ErrInvalidOp, len(operands), opName)
}

func newWithdrawCmd() *cobra.Command {
	var (
		balanceStr string
		amountStr  string
	)

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Request a conditional balance deduction",
		Long: `Chain Ge, Sub and Select requests in one atomic unit: the final handle
names the deducted balance if it covers the amount, the unchanged balance
otherwise.

Example:
  fhe16 withdraw --balance 0xAA.. --amount 250`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, jrnl, err := openHost()
			if err != nil {
				return err
			}
			defer jrnl.Close()

			balance, err := parseHandle(balanceStr)
			if err != nil {
				return err
			}
			amount, err := parseHandle(amountStr)
			if err != nil {
				return err
			}

			final, err := svc.Withdraw(caller(), balance, amount)
			if err != nil {
				return err
			}

			fmt.Printf("Withdraw requested:\n")
			fmt.Printf("  Balance: %s\n", balance)
			fmt.Printf("  Amount:  %s\n", amount)
			fmt.Printf("  Final:   %s\n", final)
			return nil
		},
	}

	cmd.Flags().StringVar(&balanceStr, "balance", "", "Balance handle (hex or decimal)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "Amount handle (hex or decimal)")
	_ = cmd.MarkFlagRequired("balance")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newDepositCmd() *cobra.Command {
	var (
		balanceStr string
		amountStr  string
	)

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Request a balance addition",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, jrnl, err := openHost()
			if err != nil {
				return err
			}
			defer jrnl.Close()

			balance, err := parseHandle(balanceStr)
			if err != nil {
				return err
			}
			amount, err := parseHandle(amountStr)
			if err != nil {
				return err
			}

			final, err := svc.Deposit(caller(), balance, amount)
			if err != nil {
				return err
			}

			fmt.Printf("Deposit requested:\n")
			fmt.Printf("  Balance: %s\n", balance)
			fmt.Printf("  Amount:  %s\n", amount)
			fmt.Printf("  Final:   %s\n", final)
			return nil
		},
	}

	cmd.Flags().StringVar(&balanceStr, "balance", "", "Balance handle (hex or decimal)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "Amount handle (hex or decimal)")
	_ = cmd.MarkFlagRequired("balance")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the records in the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			jrnl, err := journal.OpenSQLite(journalPath)
			if err != nil {
				return err
			}
			defer jrnl.Close()

			entries, err := jrnl.Entries()
			if err != nil {
				return err
			}

			for _, entry := range entries {
				fmt.Printf("%6d  unit %-4d  %s\n", entry.Seq, entry.Unit, describe(entry.Event))
			}
			return nil
		},
	}

	return cmd
}

func describe(ev events.Event) string {
	switch e := ev.(type) {
	case *events.InputHandleRegistered:
		return fmt.Sprintf("InputHandleRegistered  handle=%s", e.Handle)
	case *events.UnaryOpRequested:
		return fmt.Sprintf("UnaryOpRequested       %s(%s) -> %s", e.Op, e.InputHandle, e.ResultHandle)
	case *events.BinaryOpRequested:
		return fmt.Sprintf("BinaryOpRequested      %s(%s, %s) -> %s", e.Op, e.LHSHandle, e.RHSHandle, e.ResultHandle)
	case *events.TernaryOpRequested:
		return fmt.Sprintf("TernaryOpRequested     %s(%s, %s, %s) -> %s", e.Op, e.AHandle, e.BHandle, e.CHandle, e.ResultHandle)
	case *events.WithdrawCompleted:
		return fmt.Sprintf("WithdrawCompleted      final=%s", e.FinalHandle)
	case *events.DepositCompleted:
		return fmt.Sprintf("DepositCompleted       final=%s", e.FinalHandle)
	default:
		return fmt.Sprintf("Event(%d)", ev.TypeID())
	}
}
