/*
A CLI tool for Ethereum contract ABI encoding and decoding, for calling
read-only contract functions, and for generating Go code with ABI definitions
from Solidity contracts.

Installation:

	go install github.com/purelabio/ethabi/eth_abi@latest

Example usage:

	eth_abi encode '(address,uint256)' '["0x5aeda56215b167893e80b4fe645ba6d5bab767de", 1000]' --params
	eth_abi decode 'string' 0x0000...
	eth_abi selector 'transfer(address to, uint256 amount)'
	eth_abi call --rpc https://some-host:8545 0x... 'balanceOf(address)' '["0x..."]' --returns uint256
	eth_abi gen --out gen_contracts.go sol/Test.sol:Test

Values are given as JSON. For string, bytes and single-word types, a bare
string is accepted as well. Decoded values are printed as JSON, or as Go
literals with "--go".
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Mitranim/repr"
	"github.com/pkg/errors"
	"github.com/purelabio/ethabi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	envRpc  = "ETH_ABI_RPC"
	envSolc = "SOLC"
)

type rootFlags struct {
	Rpc     string
	Verbose bool
	Timeout time.Duration
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "eth_abi",
		Short:         "Ethereum contract ABI encoder and decoder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !flags.Verbose {
				ethabi.SetLogger(nil)
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return errors.WithStack(err)
			}
			ethabi.SetLogger(logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.Rpc, "rpc", os.Getenv(envRpc), "RPC endpoint (http, https, ws, wss); defaults to $"+envRpc)
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose logging to stderr")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", 30*time.Second, "timeout for RPC calls")

	root.AddCommand(
		newEncodeCmd(),
		newDecodeCmd(),
		newSelectorCmd(),
		newCallCmd(&flags),
		newGenCmd(),
	)
	return root
}

func newEncodeCmd() *cobra.Command {
	var params bool

	cmd := &cobra.Command{
		Use:   "encode <type> <value>",
		Short: "ABI-encode a value and print it as hex",
		Long: `ABI-encodes a value of the given Solidity type. With "--params", a tuple is
encoded as a function parameter list, without the outer indirection.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := ethabi.ParseType(args[0])
			if err != nil {
				return err
			}
			val, err := typ.CoerceString(args[1])
			if err != nil {
				return err
			}

			var out []byte
			if params {
				out, err = typ.EncodeParams(val)
			} else {
				out, err = typ.Encode(val)
			}
			if err != nil {
				return err
			}
			return printLine(cmd.OutOrStdout(), ethabi.HexBytes(out).String())
		},
	}

	cmd.Flags().BoolVar(&params, "params", false, "encode a tuple as a parameter list")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var params, validate, goSyntax bool

	cmd := &cobra.Command{
		Use:   "decode <type> <hex>",
		Short: "ABI-decode hex data and print the value",
		Long: `ABI-decodes hex data as a value of the given Solidity type. With "--validate",
rejects non-canonical input: dirty padding, trailing data, or any encoding that
doesn't re-encode to the same bytes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := ethabi.ParseType(args[0])
			if err != nil {
				return err
			}
			data, err := ethabi.HexDecodeLoose(args[1])
			if err != nil {
				return errors.Wrap(err, `invalid hex input`)
			}

			var val ethabi.DynSolValue
			if params {
				val, err = typ.DecodeParams(data, validate)
			} else {
				val, err = typ.Decode(data, validate)
			}
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), val, goSyntax)
		},
	}

	cmd.Flags().BoolVar(&params, "params", false, "decode a tuple as a parameter list")
	cmd.Flags().BoolVar(&validate, "validate", false, "reject non-canonical encodings")
	cmd.Flags().BoolVar(&goSyntax, "go", false, "print the value as a Go literal")
	return cmd
}

func newSelectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <signature>",
		Short: "Print the canonical signature, selector and topic of a signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fun, err := ethabi.FunctionFromSignature(args[0], ``)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, err = fmt.Fprintf(out, "signature  %v\nselector   0x%x\ntopic      %v\n",
				fun.Signature, fun.Selector, ethabi.Keccak256([]byte(fun.Signature)))
			return errors.WithStack(err)
		},
	}
}

func newCallCmd(root *rootFlags) *cobra.Command {
	var returns string
	var goSyntax bool

	cmd := &cobra.Command{
		Use:   "call <address> <signature> [args]",
		Short: "Call a read-only contract function via eth_call",
		Long: `Calls a "view" or "pure" contract function at the latest block. Arguments are
given as a JSON array matching the signature's parameters. Output types are
given with "--returns", as a single type or a parenthesized list.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.Rpc == `` {
				return errors.Errorf(`must specify "--rpc" or $%v`, envRpc)
			}

			to, err := ethabi.ParseAddress(args[0])
			if err != nil {
				return errors.Wrapf(err, `invalid contract address %q`, args[0])
			}

			fun, err := ethabi.FunctionFromSignature(args[1], returns)
			if err != nil {
				return err
			}

			input := `[]`
			if len(args) > 2 {
				input = args[2]
			}
			argsVal, err := fun.InputType().CoerceJSON([]byte(input))
			if err != nil {
				return errors.Wrapf(err, `invalid arguments for %v`, fun.Signature)
			}

			trans, err := ethabi.Dial(root.Rpc, ethabi.Logger())
			if err != nil {
				return err
			}
			if closer, ok := trans.(io.Closer); ok {
				defer closer.Close()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), root.Timeout)
			defer cancel()

			out, err := ethabi.CallFunction(ctx, trans, nil, to, fun, argsVal.Elems...)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), out, goSyntax)
		},
	}

	cmd.Flags().StringVar(&returns, "returns", "", "output types, such as uint256 or (address,bool)")
	cmd.Flags().BoolVar(&goSyntax, "go", false, "print the value as a Go literal")
	return cmd
}

func printValue(out io.Writer, val ethabi.DynSolValue, goSyntax bool) error {
	if goSyntax {
		return printLine(out, repr.String(val))
	}
	encoded, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	return printLine(out, string(encoded))
}

func printLine(out io.Writer, line string) error {
	_, err := fmt.Fprintln(out, line)
	return errors.WithStack(err)
}
