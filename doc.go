/*
Ethereum contract ABI encoding and decoding for Go programs, with a small RPC
layer for calling contracts and reading their logs.

Features:

	* Ethereum types with hex text and JSON encoding

	* statically typed tokens for ABI encoding and decoding without reflection

	* runtime-typed values and type descriptors parsed from Solidity type
	  strings or JSON ABI definitions

	* strict decoding with a "validate" mode that rejects non-canonical input

	* RPC transports and strongly-typed "eth_call" and "eth_getLogs"

	* CLI tool for encoding, decoding, calling contracts and generating Go code
	  from Solidity contracts, see the "eth_abi" subpackage

Wire format

The ABI specification is at https://docs.soliditylang.org/en/latest/abi-spec.html.
Every encoding is a sequence of 32-byte words. Each value has a head and an
optional tail. Static values live entirely in the head. Dynamic values (bytes,
string, T[], and any sequence containing one) have a one-word head holding the
offset of their tail, relative to the start of the enclosing sequence.

Encoding and decoding of a single value wraps it in an implicit 1-tuple. The
"params" variants treat a tuple as a flat list of function parameters.

Tokens

The static layer is a closed set of token types, each a node in the encoding
tree: WordToken, PackedSeqToken (bytes and string), FixedSeqToken (T[N]),
DynSeqToken (T[]) and TupleToken. Build a token tree, then use "Encode" or
"Decode":

	var out ethabi.TupleToken
	out.Members = []ethabi.Token{new(ethabi.WordToken), new(ethabi.PackedSeqToken)}
	err := ethabi.Decode(data, &out, true)

Dynamic values

When types are only known at runtime, use DynSolType and DynSolValue:

	typ := ethabi.MustParseType(`(address,uint256[])`)
	encoded, err := typ.Encode(ethabi.TupleValue(
		ethabi.AddressValue(someAddress),
		ethabi.ArrayValue(ethabi.UintValueFrom64(1, 256), ethabi.UintValueFrom64(2, 256)),
	))
	decoded, err := typ.Decode(encoded, true)

Validation

Decoding is always bounds-checked: a length or offset pointing outside of the
input is an Overrun error, never a panic or a huge allocation. With "validate",
decoding additionally requires canonical input: zero padding, clean bits in
narrow integers, addresses and booleans, no trailing data, and a re-encoding
that matches the input byte for byte. Use "IsKind" or "errors.Is" with the
"Err*" sentinels to inspect errors.

Contracts

"Abi" decodes JSON ABI definitions produced by a Solidity compiler, resolving
parameter types and precomputing selectors and event topics:

	method := MyContractAbi.Function("balanceOf")

	output, err := ethabi.CallFunction(
		context.TODO(),
		myRpcTransport,
		MyContractAbi,
		MyContractAddress,
		method,
		ethabi.AddressValue(someAddress),
	)

A reverted call returns the decoded "Revert" as the error, wrapped.

RPC

Connect to an Ethereum node:

	myRpcTransport, err := ethabi.Dial("wss://some-host:8546", nil)

Supported transports: HTTP and WebSocket. The WebSocket transport reconnects
automatically. All network operations accept a context.Context as the first
argument; use it for cancelation.

Logging

The package logs through "go.uber.org/zap". It's silent by default; see
"SetLogger".
*/
package ethabi
