package ethabi

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Strongly-typed version of the "eth_blockNumber" RPC method.
func EthBlockNumber(ctx context.Context, trans Trans) (*big.Int, error) {
	var out HexInt
	err := trans.Call(ctx, &out, "eth_blockNumber")
	return (*big.Int)(&out), errors.Wrap(err, `error in "eth_blockNumber"`)
}

// Strongly-typed version of the "eth_getLogs" RPC method.
func EthGetLogs(ctx context.Context, trans Trans, filter LogFilter) ([]LogEntry, error) {
	filter.FromBlock = blockNumberParam(filter.FromBlock)
	filter.ToBlock = blockNumberParam(filter.ToBlock)

	var out []LogEntry
	err := trans.Call(ctx, &out, "eth_getLogs", filter)
	return out, errors.Wrap(err, `error in "eth_getLogs"`)
}

/*
Strongly-typed version of the "eth_call" RPC method.

Invokes a "view" or "pure" contract method. In other words, a read-only method
that doesn't create a new transaction. The caller must ABI-encode the
"TxMsg.Data" payload and ABI-decode the output. See "CallFunction", which does
both.
*/
func EthCall(ctx context.Context, trans Trans, msg TxMsg, blockNumber BlockNumber) ([]byte, error) {
	var out HexBytes
	err := trans.Call(ctx, &out, "eth_call", msg, blockNumberParam(blockNumber))
	return out, errors.Wrap(err, `error in "eth_call"`)
}

// Same as "EthCall", but always uses the latest block number.
func EthCallLatest(ctx context.Context, trans Trans, msg TxMsg) ([]byte, error) {
	return EthCall(ctx, trans, msg, BlockNumberLatest)
}

// Numbers are hex-encoded on the wire. Magic strings and nil pass through.
func blockNumberParam(num BlockNumber) BlockNumber {
	switch num := num.(type) {
	case uint64:
		return HexUint64(num)
	case int:
		return HexUint64(num)
	case *big.Int:
		return (*HexInt)(num)
	default:
		return num
	}
}

/*
Calls a read-only contract function at the latest block: encodes the arguments
with the function's selector, performs "eth_call" and decodes the return data
into a tuple of the output types, with validation.

When the node reports a revert with a payload, returns the decoded "Revert" as
the error (wrapped), if it could be decoded with the given ABI's errors or the
built-in ones.
*/
func CallFunction(
	ctx context.Context, trans Trans, abi Abi, to Address, fun AbiFunction, args ...DynSolValue,
) (DynSolValue, error) {
	input, err := fun.EncodeInput(args...)
	if err != nil {
		return DynSolValue{}, err
	}

	output, err := EthCallLatest(ctx, trans, TxMsg{To: to, Data: input})
	if err != nil {
		var rpcErr RpcError
		if errors.As(err, &rpcErr) {
			if data, ok := rpcErr.RevertData(); ok {
				revert, revertErr := abi.DecodeRevert(data, false)
				if revertErr == nil {
					return DynSolValue{}, errors.Wrapf(revert, `failed to call %v`, fun.Signature)
				}
				Logger().Debug(`undecodable revert payload`,
					zap.String(`function`, fun.Signature), zap.Error(revertErr))
			}
		}
		return DynSolValue{}, err
	}

	out, err := fun.DecodeOutput(output, true)
	if err != nil {
		return DynSolValue{}, errors.Wrapf(err, `failed to decode output of %v`, fun.Signature)
	}
	return out, nil
}

// Log entry together with its decoded event parameters.
type DecodedLog struct {
	Entry LogEntry
	Args  DynSolValue
}

/*
Fetches the logs of the given event, optionally constrained by the leading
indexed parameters (see "AbiEvent.EncodeTopics"), and decodes each of them.
The filter's topics are replaced.
*/
func FilterEvents(
	ctx context.Context, trans Trans, filter LogFilter, event AbiEvent, indexed ...DynSolValue,
) ([]DecodedLog, error) {
	topics, err := event.EncodeTopics(indexed...)
	if err != nil {
		return nil, err
	}
	filter.Topics = topics

	entries, err := EthGetLogs(ctx, trans, filter)
	if err != nil {
		return nil, err
	}

	out := make([]DecodedLog, 0, len(entries))
	for _, entry := range entries {
		args, err := event.DecodeLog(entry, false)
		if err != nil {
			return nil, errors.Wrapf(err, `failed to decode log %v of transaction %v`,
				uint64(entry.LogIndex), entry.TransactionHash)
		}
		out = append(out, DecodedLog{Entry: entry, Args: args})
	}
	return out, nil
}
