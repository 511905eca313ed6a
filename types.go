package ethabi

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var null = []byte{'n', 'u', 'l', 'l'}

// Version of "[]byte" that uses "0x"-prefixed hex encoding and decoding.
type HexBytes []byte

/*
Decodes the provided string. Zero-length input is ok. Otherwise, it must be
prefixed with "0x".
*/
func ParseHexBytes(input string) (HexBytes, error) {
	var out HexBytes
	err := out.UnmarshalText(stringToBytesUnsafe(input))
	return out, err
}

/*
Version of "ParseHexBytes" that panics on error. Convenient for initializing
global variables and test fixtures.
*/
func MustParseHexBytes(input string) HexBytes {
	out, err := ParseHexBytes(input)
	if err != nil {
		panic(err)
	}
	return out
}

// Implements "encoding.TextMarshaler". Uses hex encoding prefixed with "0x".
func (self HexBytes) MarshalText() ([]byte, error) {
	return HexEncode([]byte(self)), nil
}

/*
Implements "encoding.TextUnmarshaler". Empty input is ok. Otherwise, it must be
prefixed with "0x".
*/
func (self *HexBytes) UnmarshalText(input []byte) error {
	out, err := HexDecode(input)
	if err != nil {
		return err
	}
	*self = HexBytes(out)
	return nil
}

/*
Implements "json.Marshaler". A zero-length value encodes as "null". Otherwise,
it encodes as a hex string, prefixed with "0x".
*/
func (self HexBytes) MarshalJSON() ([]byte, error) {
	if len(self) == 0 {
		return null, nil
	}
	return hexEncodeQuoted(self), nil
}

// Implements "fmt.Stringer". Follows the same rules as "MarshalText".
func (self HexBytes) String() string {
	return bytesToMutableString(HexEncode([]byte(self)))
}

// Version of `big.Int` that encodes/decodes in base 16 with the "0x" prefix.
type HexInt big.Int

// Implements "encoding.TextMarshaler". Uses hex encoding prefixed with "0x".
func (self *HexInt) MarshalText() ([]byte, error) {
	out := make([]byte, 0, 16)
	out = append(out, '0', 'x')
	return (*big.Int)(self).Append(out, 16), nil
}

/*
Implements "encoding.TextUnmarshaler". The input must be in base 16, prefixed
with "0x".
*/
func (self *HexInt) UnmarshalText(input []byte) error {
	input, err := drop0x(input)
	if err != nil {
		return err
	}

	_, ok := (*big.Int)(self).SetString(bytesToMutableString(input), 16)
	if !ok {
		return errors.Errorf("failed to decode %q as a hex integer", input)
	}
	return nil
}

// Version of `uint64` that encodes/decodes in base 16 with the "0x" prefix.
type HexUint64 uint64

// Implements "encoding.TextMarshaler". Uses hex encoding prefixed with "0x".
func (self HexUint64) MarshalText() ([]byte, error) {
	return strconv.AppendUint([]byte("0x"), uint64(self), 16), nil
}

// Implements "encoding.TextUnmarshaler". The input must be prefixed with "0x".
func (self *HexUint64) UnmarshalText(input []byte) error {
	input, err := drop0x(input)
	if err != nil {
		return err
	}
	num, err := strconv.ParseUint(bytesToMutableString(input), 16, 64)
	if err != nil {
		return errors.WithStack(err)
	}
	*self = HexUint64(num)
	return nil
}

/*
Compact representation of an Ethereum address. Uses hex-encoding and
hex-decoding with the mandatory "0x" prefix.

To avoid gotchas, a zero-initialized Address{} JSON-encodes as "null" and
text-encodes as "".
*/
type Address [20]byte

/*
Decodes the provided string. Zero-length input is ok. Otherwise, it must be
prefixed with "0x".
*/
func ParseAddress(input string) (Address, error) {
	var out Address
	err := out.UnmarshalText(stringToBytesUnsafe(input))
	return out, err
}

/*
Version of "ParseAddress" that panics on error. Convenient for initializing
global variables.
*/
func MustParseAddress(input string) Address {
	out, err := ParseAddress(input)
	if err != nil {
		panic(err)
	}
	return out
}

/*
Implements "encoding.TextMarshaler". A zero-initialized value encodes as "",
otherwise uses hex encoding prefixed with "0x".
*/
func (self Address) MarshalText() ([]byte, error) {
	if self == ZeroAddress {
		return nil, nil
	}
	return HexEncode(self[:]), nil
}

/*
Implements "encoding.TextUnmarshaler". Empty input is ok. Otherwise, it must be
prefixed with "0x".
*/
func (self *Address) UnmarshalText(input []byte) error {
	if len(input) == 0 {
		*self = Address{}
		return nil
	}
	return HexDecodeTo(self[:], input)
}

/*
Implements "json.Marshaler". A zero-initialized value encodes as "null".
Otherwise, it encodes as a hex string, prefixed with "0x".
*/
func (self Address) MarshalJSON() ([]byte, error) {
	if self == ZeroAddress {
		return null, nil
	}
	return hexEncodeQuoted(self[:]), nil
}

/*
Implements "fmt.Stringer". Uses hex encoding prefixed with "0x". Unlike
"MarshalText" and "MarshalJSON", doesn't have special rules for zero-initialized
values.
*/
func (self Address) String() string {
	return bytesToMutableString(HexEncode(self[:]))
}

// ABI representation: zero-padded on the left.
func (self Address) Word() Word {
	var out Word
	copy(out[len(out)-len(self):], self[:])
	return out
}

/*
A Word represents the standard memory granularity of the EVM: 32 bytes of
arbitrary content. Every ABI-encoded value occupies one or more words: numbers,
addresses and booleans are right-aligned, fixed-size byte arrays are
left-aligned, and the remaining bytes are zero.

Uses the 0x-prefixed hex notation for encoding and decoding. An empty Word{}
will text-encode as "" and JSON-encode as `null` rather than
"0x0000000000000000000000000000000000000000000000000000000000000000".
*/
type Word [32]byte

/*
Decodes the provided string. Zero-length input is ok. Otherwise, it must be
prefixed with "0x".
*/
func ParseWord(input string) (Word, error) {
	var out Word
	err := out.UnmarshalText(stringToBytesUnsafe(input))
	return out, err
}

/*
Version of "ParseWord" that panics on error. Convenient for initializing global
variables.
*/
func MustParseWord(input string) Word {
	out, err := ParseWord(input)
	if err != nil {
		panic(err)
	}
	return out
}

// Copies up to 32 bytes into a word, left-aligned. Longer input is truncated.
func LeftAlignedWord(input []byte) Word {
	var out Word
	copy(out[:], input)
	return out
}

// ABI representation of a boolean.
func BoolWord(val bool) Word {
	var out Word
	if val {
		out[len(out)-1] = 1
	}
	return out
}

// ABI representation of an unsigned or two's complement integer.
func Uint256Word(num *uint256.Int) Word {
	return Word(num.Bytes32())
}

// Interprets the word as a right-aligned address, ignoring the upper 12 bytes.
func (self Word) Address() Address {
	var out Address
	copy(out[:], self[len(self)-len(out):])
	return out
}

// Interprets the word as a boolean. Any non-zero byte counts as true.
func (self Word) Bool() bool {
	return self != ZeroWord
}

// Interprets the word as a 256-bit big-endian integer.
func (self Word) Uint256() *uint256.Int {
	return new(uint256.Int).SetBytes32(self[:])
}

/*
Implements "encoding.TextMarshaler". A zero-initialized value encodes as "",
otherwise uses hex encoding prefixed with "0x".
*/
func (self Word) MarshalText() ([]byte, error) {
	if self == ZeroWord {
		return nil, nil
	}
	return HexEncode(self[:]), nil
}

/*
Implements "encoding.TextUnmarshaler". Empty input is ok. Otherwise, it must be
prefixed with "0x".
*/
func (self *Word) UnmarshalText(input []byte) error {
	if len(input) == 0 {
		*self = Word{}
		return nil
	}
	return HexDecodeTo(self[:], input)
}

/*
Implements "json.Marshaler". A zero-initialized value encodes as "null".
Otherwise, it encodes as a hex string, prefixed with "0x".
*/
func (self Word) MarshalJSON() ([]byte, error) {
	if self == ZeroWord {
		return null, nil
	}
	return hexEncodeQuoted(self[:]), nil
}

// Implements "fmt.Stringer". Always hex-encodes, even a zero word.
func (self Word) String() string {
	return bytesToMutableString(HexEncode(self[:]))
}

/*
Usually represents a Keccak256 digest: a function or event signature hash, or
the topic of an indexed dynamic event parameter.

Shares structure and encoding with Word, but a Word is not assumed to be a
hash.
*/
type Hash [32]byte

// Implements "encoding.TextMarshaler". Same rules as for Word.
func (self Hash) MarshalText() ([]byte, error) { return Word(self).MarshalText() }

// Implements "encoding.TextUnmarshaler". Same rules as for Word.
func (self *Hash) UnmarshalText(input []byte) error { return (*Word)(self).UnmarshalText(input) }

// Implements "json.Marshaler". Same rules as for Word.
func (self Hash) MarshalJSON() ([]byte, error) { return Word(self).MarshalJSON() }

// Implements "fmt.Stringer". Same rules as for Word.
func (self Hash) String() string { return Word(self).String() }

/*
Solidity "function" type: a 20-byte address followed by a 4-byte selector. ABI
encodes as "bytes24", left-aligned.
*/
type Function [24]byte

// Combines an address and a selector.
func MakeFunction(addr Address, selector [4]byte) Function {
	var out Function
	copy(out[:20], addr[:])
	copy(out[20:], selector[:])
	return out
}

// Contract address part.
func (self Function) Address() Address {
	var out Address
	copy(out[:], self[:20])
	return out
}

// Selector part.
func (self Function) Selector() [4]byte {
	var out [4]byte
	copy(out[:], self[20:])
	return out
}

type either struct {
	val []byte
	err error
}

// https://www.jsonrpc.org/specification#request_object
type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	Id      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// https://www.jsonrpc.org/specification#response_object
type rpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	Id      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RpcError       `json:"error"`
}

/*
Represents an error that arrives over JSON RPC. See
https://www.jsonrpc.org/specification#error_object for details.

Nodes report contract reverts with code 3 and the ABI-encoded revert payload in
"Data". See "Abi.DecodeRevert".
*/
type RpcError struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Implements "error". Includes the RPC error details if possible.
func (self RpcError) Error() string {
	str := "RPC error " + strconv.FormatInt(self.Code, 10) + ": " + self.Message
	if len(self.Data) > 0 {
		str += " Additional details: " + string(self.Data)
	}
	return str
}

// Attempts to interpret "Data" as a hex-encoded revert payload.
func (self RpcError) RevertData() (HexBytes, bool) {
	var out HexBytes
	err := json.Unmarshal(self.Data, &out)
	if err != nil || len(out) < 4 {
		return nil, false
	}
	return out, true
}

/*
Represents the input to a non-mutating contract call or an Ethereum
transaction. Passed to "EthCall".
*/
type TxMsg struct {
	From     Address  `json:"from,omitempty"`
	To       Address  `json:"to"`
	Data     HexBytes `json:"data"`
	Value    *HexInt  `json:"value,omitempty"`
	GasPrice *HexInt  `json:"gasPrice,omitempty"`
	GasLimit *HexInt  `json:"gas,omitempty"`
}

/*
A log entry, typically obtained via "EthGetLogs" and decoded via
"AbiEvent.DecodeLog".
*/
type LogEntry struct {
	Address          Address   `json:"address"`
	Topics           []Word    `json:"topics"`
	Data             HexBytes  `json:"data"`
	BlockHash        Hash      `json:"blockHash"`
	BlockNumber      HexUint64 `json:"blockNumber"`
	TransactionHash  Hash      `json:"transactionHash"`
	TransactionIndex HexUint64 `json:"transactionIndex"`
	LogIndex         HexUint64 `json:"logIndex"`
	Removed          bool      `json:"removed"`
}

/*
Stand-in for anything representing a block number. Makes the signatures of
RPC functions more readable.

RPC methods accept block numbers in several formats: a hex-encoded number, or
the magic strings "earliest", "latest", "pending". See the "BlockNumberX"
constants.
*/
type BlockNumber interface{}

/*
LogFilter is passed to "EthGetLogs".

"Topics" represent indexed event parameters. Position 0 is the event topic, see
"AbiEvent.Topic". For a static parameter, a topic is its ABI-encoded word. For a
dynamic parameter, it's the Keccak256 hash of its packed encoding, see
"AbiEvent.EncodeTopics".
*/
type LogFilter struct {
	FromBlock BlockNumber `json:"fromBlock,omitempty"`
	ToBlock   BlockNumber `json:"toBlock,omitempty"`
	Address   []Address   `json:"address,omitempty"`
	Topics    [][]Word    `json:"topics,omitempty"`
}
