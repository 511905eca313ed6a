package ethabi

/*
See https://docs.soliditylang.org/en/latest/abi-spec.html
*/

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

/*
Decodes output from a Solidity compiler. Expects JSON produced by the following
incantation:

	solc --combined-json=abi,bin --optimize

Maps contract identifiers to decoded "ContractDef" values. Each identifier has
the form "filePath:contractName".

Note: the "eth_abi gen" command wraps this into generated Go code.
*/
func ReadContractDefs(src io.Reader) (map[string]ContractDef, error) {
	var input struct {
		Contracts map[string]struct {
			Abi json.RawMessage
			Bin string
		}
	}

	err := json.NewDecoder(src).Decode(&input)
	if err != nil {
		return nil, errors.Wrap(err, `failed to read Solidity output`)
	}

	out := make(map[string]ContractDef, len(input.Contracts))
	for name, inp := range input.Contracts {
		path := strings.SplitN(name, ":", 2)
		if len(path) != 2 {
			return nil, errors.Errorf(`malformed contract identifier %q`, name)
		}

		// Older solc versions emit the ABI as a JSON string, newer ones inline.
		abiJson := []byte(inp.Abi)
		var str string
		if json.Unmarshal(inp.Abi, &str) == nil {
			abiJson = []byte(str)
		}

		def := ContractDef{
			FileName:     path[0],
			ContractName: path[1],
			AbiJson:      string(abiJson),
		}

		err := json.Unmarshal(abiJson, &def.Abi)
		if err != nil {
			return nil, errors.Wrapf(err, `failed to decode ABI of %v`, name)
		}

		code, err := hex.DecodeString(strings.TrimPrefix(inp.Bin, `0x`))
		if err != nil {
			return nil, errors.Wrapf(err, `failed to decode bytecode of %v`, name)
		}
		def.Code = HexBytes(code)

		out[name] = def
	}

	return out, nil
}

// Decodes output from a Solidity compiler. See ReadContractDefs for details.
func DecodeContractDefs(input []byte) (map[string]ContractDef, error) {
	return ReadContractDefs(bytes.NewReader(input))
}

/*
A structure representing the output of a Solidity compiler for a single
contract. See "ReadContractDefs" for details.
*/
type ContractDef struct {
	FileName     string
	ContractName string
	Abi          Abi
	AbiJson      string
	Code         HexBytes
}

/*
Abi represents the function, event and error definitions of a Solidity
contract, parsed from JSON produced by a Solidity compiler. Parameter types
are resolved into DynSolType on parsing, and selectors and topics are
precomputed, so an Abi is ready for encoding and decoding.

See the "AbiMethod" definition.
*/
type Abi []AbiMethod

/*
^^^
Implementation note. Defining this type as a slice of definitions is
conceptually simple and corresponds 1-to-1 to the JSON, allowing reversible
deserialization and serialization. The downside is that lookups by name loop
through the slice. Pre-built lookup maps would be faster, but lookups are
dominated by the costs of ABI encoding and decoding.
*/

/*
Parses an ABI definition. The input must be JSON from a Solidity compiler.
Panics on failure. Convenient for initializing global variables on startup:

	var TokenAbi = ethabi.MustParseAbiJson(`[{"name": "transfer", "type": "function", "inputs": [...]}]`)
*/
func MustParseAbiJson(input string) Abi {
	var abi Abi
	err := abi.UnmarshalJSON(stringToBytesUnsafe(input))
	if err != nil {
		panic(err)
	}
	return abi
}

// Attempts to find the constructor definition. Boolean indicates success or failure.
func (self Abi) MaybeConstructor() (AbiConstructor, bool) {
	for _, entry := range self {
		switch entry := entry.(type) {
		case AbiConstructor:
			return entry, true
		}
	}
	return AbiConstructor{}, false
}

// Returns the constructor definition. Panics if the constructor is not present.
func (self Abi) Constructor() AbiConstructor {
	out, ok := self.MaybeConstructor()
	if !ok {
		panic("constructor not found in ABI definition")
	}
	return out
}

// Attempts to find the function by name. Boolean indicates success or failure.
func (self Abi) MaybeFunction(name string) (AbiFunction, bool) {
	for _, entry := range self {
		switch entry := entry.(type) {
		case AbiFunction:
			if entry.Name == name {
				return entry, true
			}
		}
	}
	return AbiFunction{}, false
}

// Finds the function by name. Panics if not found.
func (self Abi) Function(name string) AbiFunction {
	out, ok := self.MaybeFunction(name)
	if !ok {
		panic(fmt.Sprintf("function %v not found in ABI definition", name))
	}
	return out
}

// Finds the function whose selector starts the calldata.
func (self Abi) FunctionBySelector(selector [4]byte) (AbiFunction, bool) {
	for _, entry := range self {
		switch entry := entry.(type) {
		case AbiFunction:
			if entry.Selector == selector && entry.Name != `` {
				return entry, true
			}
		}
	}
	return AbiFunction{}, false
}

// Attempts to find the event by name. Boolean indicates success or failure.
func (self Abi) MaybeEvent(name string) (AbiEvent, bool) {
	for _, entry := range self {
		switch entry := entry.(type) {
		case AbiEvent:
			if entry.Name == name {
				return entry, true
			}
		}
	}
	return AbiEvent{}, false
}

// Finds the event by name. Panics if not found.
func (self Abi) Event(name string) AbiEvent {
	out, ok := self.MaybeEvent(name)
	if !ok {
		panic(fmt.Sprintf("event %v not found in ABI definition", name))
	}
	return out
}

// Finds the non-anonymous event whose topic is the first topic of a log entry.
func (self Abi) EventByTopic(topic Word) (AbiEvent, bool) {
	for _, entry := range self {
		switch entry := entry.(type) {
		case AbiEvent:
			if !entry.Anonymous && Word(entry.Topic) == topic {
				return entry, true
			}
		}
	}
	return AbiEvent{}, false
}

// Attempts to find the custom error by name. Boolean indicates success or failure.
func (self Abi) MaybeCustomError(name string) (AbiError, bool) {
	for _, entry := range self {
		switch entry := entry.(type) {
		case AbiError:
			if entry.Name == name {
				return entry, true
			}
		}
	}
	return AbiError{}, false
}

// Finds the custom error by name. Panics if not found.
func (self Abi) CustomError(name string) AbiError {
	out, ok := self.MaybeCustomError(name)
	if !ok {
		panic(fmt.Sprintf("error %v not found in ABI definition", name))
	}
	return out
}

/*
Decodes the payload of a reverted call. Recognizes the custom errors of this
ABI and the built-in "Error(string)" and "Panic(uint256)".
*/
func (self Abi) DecodeRevert(data []byte, validate bool) (Revert, error) {
	if len(data) < 4 {
		return Revert{}, errOverrun(`revert payload of %d bytes has no selector`, len(data))
	}
	var selector [4]byte
	copy(selector[:], data)

	for _, entry := range self {
		switch entry := entry.(type) {
		case AbiError:
			if entry.Selector == selector {
				return entry.DecodeRevert(data, validate)
			}
		}
	}
	return DecodeRevert(data, validate)
}

/*
Implements "json.Unmarshaler". Decodes a JSON ABI definition produced by a
Solidity compiler. Automatically selects the appropriate data structures for
constructors, functions, events and errors, based on their type.
*/
func (self *Abi) UnmarshalJSON(input []byte) error {
	var chunks []json.RawMessage

	err := json.Unmarshal(input, &chunks)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, chunk := range chunks {
		val, err := unmarshalAbiMethod(chunk)
		if err != nil {
			return err
		}
		*self = append(*self, val)
	}
	return nil
}

func unmarshalAbiMethod(input []byte) (AbiMethod, error) {
	var tag struct{ Type string }

	err := json.Unmarshal(input, &tag)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var out AbiMethod
	switch tag.Type {
	case "constructor":
		var val AbiConstructor
		err = json.Unmarshal(input, &val)
		out = val
	case "function", "fallback", "receive", "":
		var val AbiFunction
		err = json.Unmarshal(input, &val)
		out = val
	case "event":
		var val AbiEvent
		err = json.Unmarshal(input, &val)
		out = val
	case "error":
		var val AbiError
		err = json.Unmarshal(input, &val)
		out = val
	default:
		return nil, errors.Errorf("unknown ABI type: %v", tag.Type)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return out, nil
}

/*
Represents one of several possible ABI definitions. Possible types:

	AbiConstructor
	AbiFunction
	AbiEvent
	AbiError
*/
type AbiMethod interface{}

// Represents a contract constructor.
type AbiConstructor struct {
	Type            string     `json:"type"` // "constructor"
	Name            string     `json:"name"` // ""
	Inputs          []AbiParam `json:"inputs"`
	Payable         bool       `json:"payable"`
	StateMutability string     `json:"stateMutability"`
}

/*
ABI-encodes the constructor arguments and appends them to the contract's
bytecode. The result is the payload of a deployment transaction.
*/
func (self AbiConstructor) EncodeDeploy(code []byte, args ...DynSolValue) ([]byte, error) {
	encoded, err := encodeArgs(self.Inputs, args)
	if err != nil {
		return nil, errors.Wrap(err, `failed to encode constructor arguments`)
	}
	out := make([]byte, 0, len(code)+len(encoded))
	out = append(out, code...)
	return append(out, encoded...), nil
}

/*
Represents a contract function. Useful for ABI-encoding arguments and
ABI-decoding return values. Usually obtained via "Abi.Function()". Fallback
and receive functions are represented with an empty name and no parameters.
*/
type AbiFunction struct {
	Type            string     `json:"type"` // "function" | "fallback" | "receive" | ""
	Name            string     `json:"name"`
	Constant        bool       `json:"constant"`
	Inputs          []AbiParam `json:"inputs"`
	Outputs         []AbiParam `json:"outputs"`
	Payable         bool       `json:"payable"`
	StateMutability string     `json:"stateMutability"`
	Signature       string     `json:"-"`
	Selector        [4]byte    `json:"-"`
}

/*
Implements "json.Unmarshaler". In addition to parsing the JSON structure, this
precomputes the function's ".Signature" and ".Selector".
*/
func (self *AbiFunction) UnmarshalJSON(input []byte) error {
	var plain struct {
		Type            string
		Name            string
		Constant        bool
		Inputs          []AbiParam
		Outputs         []AbiParam
		Payable         bool
		StateMutability string
	}

	err := json.Unmarshal(input, &plain)
	if err != nil {
		return err
	}

	sig := Signature(plain.Name, plain.Inputs)
	*self = AbiFunction{
		Type:            plain.Type,
		Name:            plain.Name,
		Constant:        plain.Constant,
		Inputs:          plain.Inputs,
		Outputs:         plain.Outputs,
		Payable:         plain.Payable,
		StateMutability: plain.StateMutability,
		Signature:       sig,
		Selector:        Selector(sig),
	}
	return nil
}

// Tuple of the input types.
func (self AbiFunction) InputType() DynSolType { return ParamsType(self.Inputs) }

// Tuple of the output types.
func (self AbiFunction) OutputType() DynSolType { return ParamsType(self.Outputs) }

/*
ABI-encodes the arguments, which must exactly match this function's parameter
types, and prepends the function's ".Selector". The result should be used as a
transaction payload, i.e. "TxMsg.Data". Returns a KindTypeMismatch error in
case of arity or type mismatch.
*/
func (self AbiFunction) EncodeInput(args ...DynSolValue) ([]byte, error) {
	encoded, err := encodeArgs(self.Inputs, args)
	if err != nil {
		return nil, errors.Wrapf(err, `failed to encode arguments of %v`, self.Signature)
	}
	out := make([]byte, 0, len(self.Selector)+len(encoded))
	out = append(out, self.Selector[:]...)
	return append(out, encoded...), nil
}

/*
Decodes calldata produced by "EncodeInput": checks the selector and decodes
the arguments as a tuple.
*/
func (self AbiFunction) DecodeInput(data []byte, validate bool) (DynSolValue, error) {
	if len(data) < len(self.Selector) {
		return DynSolValue{}, errOverrun(`calldata of %d bytes has no selector`, len(data))
	}
	if !bytes.Equal(data[:len(self.Selector)], self.Selector[:]) {
		return DynSolValue{}, errInvalidData(`calldata selector 0x%x doesn't match %v`,
			data[:len(self.Selector)], self.Signature)
	}
	return self.InputType().DecodeParams(data[len(self.Selector):], validate)
}

// Decodes return data into a tuple of the output types.
func (self AbiFunction) DecodeOutput(data []byte, validate bool) (DynSolValue, error) {
	return self.OutputType().DecodeParams(data, validate)
}

/*
Represents a contract event. Useful for filtering and decoding event logs.
Usually obtained via "Abi.Event()".
*/
type AbiEvent struct {
	Type             string     `json:"type"` // "event"
	Name             string     `json:"name"`
	Inputs           []AbiParam `json:"inputs"`
	Anonymous        bool       `json:"anonymous"`
	Signature        string     `json:"-"`
	Topic            Hash       `json:"-"`
	IndexedInputs    []AbiParam `json:"-"`
	NonIndexedInputs []AbiParam `json:"-"`
}

/*
Implements "json.Unmarshaler". In addition to parsing the JSON structure, this
precomputes the event's ".Topic", which is used for filtering logs.
*/
func (self *AbiEvent) UnmarshalJSON(input []byte) error {
	var plain struct {
		Type      string
		Name      string
		Inputs    []AbiParam
		Anonymous bool
	}

	err := json.Unmarshal(input, &plain)
	if err != nil {
		return err
	}

	var indexed []AbiParam
	var nonIndexed []AbiParam
	for _, param := range plain.Inputs {
		if param.Indexed {
			indexed = append(indexed, param)
		} else {
			nonIndexed = append(nonIndexed, param)
		}
	}

	sig := Signature(plain.Name, plain.Inputs)
	*self = AbiEvent{
		Type:             plain.Type,
		Name:             plain.Name,
		Inputs:           plain.Inputs,
		Anonymous:        plain.Anonymous,
		Signature:        sig,
		Topic:            Keccak256([]byte(sig)),
		IndexedInputs:    indexed,
		NonIndexedInputs: nonIndexed,
	}
	return nil
}

/*
Decodes event parameters from the log entry into a tuple, in declaration
order. Log entries are usually obtained via "EthGetLogs".

Indexed and non-indexed parameters are stored separately. Non-indexed
parameters are encoded as their own tuple in "Data", as if the others didn't
exist. Each indexed parameter occupies one topic: word types are stored as
their ABI word, other types as the Keccak256 hash of their encoding. Since
hashing loses information, indexed parameters of non-word types are returned
as "bytes32" values holding the hash.
*/
func (self AbiEvent) DecodeLog(entry LogEntry, validate bool) (DynSolValue, error) {
	topics := entry.Topics
	if !self.Anonymous {
		if len(topics) == 0 || topics[0] != Word(self.Topic) {
			return DynSolValue{}, errInvalidData(`log entry doesn't contain event %v`, self.Signature)
		}
		topics = topics[1:]
	}

	if len(topics) != len(self.IndexedInputs) {
		return DynSolValue{}, errInvalidData(`event %v expects %d indexed parameters, found %d topics`,
			self.Signature, len(self.IndexedInputs), len(topics))
	}

	data, err := ParamsType(self.NonIndexedInputs).DecodeParams(entry.Data, validate)
	if err != nil {
		return DynSolValue{}, errors.Wrapf(err, `failed to decode data of event %v`, self.Signature)
	}

	out := make([]DynSolValue, 0, len(self.Inputs))
	var topicIndex, dataIndex int
	for _, param := range self.Inputs {
		if !param.Indexed {
			out = append(out, data.Elems[dataIndex])
			dataIndex++
			continue
		}

		topic := topics[topicIndex]
		topicIndex++

		if !param.SolType.Kind.IsWord() {
			out = append(out, FixedBytesValue(topic, WordLen))
			continue
		}

		val, err := param.SolType.Decode(topic[:], validate)
		if err != nil {
			return DynSolValue{}, errors.Wrapf(err, `failed to decode indexed parameter %q of event %v`,
				param.Name, self.Signature)
		}
		out = append(out, val)
	}
	return TupleValue(out...), nil
}

/*
Builds the topics for filtering logs of this event, see "LogFilter.Topics".
The values are for the leading indexed parameters, in order; fewer values than
indexed parameters leave the rest unconstrained. Non-anonymous events start
with the event topic.
*/
func (self AbiEvent) EncodeTopics(indexed ...DynSolValue) ([][]Word, error) {
	if len(indexed) > len(self.IndexedInputs) {
		return nil, errTypeMismatch(`event %v has %d indexed parameters, got %d values`,
			self.Signature, len(self.IndexedInputs), len(indexed))
	}

	var out [][]Word
	if !self.Anonymous {
		out = append(out, []Word{Word(self.Topic)})
	}

	for i, val := range indexed {
		param := self.IndexedInputs[i]
		if !param.SolType.Matches(val) {
			return nil, errors.Wrapf(param.SolType.mismatch(val), `indexed parameter %q`, param.Name)
		}

		topic, err := EncodeTopic(val)
		if err != nil {
			return nil, errors.Wrapf(err, `indexed parameter %q`, param.Name)
		}
		out = append(out, []Word{topic})
	}
	return out, nil
}

// Topic of an indexed event parameter. See "DynSolValue.TopicPreimage".
func EncodeTopic(val DynSolValue) (Word, error) {
	preimage, err := val.TopicPreimage()
	if err != nil {
		return Word{}, err
	}
	if val.Kind.IsWord() {
		return Word(preimage), nil
	}
	return Word(Keccak256(preimage)), nil
}

// Represents a custom error: the typed payload of a revert.
type AbiError struct {
	Type      string     `json:"type"` // "error"
	Name      string     `json:"name"`
	Inputs    []AbiParam `json:"inputs"`
	Signature string     `json:"-"`
	Selector  [4]byte    `json:"-"`
}

/*
Implements "json.Unmarshaler". In addition to parsing the JSON structure, this
precomputes the error's ".Selector".
*/
func (self *AbiError) UnmarshalJSON(input []byte) error {
	var plain struct {
		Type   string
		Name   string
		Inputs []AbiParam
	}

	err := json.Unmarshal(input, &plain)
	if err != nil {
		return err
	}

	*self = makeAbiError(plain.Type, plain.Name, plain.Inputs)
	return nil
}

func makeAbiError(typ, name string, inputs []AbiParam) AbiError {
	sig := Signature(name, inputs)
	return AbiError{
		Type:      typ,
		Name:      name,
		Inputs:    inputs,
		Signature: sig,
		Selector:  Selector(sig),
	}
}

// ABI-encodes a revert payload of this error. Mostly useful in tests.
func (self AbiError) EncodeRevert(args ...DynSolValue) ([]byte, error) {
	encoded, err := encodeArgs(self.Inputs, args)
	if err != nil {
		return nil, errors.Wrapf(err, `failed to encode arguments of %v`, self.Signature)
	}
	return append(self.Selector[:len(self.Selector):len(self.Selector)], encoded...), nil
}

// Checks the selector and decodes the revert arguments.
func (self AbiError) DecodeRevert(data []byte, validate bool) (Revert, error) {
	if len(data) < len(self.Selector) {
		return Revert{}, errOverrun(`revert payload of %d bytes has no selector`, len(data))
	}
	if !bytes.Equal(data[:len(self.Selector)], self.Selector[:]) {
		return Revert{}, errInvalidData(`revert selector 0x%x doesn't match %v`,
			data[:len(self.Selector)], self.Signature)
	}

	args, err := ParamsType(self.Inputs).DecodeParams(data[len(self.Selector):], validate)
	if err != nil {
		return Revert{}, errors.Wrapf(err, `failed to decode revert %v`, self.Signature)
	}
	return Revert{Def: self, Args: args}, nil
}

// Errors understood by every contract: "require" messages and compiler panics.
var (
	ErrorStringError = makeAbiError(`error`, `Error`, []AbiParam{{Type: `string`, SolType: StringType()}})
	PanicError       = makeAbiError(`error`, `Panic`, []AbiParam{{Type: `uint256`, SolType: UintType(256)}})
)

// Decodes a revert payload of "Error(string)" or "Panic(uint256)".
func DecodeRevert(data []byte, validate bool) (Revert, error) {
	if len(data) >= 4 {
		switch {
		case bytes.Equal(data[:4], ErrorStringError.Selector[:]):
			return ErrorStringError.DecodeRevert(data, validate)
		case bytes.Equal(data[:4], PanicError.Selector[:]):
			return PanicError.DecodeRevert(data, validate)
		}
	}
	return Revert{}, errInvalidData(`unrecognized revert payload 0x%x`, data)
}

// Decoded revert payload. Implements "error".
type Revert struct {
	Def  AbiError
	Args DynSolValue
}

// Implements "error".
func (self Revert) Error() string {
	if self.Def.Selector == ErrorStringError.Selector && len(self.Args.Elems) == 1 {
		return `execution reverted: ` + self.Args.Elems[0].Str
	}
	args, _ := json.Marshal(self.Args)
	return fmt.Sprintf(`execution reverted: %v%s`, self.Def.Name, args)
}

/*
Represents a function or event parameter, a return value, or a member of a
tuple. Part of an ABI definition. ".SolType" is resolved on parsing from
".Type", ".Components" and ".InternalType".
*/
type AbiParam struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	InternalType string     `json:"internalType,omitempty"`
	Components   []AbiParam `json:"components,omitempty"` // tuple type only
	Indexed      bool       `json:"indexed,omitempty"`    // event only
	SolType      DynSolType `json:"-"`
}

// Implements "json.Unmarshaler".
func (self *AbiParam) UnmarshalJSON(input []byte) error {
	var plain struct {
		Name         string
		Type         string
		InternalType string
		Components   []AbiParam
		Indexed      bool
	}

	err := json.Unmarshal(input, &plain)
	if err != nil {
		return err
	}

	solType, err := resolveParamType(plain.Type, plain.InternalType, plain.Components)
	if err != nil {
		return errors.Wrapf(err, `failed to resolve type of parameter %q`, plain.Name)
	}

	*self = AbiParam{
		Name:         plain.Name,
		Type:         plain.Type,
		InternalType: plain.InternalType,
		Components:   plain.Components,
		Indexed:      plain.Indexed,
		SolType:      solType,
	}
	return nil
}

/*
Resolves a JSON-ABI type. Tuples are spelled "tuple" with array suffixes, with
members in "components". When the internal type names a struct, the result is
a TypeCustomStruct carrying the struct and member names.
*/
func resolveParamType(typ, internalType string, components []AbiParam) (DynSolType, error) {
	if !strings.HasPrefix(typ, `tuple`) {
		return ParseType(typ)
	}

	fields := make([]DynSolType, len(components))
	props := make([]string, len(components))
	for i, param := range components {
		fields[i] = param.SolType
		props[i] = param.Name
	}

	out := TupleType(fields...)
	if name, ok := structName(internalType); ok {
		out = CustomStructType(name, props, fields...)
	}

	suffixes := typ[len(`tuple`):]
	if suffixes == `` {
		return out, nil
	}
	parser := typeParser{input: suffixes}
	out, err := parser.parseSuffixes(out)
	if err != nil {
		return DynSolType{}, err
	}
	if !parser.done() {
		return DynSolType{}, errInvalidType(`malformed tuple type %q`, typ)
	}
	return out, nil
}

// Extracts "Pool.Config" from "struct Pool.Config[2][]".
func structName(internalType string) (string, bool) {
	name, ok := strings.CutPrefix(internalType, `struct `)
	if !ok {
		return ``, false
	}
	if index := strings.IndexByte(name, '['); index >= 0 {
		name = name[:index]
	}
	return name, name != ``
}

// Tuple of the parameter types.
func ParamsType(params []AbiParam) DynSolType {
	fields := make([]DynSolType, len(params))
	for i := range params {
		fields[i] = params[i].SolType
	}
	return TupleType(fields...)
}

func encodeArgs(params []AbiParam, args []DynSolValue) ([]byte, error) {
	if len(params) != len(args) {
		return nil, errTypeMismatch(`arity mismatch: expected %d arguments, got %d`, len(params), len(args))
	}
	return ParamsType(params).EncodeParams(TupleValue(args...))
}

/*
Canonical signature of a function, event or error: the name followed by the
parenthesized canonical parameter types, such as "transfer(address,uint256)".
Tuples are expanded into their member types.
*/
func Signature(name string, params []AbiParam) string {
	var buf strings.Builder
	buf.WriteString(name)
	buf.WriteByte('(')
	for i, param := range params {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(param.SolType.String())
	}
	buf.WriteByte(')')
	return buf.String()
}

/*
Parses a human-readable signature such as "transfer(address to, uint256)" into
the name and the tuple of parameter types. Parameter names are optional and
ignored.
*/
func ParseSignature(input string) (string, DynSolType, error) {
	input = strings.TrimSpace(input)
	open := strings.IndexByte(input, '(')
	if open <= 0 || !strings.HasSuffix(input, `)`) {
		return ``, DynSolType{}, errInvalidType(`malformed signature %q`, input)
	}
	name := input[:open]

	var fields []DynSolType
	for _, chunk := range splitParams(input[open+1 : len(input)-1]) {
		chunk = strings.TrimSpace(chunk)
		if chunk == `` {
			continue
		}
		field, err := ParseType(chunk[:paramTypeEnd(chunk)])
		if err != nil {
			return ``, DynSolType{}, errors.Wrapf(err, `in signature %q`, input)
		}
		fields = append(fields, field)
	}
	return name, TupleType(fields...), nil
}

/*
Builds a function definition from a human-readable signature and an optional
list of output types, such as "balanceOf(address)" and "uint256". Outputs may
be given as a single type or as a parenthesized list. Useful when no JSON ABI
is at hand.
*/
func FunctionFromSignature(signature string, outputs string) (AbiFunction, error) {
	name, inputType, err := ParseSignature(signature)
	if err != nil {
		return AbiFunction{}, err
	}

	var outputTypes []DynSolType
	if strings.TrimSpace(outputs) != `` {
		_, outputType, err := ParseSignature(`returns(` + trimParens(outputs) + `)`)
		if err != nil {
			return AbiFunction{}, err
		}
		outputTypes = outputType.Fields
	}

	out := AbiFunction{
		Type:    `function`,
		Name:    name,
		Inputs:  typeParams(inputType.Fields),
		Outputs: typeParams(outputTypes),
	}
	out.Signature = Signature(name, out.Inputs)
	out.Selector = Selector(out.Signature)
	return out, nil
}

func typeParams(types []DynSolType) []AbiParam {
	out := make([]AbiParam, len(types))
	for i, typ := range types {
		out[i] = AbiParam{Type: typ.String(), SolType: typ}
	}
	return out
}

// "(uint256,bool)" -> "uint256,bool", but "(uint256,bool)[]" is kept.
func trimParens(input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, `(`) || !strings.HasSuffix(input, `)`) {
		return input
	}
	var depth int
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i < len(input)-1 {
				return input
			}
		}
	}
	return input[1 : len(input)-1]
}

// Splits on top-level commas.
func splitParams(input string) []string {
	var out []string
	var depth, start int
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, input[start:i])
				start = i + 1
			}
		}
	}
	return append(out, input[start:])
}

// End of the type in a parameter such as "(uint256, bool)[] pairs".
func paramTypeEnd(input string) int {
	var depth int
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ' ', '\t':
			if depth == 0 {
				return i
			}
		}
	}
	return len(input)
}

// Keccak256 hash as used by Ethereum, which predates the final SHA-3 standard.
func Keccak256(input ...[]byte) Hash {
	hash := sha3.NewLegacyKeccak256()
	for _, chunk := range input {
		hash.Write(chunk)
	}
	var out Hash
	hash.Sum(out[:0])
	return out
}

// First 4 bytes of the Keccak256 hash of a canonical signature.
func Selector(signature string) [4]byte {
	sum := Keccak256(stringToBytesUnsafe(signature))
	return [4]byte{sum[0], sum[1], sum[2], sum[3]}
}
