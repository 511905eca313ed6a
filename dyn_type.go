package ethabi

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Category of a Solidity type or value. See DynSolType and DynSolValue.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypeAddress
	TypeBool
	TypeInt
	TypeUint
	TypeFixedBytes
	TypeFunction
	TypeString
	TypeBytes
	TypeArray
	TypeFixedArray
	TypeTuple
	TypeCustomStruct
	TypeCustomValue
)

// Implements "fmt.Stringer".
func (self TypeKind) String() string {
	switch self {
	case TypeAddress:
		return `address`
	case TypeBool:
		return `bool`
	case TypeInt:
		return `int`
	case TypeUint:
		return `uint`
	case TypeFixedBytes:
		return `fixed_bytes`
	case TypeFunction:
		return `function`
	case TypeString:
		return `string`
	case TypeBytes:
		return `bytes`
	case TypeArray:
		return `array`
	case TypeFixedArray:
		return `fixed_array`
	case TypeTuple:
		return `tuple`
	case TypeCustomStruct:
		return `custom_struct`
	case TypeCustomValue:
		return `custom_value`
	default:
		return `unknown`
	}
}

// True for kinds encoded as exactly one word.
func (self TypeKind) IsWord() bool {
	switch self {
	case TypeAddress, TypeBool, TypeInt, TypeUint, TypeFixedBytes, TypeFunction, TypeCustomValue:
		return true
	default:
		return false
	}
}

func (self TypeKind) isTuple() bool {
	return self == TypeTuple || self == TypeCustomStruct
}

/*
Runtime descriptor of a Solidity type. Obtained by parsing a type string (see
"ParseType"), from a JSON-ABI parameter (see "AbiParam"), or via the "XType"
constructors. Immutable once built and safe for concurrent use.

Fields by kind:

	TypeInt, TypeUint   Size: bit width, multiple of 8 in 8..256
	TypeFixedBytes      Size: byte width, 1..32
	TypeArray           Elem
	TypeFixedArray      Elem, Size: length
	TypeTuple           Fields
	TypeCustomStruct    Fields, Name, PropNames (one per field)
	TypeCustomValue     Name: a user-defined value type occupying one word
*/
type DynSolType struct {
	Kind      TypeKind
	Size      int
	Elem      *DynSolType
	Fields    []DynSolType
	Name      string
	PropNames []string
}

func AddressType() DynSolType      { return DynSolType{Kind: TypeAddress} }
func BoolType() DynSolType         { return DynSolType{Kind: TypeBool} }
func IntType(bits int) DynSolType  { return DynSolType{Kind: TypeInt, Size: bits} }
func UintType(bits int) DynSolType { return DynSolType{Kind: TypeUint, Size: bits} }
func FunctionType() DynSolType     { return DynSolType{Kind: TypeFunction} }
func StringType() DynSolType       { return DynSolType{Kind: TypeString} }
func BytesType() DynSolType        { return DynSolType{Kind: TypeBytes} }

func FixedBytesType(size int) DynSolType {
	return DynSolType{Kind: TypeFixedBytes, Size: size}
}

func ArrayType(elem DynSolType) DynSolType {
	return DynSolType{Kind: TypeArray, Elem: &elem}
}

func FixedArrayType(elem DynSolType, length int) DynSolType {
	return DynSolType{Kind: TypeFixedArray, Elem: &elem, Size: length}
}

func TupleType(fields ...DynSolType) DynSolType {
	return DynSolType{Kind: TypeTuple, Fields: fields}
}

func CustomStructType(name string, props []string, fields ...DynSolType) DynSolType {
	return DynSolType{Kind: TypeCustomStruct, Name: name, PropNames: props, Fields: fields}
}

func CustomValueType(name string) DynSolType {
	return DynSolType{Kind: TypeCustomValue, Name: name}
}

/*
Canonical ABI type string, as used in function signatures: structs are printed
as tuples and user-defined value types as "bytes32".
*/
func (self DynSolType) String() string {
	var buf strings.Builder
	self.appendString(&buf, false)
	return buf.String()
}

/*
Human-readable type name. Unlike "String", structs and user-defined value types
are printed by name.
*/
func (self DynSolType) TypeName() string {
	var buf strings.Builder
	self.appendString(&buf, true)
	return buf.String()
}

func (self DynSolType) appendString(buf *strings.Builder, named bool) {
	switch self.Kind {
	case TypeAddress, TypeBool, TypeFunction, TypeString, TypeBytes:
		buf.WriteString(self.Kind.String())

	case TypeInt, TypeUint:
		buf.WriteString(self.Kind.String())
		buf.WriteString(strconv.Itoa(self.Size))

	case TypeFixedBytes:
		buf.WriteString(`bytes`)
		buf.WriteString(strconv.Itoa(self.Size))

	case TypeArray:
		self.Elem.appendString(buf, named)
		buf.WriteString(`[]`)

	case TypeFixedArray:
		self.Elem.appendString(buf, named)
		buf.WriteByte('[')
		buf.WriteString(strconv.Itoa(self.Size))
		buf.WriteByte(']')

	case TypeCustomValue:
		if named {
			buf.WriteString(self.Name)
		} else {
			buf.WriteString(`bytes32`)
		}

	case TypeTuple, TypeCustomStruct:
		if named && self.Kind == TypeCustomStruct {
			buf.WriteString(self.Name)
			return
		}
		buf.WriteByte('(')
		for i := range self.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			self.Fields[i].appendString(buf, named)
		}
		buf.WriteByte(')')

	default:
		buf.WriteString(`<unknown>`)
	}
}

// True if values of this type are encoded behind a pointer.
func (self DynSolType) IsDynamic() bool {
	switch self.Kind {
	case TypeString, TypeBytes, TypeArray:
		return true
	case TypeFixedArray:
		return self.Size > 0 && self.Elem.IsDynamic()
	case TypeTuple, TypeCustomStruct:
		for i := range self.Fields {
			if self.Fields[i].IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// True if the value has the shape of this type. Doesn't check bit widths.
func (self DynSolType) Matches(val DynSolValue) bool {
	switch self.Kind {
	case TypeInt, TypeUint, TypeFixedBytes:
		return val.Kind == self.Kind && val.Size == self.Size

	case TypeCustomValue:
		return val.Kind == TypeCustomValue && val.Name == self.Name

	case TypeArray:
		if val.Kind != TypeArray {
			return false
		}
		for i := range val.Elems {
			if !self.Elem.Matches(val.Elems[i]) {
				return false
			}
		}
		return true

	case TypeFixedArray:
		if val.Kind != TypeFixedArray || len(val.Elems) != self.Size {
			return false
		}
		for i := range val.Elems {
			if !self.Elem.Matches(val.Elems[i]) {
				return false
			}
		}
		return true

	case TypeTuple, TypeCustomStruct:
		if !self.matchesTupleKind(val) || len(val.Elems) != len(self.Fields) {
			return false
		}
		for i := range val.Elems {
			if !self.Fields[i].Matches(val.Elems[i]) {
				return false
			}
		}
		return true

	default:
		return val.Kind == self.Kind
	}
}

/*
A tuple type accepts both tuples and structs. A struct type accepts plain
tuples and structs with the same name and property names.
*/
func (self DynSolType) matchesTupleKind(val DynSolValue) bool {
	switch val.Kind {
	case TypeTuple:
		return true
	case TypeCustomStruct:
		if self.Kind == TypeTuple {
			return true
		}
		return val.Name == self.Name && slices.Equal(val.PropNames, self.PropNames)
	default:
		return false
	}
}

/*
Converts a value into a token for encoding. The value must match this type
exactly: same shape, same arity, and integers within the declared bit width.
Otherwise returns a KindTypeMismatch error.
*/
func (self DynSolType) Tokenize(val DynSolValue) (*DynToken, error) {
	tok, err := self.tokenize(val)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (self DynSolType) tokenize(val DynSolValue) (DynToken, error) {
	if self.Kind.IsWord() {
		if !self.Matches(val) {
			return DynToken{}, self.mismatch(val)
		}
		word, err := val.word()
		if err != nil {
			return DynToken{}, err
		}
		return WordDynToken(word), nil
	}

	switch self.Kind {
	case TypeString:
		if val.Kind != TypeString {
			return DynToken{}, self.mismatch(val)
		}
		return PackedSeqDynToken([]byte(val.Str)), nil

	case TypeBytes:
		if val.Kind != TypeBytes {
			return DynToken{}, self.mismatch(val)
		}
		return PackedSeqDynToken(val.Bytes), nil

	case TypeArray:
		if val.Kind != TypeArray {
			return DynToken{}, self.mismatch(val)
		}
		elems, err := self.Elem.tokenizeEach(val.Elems)
		if err != nil {
			return DynToken{}, err
		}
		return DynSeqDynToken(self.Elem.EmptyToken(), elems...), nil

	case TypeFixedArray:
		if val.Kind != TypeFixedArray || len(val.Elems) != self.Size {
			return DynToken{}, self.mismatch(val)
		}
		elems, err := self.Elem.tokenizeEach(val.Elems)
		if err != nil {
			return DynToken{}, err
		}
		return FixedSeqDynToken(elems...), nil

	case TypeTuple, TypeCustomStruct:
		if !self.matchesTupleKind(val) || len(val.Elems) != len(self.Fields) {
			return DynToken{}, self.mismatch(val)
		}
		elems := make([]DynToken, len(val.Elems))
		for i := range val.Elems {
			elem, err := self.Fields[i].tokenize(val.Elems[i])
			if err != nil {
				return DynToken{}, errors.Wrapf(err, `tuple member %d`, i)
			}
			elems[i] = elem
		}
		return FixedSeqDynToken(elems...), nil

	default:
		return DynToken{}, self.mismatch(val)
	}
}

func (self DynSolType) tokenizeEach(vals []DynSolValue) ([]DynToken, error) {
	out := make([]DynToken, len(vals))
	for i := range vals {
		tok, err := self.tokenize(vals[i])
		if err != nil {
			return nil, errors.Wrapf(err, `element %d`, i)
		}
		out[i] = tok
	}
	return out, nil
}

func (self DynSolType) mismatch(val DynSolValue) error {
	return errTypeMismatch(`expected a value of type %v, got %v`, self.TypeName(), val.describe())
}

/*
Converts a token back into a value of this type. The token's shape must match
the type exactly, including the arity of every sequence. Words are normalized
to the type's bit width: see "Decode" for the stricter check used when
validating.
*/
func (self DynSolType) Detokenize(tok *DynToken) (DynSolValue, error) {
	return self.detokenize(tok, false)
}

func (self DynSolType) detokenize(tok *DynToken, validate bool) (DynSolValue, error) {
	if self.Kind.IsWord() {
		if tok.Kind != DynWord {
			return DynSolValue{}, self.tokenMismatch(tok)
		}
		word, err := self.checkWord(tok.Word, validate)
		if err != nil {
			return DynSolValue{}, err
		}
		return self.wordValue(word), nil
	}

	switch self.Kind {
	case TypeString:
		if tok.Kind != DynPackedSeq {
			return DynSolValue{}, self.tokenMismatch(tok)
		}
		if !utf8.Valid(tok.Packed) {
			return DynSolValue{}, errInvalidData(`string is not valid UTF-8`)
		}
		return StringValue(string(tok.Packed)), nil

	case TypeBytes:
		if tok.Kind != DynPackedSeq {
			return DynSolValue{}, self.tokenMismatch(tok)
		}
		return BytesValue(append([]byte{}, tok.Packed...)), nil

	case TypeArray:
		if tok.Kind != DynDynSeq {
			return DynSolValue{}, self.tokenMismatch(tok)
		}
		elems, err := self.Elem.detokenizeEach(tok.Elems, validate)
		if err != nil {
			return DynSolValue{}, err
		}
		return ArrayValue(elems...), nil

	case TypeFixedArray:
		if tok.Kind != DynFixedSeq || len(tok.Elems) != self.Size {
			return DynSolValue{}, self.tokenMismatch(tok)
		}
		elems, err := self.Elem.detokenizeEach(tok.Elems, validate)
		if err != nil {
			return DynSolValue{}, err
		}
		return FixedArrayValue(elems...), nil

	case TypeTuple, TypeCustomStruct:
		if tok.Kind != DynFixedSeq || len(tok.Elems) != len(self.Fields) {
			return DynSolValue{}, self.tokenMismatch(tok)
		}
		elems := make([]DynSolValue, len(tok.Elems))
		for i := range tok.Elems {
			elem, err := self.Fields[i].detokenize(&tok.Elems[i], validate)
			if err != nil {
				return DynSolValue{}, errors.Wrapf(err, `tuple member %d`, i)
			}
			elems[i] = elem
		}
		if self.Kind == TypeCustomStruct {
			return CustomStructValue(self.Name, self.PropNames, elems...), nil
		}
		return TupleValue(elems...), nil

	default:
		return DynSolValue{}, self.tokenMismatch(tok)
	}
}

func (self DynSolType) detokenizeEach(toks []DynToken, validate bool) ([]DynSolValue, error) {
	out := make([]DynSolValue, len(toks))
	for i := range toks {
		val, err := self.detokenize(&toks[i], validate)
		if err != nil {
			return nil, errors.Wrapf(err, `element %d`, i)
		}
		out[i] = val
	}
	return out, nil
}

func (self DynSolType) tokenMismatch(tok *DynToken) error {
	return errTypeMismatch(`can't detokenize a %v token with %d elements into %v`,
		tok.Kind, len(tok.Elems), self.TypeName())
}

/*
Checks or normalizes the bit pattern of a word. When validating, a word with
bits outside the type's width is rejected with KindInvalidData. Otherwise the
extra bits are dropped: unsigned integers are masked, signed integers are sign
extended, byte arrays are truncated.
*/
func (self DynSolType) checkWord(word Word, validate bool) (Word, error) {
	switch self.Kind {
	case TypeInt, TypeUint:
		if !validIntSize(self.Size) {
			return word, errInvalidType(`invalid bit width %d for %v`, self.Size, self.Kind)
		}
	case TypeFixedBytes:
		if self.Size < 1 || self.Size > WordLen {
			return word, errInvalidType(`invalid size %d for fixed bytes`, self.Size)
		}
	}

	switch self.Kind {
	case TypeBool:
		if validate && (!checkZeroes(word[:WordLen-1]) || word[WordLen-1] > 1) {
			return word, errInvalidData(`bool word %v is neither 0 nor 1`, word)
		}
		return BoolWord(word.Bool()), nil

	case TypeAddress:
		return self.checkRightAligned(word, len(Address{}), 0, validate)

	case TypeUint:
		return self.checkRightAligned(word, self.Size/8, 0, validate)

	case TypeInt:
		width := self.Size / 8
		var fill byte
		if word[WordLen-width]&0x80 != 0 {
			fill = 0xff
		}
		return self.checkRightAligned(word, width, fill, validate)

	case TypeFixedBytes:
		return self.checkLeftAligned(word, self.Size, validate)

	case TypeFunction:
		return self.checkLeftAligned(word, len(Function{}), validate)

	default:
		return word, nil
	}
}

func (self DynSolType) checkRightAligned(word Word, width int, fill byte, validate bool) (Word, error) {
	upper := word[:WordLen-width]
	if checkFill(upper, fill) {
		return word, nil
	}
	if validate {
		return word, errInvalidData(`word %v doesn't fit into %v`, word, self.TypeName())
	}
	for i := range upper {
		upper[i] = fill
	}
	return word, nil
}

func (self DynSolType) checkLeftAligned(word Word, width int, validate bool) (Word, error) {
	lower := word[width:]
	if checkZeroes(lower) {
		return word, nil
	}
	if validate {
		return word, errInvalidData(`word %v has non-zero bytes after the first %d`, word, width)
	}
	for i := range lower {
		lower[i] = 0
	}
	return word, nil
}

func (self DynSolType) wordValue(word Word) DynSolValue {
	switch self.Kind {
	case TypeAddress:
		return AddressValue(word.Address())
	case TypeBool:
		return BoolValue(word.Bool())
	case TypeInt:
		return IntValue(word.Uint256(), self.Size)
	case TypeUint:
		return UintValue(word.Uint256(), self.Size)
	case TypeFixedBytes:
		return FixedBytesValue(word, self.Size)
	case TypeFunction:
		var fun Function
		copy(fun[:], word[:])
		return FunctionValue(fun)
	case TypeCustomValue:
		return CustomValue(self.Name, word)
	default:
		panic(errTypeMismatch(`%v is not a word type`, self.TypeName()))
	}
}

/*
Builds an empty token of this type's shape, suitable as a decoding target for
"DynToken.DecodePopulate". Dynamic arrays start empty and carry a template for
their elements.
*/
func (self DynSolType) EmptyToken() DynToken {
	switch self.Kind {
	case TypeString, TypeBytes:
		return PackedSeqDynToken(nil)

	case TypeArray:
		return DynSeqDynToken(self.Elem.EmptyToken())

	case TypeFixedArray:
		elems := make([]DynToken, self.Size)
		for i := range elems {
			elems[i] = self.Elem.EmptyToken()
		}
		return FixedSeqDynToken(elems...)

	case TypeTuple, TypeCustomStruct:
		elems := make([]DynToken, len(self.Fields))
		for i := range self.Fields {
			elems[i] = self.Fields[i].EmptyToken()
		}
		return FixedSeqDynToken(elems...)

	default:
		return WordDynToken(Word{})
	}
}

/*
Decodes a single value of this type, the inverse of "DynSolValue.Encode". With
"validate", the input must be exactly the canonical encoding of the result and
every word must fit its type's bit width.
*/
func (self DynSolType) Decode(data []byte, validate bool) (DynSolValue, error) {
	tok := self.EmptyToken()
	err := tok.DecodeSingle(data, validate)
	if err != nil {
		return DynSolValue{}, err
	}
	return self.detokenize(&tok, validate)
}

/*
Decodes function parameters, the inverse of "DynSolValue.EncodeParams". Tuple
and struct types are decoded as a flat parameter list. Other types are decoded
like "Decode".
*/
func (self DynSolType) DecodeParams(data []byte, validate bool) (DynSolValue, error) {
	if !self.Kind.isTuple() {
		return self.Decode(data, validate)
	}

	tok := self.EmptyToken()
	err := tok.DecodeSequence(data, validate)
	if err != nil {
		return DynSolValue{}, err
	}
	return self.detokenize(&tok, validate)
}

// Checks the value against this type, then encodes it like "DynSolValue.Encode".
func (self DynSolType) Encode(val DynSolValue) ([]byte, error) {
	tok, err := self.tokenize(val)
	if err != nil {
		return nil, err
	}
	return tok.Encode(), nil
}

/*
Checks the value against this type, then encodes it like
"DynSolValue.EncodeParams".
*/
func (self DynSolType) EncodeParams(val DynSolValue) ([]byte, error) {
	tok, err := self.tokenize(val)
	if err != nil {
		return nil, err
	}
	if self.Kind.isTuple() {
		return tok.EncodeSequence(), nil
	}
	return tok.Encode(), nil
}
