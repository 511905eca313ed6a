package ethabi

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

/*
Runtime-typed Solidity value, tagged by Kind. Only the fields relevant to the
kind are used:

	TypeAddress        Address
	TypeBool           Bool
	TypeInt, TypeUint  Num, Size: bit width. Signed numbers are stored in two's
	                   complement, sign extended to 256 bits
	TypeFixedBytes     Word (left-aligned), Size: byte width
	TypeFunction       Word (left-aligned 24 bytes: address and selector)
	TypeCustomValue    Word, Name
	TypeString         Str
	TypeBytes          Bytes
	TypeArray          Elems
	TypeFixedArray     Elems
	TypeTuple          Elems
	TypeCustomStruct   Elems, Name, PropNames

Build values with the "XValue" constructors. Encode with "Encode" or
"EncodeParams"; decode with "DynSolType.Decode".
*/
type DynSolValue struct {
	Kind      TypeKind
	Size      int
	Num       uint256.Int
	Word      Word
	Address   Address
	Bool      bool
	Bytes     []byte
	Str       string
	Elems     []DynSolValue
	Name      string
	PropNames []string
}

func AddressValue(addr Address) DynSolValue {
	return DynSolValue{Kind: TypeAddress, Address: addr}
}

func BoolValue(val bool) DynSolValue {
	return DynSolValue{Kind: TypeBool, Bool: val}
}

// Unsigned integer of the given bit width.
func UintValue(num *uint256.Int, bits int) DynSolValue {
	return DynSolValue{Kind: TypeUint, Size: bits, Num: *num}
}

// Signed integer of the given bit width. The number is in two's complement.
func IntValue(num *uint256.Int, bits int) DynSolValue {
	return DynSolValue{Kind: TypeInt, Size: bits, Num: *num}
}

// Shortcut for small unsigned numbers, mostly useful in tests.
func UintValueFrom64(num uint64, bits int) DynSolValue {
	return UintValue(uint256.NewInt(num), bits)
}

// Shortcut for small signed numbers, mostly useful in tests.
func IntValueFrom64(num int64, bits int) DynSolValue {
	out := uint256.NewInt(uint64(num))
	if num < 0 {
		out.Neg(uint256.NewInt(uint64(-num)))
	}
	return IntValue(out, bits)
}

// Unsigned integer from a "big.Int". Negative or wider than 256 bits is an error.
func UintValueFromBig(num *big.Int, bits int) (DynSolValue, error) {
	if num.Sign() < 0 {
		return DynSolValue{}, errTypeMismatch(`negative number %v for uint%d`, num, bits)
	}
	out, overflow := uint256.FromBig(num)
	if overflow {
		return DynSolValue{}, errTypeMismatch(`number %v overflows uint%d`, num, bits)
	}
	return UintValue(out, bits), nil
}

// Signed integer from a "big.Int". The number must be within the range of
// "intN": -2^(bits-1) <= num < 2^(bits-1).
func IntValueFromBig(num *big.Int, bits int) (DynSolValue, error) {
	if !validIntSize(bits) {
		return DynSolValue{}, errTypeMismatch(`invalid bit width %d for int`, bits)
	}

	upper := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	lower := new(big.Int).Neg(upper)
	if num.Cmp(upper) >= 0 || num.Cmp(lower) < 0 {
		return DynSolValue{}, errTypeMismatch(`number %v overflows int%d`, num, bits)
	}

	out, _ := uint256.FromBig(new(big.Int).Abs(num))
	if num.Sign() < 0 {
		out.Neg(out)
	}
	return IntValue(out, bits), nil
}

// Fixed-size byte array "bytesN": the first "size" bytes of the word.
func FixedBytesValue(word Word, size int) DynSolValue {
	return DynSolValue{Kind: TypeFixedBytes, Word: word, Size: size}
}

func FunctionValue(fun Function) DynSolValue {
	return DynSolValue{Kind: TypeFunction, Word: LeftAlignedWord(fun[:])}
}

func BytesValue(val []byte) DynSolValue {
	return DynSolValue{Kind: TypeBytes, Bytes: val}
}

func StringValue(val string) DynSolValue {
	return DynSolValue{Kind: TypeString, Str: val}
}

func ArrayValue(elems ...DynSolValue) DynSolValue {
	return DynSolValue{Kind: TypeArray, Elems: elems}
}

func FixedArrayValue(elems ...DynSolValue) DynSolValue {
	return DynSolValue{Kind: TypeFixedArray, Elems: elems}
}

func TupleValue(elems ...DynSolValue) DynSolValue {
	return DynSolValue{Kind: TypeTuple, Elems: elems}
}

func CustomStructValue(name string, props []string, elems ...DynSolValue) DynSolValue {
	return DynSolValue{Kind: TypeCustomStruct, Name: name, PropNames: props, Elems: elems}
}

// User-defined value type, carried as its underlying word.
func CustomValue(name string, word Word) DynSolValue {
	return DynSolValue{Kind: TypeCustomValue, Name: name, Word: word}
}

// Integer value as a "big.Int", signed for TypeInt. Nil for other kinds.
func (self DynSolValue) BigInt() *big.Int {
	switch self.Kind {
	case TypeUint:
		return self.Num.ToBig()
	case TypeInt:
		if self.Num.Sign() >= 0 {
			return self.Num.ToBig()
		}
		abs := new(uint256.Int).Neg(&self.Num)
		return new(big.Int).Neg(abs.ToBig())
	default:
		return nil
	}
}

// Function reference: address followed by selector.
func (self DynSolValue) Function() Function {
	var out Function
	copy(out[:], self.Word[:])
	return out
}

// Prefix of the word holding a "bytesN" value.
func (self DynSolValue) FixedBytes() []byte {
	if self.Size < 0 || self.Size > WordLen {
		return nil
	}
	return self.Word[:self.Size]
}

/*
Infers the type of the value. Fails (returns false) for sequences whose
element type can't be inferred: empty arrays, or arrays whose elements
disagree.
*/
func (self DynSolValue) Type() (DynSolType, bool) {
	switch self.Kind {
	case TypeAddress, TypeBool, TypeFunction, TypeString, TypeBytes:
		return DynSolType{Kind: self.Kind}, true

	case TypeInt, TypeUint, TypeFixedBytes:
		return DynSolType{Kind: self.Kind, Size: self.Size}, true

	case TypeCustomValue:
		return CustomValueType(self.Name), true

	case TypeArray, TypeFixedArray:
		if len(self.Elems) == 0 {
			return DynSolType{}, false
		}
		elem, ok := self.Elems[0].Type()
		if !ok {
			return DynSolType{}, false
		}
		for _, val := range self.Elems[1:] {
			if !elem.Matches(val) {
				return DynSolType{}, false
			}
		}
		if self.Kind == TypeArray {
			return ArrayType(elem), true
		}
		return FixedArrayType(elem, len(self.Elems)), true

	case TypeTuple, TypeCustomStruct:
		fields := make([]DynSolType, len(self.Elems))
		for i := range self.Elems {
			field, ok := self.Elems[i].Type()
			if !ok {
				return DynSolType{}, false
			}
			fields[i] = field
		}
		if self.Kind == TypeCustomStruct {
			return CustomStructType(self.Name, self.PropNames, fields...), true
		}
		return TupleType(fields...), true

	default:
		return DynSolType{}, false
	}
}

func (self DynSolValue) describe() string {
	typ, ok := self.Type()
	if ok {
		return typ.TypeName()
	}
	return self.Kind.String()
}

// True if the value is encoded behind a pointer.
func (self DynSolValue) IsDynamic() bool {
	switch self.Kind {
	case TypeString, TypeBytes, TypeArray:
		return true
	case TypeFixedArray, TypeTuple, TypeCustomStruct:
		for i := range self.Elems {
			if self.Elems[i].IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (self DynSolValue) headWords() int {
	if self.IsDynamic() {
		return 1
	}
	switch self.Kind {
	case TypeFixedArray, TypeTuple, TypeCustomStruct:
		var out int
		for i := range self.Elems {
			out += self.Elems[i].headWords()
		}
		return out
	default:
		return 1
	}
}

func (self DynSolValue) tailWords() int {
	switch self.Kind {
	case TypeString:
		return 1 + wordsFor(len(self.Str))
	case TypeBytes:
		return 1 + wordsFor(len(self.Bytes))
	case TypeArray:
		return 1 + self.elemWords()
	case TypeFixedArray, TypeTuple, TypeCustomStruct:
		if self.IsDynamic() {
			return self.elemWords()
		}
		return 0
	default:
		return 0
	}
}

func (self DynSolValue) elemWords() int {
	var out int
	for i := range self.Elems {
		out += self.Elems[i].TotalWords()
	}
	return out
}

// Number of words the value occupies when encoded alone: the output of
// "Encode" is exactly this many words long.
func (self DynSolValue) TotalWords() int {
	return self.headWords() + self.tailWords()
}

/*
Single-word representation of word kinds. Fails with KindTypeMismatch when the
value doesn't fit its declared width: an integer wider than its bit size, or a
"bytesN" with non-zero bytes after N.
*/
func (self DynSolValue) word() (Word, error) {
	switch self.Kind {
	case TypeAddress:
		return self.Address.Word(), nil

	case TypeBool:
		return BoolWord(self.Bool), nil

	case TypeUint:
		if !validIntSize(self.Size) {
			return Word{}, errTypeMismatch(`invalid bit width %d for uint`, self.Size)
		}
		if self.Num.BitLen() > self.Size {
			return Word{}, errTypeMismatch(`number %v doesn't fit into uint%d`, self.Num.Dec(), self.Size)
		}
		return Uint256Word(&self.Num), nil

	case TypeInt:
		if !validIntSize(self.Size) {
			return Word{}, errTypeMismatch(`invalid bit width %d for int`, self.Size)
		}
		var ext uint256.Int
		ext.ExtendSign(&self.Num, uint256.NewInt(uint64(self.Size/8-1)))
		if !ext.Eq(&self.Num) {
			return Word{}, errTypeMismatch(`number %v doesn't fit into int%d`, self.BigInt(), self.Size)
		}
		return Uint256Word(&self.Num), nil

	case TypeFixedBytes:
		if self.Size < 1 || self.Size > WordLen {
			return Word{}, errTypeMismatch(`invalid size %d for fixed bytes`, self.Size)
		}
		if !checkZeroes(self.Word[self.Size:]) {
			return Word{}, errTypeMismatch(`bytes%d value has non-zero bytes past its size`, self.Size)
		}
		return self.Word, nil

	case TypeFunction:
		if !checkZeroes(self.Word[len(Function{}):]) {
			return Word{}, errTypeMismatch(`function value has non-zero bytes past 24`)
		}
		return self.Word, nil

	case TypeCustomValue:
		return self.Word, nil

	default:
		return Word{}, errTypeMismatch(`%v is not a single-word value`, self.Kind)
	}
}

func validIntSize(bits int) bool {
	return bits >= 8 && bits <= 256 && bits%8 == 0
}

/*
Converts the value into a token without a reference type: the value's own
shape is the type. Dynamic arrays get no element template, so the result is
only suitable for encoding.
*/
func (self DynSolValue) tokenize() (DynToken, error) {
	if self.Kind.IsWord() {
		word, err := self.word()
		if err != nil {
			return DynToken{}, err
		}
		return WordDynToken(word), nil
	}

	switch self.Kind {
	case TypeString:
		return PackedSeqDynToken(stringToBytesUnsafe(self.Str)), nil

	case TypeBytes:
		return PackedSeqDynToken(self.Bytes), nil

	case TypeArray, TypeFixedArray, TypeTuple, TypeCustomStruct:
		elems := make([]DynToken, len(self.Elems))
		for i := range self.Elems {
			elem, err := self.Elems[i].tokenize()
			if err != nil {
				return DynToken{}, errors.Wrapf(err, `element %d`, i)
			}
			elems[i] = elem
		}
		if self.Kind == TypeArray {
			return DynToken{Kind: DynDynSeq, Elems: elems}, nil
		}
		return FixedSeqDynToken(elems...), nil

	default:
		return DynToken{}, errTypeMismatch(`can't encode a value of kind %v`, self.Kind)
	}
}

/*
ABI-encodes the value as the only member of an implicit tuple: a dynamic value
is preceded by a pointer word.
*/
func (self DynSolValue) Encode() ([]byte, error) {
	tok, err := self.tokenize()
	if err != nil {
		return nil, err
	}
	return tok.Encode(), nil
}

/*
ABI-encodes function parameters. Tuples and structs are encoded as the
parameter list itself. Other values are encoded like "Encode".
*/
func (self DynSolValue) EncodeParams() ([]byte, error) {
	tok, err := self.tokenize()
	if err != nil {
		return nil, err
	}
	if self.Kind.isTuple() {
		return tok.EncodeSequence(), nil
	}
	return tok.Encode(), nil
}

/*
Non-standard packed encoding, like Solidity's "abi.encodePacked": no pointers
or lengths, and word types use their natural width. Array elements are padded
to a full word, which matches Solidity.
*/
func (self DynSolValue) EncodePacked() ([]byte, error) {
	return self.appendPacked(nil, false)
}

func (self DynSolValue) appendPacked(buf []byte, inArray bool) ([]byte, error) {
	if self.Kind.IsWord() {
		word, err := self.word()
		if err != nil {
			return buf, err
		}
		if inArray {
			return append(buf, word[:]...), nil
		}

		switch self.Kind {
		case TypeAddress:
			return append(buf, word[WordLen-len(Address{}):]...), nil
		case TypeBool:
			return append(buf, word[WordLen-1]), nil
		case TypeInt, TypeUint:
			return append(buf, word[WordLen-self.Size/8:]...), nil
		case TypeFixedBytes:
			return append(buf, word[:self.Size]...), nil
		case TypeFunction:
			return append(buf, word[:len(Function{})]...), nil
		default:
			return append(buf, word[:]...), nil
		}
	}

	switch self.Kind {
	case TypeString:
		return append(buf, self.Str...), nil

	case TypeBytes:
		return append(buf, self.Bytes...), nil

	case TypeArray, TypeFixedArray, TypeTuple, TypeCustomStruct:
		nested := inArray || self.Kind == TypeArray || self.Kind == TypeFixedArray
		var err error
		for i := range self.Elems {
			buf, err = self.Elems[i].appendPacked(buf, nested)
			if err != nil {
				return buf, errors.Wrapf(err, `element %d`, i)
			}
		}
		return buf, nil

	default:
		return buf, errTypeMismatch(`can't encode a value of kind %v`, self.Kind)
	}
}

/*
Preimage of the topic of an indexed event parameter. Word types are their ABI
word. Strings and bytes are their raw content, padded to a word boundary when
nested in an array or struct. Arrays and structs concatenate the padded
encodings of their members, without pointers or lengths. Topics of non-word
types are the Keccak256 hash of this preimage, see "AbiEvent.EncodeTopics".
*/
func (self DynSolValue) TopicPreimage() ([]byte, error) {
	return self.appendTopicPreimage(nil, false)
}

func (self DynSolValue) appendTopicPreimage(buf []byte, nested bool) ([]byte, error) {
	if self.Kind.IsWord() {
		word, err := self.word()
		if err != nil {
			return buf, err
		}
		return append(buf, word[:]...), nil
	}

	switch self.Kind {
	case TypeString, TypeBytes:
		payload := self.Bytes
		if self.Kind == TypeString {
			payload = stringToBytesUnsafe(self.Str)
		}
		buf = append(buf, payload...)
		if nested {
			buf = append(buf, make([]byte, nextMultipleOf32(len(payload))-len(payload))...)
		}
		return buf, nil

	case TypeArray, TypeFixedArray, TypeTuple, TypeCustomStruct:
		var err error
		for i := range self.Elems {
			buf, err = self.Elems[i].appendTopicPreimage(buf, true)
			if err != nil {
				return buf, errors.Wrapf(err, `element %d`, i)
			}
		}
		return buf, nil

	default:
		return buf, errTypeMismatch(`can't encode a value of kind %v`, self.Kind)
	}
}

/*
Implements "json.Marshaler". Integers are printed as decimal strings to avoid
precision loss, byte arrays and addresses as 0x-prefixed hex, structs as JSON
objects with properties in declaration order, other sequences as arrays.
*/
func (self DynSolValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	err := self.appendJSON(&buf)
	return buf.Bytes(), err
}

func (self DynSolValue) appendJSON(buf *bytes.Buffer) error {
	switch self.Kind {
	case TypeAddress:
		buf.Write(hexEncodeQuoted(self.Address[:]))
	case TypeBool:
		if self.Bool {
			buf.WriteString(`true`)
		} else {
			buf.WriteString(`false`)
		}
	case TypeInt, TypeUint:
		buf.WriteByte('"')
		buf.WriteString(self.BigInt().String())
		buf.WriteByte('"')
	case TypeFixedBytes:
		buf.Write(hexEncodeQuoted(self.FixedBytes()))
	case TypeFunction:
		buf.Write(hexEncodeQuoted(self.Word[:len(Function{})]))
	case TypeCustomValue:
		buf.Write(hexEncodeQuoted(self.Word[:]))
	case TypeBytes:
		buf.Write(hexEncodeQuoted(self.Bytes))
	case TypeString:
		chunk, err := json.Marshal(self.Str)
		if err != nil {
			return errors.WithStack(err)
		}
		buf.Write(chunk)
	case TypeCustomStruct:
		if len(self.PropNames) != len(self.Elems) {
			return self.appendJSONArray(buf)
		}
		buf.WriteByte('{')
		for i := range self.Elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			chunk, err := json.Marshal(self.PropNames[i])
			if err != nil {
				return errors.WithStack(err)
			}
			buf.Write(chunk)
			buf.WriteByte(':')
			err = self.Elems[i].appendJSON(buf)
			if err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case TypeArray, TypeFixedArray, TypeTuple:
		return self.appendJSONArray(buf)
	default:
		buf.WriteString(`null`)
	}
	return nil
}

func (self DynSolValue) appendJSONArray(buf *bytes.Buffer) error {
	buf.WriteByte('[')
	for i := range self.Elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		err := self.Elems[i].appendJSON(buf)
		if err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}
