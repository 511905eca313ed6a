package ethabi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

/*
Converts loosely typed JSON input, such as a CLI argument, into a value of this
type. Accepted forms:

	address                 "0x"-prefixed hex string
	bool                    true, false, "true", "false"
	intN, uintN             JSON number or string; decimal, or hex with "0x"
	bytesN, function        hex string of exactly N (24) bytes
	bytes                   hex string
	string                  string
	arrays, tuples          JSON arrays
	structs                 JSON arrays, or objects keyed by property name

Fails with KindTypeMismatch, naming the path to the offending element.
*/
func (self DynSolType) CoerceJSON(input []byte) (DynSolValue, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()

	var raw interface{}
	err := dec.Decode(&raw)
	if err != nil {
		return DynSolValue{}, newError(KindTypeMismatch, err, `malformed JSON input for %v`, self.TypeName())
	}
	return self.coerce(raw)
}

// Like "CoerceJSON", but a bare string is taken as-is for string, bytes and
// word types, which is convenient on a command line.
func (self DynSolType) CoerceString(input string) (DynSolValue, error) {
	trimmed := strings.TrimSpace(input)
	switch {
	case self.Kind == TypeString:
		if strings.HasPrefix(trimmed, `"`) {
			return self.CoerceJSON([]byte(trimmed))
		}
		return StringValue(input), nil
	case self.Kind.IsWord() || self.Kind == TypeBytes:
		if !strings.HasPrefix(trimmed, `"`) && trimmed != `true` && trimmed != `false` {
			return self.coerce(trimmed)
		}
	}
	return self.CoerceJSON([]byte(trimmed))
}

func (self DynSolType) coerce(raw interface{}) (DynSolValue, error) {
	switch self.Kind {
	case TypeAddress:
		str, err := self.coerceString(raw)
		if err != nil {
			return DynSolValue{}, err
		}
		addr, err := ParseAddress(str)
		if err != nil {
			return DynSolValue{}, newError(KindTypeMismatch, err, `invalid address %q`, str)
		}
		return AddressValue(addr), nil

	case TypeBool:
		switch raw := raw.(type) {
		case bool:
			return BoolValue(raw), nil
		case string:
			switch raw {
			case `true`:
				return BoolValue(true), nil
			case `false`:
				return BoolValue(false), nil
			}
		}
		return DynSolValue{}, self.coerceMismatch(raw)

	case TypeInt, TypeUint:
		num, err := self.coerceBigInt(raw)
		if err != nil {
			return DynSolValue{}, err
		}
		var out DynSolValue
		if self.Kind == TypeInt {
			out, err = IntValueFromBig(num, self.Size)
		} else {
			out, err = UintValueFromBig(num, self.Size)
		}
		if err != nil {
			return DynSolValue{}, err
		}
		_, err = out.word()
		return out, err

	case TypeFixedBytes, TypeFunction, TypeCustomValue:
		size := self.Size
		switch self.Kind {
		case TypeFunction:
			size = len(Function{})
		case TypeCustomValue:
			size = WordLen
		}
		payload, err := self.coerceHex(raw)
		if err != nil {
			return DynSolValue{}, err
		}
		if len(payload) != size {
			return DynSolValue{}, errTypeMismatch(`expected %d bytes for %v, got %d`, size, self.TypeName(), len(payload))
		}
		word := LeftAlignedWord(payload)
		switch self.Kind {
		case TypeFunction:
			return FunctionValue(Function(payload)), nil
		case TypeCustomValue:
			return CustomValue(self.Name, word), nil
		default:
			return FixedBytesValue(word, size), nil
		}

	case TypeBytes:
		payload, err := self.coerceHex(raw)
		if err != nil {
			return DynSolValue{}, err
		}
		return BytesValue(payload), nil

	case TypeString:
		str, ok := raw.(string)
		if !ok {
			return DynSolValue{}, self.coerceMismatch(raw)
		}
		return StringValue(str), nil

	case TypeArray, TypeFixedArray:
		list, ok := raw.([]interface{})
		if !ok {
			return DynSolValue{}, self.coerceMismatch(raw)
		}
		if self.Kind == TypeFixedArray && len(list) != self.Size {
			return DynSolValue{}, errTypeMismatch(`expected %d elements for %v, got %d`, self.Size, self.TypeName(), len(list))
		}
		elems := make([]DynSolValue, len(list))
		for i := range list {
			elem, err := self.Elem.coerce(list[i])
			if err != nil {
				return DynSolValue{}, errors.Wrapf(err, `[%d]`, i)
			}
			elems[i] = elem
		}
		if self.Kind == TypeArray {
			return ArrayValue(elems...), nil
		}
		return FixedArrayValue(elems...), nil

	case TypeTuple, TypeCustomStruct:
		list, err := self.coerceMembers(raw)
		if err != nil {
			return DynSolValue{}, err
		}
		elems := make([]DynSolValue, len(list))
		for i := range list {
			elem, err := self.Fields[i].coerce(list[i])
			if err != nil {
				return DynSolValue{}, errors.Wrapf(err, `%v`, self.memberName(i))
			}
			elems[i] = elem
		}
		if self.Kind == TypeCustomStruct {
			return CustomStructValue(self.Name, self.PropNames, elems...), nil
		}
		return TupleValue(elems...), nil

	default:
		return DynSolValue{}, errTypeMismatch(`can't coerce into %v`, self.TypeName())
	}
}

func (self DynSolType) coerceMembers(raw interface{}) ([]interface{}, error) {
	switch raw := raw.(type) {
	case []interface{}:
		if len(raw) != len(self.Fields) {
			return nil, errTypeMismatch(`expected %d members for %v, got %d`, len(self.Fields), self.TypeName(), len(raw))
		}
		return raw, nil

	case map[string]interface{}:
		if self.Kind != TypeCustomStruct || len(self.PropNames) != len(self.Fields) {
			return nil, self.coerceMismatch(raw)
		}
		out := make([]interface{}, len(self.Fields))
		for i, name := range self.PropNames {
			val, ok := raw[name]
			if !ok {
				return nil, errTypeMismatch(`missing property %q of %v`, name, self.Name)
			}
			out[i] = val
		}
		if len(raw) != len(self.PropNames) {
			return nil, errTypeMismatch(`unknown properties in %v`, self.Name)
		}
		return out, nil

	default:
		return nil, self.coerceMismatch(raw)
	}
}

func (self DynSolType) memberName(i int) string {
	if i < len(self.PropNames) && self.PropNames[i] != `` {
		return `.` + self.PropNames[i]
	}
	return fmt.Sprintf(`.%d`, i)
}

func (self DynSolType) coerceString(raw interface{}) (string, error) {
	str, ok := raw.(string)
	if !ok {
		return ``, self.coerceMismatch(raw)
	}
	return str, nil
}

func (self DynSolType) coerceHex(raw interface{}) ([]byte, error) {
	str, err := self.coerceString(raw)
	if err != nil {
		return nil, err
	}
	out, err := HexDecodeLoose(str)
	if err != nil {
		return nil, newError(KindTypeMismatch, err, `invalid hex for %v`, self.TypeName())
	}
	return out, nil
}

func (self DynSolType) coerceBigInt(raw interface{}) (*big.Int, error) {
	var str string
	switch raw := raw.(type) {
	case json.Number:
		str = raw.String()
	case string:
		str = strings.TrimSpace(raw)
	default:
		return nil, self.coerceMismatch(raw)
	}

	num, ok := new(big.Int).SetString(str, 0)
	if !ok {
		return nil, errTypeMismatch(`invalid number %q for %v`, str, self.TypeName())
	}
	return num, nil
}

func (self DynSolType) coerceMismatch(raw interface{}) error {
	return errTypeMismatch(`can't use %T %v as %v`, raw, raw, self.TypeName())
}
