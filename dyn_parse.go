package ethabi

import (
	"strconv"
	"strings"
)

/*
Parses a Solidity type string such as "uint256", "(address,bytes)[]" or
"tuple(uint8,string)[2]" into a type descriptor. Accepts the "uint" and "int"
aliases for their 256-bit forms, an optional "tuple" keyword before a tuple,
whitespace around tuple members and a trailing comma inside a tuple. Fails with
KindInvalidType.
*/
func ParseType(input string) (DynSolType, error) {
	parser := typeParser{input: input}
	out, err := parser.parseType()
	if err != nil {
		return DynSolType{}, err
	}
	parser.skipSpace()
	if !parser.done() {
		return DynSolType{}, parser.fail(`unexpected trailing input`)
	}
	return out, nil
}

// Version of "ParseType" that panics on error. Convenient for globals.
func MustParseType(input string) DynSolType {
	out, err := ParseType(input)
	if err != nil {
		panic(err)
	}
	return out
}

type typeParser struct {
	input string
	pos   int
}

func (self *typeParser) done() bool { return self.pos >= len(self.input) }

func (self *typeParser) peek() byte {
	if self.done() {
		return 0
	}
	return self.input[self.pos]
}

func (self *typeParser) skipSpace() {
	for !self.done() && isSpace(self.input[self.pos]) {
		self.pos++
	}
}

func (self *typeParser) fail(msg string) error {
	return errInvalidType(`%v at position %d in type %q`, msg, self.pos, self.input)
}

func (self *typeParser) parseType() (DynSolType, error) {
	self.skipSpace()

	var out DynSolType
	var err error
	if self.peek() == '(' || strings.HasPrefix(self.input[self.pos:], `tuple(`) {
		out, err = self.parseTuple()
	} else {
		out, err = self.parseElementary()
	}
	if err != nil {
		return out, err
	}
	return self.parseSuffixes(out)
}

func (self *typeParser) parseTuple() (DynSolType, error) {
	if self.peek() == 't' {
		self.pos += len(`tuple`)
	}
	self.pos++ // "("

	var fields []DynSolType
	for {
		self.skipSpace()
		if self.peek() == ')' {
			self.pos++
			return TupleType(fields...), nil
		}
		if self.done() {
			return DynSolType{}, self.fail(`unterminated tuple`)
		}

		field, err := self.parseType()
		if err != nil {
			return DynSolType{}, err
		}
		fields = append(fields, field)

		self.skipSpace()
		switch self.peek() {
		case ',':
			self.pos++
		case ')':
		default:
			return DynSolType{}, self.fail(`expected "," or ")"`)
		}
	}
}

func (self *typeParser) parseElementary() (DynSolType, error) {
	start := self.pos
	for !self.done() && isIdentChar(self.input[self.pos]) {
		self.pos++
	}
	name := self.input[start:self.pos]
	if name == `` {
		return DynSolType{}, self.fail(`expected a type`)
	}

	out, ok := elementaryType(name)
	if !ok {
		self.pos = start
		return DynSolType{}, self.fail(`unknown type ` + strconv.Quote(name))
	}
	return out, nil
}

func elementaryType(name string) (DynSolType, bool) {
	switch name {
	case `address`:
		return AddressType(), true
	case `bool`:
		return BoolType(), true
	case `string`:
		return StringType(), true
	case `bytes`:
		return BytesType(), true
	case `function`:
		return FunctionType(), true
	case `uint`:
		return UintType(256), true
	case `int`:
		return IntType(256), true
	}

	if size, ok := typeSuffix(name, `uint`); ok && validIntSize(size) {
		return UintType(size), true
	}
	if size, ok := typeSuffix(name, `int`); ok && validIntSize(size) {
		return IntType(size), true
	}
	if size, ok := typeSuffix(name, `bytes`); ok && size >= 1 && size <= WordLen {
		return FixedBytesType(size), true
	}
	return DynSolType{}, false
}

// Parses the decimal suffix after the prefix. Leading zeros are not allowed.
func typeSuffix(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	return parseDecimal(name[len(prefix):])
}

func parseDecimal(input string) (int, bool) {
	if input == `` || (len(input) > 1 && input[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(input); i++ {
		if input[i] < '0' || input[i] > '9' {
			return 0, false
		}
	}
	out, err := strconv.Atoi(input)
	return out, err == nil
}

func (self *typeParser) parseSuffixes(elem DynSolType) (DynSolType, error) {
	for {
		self.skipSpace()
		if self.peek() != '[' {
			return elem, nil
		}
		self.pos++

		start := self.pos
		for !self.done() && self.input[self.pos] != ']' {
			self.pos++
		}
		if self.done() {
			return DynSolType{}, self.fail(`unterminated array suffix`)
		}
		digits := strings.TrimSpace(self.input[start:self.pos])
		self.pos++

		if digits == `` {
			elem = ArrayType(elem)
			continue
		}

		length, ok := parseDecimal(digits)
		if !ok {
			self.pos = start
			return DynSolType{}, self.fail(`invalid array length ` + strconv.Quote(digits))
		}
		if length == 0 {
			self.pos = start
			return DynSolType{}, self.fail(`zero-length fixed array`)
		}
		elem = FixedArrayType(elem, length)
	}
}

func isSpace(char byte) bool {
	return char == ' ' || char == '\t' || char == '\n' || char == '\r'
}

func isIdentChar(char byte) bool {
	return (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') ||
		(char >= '0' && char <= '9') || char == '_' || char == '$'
}
