package ethabi

import (
	"bytes"

	"go.uber.org/zap"
)

/*
Encodes a single token. The token is treated as the only member of an implicit
tuple: a dynamic token is preceded by a pointer word, a static one is written
inline.
*/
func Encode(tok Token) []byte {
	enc := NewEncoder(TotalWords(tok))
	encodeSeq(enc, 1, func(int) headTail { return tok })
	return enc.Bytes()
}

/*
Encodes function parameters. A *TupleToken is encoded as the parameter list
itself, without an outer pointer, which is the layout of calldata and return
data. Any other token is encoded like "Encode".
*/
func EncodeParams(tok Token) []byte {
	tuple, ok := tok.(*TupleToken)
	if !ok {
		return Encode(tok)
	}

	enc := NewEncoder(tuple.paramsWords())
	encodeSeq(enc, len(tuple.Members), tuple.at)
	return enc.Bytes()
}

// Word count of the tuple encoded as a parameter list.
func (self *TupleToken) paramsWords() int {
	var words int
	for _, member := range self.Members {
		words += TotalWords(member)
	}
	return words
}

/*
Decodes a single token, the inverse of "Encode". The token must be shaped like
the expected value; it's filled in place. On error, its contents are
unspecified.

With "validate", the input must be the canonical encoding of the result:
padding must be zero, the input must have no trailing bytes (KindExtraData),
and re-encoding must reproduce it exactly (KindReserMismatch).
*/
func Decode(data []byte, tok Token, validate bool) error {
	return decodeChecked(
		data,
		validate,
		tok.DecodeFrom,
		func() int { return TotalWords(tok) },
		func() []byte { return Encode(tok) },
	)
}

// Decodes function parameters, the inverse of "EncodeParams".
func DecodeParams(data []byte, tok Token, validate bool) error {
	tuple, ok := tok.(*TupleToken)
	if !ok {
		return Decode(data, tok, validate)
	}
	return decodeChecked(
		data,
		validate,
		func(dec *Decoder) error {
			return decodeMembers(dec, len(tuple.Members), tuple.decodeAt)
		},
		tuple.paramsWords,
		func() []byte { return EncodeParams(tuple) },
	)
}

/*
Shared by every decode entry point. "words" reports the size of the canonical
encoding, so a mismatch in size is detected before "reencode" allocates.
*/
func decodeChecked(
	data []byte, validate bool, decode func(*Decoder) error, words func() int, reencode func() []byte,
) error {
	dec := NewDecoder(data, validate)
	err := decode(&dec)
	if err != nil {
		return err
	}
	if !validate {
		return nil
	}

	size := words() * WordLen
	if len(data) > size {
		Logger().Debug(`ABI input has trailing bytes`,
			zap.Int(`input_len`, len(data)), zap.Int(`encoded_len`, size))
		return newError(KindExtraData, nil, `input has %d bytes, canonical encoding has %d`,
			len(data), size)
	}
	if len(data) < size {
		Logger().Debug(`ABI input is not canonical`, zap.Int(`input_len`, len(data)), zap.Int(`encoded_len`, size))
		return newError(KindReserMismatch, nil, `input has %d bytes, canonical encoding has %d`,
			len(data), size)
	}

	encoded := reencode()
	if !bytes.Equal(data, encoded) {
		Logger().Debug(`ABI input is not canonical`, zap.Int(`input_len`, len(data)))
		return newError(KindReserMismatch, nil, `re-encoding the decoded value doesn't reproduce the input`)
	}
	return nil
}
