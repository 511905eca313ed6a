package ethabi

/*
Decoder is a bounds-checked read cursor over ABI-encoded bytes. Every read that
would go past the end of the buffer fails with KindOverrun; nothing panics on
malformed input.

Offsets found in the data are relative to the start of the enclosing sequence.
A Decoder's buffer always begins at the start of the sequence it's decoding, so
"TakeIndirection" can resolve a pointer by re-slicing its own buffer.

When "validate" is set, padding must be zero. Word-level bit patterns of typed
values are checked by the layer that interprets the words.

Pointers may alias, so the same region can be decoded many times. Child
decoders share a budget, see "Charge".
*/
type Decoder struct {
	buf      []byte
	offset   int
	validate bool
	budget   *int
}

// Everything a decode allocates for sequences and payloads must fit into this
// many times the input size. A canonical encoding needs at most 1x.
const maxDecodeExpansion = 4

// Creates a decoder positioned at the start of the buffer.
func NewDecoder(buf []byte, validate bool) Decoder {
	budget := len(buf) * maxDecodeExpansion
	return Decoder{buf: buf, validate: validate, budget: &budget}
}

// Whether this decoder enforces canonical encoding.
func (self *Decoder) Validate() bool { return self.validate }

// Current position, relative to the start of this decoder's buffer.
func (self *Decoder) Offset() int { return self.offset }

/*
Accounts for "size" bytes of decoded sequence elements or payload. Fails with
KindInvalidData once the total exceeds "maxDecodeExpansion" times the input
size of the root decoder.
*/
func (self *Decoder) Charge(size int) error {
	if self.budget == nil {
		return nil
	}
	if size > *self.budget {
		return errInvalidData(`decoded data exceeds %d times the input size`, maxDecodeExpansion)
	}
	*self.budget -= size
	return nil
}

// Number of unread bytes.
func (self *Decoder) Remaining() int {
	if self.offset >= len(self.buf) {
		return 0
	}
	return len(self.buf) - self.offset
}

func (self *Decoder) child(offset int) (Decoder, error) {
	if offset < 0 || offset > len(self.buf) {
		return Decoder{}, errOverrun(`offset %d is beyond the buffer of %d bytes`, offset, len(self.buf))
	}
	return Decoder{buf: self.buf[offset:], validate: self.validate, budget: self.budget}, nil
}

/*
Returns a decoder over the rest of the buffer, starting at the current position.
Used for static nested sequences, which are decoded in place. Afterwards, call
"TakeOffset" to move past what the child consumed.
*/
func (self *Decoder) RawChild() Decoder {
	offset := self.offset
	if offset > len(self.buf) {
		offset = len(self.buf)
	}
	return Decoder{buf: self.buf[offset:], validate: self.validate, budget: self.budget}
}

/*
Moves this decoder past everything consumed by a child previously obtained
from "RawChild". The child's buffer must be a suffix of this decoder's buffer.
*/
func (self *Decoder) TakeOffset(child Decoder) {
	self.offset = child.offset + (len(self.buf) - len(child.buf))
}

// Returns the bytes in the range [start, end) without consuming them.
func (self *Decoder) Peek(start, end int) ([]byte, error) {
	if start < 0 || end < start || end > len(self.buf) {
		return nil, errOverrun(`range %d..%d is beyond the buffer of %d bytes`, start, end, len(self.buf))
	}
	return self.buf[start:end], nil
}

// Returns the next "length" bytes without consuming them.
func (self *Decoder) PeekLen(length int) ([]byte, error) {
	return self.Peek(self.offset, self.offset+length)
}

// Returns the next word without consuming it.
func (self *Decoder) PeekWord() (Word, error) {
	chunk, err := self.PeekLen(WordLen)
	if err != nil {
		return Word{}, err
	}
	return Word(chunk), nil
}

// Returns the next word as a pointer or length, without consuming it.
func (self *Decoder) PeekU32() (uint32, error) {
	word, err := self.PeekWord()
	if err != nil {
		return 0, err
	}
	return asU32(word)
}

func (self *Decoder) TakeWord() (Word, error) {
	word, err := self.PeekWord()
	if err != nil {
		return word, err
	}
	self.offset += WordLen
	return word, nil
}

// Consumes a pointer or length word.
func (self *Decoder) TakeU32() (uint32, error) {
	word, err := self.TakeWord()
	if err != nil {
		return 0, err
	}
	return asU32(word)
}

/*
Consumes a pointer word and returns a decoder positioned at the pointed-to
data. The new decoder's buffer starts there, which makes it the base for the
offsets found in that data.
*/
func (self *Decoder) TakeIndirection() (Decoder, error) {
	ptr, err := self.TakeU32()
	if err != nil {
		return Decoder{}, err
	}
	return self.child(int(ptr))
}

/*
Consumes "length" raw bytes and the padding that follows them up to the next
word boundary. The padding must be present. When validating, it must also be
zero. The returned slice aliases the buffer.
*/
func (self *Decoder) TakeSlice(length int) ([]byte, error) {
	padded := nextMultipleOf32(length)
	if length < 0 || padded > self.Remaining() {
		return nil, errOverrun(`packed sequence of %d bytes at offset %d exceeds the remaining %d bytes`,
			length, self.offset, self.Remaining())
	}

	out := self.buf[self.offset : self.offset+length]
	if self.validate && !checkZeroes(self.buf[self.offset+length:self.offset+padded]) {
		return nil, errInvalidData(`non-zero padding after packed sequence at offset %d`, self.offset)
	}
	self.offset += padded
	return out, nil
}
