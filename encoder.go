package ethabi

/*
Encoder accumulates ABI words. Besides the output buffer, it keeps a stack of
"suffix offsets": for every sequence being encoded, the byte offset, relative to
the start of that sequence, where the tail data of the next dynamic member will
begin. A sequence pushes its head size on entry, bumps the offset by each
member's tail size after writing the member's head, and pops on exit. This
computes every relative pointer in one forward pass.

Encoders are transient: create one per encoding call.
*/
type Encoder struct {
	buf          []Word
	suffixOffset []uint32
}

// Creates an encoder with capacity for the given number of words.
func NewEncoder(words int) *Encoder {
	return &Encoder{buf: make([]Word, 0, words)}
}

// Encoded words so far.
func (self *Encoder) Words() []Word { return self.buf }

// Encoded words so far, flattened.
func (self *Encoder) Bytes() []byte {
	out := make([]byte, 0, len(self.buf)*WordLen)
	for i := range self.buf {
		out = append(out, self.buf[i][:]...)
	}
	return out
}

// Current top of the offset stack, or 0 outside of any sequence.
func (self *Encoder) SuffixOffset() uint32 {
	if len(self.suffixOffset) == 0 {
		return 0
	}
	return self.suffixOffset[len(self.suffixOffset)-1]
}

// Enters a sequence whose head occupies the given number of words.
func (self *Encoder) PushOffset(words int) {
	self.suffixOffset = append(self.suffixOffset, uint32(words*WordLen))
}

// Leaves the current sequence. Boolean indicates whether there was one.
func (self *Encoder) PopOffset() (uint32, bool) {
	if len(self.suffixOffset) == 0 {
		return 0, false
	}
	last := self.suffixOffset[len(self.suffixOffset)-1]
	self.suffixOffset = self.suffixOffset[:len(self.suffixOffset)-1]
	return last, true
}

// Advances the current suffix offset by the given number of words.
func (self *Encoder) BumpOffset(words int) {
	if len(self.suffixOffset) > 0 {
		self.suffixOffset[len(self.suffixOffset)-1] += uint32(words * WordLen)
	}
}

func (self *Encoder) AppendWord(word Word) {
	self.buf = append(self.buf, word)
}

func (self *Encoder) AppendU32(num uint32) {
	self.AppendWord(padU32(num))
}

// Writes the current suffix offset: the pointer to a dynamic member's tail.
func (self *Encoder) AppendIndirection() {
	self.AppendU32(self.SuffixOffset())
}

// Writes an element count or byte length.
func (self *Encoder) AppendSeqLen(length int) {
	self.AppendU32(uint32(length))
}

// Writes the bytes followed by zeroes up to the next word boundary.
func (self *Encoder) AppendBytes(input []byte) {
	for len(input) > 0 {
		self.AppendWord(LeftAlignedWord(input))
		if len(input) <= WordLen {
			break
		}
		input = input[WordLen:]
	}
}

// Length-prefixed byte payload: the wire form of "bytes" and "string".
func (self *Encoder) AppendPackedSeq(input []byte) {
	self.AppendSeqLen(len(input))
	self.AppendBytes(input)
}
