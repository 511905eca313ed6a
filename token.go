package ethabi

/*
Token describes how a value's shape maps to ABI words. The set of tokens is
closed, mirroring the ABI itself:

	WordToken        one inline word, always static
	FixedSeqToken    exactly N homogeneous members, dynamic iff a member is
	DynSeqToken      runtime-length homogeneous sequence, always dynamic
	PackedSeqToken   length-prefixed raw bytes ("bytes", "string"), always dynamic
	TupleToken       fixed heterogeneous members, dynamic iff a member is

HeadWords is the token's contribution to the head of the sequence that contains
it: 1 for a dynamic token (its pointer), the sum of the members' head words for
a static sequence. TailWords is the size of the data a dynamic token writes
after the head; static tokens have no tail.

A token is also a decoding target. DecodeFrom fills the token in place, so
sequences must be shaped beforehand. For example, to decode "(uint256,string)":

	tuple := NewTupleToken(new(WordToken), new(PackedSeqToken))
	err := DecodeParams(input, tuple, true)
*/
type Token interface {
	IsDynamic() bool
	HeadWords() int
	TailWords() int
	HeadAppend(*Encoder)
	TailAppend(*Encoder)
	DecodeFrom(*Decoder) error

	token()
}

/*
Constraint for the element type of homogeneous sequences: T is the element
type, stored by value, and *T implements Token.
*/
type TokenPtr[T any] interface {
	*T
	Token
}

// Head plus tail: the number of words the token occupies when encoded alone.
func TotalWords(tok Token) int {
	return tok.HeadWords() + tok.TailWords()
}

// Subset of Token shared with DynToken. Used by the sequence algorithm.
type headTail interface {
	IsDynamic() bool
	HeadWords() int
	TailWords() int
	HeadAppend(*Encoder)
	TailAppend(*Encoder)
}

/*
Encodes members as one sequence: all heads, each followed by a bump of the
offset by that member's tail size, then all tails. Pointers written by the heads
are therefore relative to the start of this sequence.
*/
func encodeSeq(enc *Encoder, count int, at func(int) headTail) {
	var head int
	for i := 0; i < count; i++ {
		head += at(i).HeadWords()
	}

	enc.PushOffset(head)
	for i := 0; i < count; i++ {
		member := at(i)
		member.HeadAppend(enc)
		enc.BumpOffset(member.TailWords())
	}
	for i := 0; i < count; i++ {
		at(i).TailAppend(enc)
	}
	enc.PopOffset()
}

func seqIsDynamic(count int, at func(int) headTail) bool {
	for i := 0; i < count; i++ {
		if at(i).IsDynamic() {
			return true
		}
	}
	return false
}

func seqHeadWords(count int, at func(int) headTail) int {
	if seqIsDynamic(count, at) {
		return 1
	}
	var out int
	for i := 0; i < count; i++ {
		out += at(i).HeadWords()
	}
	return out
}

func seqTailWords(count int, at func(int) headTail) int {
	if !seqIsDynamic(count, at) {
		return 0
	}
	var out int
	for i := 0; i < count; i++ {
		member := at(i)
		out += member.HeadWords() + member.TailWords()
	}
	return out
}

/*
Decodes a fixed-size sequence nested in a parent sequence. A dynamic sequence
lives behind a pointer. A static one is decoded in place, after which the
parent moves past it.
*/
func decodeFixedSeq(dec *Decoder, dynamic bool, count int, decode memberDecoder) error {
	if dynamic {
		child, err := dec.TakeIndirection()
		if err != nil {
			return err
		}
		return decodeMembers(&child, count, decode)
	}

	child := dec.RawChild()
	err := decodeMembers(&child, count, decode)
	if err != nil {
		return err
	}
	dec.TakeOffset(child)
	return nil
}

// Decodes the sequence member at the given index from the sequence decoder.
type memberDecoder = func(int, *Decoder) error

func decodeMembers(dec *Decoder, count int, decode memberDecoder) error {
	for i := 0; i < count; i++ {
		err := decode(i, dec)
		if err != nil {
			return err
		}
	}
	return nil
}

/*
Reads the element count of a dynamic sequence and checks that the buffer can
hold that many elements before anything is allocated. Every element occupies
at least "elemHeadWords" words (at least one) in the element area.
*/
func takeSeqLen(dec *Decoder, elemHeadWords int) (int, error) {
	length, err := dec.TakeU32()
	if err != nil {
		return 0, err
	}

	if elemHeadWords < 1 {
		elemHeadWords = 1
	}
	need := uint64(length) * uint64(elemHeadWords) * uint64(WordLen)
	if need > uint64(dec.Remaining()) {
		return 0, errOverrun(`sequence of %d elements needs at least %d bytes, %d remaining`,
			length, need, dec.Remaining())
	}
	err = dec.Charge(int(need))
	if err != nil {
		return 0, err
	}
	return int(length), nil
}

// Single inline word. See the "XWord" helpers for building words from values.
type WordToken Word

func NewWordToken(word Word) *WordToken {
	out := WordToken(word)
	return &out
}

func (self *WordToken) Word() Word          { return Word(*self) }
func (self *WordToken) IsDynamic() bool     { return false }
func (self *WordToken) HeadWords() int      { return 1 }
func (self *WordToken) TailWords() int      { return 0 }
func (self *WordToken) TailAppend(*Encoder) {}
func (self *WordToken) token()              {}

func (self *WordToken) HeadAppend(enc *Encoder) { enc.AppendWord(Word(*self)) }

func (self *WordToken) DecodeFrom(dec *Decoder) error {
	word, err := dec.TakeWord()
	if err != nil {
		return err
	}
	*self = WordToken(word)
	return nil
}

// Raw payload of "bytes" or "string".
type PackedSeqToken []byte

func (self *PackedSeqToken) IsDynamic() bool { return true }
func (self *PackedSeqToken) HeadWords() int  { return 1 }
func (self *PackedSeqToken) TailWords() int  { return 1 + wordsFor(len(*self)) }
func (self *PackedSeqToken) token()          {}

func (self *PackedSeqToken) HeadAppend(enc *Encoder) { enc.AppendIndirection() }
func (self *PackedSeqToken) TailAppend(enc *Encoder) { enc.AppendPackedSeq(*self) }

func (self *PackedSeqToken) DecodeFrom(dec *Decoder) error {
	payload, err := takePackedSeq(dec)
	if err != nil {
		return err
	}
	*self = append(PackedSeqToken(nil), payload...)
	return nil
}

// Follows the pointer, then reads the length word and the payload. The result
// aliases the decoder's buffer.
func takePackedSeq(dec *Decoder) ([]byte, error) {
	child, err := dec.TakeIndirection()
	if err != nil {
		return nil, err
	}
	length, err := child.TakeU32()
	if err != nil {
		return nil, err
	}
	payload, err := child.TakeSlice(int(length))
	if err != nil {
		return nil, err
	}
	return payload, child.Charge(len(payload))
}

/*
Fixed-length homogeneous sequence, such as "uint256[3]". The length is the
length of "Elems" and must not change after construction. To decode, build the
token with the expected number of shaped elements, for example via
"MakeFixedSeqToken".
*/
type FixedSeqToken[T any, P TokenPtr[T]] struct {
	Elems []T
}

func NewFixedSeqToken[T any, P TokenPtr[T]](elems ...T) *FixedSeqToken[T, P] {
	return &FixedSeqToken[T, P]{Elems: elems}
}

// Creates a sequence of N elements, each shaped by "shape" when it's non-nil.
func MakeFixedSeqToken[T any, P TokenPtr[T]](count int, shape func() T) *FixedSeqToken[T, P] {
	elems := make([]T, count)
	if shape != nil {
		for i := range elems {
			elems[i] = shape()
		}
	}
	return &FixedSeqToken[T, P]{Elems: elems}
}

func (self *FixedSeqToken[T, P]) Len() int { return len(self.Elems) }

func (self *FixedSeqToken[T, P]) at(i int) headTail { return P(&self.Elems[i]) }
func (self *FixedSeqToken[T, P]) token()            {}

func (self *FixedSeqToken[T, P]) decodeAt(i int, dec *Decoder) error {
	return P(&self.Elems[i]).DecodeFrom(dec)
}

func (self *FixedSeqToken[T, P]) IsDynamic() bool {
	return seqIsDynamic(len(self.Elems), self.at)
}

func (self *FixedSeqToken[T, P]) HeadWords() int {
	return seqHeadWords(len(self.Elems), self.at)
}

func (self *FixedSeqToken[T, P]) TailWords() int {
	return seqTailWords(len(self.Elems), self.at)
}

func (self *FixedSeqToken[T, P]) HeadAppend(enc *Encoder) {
	if self.IsDynamic() {
		enc.AppendIndirection()
		return
	}
	for i := range self.Elems {
		P(&self.Elems[i]).HeadAppend(enc)
	}
}

func (self *FixedSeqToken[T, P]) TailAppend(enc *Encoder) {
	if self.IsDynamic() {
		encodeSeq(enc, len(self.Elems), self.at)
	}
}

func (self *FixedSeqToken[T, P]) DecodeFrom(dec *Decoder) error {
	return decodeFixedSeq(dec, self.IsDynamic(), len(self.Elems), self.decodeAt)
}

/*
Runtime-length homogeneous sequence, such as "address[]". The element count is
read from the input when decoding. Element types whose zero value has no shape,
such as TupleToken or FixedSeqToken, need "Shape" to build each element before
it's decoded into.
*/
type DynSeqToken[T any, P TokenPtr[T]] struct {
	Elems []T
	Shape func() T
}

func NewDynSeqToken[T any, P TokenPtr[T]](elems ...T) *DynSeqToken[T, P] {
	return &DynSeqToken[T, P]{Elems: elems}
}

func (self *DynSeqToken[T, P]) Len() int { return len(self.Elems) }

func (self *DynSeqToken[T, P]) at(i int) headTail { return P(&self.Elems[i]) }
func (self *DynSeqToken[T, P]) token()            {}

func (self *DynSeqToken[T, P]) IsDynamic() bool { return true }
func (self *DynSeqToken[T, P]) HeadWords() int  { return 1 }

func (self *DynSeqToken[T, P]) TailWords() int {
	out := 1
	for i := range self.Elems {
		out += TotalWords(P(&self.Elems[i]))
	}
	return out
}

func (self *DynSeqToken[T, P]) HeadAppend(enc *Encoder) { enc.AppendIndirection() }

func (self *DynSeqToken[T, P]) TailAppend(enc *Encoder) {
	enc.AppendSeqLen(len(self.Elems))
	encodeSeq(enc, len(self.Elems), self.at)
}

func (self *DynSeqToken[T, P]) newElem() T {
	if self.Shape != nil {
		return self.Shape()
	}
	var out T
	return out
}

func (self *DynSeqToken[T, P]) DecodeFrom(dec *Decoder) error {
	child, err := dec.TakeIndirection()
	if err != nil {
		return err
	}

	sample := self.newElem()
	length, err := takeSeqLen(&child, P(&sample).HeadWords())
	if err != nil {
		return err
	}

	elems := make([]T, length)
	area := child.RawChild()
	for i := range elems {
		elems[i] = self.newElem()
		err := P(&elems[i]).DecodeFrom(&area)
		if err != nil {
			return err
		}
	}
	self.Elems = elems
	return nil
}

// Heterogeneous fixed-arity sequence: a Solidity tuple or struct.
type TupleToken struct {
	Members []Token
}

func NewTupleToken(members ...Token) *TupleToken {
	return &TupleToken{Members: members}
}

func (self *TupleToken) at(i int) headTail { return self.Members[i] }
func (self *TupleToken) token()            {}

func (self *TupleToken) decodeAt(i int, dec *Decoder) error {
	return self.Members[i].DecodeFrom(dec)
}

func (self *TupleToken) IsDynamic() bool {
	return seqIsDynamic(len(self.Members), self.at)
}

func (self *TupleToken) HeadWords() int {
	return seqHeadWords(len(self.Members), self.at)
}

func (self *TupleToken) TailWords() int {
	return seqTailWords(len(self.Members), self.at)
}

func (self *TupleToken) HeadAppend(enc *Encoder) {
	if self.IsDynamic() {
		enc.AppendIndirection()
		return
	}
	for _, member := range self.Members {
		member.HeadAppend(enc)
	}
}

func (self *TupleToken) TailAppend(enc *Encoder) {
	if self.IsDynamic() {
		encodeSeq(enc, len(self.Members), self.at)
	}
}

func (self *TupleToken) DecodeFrom(dec *Decoder) error {
	return decodeFixedSeq(dec, self.IsDynamic(), len(self.Members), self.decodeAt)
}
