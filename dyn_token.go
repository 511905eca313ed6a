package ethabi

// Variant of DynToken. See DynToken.
type DynTokenKind uint8

const (
	DynWord DynTokenKind = iota
	DynFixedSeq
	DynDynSeq
	DynPackedSeq
)

func (self DynTokenKind) String() string {
	switch self {
	case DynWord:
		return `word`
	case DynFixedSeq:
		return `fixed_seq`
	case DynDynSeq:
		return `dyn_seq`
	case DynPackedSeq:
		return `packed_seq`
	default:
		return `unknown`
	}
}

/*
Type-erased token, the runtime counterpart of Token. Built by
"DynSolType.Tokenize" for encoding, or as an empty skeleton by
"DynSolType.EmptyToken" for decoding. Tuples and fixed arrays are both
represented as DynFixedSeq: on the wire they're indistinguishable.

Fields by kind:

	DynWord       Word
	DynFixedSeq   Elems, exactly as many as the type has members
	DynDynSeq     Elems, plus Template: the skeleton cloned for each decoded element
	DynPackedSeq  Packed

After "DecodePopulate", "Packed" aliases the decoded input. Treat it as
read-only; "DynSolType.Detokenize" copies it into the value.
*/
type DynToken struct {
	Kind     DynTokenKind
	Word     Word
	Elems    []DynToken
	Template *DynToken
	Packed   []byte
}

func WordDynToken(word Word) DynToken {
	return DynToken{Kind: DynWord, Word: word}
}

func FixedSeqDynToken(elems ...DynToken) DynToken {
	return DynToken{Kind: DynFixedSeq, Elems: elems}
}

func DynSeqDynToken(template DynToken, elems ...DynToken) DynToken {
	return DynToken{Kind: DynDynSeq, Template: &template, Elems: elems}
}

func PackedSeqDynToken(payload []byte) DynToken {
	return DynToken{Kind: DynPackedSeq, Packed: payload}
}

func (self *DynToken) at(i int) headTail { return &self.Elems[i] }

func (self *DynToken) decodeAt(i int, dec *Decoder) error {
	return self.Elems[i].DecodePopulate(dec)
}

func (self *DynToken) IsDynamic() bool {
	switch self.Kind {
	case DynWord:
		return false
	case DynFixedSeq:
		return seqIsDynamic(len(self.Elems), self.at)
	default:
		return true
	}
}

func (self *DynToken) HeadWords() int {
	switch self.Kind {
	case DynWord:
		return 1
	case DynFixedSeq:
		return seqHeadWords(len(self.Elems), self.at)
	default:
		return 1
	}
}

func (self *DynToken) TailWords() int {
	switch self.Kind {
	case DynWord:
		return 0
	case DynFixedSeq:
		return seqTailWords(len(self.Elems), self.at)
	case DynDynSeq:
		out := 1
		for i := range self.Elems {
			out += self.Elems[i].TotalWords()
		}
		return out
	case DynPackedSeq:
		return 1 + wordsFor(len(self.Packed))
	default:
		return 0
	}
}

// Head plus tail: the number of words the token occupies when encoded alone.
func (self *DynToken) TotalWords() int {
	return self.HeadWords() + self.TailWords()
}

func (self *DynToken) HeadAppend(enc *Encoder) {
	switch self.Kind {
	case DynWord:
		enc.AppendWord(self.Word)
	case DynFixedSeq:
		if self.IsDynamic() {
			enc.AppendIndirection()
			return
		}
		for i := range self.Elems {
			self.Elems[i].HeadAppend(enc)
		}
	default:
		enc.AppendIndirection()
	}
}

func (self *DynToken) TailAppend(enc *Encoder) {
	switch self.Kind {
	case DynFixedSeq:
		if self.IsDynamic() {
			encodeSeq(enc, len(self.Elems), self.at)
		}
	case DynDynSeq:
		enc.AppendSeqLen(len(self.Elems))
		encodeSeq(enc, len(self.Elems), self.at)
	case DynPackedSeq:
		enc.AppendPackedSeq(self.Packed)
	}
}

/*
Decodes into this token, which must be a skeleton of the expected shape (see
"DynSolType.EmptyToken"). Dynamic sequences allocate their elements by cloning
the template, after checking that the input can hold that many.
*/
func (self *DynToken) DecodePopulate(dec *Decoder) error {
	switch self.Kind {
	case DynWord:
		word, err := dec.TakeWord()
		if err != nil {
			return err
		}
		self.Word = word
		return nil

	case DynFixedSeq:
		return decodeFixedSeq(dec, self.IsDynamic(), len(self.Elems), self.decodeAt)

	case DynDynSeq:
		return self.decodeDynSeq(dec)

	case DynPackedSeq:
		payload, err := takePackedSeq(dec)
		if err != nil {
			return err
		}
		self.Packed = payload
		return nil

	default:
		panic(errTypeMismatch(`unrecognized token kind %v`, self.Kind))
	}
}

func (self *DynToken) decodeDynSeq(dec *Decoder) error {
	if self.Template == nil {
		panic(errTypeMismatch(`dynamic sequence token without template`))
	}

	child, err := dec.TakeIndirection()
	if err != nil {
		return err
	}

	length, err := takeSeqLen(&child, self.Template.HeadWords())
	if err != nil {
		return err
	}

	elems := make([]DynToken, length)
	area := child.RawChild()
	for i := range elems {
		elems[i] = self.Template.clone()
		err := elems[i].DecodePopulate(&area)
		if err != nil {
			return err
		}
	}
	self.Elems = elems
	return nil
}

// Deep copy. Used to stamp out dynamic sequence elements from a template.
func (self *DynToken) clone() DynToken {
	out := *self
	if self.Elems != nil {
		out.Elems = make([]DynToken, len(self.Elems))
		for i := range self.Elems {
			out.Elems[i] = self.Elems[i].clone()
		}
	}
	if self.Template != nil {
		template := self.Template.clone()
		out.Template = &template
	}
	if self.Packed != nil {
		out.Packed = append([]byte(nil), self.Packed...)
	}
	return out
}

// Encodes the token as the only member of an implicit tuple.
func (self *DynToken) Encode() []byte {
	enc := NewEncoder(self.TotalWords())
	encodeSeq(enc, 1, func(int) headTail { return self })
	return enc.Bytes()
}

/*
Encodes a DynFixedSeq as a parameter list, without an outer pointer. Other kinds
are encoded like "Encode".
*/
func (self *DynToken) EncodeSequence() []byte {
	if self.Kind != DynFixedSeq {
		return self.Encode()
	}

	enc := NewEncoder(self.sequenceWords())
	encodeSeq(enc, len(self.Elems), self.at)
	return enc.Bytes()
}

// Word count of a DynFixedSeq encoded as a parameter list.
func (self *DynToken) sequenceWords() int {
	var words int
	for i := range self.Elems {
		words += self.Elems[i].TotalWords()
	}
	return words
}

// Decodes the token as the only member of an implicit tuple.
func (self *DynToken) DecodeSingle(data []byte, validate bool) error {
	return decodeChecked(data, validate, self.DecodePopulate, self.TotalWords, self.Encode)
}

// Decodes a DynFixedSeq as a parameter list, the inverse of "EncodeSequence".
func (self *DynToken) DecodeSequence(data []byte, validate bool) error {
	if self.Kind != DynFixedSeq {
		return self.DecodeSingle(data, validate)
	}
	return decodeChecked(
		data,
		validate,
		func(dec *Decoder) error {
			return decodeMembers(dec, len(self.Elems), self.decodeAt)
		},
		self.sequenceWords,
		self.EncodeSequence,
	)
}
