package ethabi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type wordSeq = DynSeqToken[WordToken, *WordToken]

func wordTokens(words ...Word) []WordToken {
	out := make([]WordToken, len(words))
	for i, word := range words {
		out[i] = WordToken(word)
	}
	return out
}

func uintWord(num uint32) WordToken { return WordToken(padU32(num)) }

func packed(input string) *PackedSeqToken {
	out := PackedSeqToken(input)
	return &out
}

func TestTokenEncodeAddress(t *testing.T) {
	t.Parallel()
	tok := NewWordToken(repeatAddress(0x11).Word())
	requireBytes(t, hexWords(`0000000000000000000000001111111111111111111111111111111111111111`), Encode(tok))
	require.False(t, tok.IsDynamic())
	require.Equal(t, 1, TotalWords(tok))
}

func TestTokenEncodeDynamicArrayOfAddresses(t *testing.T) {
	t.Parallel()
	tok := NewDynSeqToken(wordTokens(repeatAddress(0x11).Word(), repeatAddress(0x22).Word())...)

	expected := hexWords(`
		0000000000000000000000000000000000000000000000000000000000000020
		0000000000000000000000000000000000000000000000000000000000000002
		0000000000000000000000001111111111111111111111111111111111111111
		0000000000000000000000002222222222222222222222222222222222222222
	`)
	requireBytes(t, expected, Encode(tok))
	requireBytes(t, expected, EncodeParams(tok))
	require.Equal(t, 4, TotalWords(tok))

	var out wordSeq
	require.NoError(t, Decode(expected, &out, true))
	require.Equal(t, tok.Elems, out.Elems)
}

func TestTokenEncodeFixedArrayOfDynamicArrays(t *testing.T) {
	t.Parallel()
	tok := NewFixedSeqToken(
		*NewDynSeqToken(wordTokens(repeatAddress(0x11).Word(), repeatAddress(0x22).Word())...),
		*NewDynSeqToken(wordTokens(repeatAddress(0x33).Word(), repeatAddress(0x44).Word())...),
	)
	require.True(t, tok.IsDynamic())
	require.Equal(t, 2, tok.Len())

	expected := hexWords(`
		0000000000000000000000000000000000000000000000000000000000000020
		0000000000000000000000000000000000000000000000000000000000000040
		00000000000000000000000000000000000000000000000000000000000000a0
		0000000000000000000000000000000000000000000000000000000000000002
		0000000000000000000000001111111111111111111111111111111111111111
		0000000000000000000000002222222222222222222222222222222222222222
		0000000000000000000000000000000000000000000000000000000000000002
		0000000000000000000000003333333333333333333333333333333333333333
		0000000000000000000000004444444444444444444444444444444444444444
	`)
	requireBytes(t, expected, Encode(tok))
	require.Equal(t, len(expected)/WordLen, TotalWords(tok))

	out := MakeFixedSeqToken[wordSeq](2, nil)
	require.NoError(t, Decode(expected, out, true))
	require.Equal(t, tok.Elems[0].Elems, out.Elems[0].Elems)
	require.Equal(t, tok.Elems[1].Elems, out.Elems[1].Elems)
}

func TestTokenEncodeDynamicArrayOfDynamicArrays(t *testing.T) {
	t.Parallel()
	tok := NewDynSeqToken(
		*NewDynSeqToken(wordTokens(repeatAddress(0x11).Word())...),
		*NewDynSeqToken(wordTokens(repeatAddress(0x22).Word())...),
	)

	expected := hexWords(`
		0000000000000000000000000000000000000000000000000000000000000020
		0000000000000000000000000000000000000000000000000000000000000002
		0000000000000000000000000000000000000000000000000000000000000040
		0000000000000000000000000000000000000000000000000000000000000080
		0000000000000000000000000000000000000000000000000000000000000001
		0000000000000000000000001111111111111111111111111111111111111111
		0000000000000000000000000000000000000000000000000000000000000001
		0000000000000000000000002222222222222222222222222222222222222222
	`)
	requireBytes(t, expected, Encode(tok))

	var out DynSeqToken[wordSeq, *wordSeq]
	require.NoError(t, Decode(expected, &out, true))
	require.Len(t, out.Elems, 2)
	require.Equal(t, tok.Elems[0].Elems, out.Elems[0].Elems)
	require.Equal(t, tok.Elems[1].Elems, out.Elems[1].Elems)
}

func TestTokenEncodeStaticNesting(t *testing.T) {
	t.Parallel()
	tok := NewFixedSeqToken(
		*NewFixedSeqToken(wordTokens(repeatAddress(0x11).Word(), repeatAddress(0x22).Word())...),
		*NewFixedSeqToken(wordTokens(repeatAddress(0x33).Word(), repeatAddress(0x44).Word())...),
	)
	require.False(t, tok.IsDynamic())
	require.Equal(t, 4, tok.HeadWords())
	require.Equal(t, 0, tok.TailWords())

	// A static sequence is never behind a pointer.
	expected := hexWords(`
		0000000000000000000000001111111111111111111111111111111111111111
		0000000000000000000000002222222222222222222222222222222222222222
		0000000000000000000000003333333333333333333333333333333333333333
		0000000000000000000000004444444444444444444444444444444444444444
	`)
	requireBytes(t, expected, Encode(tok))
	requireBytes(t, expected, EncodeParams(tok))

	out := MakeFixedSeqToken[FixedSeqToken[WordToken, *WordToken]](2, func() FixedSeqToken[WordToken, *WordToken] {
		return *MakeFixedSeqToken[WordToken](2, nil)
	})
	require.NoError(t, Decode(expected, out, true))
	require.Equal(t, tok, out)
}

func staticTupleShape() TupleToken {
	return *NewTupleToken(new(WordToken), new(WordToken), new(WordToken))
}

func TestTokenFixedArrayOfStaticTuplesFollowedByDynamic(t *testing.T) {
	t.Parallel()
	tuple := func(a, b uint32, addr Address) TupleToken {
		first, second := uintWord(a), uintWord(b)
		return *NewTupleToken(&first, &second, NewWordToken(addr.Word()))
	}

	tok := NewTupleToken(
		NewFixedSeqToken(
			tuple(93523141, 352332135, repeatAddress(0x44)),
			tuple(12411, 451, repeatAddress(0x22)),
		),
		packed(`gavofyork`),
	)

	expected := hexWords(`
		0000000000000000000000000000000000000000000000000000000005930cc5
		0000000000000000000000000000000000000000000000000000000015002967
		0000000000000000000000004444444444444444444444444444444444444444
		000000000000000000000000000000000000000000000000000000000000307b
		00000000000000000000000000000000000000000000000000000000000001c3
		0000000000000000000000002222222222222222222222222222222222222222
		00000000000000000000000000000000000000000000000000000000000000e0
		0000000000000000000000000000000000000000000000000000000000000009
		6761766f66796f726b0000000000000000000000000000000000000000000000
	`)
	requireBytes(t, expected, EncodeParams(tok))
	requireBytes(t, append(hexWords(`0000000000000000000000000000000000000000000000000000000000000020`), expected...), Encode(tok))

	out := NewTupleToken(MakeFixedSeqToken[TupleToken](2, staticTupleShape), new(PackedSeqToken))
	require.NoError(t, DecodeParams(expected, out, true))
	requireBytes(t, expected, EncodeParams(out))
	require.Equal(t, `gavofyork`, string(*out.Members[1].(*PackedSeqToken)))
}

func TestTokenComprehensiveParams(t *testing.T) {
	t.Parallel()
	two, three, four := uintWord(2), uintWord(3), uintWord(4)
	tok := NewTupleToken(
		NewWordToken(BoolWord(true)),
		packed(`gavofyork`),
		&two, &three, &four,
		NewDynSeqToken(uintWord(5), uintWord(6), uintWord(7)),
	)

	expected := hexWords(`
		0000000000000000000000000000000000000000000000000000000000000001
		00000000000000000000000000000000000000000000000000000000000000c0
		0000000000000000000000000000000000000000000000000000000000000002
		0000000000000000000000000000000000000000000000000000000000000003
		0000000000000000000000000000000000000000000000000000000000000004
		0000000000000000000000000000000000000000000000000000000000000100
		0000000000000000000000000000000000000000000000000000000000000009
		6761766f66796f726b0000000000000000000000000000000000000000000000
		0000000000000000000000000000000000000000000000000000000000000003
		0000000000000000000000000000000000000000000000000000000000000005
		0000000000000000000000000000000000000000000000000000000000000006
		0000000000000000000000000000000000000000000000000000000000000007
	`)
	params := EncodeParams(tok)
	requireBytes(t, expected, params)

	single := Encode(tok)
	require.Equal(t, len(params)+WordLen, len(single))
	require.Equal(t, TotalWords(tok)*WordLen, len(single))
}

func TestTokenEmptyDynamicArray(t *testing.T) {
	t.Parallel()
	tok := NewDynSeqToken[WordToken]()
	expected := hexWords(`
		0000000000000000000000000000000000000000000000000000000000000020
		0000000000000000000000000000000000000000000000000000000000000000
	`)
	requireBytes(t, expected, Encode(tok))

	var out wordSeq
	require.NoError(t, Decode(expected, &out, true))
	require.Empty(t, out.Elems)
}

func TestTokenDynamicArrayShape(t *testing.T) {
	t.Parallel()
	// (uint256,string)[]
	shape := func() TupleToken { return *NewTupleToken(new(WordToken), new(PackedSeqToken)) }
	first, second := uintWord(1), uintWord(2)
	tok := NewDynSeqToken(
		*NewTupleToken(&first, packed(`one`)),
		*NewTupleToken(&second, packed(`two`)),
	)
	encoded := Encode(tok)
	require.Equal(t, TotalWords(tok)*WordLen, len(encoded))

	out := &DynSeqToken[TupleToken, *TupleToken]{Shape: shape}
	require.NoError(t, Decode(encoded, out, true))
	require.Len(t, out.Elems, 2)
	require.Equal(t, `two`, string(*out.Elems[1].Members[1].(*PackedSeqToken)))
	requireBytes(t, encoded, Encode(out))
}

func TestTokenHugeLength(t *testing.T) {
	t.Parallel()
	input := hexWords(`
		0000000000000000000000000000000000000000000000000000000000000020
		00000000000000000000000000000000000000000000000000000000ffffffff
		0000000000000000000000000000000000000000000000000000000000000001
		0000000000000000000000000000000000000000000000000000000000000002
	`)
	var out wordSeq
	requireKind(t, Decode(input, &out, false), KindOverrun)
	requireKind(t, Decode(input, &out, true), KindOverrun)

	var bytesOut PackedSeqToken
	requireKind(t, Decode(input, &bytesOut, false), KindOverrun)
}

func TestTokenPackedSeqCopiesOnDecode(t *testing.T) {
	t.Parallel()
	input := Encode(packed(`abc`))
	var out PackedSeqToken
	require.NoError(t, Decode(input, &out, true))
	input[2*WordLen] = 'x'
	require.Equal(t, `abc`, string(out))
}
