package ethabi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecoderTakeWord(t *testing.T) {
	t.Parallel()

	input := hexWords(`
		0000000000000000000000000000000000000000000000000000000000000001
		0000000000000000000000000000000000000000000000000000000000000002
	`)
	dec := NewDecoder(input, false)

	word, err := dec.PeekWord()
	require.NoError(t, err)
	require.Equal(t, padU32(1), word)
	require.Equal(t, 0, dec.Offset())

	num, err := dec.TakeU32()
	require.NoError(t, err)
	require.Equal(t, uint32(1), num)

	word, err = dec.TakeWord()
	require.NoError(t, err)
	require.Equal(t, padU32(2), word)
	require.Equal(t, 0, dec.Remaining())

	_, err = dec.TakeWord()
	requireKind(t, err, KindOverrun)
}

func TestDecoderTruncatedWord(t *testing.T) {
	t.Parallel()
	dec := NewDecoder(make([]byte, 31), true)
	_, err := dec.TakeWord()
	requireKind(t, err, KindOverrun)
	require.Equal(t, 0, dec.Offset())
}

func TestDecoderWideU32(t *testing.T) {
	t.Parallel()
	input := hexWords(`0000000000000000000000000000000000000000000000000000000100000000`)
	dec := NewDecoder(input, false)
	_, err := dec.TakeU32()
	requireKind(t, err, KindOverrun)
}

func TestDecoderTakeIndirection(t *testing.T) {
	t.Parallel()

	input := hexWords(`
		0000000000000000000000000000000000000000000000000000000000000040
		0000000000000000000000000000000000000000000000000000000000000000
		0000000000000000000000000000000000000000000000000000000000000007
	`)
	dec := NewDecoder(input, true)
	child, err := dec.TakeIndirection()
	require.NoError(t, err)
	require.Equal(t, WordLen, dec.Offset())
	require.Equal(t, WordLen, child.Remaining())
	require.True(t, child.Validate())

	num, err := child.TakeU32()
	require.NoError(t, err)
	require.Equal(t, uint32(7), num)

	// Pointing exactly at the end is fine, the child is empty.
	dec = NewDecoder(hexWords(`0000000000000000000000000000000000000000000000000000000000000020`), false)
	child, err = dec.TakeIndirection()
	require.NoError(t, err)
	require.Equal(t, 0, child.Remaining())

	dec = NewDecoder(hexWords(`0000000000000000000000000000000000000000000000000000000000000021`), false)
	_, err = dec.TakeIndirection()
	requireKind(t, err, KindOverrun)
}

func TestDecoderTakeSlice(t *testing.T) {
	t.Parallel()

	t.Run("in bounds", func(t *testing.T) {
		dec := NewDecoder(hexWords(`6761766f66796f726b0000000000000000000000000000000000000000000000`), true)
		out, err := dec.TakeSlice(9)
		require.NoError(t, err)
		require.Equal(t, `gavofyork`, string(out))
		require.Equal(t, WordLen, dec.Offset())
	})

	t.Run("padding out of bounds", func(t *testing.T) {
		dec := NewDecoder([]byte(`gavofyork`), false)
		_, err := dec.TakeSlice(9)
		requireKind(t, err, KindOverrun)
	})

	t.Run("dirty padding", func(t *testing.T) {
		input := hexWords(`6761766f66796f726b0000000000000000000000000000000000000000000001`)

		dec := NewDecoder(input, true)
		_, err := dec.TakeSlice(9)
		requireKind(t, err, KindInvalidData)

		dec = NewDecoder(input, false)
		out, err := dec.TakeSlice(9)
		require.NoError(t, err)
		require.Equal(t, `gavofyork`, string(out))
	})

	t.Run("empty", func(t *testing.T) {
		dec := NewDecoder(nil, true)
		out, err := dec.TakeSlice(0)
		require.NoError(t, err)
		require.Empty(t, out)
	})
}

func TestDecoderRawChild(t *testing.T) {
	t.Parallel()

	dec := NewDecoder(make([]byte, 3*WordLen), false)
	_, err := dec.TakeWord()
	require.NoError(t, err)

	child := dec.RawChild()
	require.Equal(t, 0, child.Offset())
	require.Equal(t, 2*WordLen, child.Remaining())

	_, err = child.TakeWord()
	require.NoError(t, err)

	dec.TakeOffset(child)
	require.Equal(t, 2*WordLen, dec.Offset())
	require.Equal(t, WordLen, dec.Remaining())
}

func TestDecoderPeek(t *testing.T) {
	t.Parallel()
	dec := NewDecoder(make([]byte, WordLen), false)

	_, err := dec.Peek(0, 33)
	requireKind(t, err, KindOverrun)
	_, err = dec.Peek(2, 1)
	requireKind(t, err, KindOverrun)

	chunk, err := dec.PeekLen(WordLen)
	require.NoError(t, err)
	require.Len(t, chunk, WordLen)
}

func TestDecoderCharge(t *testing.T) {
	t.Parallel()
	dec := NewDecoder(make([]byte, WordLen), false)
	child := dec.RawChild()

	require.NoError(t, dec.Charge(3*WordLen))
	require.NoError(t, child.Charge(WordLen))
	requireKind(t, child.Charge(1), KindInvalidData)
}
