package ethabi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexEncodeDecode(t *testing.T) {
	t.Parallel()

	require.Equal(t, `0x`, string(HexEncode(nil)))
	require.Equal(t, `0x0aff`, string(HexEncode([]byte{0x0a, 0xff})))
	require.Error(t, HexEncodeTo(make([]byte, 3), []byte{1}))

	out, err := HexDecode([]byte(`0x0aff`))
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0xff}, out)

	out, err = HexDecode(nil)
	require.NoError(t, err)
	require.Empty(t, out)

	_, err = HexDecode([]byte(`0aff`))
	require.Error(t, err)
	_, err = HexDecode([]byte(`0xzz`))
	require.Error(t, err)

	// Output must stay untouched on error.
	buf := []byte{1, 2}
	require.Error(t, HexDecodeTo(buf, []byte(`0x0g0h`)))
	require.Equal(t, []byte{1, 2}, buf)

	require.Equal(t, []byte{0xde, 0xad}, MustHexParse(`0xdead`))
	require.Panics(t, func() { MustHexParse(`dead`) })

	out, err = HexDecodeLoose("0x de ad\n be ef")
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, out)
}

func TestHexBytes(t *testing.T) {
	t.Parallel()

	val := MustParseHexBytes(`0x0102`)
	require.Equal(t, HexBytes{1, 2}, val)
	require.Equal(t, `0x0102`, val.String())

	encoded, err := json.Marshal(val)
	require.NoError(t, err)
	require.Equal(t, `"0x0102"`, string(encoded))

	encoded, err = json.Marshal(HexBytes(nil))
	require.NoError(t, err)
	require.Equal(t, `null`, string(encoded))

	var decoded HexBytes
	require.NoError(t, json.Unmarshal([]byte(`"0x0102"`), &decoded))
	require.Equal(t, val, decoded)

	_, err = ParseHexBytes(`0102`)
	require.Error(t, err)
}

func TestAddressAndWord(t *testing.T) {
	t.Parallel()

	addr := MustParseAddress(`0x1111111111111111111111111111111111111111`)
	require.Equal(t, repeatAddress(0x11), addr)
	require.Equal(t, `0x1111111111111111111111111111111111111111`, addr.String())
	require.Equal(t, addr, addr.Word().Address())

	_, err := ParseAddress(`0x1111`)
	require.Error(t, err)

	zero, err := ParseAddress(``)
	require.NoError(t, err)
	require.Equal(t, ZeroAddress, zero)

	encoded, err := json.Marshal(ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, `null`, string(encoded))

	word := MustParseWord(`0x00000000000000000000000000000000000000000000000000000000000003e8`)
	require.Equal(t, uint64(1000), word.Uint256().Uint64())
	require.True(t, word.Bool())
	require.False(t, ZeroWord.Bool())
	require.Equal(t, word, Uint256Word(word.Uint256()))

	text, err := ZeroWord.MarshalText()
	require.NoError(t, err)
	require.Empty(t, text)
	require.Equal(t, `0x0000000000000000000000000000000000000000000000000000000000000000`, ZeroWord.String())

	_, err = ParseWord(`0x00`)
	require.Error(t, err)

	require.Equal(t, Word{31: 1}, BoolWord(true))
	require.Equal(t, ZeroWord, BoolWord(false))
	require.Equal(t, Word{0: 0xab}, LeftAlignedWord([]byte{0xab}))
}

func TestFunction(t *testing.T) {
	t.Parallel()

	fun := MakeFunction(repeatAddress(0x11), [4]byte{1, 2, 3, 4})
	require.Equal(t, repeatAddress(0x11), fun.Address())
	require.Equal(t, [4]byte{1, 2, 3, 4}, fun.Selector())
}

func TestHexNumbers(t *testing.T) {
	t.Parallel()

	var num HexUint64
	require.NoError(t, num.UnmarshalText([]byte(`0x1b4`)))
	require.Equal(t, HexUint64(436), num)
	text, err := num.MarshalText()
	require.NoError(t, err)
	require.Equal(t, `0x1b4`, string(text))
	require.Error(t, num.UnmarshalText([]byte(`1b4`)))

	var amount HexInt
	require.NoError(t, amount.UnmarshalText([]byte(`0xde0b6b3a7640000`)))
	text, err = amount.MarshalText()
	require.NoError(t, err)
	require.Equal(t, `0xde0b6b3a7640000`, string(text))
	require.Error(t, amount.UnmarshalText([]byte(`0xzz`)))
}

func TestRpcErrorRevertData(t *testing.T) {
	t.Parallel()

	rpcErr := RpcError{Code: 3, Message: `execution reverted`, Data: json.RawMessage(`"0x08c379a0"`)}
	data, ok := rpcErr.RevertData()
	require.True(t, ok)
	require.Equal(t, HexBytes{0x08, 0xc3, 0x79, 0xa0}, data)
	require.Contains(t, rpcErr.Error(), `RPC error 3: execution reverted`)

	_, ok = RpcError{Data: json.RawMessage(`"0x08"`)}.RevertData()
	require.False(t, ok)
	_, ok = RpcError{}.RevertData()
	require.False(t, ok)
}
