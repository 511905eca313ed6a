package ethabi

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const (
	// 2^255, one past the largest int256.
	int256Overflow = `57896044618658097711785492504343953926634992332820282019728792003956564819968`
	// -2^255 - 1, one below the smallest int256.
	int256Underflow = `-57896044618658097711785492504343953926634992332820282019728792003956564819969`
)

func TestCoerceJSON(t *testing.T) {
	t.Parallel()
	var testCases = []struct {
		typ      string
		input    string
		expected DynSolValue
	}{
		{`address`, `"0x1111111111111111111111111111111111111111"`, AddressValue(repeatAddress(0x11))},
		{`bool`, `true`, BoolValue(true)},
		{`bool`, `"false"`, BoolValue(false)},
		{`uint8`, `255`, UintValueFrom64(255, 8)},
		{`uint256`, `"0xff"`, UintValueFrom64(255, 256)},
		{`int16`, `-300`, IntValueFrom64(-300, 16)},
		{`int8`, `"-128"`, IntValueFrom64(-128, 8)},
		{`bytes2`, `"0x1234"`, FixedBytesValue(LeftAlignedWord([]byte{0x12, 0x34}), 2)},
		{`bytes`, `"0x"`, BytesValue([]byte{})},
		{`string`, `"hello"`, StringValue(`hello`)},
		{`uint8[]`, `[1, "2", 3]`, ArrayValue(UintValueFrom64(1, 8), UintValueFrom64(2, 8), UintValueFrom64(3, 8))},
		{`bool[2]`, `[true, false]`, FixedArrayValue(BoolValue(true), BoolValue(false))},
		{`(uint256,string)`, `[7, "seven"]`, TupleValue(UintValueFrom64(7, 256), StringValue(`seven`))},
		{`uint8[]`, `[]`, ArrayValue()},
		{`int256`, `"-57896044618658097711785492504343953926634992332820282019728792003956564819968"`, IntValue(minInt256(), 256)},
		{`int256`, `"57896044618658097711785492504343953926634992332820282019728792003956564819967"`, IntValue(new(uint256.Int).Sub(minInt256(), uint256.NewInt(1)), 256)},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.typ+` `+testCase.input, func(t *testing.T) {
			t.Parallel()
			val, err := MustParseType(testCase.typ).CoerceJSON([]byte(testCase.input))
			require.NoErrorf(t, err, "%+v", err)
			require.Equal(t, testCase.expected.Kind, val.Kind)

			expected, err := testCase.expected.Encode()
			require.NoError(t, err)
			actual, err := val.Encode()
			require.NoError(t, err)
			requireBytes(t, expected, actual)
		})
	}
}

func TestCoerceJSONInvalid(t *testing.T) {
	t.Parallel()
	var testCases = []struct {
		typ   string
		input string
	}{
		{`address`, `"0x11"`},
		{`address`, `12`},
		{`bool`, `1`},
		{`uint8`, `256`},
		{`uint8`, `-1`},
		{`int8`, `128`},
		{`int8`, `-129`},
		{`int256`, `"` + int256Overflow + `"`},
		{`int256`, `"` + int256Underflow + `"`},
		{`uint256`, `"twelve"`},
		{`bytes2`, `"0x12"`},
		{`bytes`, `"0xzz"`},
		{`string`, `5`},
		{`bool[2]`, `[true]`},
		{`(uint8,bool)`, `[1]`},
		{`(uint8,bool)`, `{"a": 1, "b": true}`},
		{`uint8[]`, `[1, "x"]`},
		{`uint8[]`, `[1,`},
	}

	for _, testCase := range testCases {
		_, err := MustParseType(testCase.typ).CoerceJSON([]byte(testCase.input))
		requireKind(t, err, KindTypeMismatch)
	}
}

func TestCoerceJSONStruct(t *testing.T) {
	t.Parallel()
	props := []string{`owner`, `amount`}
	typ := CustomStructType(`Grant`, props, AddressType(), UintType(128))
	expected := CustomStructValue(`Grant`, props, AddressValue(repeatAddress(0x22)), UintValueFrom64(1000, 128))

	val, err := typ.CoerceJSON([]byte(`{"amount": "1000", "owner": "0x2222222222222222222222222222222222222222"}`))
	require.NoError(t, err)
	require.Equal(t, expected, val)

	val, err = typ.CoerceJSON([]byte(`["0x2222222222222222222222222222222222222222", 1000]`))
	require.NoError(t, err)
	require.Equal(t, expected, val)

	_, err = typ.CoerceJSON([]byte(`{"owner": "0x2222222222222222222222222222222222222222"}`))
	requireKind(t, err, KindTypeMismatch)

	_, err = typ.CoerceJSON([]byte(`{"owner": "0x2222222222222222222222222222222222222222", "amount": 1, "extra": 2}`))
	requireKind(t, err, KindTypeMismatch)
}

func TestCoerceString(t *testing.T) {
	t.Parallel()

	val, err := StringType().CoerceString(`plain text`)
	require.NoError(t, err)
	require.Equal(t, StringValue(`plain text`), val)

	val, err = StringType().CoerceString(`"quoted"`)
	require.NoError(t, err)
	require.Equal(t, StringValue(`quoted`), val)

	val, err = UintType(64).CoerceString(`12345`)
	require.NoError(t, err)
	require.Equal(t, UintValueFrom64(12345, 64), val)

	val, err = AddressType().CoerceString(`0x1111111111111111111111111111111111111111`)
	require.NoError(t, err)
	require.Equal(t, AddressValue(repeatAddress(0x11)), val)

	val, err = BoolType().CoerceString(`true`)
	require.NoError(t, err)
	require.Equal(t, BoolValue(true), val)

	val, err = BytesType().CoerceString(`0xdeadbeef`)
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, val.Bytes)

	val, err = MustParseType(`(uint8,string)`).CoerceString(`[1, "one"]`)
	require.NoError(t, err)
	require.Equal(t, TupleValue(UintValueFrom64(1, 8), StringValue(`one`)), val)

	_, err = UintType(8).CoerceString(`0x100`)
	requireKind(t, err, KindTypeMismatch)
}

// Two's complement pattern of -2^255.
func minInt256() *uint256.Int {
	return new(uint256.Int).Lsh(uint256.NewInt(1), 255)
}

func TestIntValueFromBigRange(t *testing.T) {
	t.Parallel()

	overflow, ok := new(big.Int).SetString(int256Overflow, 10)
	require.True(t, ok)
	underflow, ok := new(big.Int).SetString(int256Underflow, 10)
	require.True(t, ok)

	_, err := IntValueFromBig(overflow, 256)
	requireKind(t, err, KindTypeMismatch)
	_, err = IntValueFromBig(underflow, 256)
	requireKind(t, err, KindTypeMismatch)

	// -(2^256 - 1) fits into 256 bits as a magnitude, but not as an int256.
	wide := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	_, err = IntValueFromBig(wide.Neg(wide), 256)
	requireKind(t, err, KindTypeMismatch)

	_, err = IntValueFromBig(big.NewInt(1), 0)
	requireKind(t, err, KindTypeMismatch)

	val, err := IntValueFromBig(new(big.Int).Sub(overflow, big.NewInt(1)), 256)
	require.NoError(t, err)
	require.Equal(t, 0, val.BigInt().Cmp(new(big.Int).Sub(overflow, big.NewInt(1))))

	val, err = IntValueFromBig(new(big.Int).Add(underflow, big.NewInt(1)), 256)
	require.NoError(t, err)
	require.Equal(t, 0, val.BigInt().Cmp(new(big.Int).Add(underflow, big.NewInt(1))))

	val, err = IntValueFromBig(big.NewInt(-128), 8)
	require.NoError(t, err)
	require.Equal(t, int64(-128), val.BigInt().Int64())

	_, err = IntType(256).CoerceString(int256Overflow)
	requireKind(t, err, KindTypeMismatch)
}
