package ethabi

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// Hex test vectors are written one word per line.
func hexWords(input string) []byte {
	out, err := HexDecodeLoose(input)
	if err != nil {
		panic(err)
	}
	return out
}

func repeatAddress(char byte) Address {
	var out Address
	for i := range out {
		out[i] = char
	}
	return out
}

func repeatWord(char byte) Word {
	var out Word
	for i := range out {
		out[i] = char
	}
	return out
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, IsKind(err, kind), "expected a %v error, got: %+v", kind, err)
}

func requireBytes(t *testing.T, expected []byte, actual []byte) {
	t.Helper()
	if !bytes.Equal(expected, actual) {
		t.Fatalf("bytes mismatch\nexpected:\n%v\nactual:\n%v", spew.Sdump(expected), spew.Sdump(actual))
	}
}
