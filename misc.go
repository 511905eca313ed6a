package ethabi

import (
	"encoding/binary"
	"time"
	"unsafe"
)

// Size of the ABI word in bytes.
const WordLen = len(Word{})

// "Magic" words understood by RPC methods that expect a block number.
const (
	BlockNumberEarliest = "earliest"
	BlockNumberLatest   = "latest"
	BlockNumberPending  = "pending"
)

// Zero-initialized arrays for equality comparisons.
var (
	ZeroAddress Address
	ZeroWord    Word
	ZeroHash    Hash
)

// Determines the default reconnect interval of long-lived RPC transports, such
// as WsTrans. Configurable on per-transport basis.
var defaultReconnectInterval = time.Second

// Number of words needed to hold the given number of bytes.
func wordsFor(length int) int {
	return (length + WordLen - 1) / WordLen
}

func nextMultipleOf32(length int) int {
	return wordsFor(length) * WordLen
}

// Right-aligned u32, used for offsets and lengths.
func padU32(num uint32) Word {
	var out Word
	binary.BigEndian.PutUint32(out[WordLen-4:], num)
	return out
}

/*
Reads a pointer or length word. Anything that doesn't fit into 32 bits is
necessarily beyond any buffer we could be decoding, so it's reported as an
overrun rather than a content violation.
*/
func asU32(word Word) (uint32, error) {
	if !checkZeroes(word[:WordLen-4]) {
		return 0, errOverrun(`pointer or length word %v exceeds 32 bits`, word)
	}
	return binary.BigEndian.Uint32(word[WordLen-4:]), nil
}

func checkZeroes(input []byte) bool {
	for _, char := range input {
		if char != 0 {
			return false
		}
	}
	return true
}

func checkFill(input []byte, fill byte) bool {
	for _, char := range input {
		if char != fill {
			return false
		}
	}
	return true
}

/*
Reinterprets a byte slice as a string, saving an allocation. The bytes must not
be modified afterwards.
*/
func bytesToMutableString(bytes []byte) string {
	return unsafe.String(unsafe.SliceData(bytes), len(bytes))
}

/*
Returns a byte slice backed by the provided string. Should be safe as long as
the bytes are treated as read-only.
*/
func stringToBytesUnsafe(str string) []byte {
	return unsafe.Slice(unsafe.StringData(str), len(str))
}
