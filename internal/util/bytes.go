package util

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/sipcore/internal/errorutil"
)

const maxVarintBytes = 10

const (
	ErrUnexpectedEOF    errorutil.Error = "unexpected end of data"
	ErrMalformedUvarint errorutil.Error = "malformed uvarint"
)

// SizePrefixedString returns the number of bytes [AppendPrefixedString] appends for val.
func SizePrefixedString[T ~string | ~[]byte](val T) int {
	return SizeUVarInt(uint64(len(val))) + len(val)
}

// AppendPrefixedString appends val prefixed with its length encoded as uvarint.
func AppendPrefixedString[T ~string | ~[]byte](buf []byte, val T) []byte {
	buf = AppendUVarInt(buf, uint64(len(val)))
	return append(buf, val...)
}

func SizeUVarInt(val uint64) int {
	size := 1
	for val >= 0x80 {
		size++
		val >>= 7
	}
	return size
}

func AppendUVarInt(buf []byte, val uint64) []byte {
	for val >= 0x80 {
		buf = append(buf, byte(val)|0x80)
		val >>= 7
	}
	return append(buf, byte(val))
}

// ConsumePrefixedString reads a string written by [AppendPrefixedString]
// and returns it together with the rest of data.
func ConsumePrefixedString(data []byte) (string, []byte, error) {
	length, consumed, err := readUVarInt(data)
	if err != nil {
		return "", nil, errtrace.Wrap(err)
	}
	if length > uint64(len(data[consumed:])) {
		return "", nil, errtrace.Wrap(ErrUnexpectedEOF)
	}
	end := consumed + int(length)
	return string(data[consumed:end]), data[end:], nil
}

func readUVarInt(data []byte) (uint64, int, error) {
	var (
		value uint64
		shift uint
	)

	for i, b := range data {
		if i == maxVarintBytes {
			return 0, i + 1, errtrace.Wrap(ErrMalformedUvarint)
		}

		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
		shift += 7
	}

	return 0, len(data), errtrace.Wrap(ErrUnexpectedEOF)
}
