// Package wire provides big-endian value codecs for SHDLC command payloads.
// All multi-byte values on the wire are big-endian; strings are
// NUL-terminated ASCII.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidString indicates a string payload without a NUL terminator or
// with non-ASCII content.
var ErrInvalidString = errors.New("wire: invalid string payload")

func short(want, got int) error {
	return fmt.Errorf("wire: response too short: need %d bytes, got %d", want, got)
}

// AppendUint16 appends v in big-endian order.
func AppendUint16(dst []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, v)
}

// AppendUint32 appends v in big-endian order.
func AppendUint32(dst []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, v)
}

// AppendFloat32 appends the IEEE 754 bits of v in big-endian order.
func AppendFloat32(dst []byte, v float32) []byte {
	return binary.BigEndian.AppendUint32(dst, math.Float32bits(v))
}

// Uint16 reads a big-endian uint16 from the start of data.
func Uint16(data []byte) (uint16, error) {
	if len(data) < 2 {
		return 0, short(2, len(data))
	}

	return binary.BigEndian.Uint16(data), nil
}

// Uint32 reads a big-endian uint32 from the start of data.
func Uint32(data []byte) (uint32, error) {
	if len(data) < 4 {
		return 0, short(4, len(data))
	}

	return binary.BigEndian.Uint32(data), nil
}

// Float32 reads a big-endian IEEE 754 float from the start of data.
func Float32(data []byte) (float32, error) {
	bits, err := Uint32(data)
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(bits), nil
}

// Byte reads the first byte of data.
func Byte(data []byte) (byte, error) {
	if len(data) < 1 {
		return 0, short(1, len(data))
	}

	return data[0], nil
}

// Bool reads the first byte of data as a boolean, where any non-zero value
// is true.
func Bool(data []byte) (bool, error) {
	b, err := Byte(data)
	if err != nil {
		return false, err
	}

	return b != 0, nil
}

// String decodes a NUL-terminated ASCII string occupying all of data.
func String(data []byte) (string, error) {
	n := bytes.IndexByte(data, 0)
	if n < 0 {
		return "", fmt.Errorf("%w: missing NUL terminator", ErrInvalidString)
	}

	s := data[:n]
	for _, b := range s {
		if b > 0x7F {
			return "", fmt.Errorf("%w: non-ASCII byte 0x%02X", ErrInvalidString, b)
		}
	}

	return string(s), nil
}
