package shdlc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// guideVectorPayload pads the guide's example payload to the 0x43 bytes its
// length field declares; the zero padding does not change the sum.
func guideVectorPayload() []byte {
	payload := make([]byte, 0x43)
	copy(payload, []byte{0x04, 0x64, 0xA0, 0x22, 0xFC})

	return payload
}

func TestFrameChecksum(t *testing.T) {
	tests := []struct {
		name     string
		frame    Frame
		expected byte
	}{
		{
			name:     "empty payload",
			frame:    Frame{Address: 0, Opcode: 0x13},
			expected: 0xEC,
		},
		{
			name:     "payload bytes included in sum",
			frame:    Frame{Address: 1, Opcode: 0x00, Payload: []byte{0x7E, 0x7D}},
			expected: 0x01,
		},
		{
			// sum 0x3FE, low byte 0xFE, NOT -> 0x01
			name:     "sum wraps at one byte",
			frame:    Frame{Address: 0xFF, Opcode: 0xFF, Payload: []byte{0xFF, 0xFF}},
			expected: 0x01,
		},
		{
			// Vector from the Sensirion SHDLC guide: content starting
			// 00 02 43 04 64 A0 22 FC checksums to 0x94.
			name:     "vendor guide vector",
			frame:    Frame{Address: 0x00, Opcode: 0x02, Payload: guideVectorPayload()},
			expected: 0x94,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.frame.Checksum())
		})
	}
}

func TestFrameEncode(t *testing.T) {
	tests := []struct {
		name     string
		frame    Frame
		expected []byte
	}{
		{
			// 0x13 (XOFF) is not a reserved byte and travels unescaped.
			name:     "empty payload with XOFF opcode",
			frame:    Frame{Address: 0x00, Opcode: 0x13},
			expected: []byte{0x7E, 0x00, 0x13, 0x00, 0xEC, 0x7E},
		},
		{
			name:     "payload with reserved bytes is stuffed",
			frame:    Frame{Address: 0x01, Opcode: 0x00, Payload: []byte{0x7E, 0x7D}},
			expected: []byte{0x7E, 0x01, 0x00, 0x02, 0x7D, 0x5E, 0x7D, 0x5D, 0x01, 0x7E},
		},
		{
			name:     "checksum itself is stuffed",
			frame:    Frame{Address: 0x00, Opcode: 0x81},
			expected: []byte{0x7E, 0x00, 0x81, 0x00, 0x7D, 0x5E, 0x7E},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.frame.Encode()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, data)
		})
	}
}

func TestFrameEncodeDecodeRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		{0x00},
		{0x7E, 0x7D, 0x11, 0x13},
		make([]byte, MaxPayloadSize),
	}

	for _, payload := range payloads {
		frame, err := NewFrame(0x42, 0x08, payload)
		require.NoError(t, err)

		data, err := frame.Encode()
		require.NoError(t, err)

		require.Equal(t, Delimiter, data[0])
		require.Equal(t, Delimiter, data[len(data)-1])

		decoded, err := DecodeFrame(data[1 : len(data)-1])
		require.NoError(t, err)

		assert.Equal(t, frame.Address, decoded.Address)
		assert.Equal(t, frame.Opcode, decoded.Opcode)
		assert.Equal(t, len(payload), len(decoded.Payload))
		if len(payload) > 0 {
			assert.Equal(t, payload, decoded.Payload)
		}
	}
}

func TestNewFramePayloadTooLarge(t *testing.T) {
	_, err := NewFrame(0, 0, make([]byte, MaxPayloadSize+1))
	require.ErrorIs(t, err, ErrPayloadTooLarge)

	f := Frame{Payload: make([]byte, MaxPayloadSize+1)}
	_, err = f.Encode()
	require.ErrorIs(t, err, ErrPayloadTooLarge)
}

// Flipping any single bit of the frame content must be detected as either a
// framing or a checksum error, never returned as a valid frame with the
// original content.
func TestDecodeFrameSingleBitCorruption(t *testing.T) {
	frame := Frame{Address: 0x05, Opcode: 0x08, Payload: []byte{0x01, 0xAA, 0x55, 0x00}}
	data, err := frame.Encode()
	require.NoError(t, err)
	content := data[1 : len(data)-1]

	for i := range content {
		for bit := 0; bit < 8; bit++ {
			corrupted := make([]byte, len(content))
			copy(corrupted, content)
			corrupted[i] ^= 1 << bit

			decoded, err := DecodeFrame(corrupted)
			if err != nil {
				assert.True(t,
					errorsIsAny(err, ErrFraming, ErrChecksumMismatch),
					"byte %d bit %d: unexpected error %v", i, bit, err)

				continue
			}

			// A flip can still decode when it lands in an escape sequence
			// and produces a different, self-consistent frame. It must not
			// reproduce the original content.
			same := decoded.Address == frame.Address &&
				decoded.Opcode == frame.Opcode &&
				bytes.Equal(decoded.Payload, frame.Payload)
			assert.False(t, same, "byte %d bit %d: corruption went undetected", i, bit)
		}
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected error
	}{
		{
			name:     "too short",
			data:     []byte{0x00, 0x13, 0x00},
			expected: ErrFraming,
		},
		{
			name:     "length field mismatch",
			data:     []byte{0x00, 0x13, 0x05, 0xEC},
			expected: ErrFraming,
		},
		{
			name:     "dangling escape",
			data:     []byte{0x00, 0x13, 0x00, 0x7D},
			expected: ErrFraming,
		},
		{
			name:     "raw delimiter in content",
			data:     []byte{0x00, 0x13, 0x7E, 0x00},
			expected: ErrFraming,
		},
		{
			name:     "bad checksum",
			data:     []byte{0x00, 0x13, 0x00, 0xED},
			expected: ErrChecksumMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame(tt.data)
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

// Decode accepts the XON/XOFF escapes some firmware revisions emit even
// though Encode never produces them.
func TestDecodeFrameAcceptsLegacyEscapes(t *testing.T) {
	// 0x7D 0x33 unstuffs to 0x13.
	decoded, err := DecodeFrame([]byte{0x00, 0x7D, 0x33, 0x00, 0xEC})
	require.NoError(t, err)
	assert.Equal(t, byte(0x13), decoded.Opcode)

	// 0x7D 0x31 unstuffs to 0x11.
	decoded, err = DecodeFrame([]byte{0x00, 0x7D, 0x31, 0x00, 0xEE})
	require.NoError(t, err)
	assert.Equal(t, byte(0x11), decoded.Opcode)
}

func errorsIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
