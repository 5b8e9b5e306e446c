package shdlc

import "fmt"

// SHDLC wire constants.
//
// Every frame on the wire is bracketed by a pair of Delimiter bytes. Any
// occurrence of Delimiter or Escape inside the frame content is byte-stuffed:
// the offending byte is replaced by Escape followed by (byte XOR escapeXOR).
const (
	// Delimiter marks the start and the end of a frame (0x7E).
	Delimiter byte = 0x7E

	// Escape introduces a stuffed byte (0x7D); the next byte carries the
	// original value XOR 0x20.
	Escape byte = 0x7D

	// escapeXOR is the transformation applied to a stuffed byte.
	escapeXOR byte = 0x20
)

// MaxPayloadSize is the maximum number of payload bytes in a single frame.
// The length field is one byte, so the payload can carry 0–255 bytes.
const MaxPayloadSize = 255

// minFrameSize is the minimum unstuffed frame content size:
// address + opcode + length + checksum.
const minFrameSize = 4

// Frame represents a single SHDLC frame.
//
// The unstuffed wire content between the two delimiters is:
//
//	[Address(1)][Opcode(1)][Length(1)][Payload(0–255)][Checksum(1)]
//
// The checksum is derived from the other fields and is not stored; it is
// computed on encode and verified on decode.
type Frame struct {
	Address byte   // bus node address (0–255)
	Opcode  byte   // command byte
	Payload []byte // 0–255 data bytes
}

// NewFrame creates a frame after validating the payload size.
func NewFrame(address, opcode byte, payload []byte) (*Frame, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, maximum is %d",
			ErrPayloadTooLarge, len(payload), MaxPayloadSize)
	}

	return &Frame{Address: address, Opcode: opcode, Payload: payload}, nil
}

// Checksum computes the frame checksum: the bitwise NOT of the low 8 bits of
// the sum of address, opcode, length and all payload bytes. It is computed
// over the unstuffed content, before byte stuffing is applied.
func (f *Frame) Checksum() byte {
	sum := uint(f.Address) + uint(f.Opcode) + uint(len(f.Payload))
	for _, b := range f.Payload {
		sum += uint(b)
	}

	return ^byte(sum)
}

// Encode serializes the frame to its stuffed wire format, including both
// delimiters. The result is ready to be written to the bus.
//
// Returns ErrPayloadTooLarge if the payload exceeds MaxPayloadSize.
func (f *Frame) Encode() ([]byte, error) {
	if len(f.Payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, maximum is %d",
			ErrPayloadTooLarge, len(f.Payload), MaxPayloadSize)
	}

	// Worst case every content byte is stuffed: 2 delimiters + 2*(4+payload).
	buf := make([]byte, 0, 2+2*(minFrameSize+len(f.Payload)))

	buf = append(buf, Delimiter)
	buf = stuff(buf, f.Address)
	buf = stuff(buf, f.Opcode)
	buf = stuff(buf, byte(len(f.Payload)))
	for _, b := range f.Payload {
		buf = stuff(buf, b)
	}
	buf = stuff(buf, f.Checksum())
	buf = append(buf, Delimiter)

	return buf, nil
}

// DecodeFrame deserializes a frame from its stuffed wire content, i.e. the
// bytes between (and excluding) the two delimiters.
//
// It validates, in order:
//   - escape sequences unstuff cleanly (no dangling Escape, no raw Delimiter)
//   - the unstuffed content is at least minFrameSize bytes
//   - the declared payload length matches the remaining bytes
//   - the trailing checksum matches the recomputed one
//
// Structural violations are reported as (wrapped) ErrFraming; a checksum
// failure as ErrChecksumMismatch.
func DecodeFrame(data []byte) (*Frame, error) {
	content, err := unstuff(data)
	if err != nil {
		return nil, err
	}

	if len(content) < minFrameSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrFraming, len(content), minFrameSize)
	}

	f := &Frame{
		Address: content[0],
		Opcode:  content[1],
	}

	length := int(content[2])
	if length != len(content)-minFrameSize {
		return nil, fmt.Errorf("%w: length field declares %d payload bytes, frame carries %d",
			ErrFraming, length, len(content)-minFrameSize)
	}

	if length > 0 {
		f.Payload = make([]byte, length)
		copy(f.Payload, content[3:3+length])
	}

	wireChecksum := content[len(content)-1]
	if cs := f.Checksum(); cs != wireChecksum {
		return nil, fmt.Errorf("%w: wire=0x%02X, computed=0x%02X", ErrChecksumMismatch, wireChecksum, cs)
	}

	return f, nil
}

// stuff appends b to dst, applying byte stuffing if b collides with a
// delimiter or the escape marker.
func stuff(dst []byte, b byte) []byte {
	if b == Delimiter || b == Escape {
		return append(dst, Escape, b^escapeXOR)
	}

	return append(dst, b)
}

// unstuff reverses byte stuffing over data.
//
// Any Escape is consumed together with its follower, which is XOR'd back.
// This accepts the XON/XOFF escape pairs (0x7D 0x31, 0x7D 0x33) some firmware
// revisions emit, even though this package never produces them.
func unstuff(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))

	for i := 0; i < len(data); i++ {
		switch data[i] {
		case Escape:
			i++
			if i >= len(data) {
				return nil, fmt.Errorf("%w: dangling escape at end of frame", ErrFraming)
			}
			out = append(out, data[i]^escapeXOR)

		case Delimiter:
			return nil, fmt.Errorf("%w: unescaped delimiter inside frame content", ErrFraming)

		default:
			out = append(out, data[i])
		}
	}

	return out, nil
}
