// Package shdlc implements the transport and transaction layers of SHDLC,
// Sensirion's HDLC-derived serial protocol for point-to-point and multi-drop
// device control over UART/RS-485, as used by the SFC5xxx and SFC6xxx
// mass-flow-controller families.
//
// # Wire Format
//
// Every frame is bracketed by 0x7E delimiters. The unstuffed content is
//
//	[Address(1)][Opcode(1)][Length(1)][Payload(0–255)][Checksum(1)]
//
// where Checksum is the bitwise NOT of the low byte of the sum of the
// preceding fields. Any 0x7E or 0x7D inside the content is byte-stuffed as
// 0x7D followed by the original byte XOR 0x20.
//
// A response frame echoes the request's address and opcode; its first
// payload byte carries the device status (StatusCode), with command-specific
// data following.
//
// # Layers
//
//   - Frame / DecodeFrame: stateless codec for a single frame.
//   - Reassembler: persistent-buffer extraction of verified frames from an
//     unreliable byte stream, with resynchronization on corrupt input.
//   - Transport: owns the physical Port, serializes bus access, and moves
//     whole frames with deadlines.
//   - Transport.Execute: the transaction engine — matched request/response
//     exchange with status classification and a retry policy.
//   - Command / Send / Device: the generic command capability device catalogs
//     plug into (see the sfc5xxx and sfc6xxx packages).
//
// The design assumes strict half-duplex request/response operation: one
// transaction at a time per transport, enforced by an internal lock held
// across the whole exchange including retries.
package shdlc
