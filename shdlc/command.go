package shdlc

import "context"

// Command describes one device-specific command: its opcode, how to encode a
// request value into a payload, and how to decode the response payload (with
// the status byte already stripped) back into a value.
//
// The core is generic over this capability rather than a closed command set:
// device catalogs (see the sfc5xxx and sfc6xxx packages) plug in new commands
// without the transaction engine knowing them, while the Req/Resp type
// parameters keep request/response pairing checked at compile time.
type Command[Req, Resp any] interface {
	// Opcode returns the command byte placed in the request frame.
	Opcode() byte

	// EncodeRequest encodes the request value into the frame payload.
	EncodeRequest(req Req) ([]byte, error)

	// DecodeResponse decodes the response payload, which excludes the
	// leading device status byte.
	DecodeResponse(data []byte) (Resp, error)
}

// funcCommand adapts an opcode and a pair of codec functions to Command.
type funcCommand[Req, Resp any] struct {
	opcode byte
	encode func(Req) ([]byte, error)
	decode func([]byte) (Resp, error)
}

func (c funcCommand[Req, Resp]) Opcode() byte { return c.opcode }

func (c funcCommand[Req, Resp]) EncodeRequest(req Req) ([]byte, error) { return c.encode(req) }

func (c funcCommand[Req, Resp]) DecodeResponse(data []byte) (Resp, error) { return c.decode(data) }

// NewCommand builds a Command from an opcode and codec functions. Device
// catalogs use it to declare commands as package-level values instead of one
// struct type per opcode.
func NewCommand[Req, Resp any](opcode byte, encode func(Req) ([]byte, error), decode func([]byte) (Resp, error)) Command[Req, Resp] {
	return funcCommand[Req, Resp]{opcode: opcode, encode: encode, decode: decode}
}

// Send executes cmd against the device: it encodes the request, runs the
// transaction through the device's transport with the device's address and
// retry policy, and decodes the response.
//
// This is the single entry point device catalogs use; Go methods cannot carry
// type parameters, hence a package-level function rather than a Device method.
func Send[Req, Resp any](ctx context.Context, d *Device, cmd Command[Req, Resp], req Req) (Resp, error) {
	var zero Resp

	payload, err := cmd.EncodeRequest(req)
	if err != nil {
		return zero, err
	}

	data, err := d.transport.Execute(ctx, d.address, cmd.Opcode(), payload, d.policy)
	if err != nil {
		return zero, err
	}

	return cmd.DecodeResponse(data)
}
