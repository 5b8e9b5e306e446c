package shdlc

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// Device couples a Transport with a fixed bus address and a retry policy.
// It adds no protocol logic of its own; it exists so catalogs need not thread
// the address and policy through every call.
type Device struct {
	transport *Transport
	address   byte
	policy    RetryPolicy
}

// NewDevice creates a device handle for the node at address on the given
// transport.
func NewDevice(t *Transport, address byte, opts ...DeviceOption) *Device {
	d := &Device{
		transport: t,
		address:   address,
		policy: RetryPolicy{
			RetryLimit:  t.cfg.retryLimit,
			ReadTimeout: t.cfg.readTimeout,
		},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithRetryPolicy overrides the transport's default retry policy for this
// device. A RetryLimit of zero disables retrying; a negative RetryLimit and
// a zero ReadTimeout fall back to the transport defaults per transaction.
func WithRetryPolicy(p RetryPolicy) DeviceOption {
	return func(d *Device) { d.policy = p }
}

// Address returns the device's bus address.
func (d *Device) Address() byte { return d.address }

// Transport returns the transport the device is bound to.
func (d *Device) Transport() *Transport { return d.transport }

// Execute runs a raw transaction against the device and returns the response
// payload with the status byte stripped. Most callers should define a
// Command and use Send instead; Execute is the escape hatch for opcodes that
// have no catalog entry yet.
func (d *Device) Execute(ctx context.Context, opcode byte, payload []byte) ([]byte, error) {
	return d.transport.Execute(ctx, d.address, opcode, payload, d.policy)
}

// Bus is a concurrency-safe registry of device handles sharing one transport,
// so concurrent callers addressing the same node reuse a single handle. It
// performs no discovery or topology management; callers must know which
// addresses are populated.
type Bus struct {
	transport *Transport
	devices   *xsync.MapOf[byte, *Device]
	opts      []DeviceOption
}

// NewBus creates a Bus over the given transport. opts apply to every handle
// the bus creates.
func NewBus(t *Transport, opts ...DeviceOption) *Bus {
	return &Bus{
		transport: t,
		devices:   xsync.NewMapOf[byte, *Device](),
		opts:      opts,
	}
}

// Device returns the handle for the node at address, creating it on first use.
func (b *Bus) Device(address byte) *Device {
	d, _ := b.devices.LoadOrCompute(address, func() *Device {
		return NewDevice(b.transport, address, b.opts...)
	})

	return d
}

// Transport returns the shared transport.
func (b *Bus) Transport() *Transport { return b.transport }
