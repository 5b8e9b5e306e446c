package shdlc

import (
	"context"
	"fmt"

	"github.com/arloliu/go-shdlc/internal/wire"
)

// Standard SHDLC command opcodes implemented by every Sensirion SHDLC
// device, independent of the product family.
const (
	opSlaveAddress = 0x90
	opBaudrate     = 0x91
	opProductInfo  = 0xD0
	opVersion      = 0xD1
	opErrorState   = 0xD2
	opReset        = 0xD3
)

// Version holds the firmware, hardware and SHDLC protocol versions reported
// by a device.
type Version struct {
	FirmwareMajor byte
	FirmwareMinor byte
	Debug         bool
	HardwareMajor byte
	HardwareMinor byte
	ProtocolMajor byte
	ProtocolMinor byte
}

func (v Version) String() string {
	return fmt.Sprintf("firmware %d.%d, hardware %d.%d, protocol %d.%d",
		v.FirmwareMajor, v.FirmwareMinor,
		v.HardwareMajor, v.HardwareMinor,
		v.ProtocolMajor, v.ProtocolMinor)
}

// ErrorState is the device error state returned by the standard error state
// command: a product-specific error code and the status of the last command.
type ErrorState struct {
	Code       uint32
	LastStatus StatusCode
}

func encodeEmpty(struct{}) ([]byte, error) { return nil, nil }

func decodeEmpty([]byte) (struct{}, error) { return struct{}{}, nil }

var (
	getSlaveAddressCmd = NewCommand(opSlaveAddress, encodeEmpty, wire.Byte)

	setSlaveAddressCmd = NewCommand(opSlaveAddress,
		func(addr byte) ([]byte, error) { return []byte{addr}, nil },
		decodeEmpty)

	getBaudrateCmd = NewCommand(opBaudrate, encodeEmpty, wire.Uint32)

	setBaudrateCmd = NewCommand(opBaudrate,
		func(baud uint32) ([]byte, error) { return wire.AppendUint32(nil, baud), nil },
		decodeEmpty)

	productInfoCmd = NewCommand(opProductInfo,
		func(kind byte) ([]byte, error) { return []byte{kind}, nil },
		wire.String)

	getVersionCmd = NewCommand(opVersion, encodeEmpty,
		func(data []byte) (Version, error) {
			if len(data) < 7 {
				return Version{}, fmt.Errorf("%w: version response needs 7 bytes, got %d", ErrFraming, len(data))
			}

			return Version{
				FirmwareMajor: data[0],
				FirmwareMinor: data[1],
				Debug:         data[2] > 0,
				HardwareMajor: data[3],
				HardwareMinor: data[4],
				ProtocolMajor: data[5],
				ProtocolMinor: data[6],
			}, nil
		})

	errorStateCmd = NewCommand(opErrorState,
		func(clear bool) ([]byte, error) {
			if clear {
				return []byte{1}, nil
			}
			return []byte{0}, nil
		},
		func(data []byte) (ErrorState, error) {
			if len(data) < 5 {
				return ErrorState{}, fmt.Errorf("%w: error state response needs 5 bytes, got %d", ErrFraming, len(data))
			}

			code, _ := wire.Uint32(data)

			return ErrorState{Code: code, LastStatus: StatusCode(data[4])}, nil
		})

	resetCmd = NewCommand(opReset, encodeEmpty, decodeEmpty)
)

// Product info kinds accepted by the standard product info command.
const (
	productInfoType      = 0x00
	productInfoName      = 0x01
	productInfoArticle   = 0x02
	productInfoSerialHex = 0x03
)

// SlaveAddress asks the device for its configured bus address.
func (d *Device) SlaveAddress(ctx context.Context) (byte, error) {
	return Send(ctx, d, getSlaveAddressCmd, struct{}{})
}

// SetSlaveAddress stores a new bus address in the device's non-volatile
// memory. The handle keeps addressing the old address; create a new handle
// for the new address after this call. Ensure no other device on the bus
// already uses the new address.
func (d *Device) SetSlaveAddress(ctx context.Context, addr byte) error {
	_, err := Send(ctx, d, setSlaveAddressCmd, addr)
	return err
}

// Baudrate asks the device for its configured baud rate.
func (d *Device) Baudrate(ctx context.Context) (uint32, error) {
	return Send(ctx, d, getBaudrateCmd, struct{}{})
}

// SetBaudrate stores a new baud rate in the device's non-volatile memory.
// The response is still sent at the old rate; reconfigure the port
// afterwards. Devices accept 19200, 38400, 57600 and 115200.
func (d *Device) SetBaudrate(ctx context.Context, baud uint32) error {
	_, err := Send(ctx, d, setBaudrateCmd, baud)
	return err
}

// ProductType returns the device's product type string.
func (d *Device) ProductType(ctx context.Context) (string, error) {
	return Send(ctx, d, productInfoCmd, byte(productInfoType))
}

// ProductName returns the device's product name string.
func (d *Device) ProductName(ctx context.Context) (string, error) {
	return Send(ctx, d, productInfoCmd, byte(productInfoName))
}

// ArticleCode returns the article code printed on the product label.
func (d *Device) ArticleCode(ctx context.Context) (string, error) {
	return Send(ctx, d, productInfoCmd, byte(productInfoArticle))
}

// SerialNumber returns the device serial number as the hex string printed
// on the product label.
func (d *Device) SerialNumber(ctx context.Context) (string, error) {
	return Send(ctx, d, productInfoCmd, byte(productInfoSerialHex))
}

// Version returns the firmware, hardware and protocol versions.
func (d *Device) Version(ctx context.Context) (Version, error) {
	return Send(ctx, d, getVersionCmd, struct{}{})
}

// ErrorState reads the device error state. If clear is true the device
// clears its stored error code after reporting it.
func (d *Device) ErrorState(ctx context.Context, clear bool) (ErrorState, error) {
	return Send(ctx, d, errorStateCmd, clear)
}

// Reset restarts the device, equivalent to a power cycle. Allow roughly
// 300ms before sending the next command.
func (d *Device) Reset(ctx context.Context) error {
	_, err := Send(ctx, d, resetCmd, struct{}{})
	return err
}
