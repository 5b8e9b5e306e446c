package shdlc

import (
	"errors"
	"fmt"
)

// Sentinel errors for the SHDLC protocol layers.
var (
	// Frame codec errors.
	ErrFraming          = errors.New("shdlc: malformed frame")
	ErrChecksumMismatch = errors.New("shdlc: checksum mismatch")
	ErrPayloadTooLarge  = errors.New("shdlc: payload too large")

	// Transport errors.
	ErrReadTimeout     = errors.New("shdlc: read timeout")
	ErrTransportClosed = errors.New("shdlc: transport closed")

	// Transaction errors.
	ErrTransactionFailed = errors.New("shdlc: transaction failed, retries exhausted")
)

// DeviceError represents a non-zero status byte reported by the device in a
// response frame. It means the device received and parsed the request but
// rejected it, as opposed to a transport-level failure.
//
// Permanent codes (bad parameter, unknown command, ...) are not retried by
// the transaction engine; transient codes (see StatusCode.Transient) are.
type DeviceError struct {
	Code StatusCode
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("shdlc: device error 0x%02X: %s", byte(e.Code), e.Code)
}

// AsDeviceError unwraps err into a *DeviceError if one is in its chain.
func AsDeviceError(err error) (*DeviceError, bool) {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr, true
	}

	return nil, false
}
