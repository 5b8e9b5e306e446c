// Package serial opens physical serial ports for use as an shdlc.Port,
// backed by go.bug.st/serial.
package serial

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/arloliu/go-shdlc/shdlc"
)

// DefaultBaudRate is the factory baud rate of the SFC5xxx/SFC6xxx families.
const DefaultBaudRate = 115200

// Open opens the serial port at name (e.g. "/dev/ttyUSB0" or "COM3") with
// 8N1 framing at the given baud rate and returns it ready for use with
// shdlc.NewTransport. Devices accept 19200, 38400, 57600 and 115200 baud.
func Open(name string, baudRate int) (shdlc.Port, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", name, err)
	}

	return port, nil
}

// ListPorts returns the serial port names present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("serial: list ports: %w", err)
	}

	return ports, nil
}
