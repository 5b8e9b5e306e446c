package shdlc

// StatusCode is the device-reported status carried in the first payload byte
// of every response frame. Zero means success; every other value is an error
// reported by the device firmware.
//
// The values are taken from the Sensirion SHDLC application note shared by
// the SFC5xxx/SFC6xxx mass-flow-controller families.
type StatusCode byte

const (
	// StatusOK indicates the command executed successfully.
	StatusOK StatusCode = 0x00

	// StatusDataSize indicates an illegal request payload size, or a request
	// the firmware does not support.
	StatusDataSize StatusCode = 0x01

	// StatusUnknownCommand indicates the device does not know the opcode.
	StatusUnknownCommand StatusCode = 0x02

	// StatusParameterError indicates a request parameter is out of range.
	StatusParameterError StatusCode = 0x04

	// StatusI2CNack indicates a NACK was received from the internal I2C sensor.
	StatusI2CNack StatusCode = 0x29

	// StatusI2CMasterHold indicates the internal I2C master hold was not released.
	StatusI2CMasterHold StatusCode = 0x2A

	// StatusCRCError indicates a CRC mismatch on the internal sensor bus.
	StatusCRCError StatusCode = 0x2B

	// StatusDataWrite indicates sensor data read back differs from the written value.
	StatusDataWrite StatusCode = 0x2C

	// StatusMeasureLoopNotRunning indicates the measure loop is not running,
	// or runs on the wrong gas number.
	StatusMeasureLoopNotRunning StatusCode = 0x2D

	// StatusCommandNotAllowed indicates the command is not allowed in the
	// current device state.
	StatusCommandNotAllowed StatusCode = 0x32

	// StatusInvalidCalibration indicates there is no valid gas calibration at
	// the given index.
	StatusInvalidCalibration StatusCode = 0x33

	// StatusSensorBusy indicates the sensor is busy, e.g. for ~300ms after a
	// reset. This is the one transient code: the transaction engine retries it.
	StatusSensorBusy StatusCode = 0x42

	// StatusFatalError indicates an error without a specific code.
	StatusFatalError StatusCode = 0x7F
)

// Transient reports whether the code describes a temporary condition that a
// retry of the identical request may resolve. Permanent rejections (bad
// parameter, unknown command, ...) return false.
func (c StatusCode) Transient() bool {
	return c == StatusSensorBusy
}

func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "no error"
	case StatusDataSize:
		return "illegal request payload size or unsupported request"
	case StatusUnknownCommand:
		return "unknown command"
	case StatusParameterError:
		return "parameter out of range"
	case StatusI2CNack:
		return "NACK received from I2C sensor"
	case StatusI2CMasterHold:
		return "I2C master hold not released"
	case StatusCRCError:
		return "CRC mismatch on internal sensor bus"
	case StatusDataWrite:
		return "sensor data read back differs from written value"
	case StatusMeasureLoopNotRunning:
		return "measure loop not running or wrong gas number"
	case StatusCommandNotAllowed:
		return "command not allowed in current state"
	case StatusInvalidCalibration:
		return "no valid gas calibration at given index"
	case StatusSensorBusy:
		return "sensor busy"
	case StatusFatalError:
		return "fatal error without specific code"
	default:
		return "unknown status code"
	}
}
