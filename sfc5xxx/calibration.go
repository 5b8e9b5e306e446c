package sfc5xxx

import (
	"fmt"

	"github.com/arloliu/go-shdlc/internal/wire"
)

// calibrationConditionsSize is the wire size of a calibration conditions
// record: two 50-byte NUL-padded strings followed by the numeric fields.
const calibrationConditionsSize = 127

// CalibrationConditions describes the conditions a calibration was recorded
// under.
type CalibrationConditions struct {
	Company  string
	Operator string

	Year   uint16
	Month  byte
	Day    byte
	Hour   byte
	Minute byte

	// Temperature is the gas temperature during calibration in degrees
	// Celsius.
	Temperature float32

	// InletPressure is the absolute inlet pressure during calibration
	// in bar.
	InletPressure float32

	// DifferentialPressure is the differential pressure during calibration
	// in bar.
	DifferentialPressure float32

	// RealGas reports whether the calibration was recorded with the real
	// gas rather than a substitute.
	RealGas bool

	// AccuracySetpoint is the accuracy relative to the setpoint in percent.
	AccuracySetpoint float32

	// AccuracyFullScale is the accuracy relative to full scale in percent.
	AccuracyFullScale float32
}

func decodeCalibrationConditions(data []byte) (CalibrationConditions, error) {
	var c CalibrationConditions

	if len(data) < calibrationConditionsSize {
		return c, fmt.Errorf("sfc5xxx: calibration conditions need %d bytes, got %d",
			calibrationConditionsSize, len(data))
	}

	company, err := wire.String(data[:50])
	if err != nil {
		return c, err
	}

	operator, err := wire.String(data[50:100])
	if err != nil {
		return c, err
	}

	c.Company = company
	c.Operator = operator
	c.Year, _ = wire.Uint16(data[100:])
	c.Month = data[102]
	c.Day = data[103]
	c.Hour = data[104]
	c.Minute = data[105]
	c.Temperature, _ = wire.Float32(data[106:])
	c.InletPressure, _ = wire.Float32(data[110:])
	c.DifferentialPressure, _ = wire.Float32(data[114:])
	c.RealGas = data[118] > 0
	c.AccuracySetpoint, _ = wire.Float32(data[119:])
	c.AccuracyFullScale, _ = wire.Float32(data[123:])

	return c, nil
}
