package sfc6xxx

import (
	"github.com/arloliu/go-shdlc/gasunit"
	"github.com/arloliu/go-shdlc/internal/wire"
	"github.com/arloliu/go-shdlc/shdlc"
)

// Command opcodes of the SFC6xxx family.
const (
	opSetpoint           = 0x00
	opSetpointAndMeasure = 0x03
	opMeasure            = 0x08
	opController         = 0x22
	opRawMeasure         = 0x30
	opCalibrationInfo    = 0x40
	opCurrentCalibration = 0x44
	opCalibrationSelect  = 0x45
	opCalibrationVolSel  = 0x46
)

// scalePhysical selects the physical-value scale in setpoint and measure
// commands. The SFC6xxx family only supports this scale.
const scalePhysical = 0x01

// Subcommand bytes of the controller parameter command.
const (
	ctrlGain        = 0x00
	ctrlInitialStep = 0x03
)

// Subcommand bytes of the raw measurement command.
const (
	rawFlow         = 0x00
	rawConductivity = 0x02
	rawTemperature  = 0x10
)

// Subcommand bytes of the calibration info commands (0x40 and 0x44).
const (
	calCount     = 0x00
	calValidity  = 0x10
	calGasID     = 0x12
	calGasUnit   = 0x13
	calFullScale = 0x14
)

func encodeEmpty(struct{}) ([]byte, error) { return nil, nil }

func decodeEmpty([]byte) (struct{}, error) { return struct{}{}, nil }

// encodeSub builds an encoder that emits the subcommand byte alone.
func encodeSub(sub byte) func(struct{}) ([]byte, error) {
	return func(struct{}) ([]byte, error) { return []byte{sub}, nil }
}

// encodeSubFloat builds an encoder that emits the subcommand byte followed
// by a big-endian float.
func encodeSubFloat(sub byte) func(float32) ([]byte, error) {
	return func(v float32) ([]byte, error) {
		return wire.AppendFloat32([]byte{sub}, v), nil
	}
}

// encodeSubIndex builds an encoder that emits the subcommand byte followed
// by a big-endian calibration index.
func encodeSubIndex(sub byte) func(uint32) ([]byte, error) {
	return func(index uint32) ([]byte, error) {
		return wire.AppendUint32([]byte{sub}, index), nil
	}
}

func decodeGasUnit(data []byte) (gasunit.GasUnit, error) {
	return gasunit.Decode(data)
}

var (
	getSetpointCmd = shdlc.NewCommand(opSetpoint, encodeSub(scalePhysical), wire.Float32)

	setSetpointCmd = shdlc.NewCommand(opSetpoint, encodeSubFloat(scalePhysical), decodeEmpty)

	setpointAndMeasureCmd = shdlc.NewCommand(opSetpointAndMeasure, encodeSubFloat(scalePhysical), wire.Float32)

	measureCmd = shdlc.NewCommand(opMeasure, encodeSub(scalePhysical), wire.Float32)

	// The request carries the number of 1ms measurements to average.
	measureAverageCmd = shdlc.NewCommand(opMeasure,
		func(count uint8) ([]byte, error) { return []byte{0x11, count}, nil },
		wire.Float32)

	getGainCmd = shdlc.NewCommand(opController, encodeSub(ctrlGain), wire.Float32)

	setGainCmd = shdlc.NewCommand(opController, encodeSubFloat(ctrlGain), decodeEmpty)

	getInitialStepCmd = shdlc.NewCommand(opController, encodeSub(ctrlInitialStep), wire.Float32)

	setInitialStepCmd = shdlc.NewCommand(opController, encodeSubFloat(ctrlInitialStep), decodeEmpty)

	rawFlowCmd = shdlc.NewCommand(opRawMeasure, encodeSub(rawFlow), wire.Uint16)

	rawConductivityCmd = shdlc.NewCommand(opRawMeasure, encodeSub(rawConductivity), wire.Uint16)

	temperatureCmd = shdlc.NewCommand(opRawMeasure, encodeSub(rawTemperature), wire.Float32)

	calibrationCountCmd = shdlc.NewCommand(opCalibrationInfo, encodeSub(calCount), wire.Uint32)

	calibrationValidCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calValidity), wire.Bool)

	calibrationGasIDCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calGasID), wire.Uint32)

	calibrationGasUnitCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calGasUnit), decodeGasUnit)

	calibrationFullScaleCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calFullScale), wire.Float32)

	currentGasIDCmd = shdlc.NewCommand(opCurrentCalibration, encodeSub(calGasID), wire.Uint32)

	currentGasUnitCmd = shdlc.NewCommand(opCurrentCalibration, encodeSub(calGasUnit), decodeGasUnit)

	currentFullScaleCmd = shdlc.NewCommand(opCurrentCalibration, encodeSub(calFullScale), wire.Float32)

	currentCalibrationCmd = shdlc.NewCommand(opCalibrationSelect, encodeEmpty, wire.Uint32)

	selectCalibrationCmd = shdlc.NewCommand(opCalibrationSelect,
		func(index uint32) ([]byte, error) { return wire.AppendUint32(nil, index), nil },
		decodeEmpty)

	selectCalibrationVolatileCmd = shdlc.NewCommand(opCalibrationVolSel,
		func(index uint32) ([]byte, error) { return wire.AppendUint32(nil, index), nil },
		decodeEmpty)
)
