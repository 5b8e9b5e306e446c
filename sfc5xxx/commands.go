package sfc5xxx

import (
	"github.com/arloliu/go-shdlc/gasunit"
	"github.com/arloliu/go-shdlc/internal/wire"
	"github.com/arloliu/go-shdlc/shdlc"
)

// Command opcodes of the SFC5xxx family.
const (
	opSetpoint              = 0x00
	opSetpointPersistence   = 0x02
	opSetpointAndMeasure    = 0x03
	opSetpointAndMeasureTwo = 0x04
	opMeasure               = 0x08
	opMeasureBuffered       = 0x09
	opMeasureTwoSensors     = 0x0A
	opValve                 = 0x20
	opMediumUnit            = 0x21
	opController            = 0x22
	opRawMeasure            = 0x30
	opCalibrationInfo       = 0x40
	opCurrentCalibration    = 0x44
	opCalibrationSelect     = 0x45
	opUserMemory            = 0x6E
	opFactoryReset          = 0x92
)

// Subcommand bytes of the valve input source command.
const (
	valveSource    = 0x00
	valveUserValue = 0x01
)

// Subcommand bytes of the controller parameter command.
const (
	ctrlGain               = 0x00
	ctrlPressureGainEnable = 0x10
	ctrlPressureGainValue  = 0x11
	ctrlGasTempEnable      = 0x20
	ctrlGasTempValue       = 0x21
)

// Subcommand bytes of the raw measurement command. Thermal conductivity can
// be measured with the valve closed or in its current state.
const (
	rawFlow               = 0x00
	rawConductivityClosed = 0x01
	rawConductivityOpen   = 0x02
	rawTemperature        = 0x10
)

// Subcommand bytes of the calibration info commands (0x40 and 0x44).
const (
	calCount          = 0x00
	calValidity       = 0x10
	calGasDescription = 0x11
	calGasID          = 0x12
	calGasUnit        = 0x13
	calFullScale      = 0x14
	calInitialCond    = 0x15
	calRecalCond      = 0x16
	calConductivity   = 0x17
)

func encodeEmpty(struct{}) ([]byte, error) { return nil, nil }

func decodeEmpty([]byte) (struct{}, error) { return struct{}{}, nil }

func encodeSub(sub byte) func(struct{}) ([]byte, error) {
	return func(struct{}) ([]byte, error) { return []byte{sub}, nil }
}

func encodeScale(scale Scale) ([]byte, error) { return []byte{byte(scale)}, nil }

type scaledValue struct {
	scale Scale
	value float32
}

func encodeScaledValue(v scaledValue) ([]byte, error) {
	return wire.AppendFloat32([]byte{byte(v.scale)}, v.value), nil
}

func encodeSubIndex(sub byte) func(uint32) ([]byte, error) {
	return func(index uint32) ([]byte, error) {
		return wire.AppendUint32([]byte{sub}, index), nil
	}
}

func encodeSubBool(sub byte) func(bool) ([]byte, error) {
	return func(v bool) ([]byte, error) {
		if v {
			return []byte{sub, 1}, nil
		}
		return []byte{sub, 0}, nil
	}
}

func encodeSubFloat(sub byte) func(float32) ([]byte, error) {
	return func(v float32) ([]byte, error) {
		return wire.AppendFloat32([]byte{sub}, v), nil
	}
}

func decodeFloatPair(data []byte) ([2]float32, error) {
	var pair [2]float32

	first, err := wire.Float32(data)
	if err != nil {
		return pair, err
	}

	second, err := wire.Float32(data[4:])
	if err != nil {
		return pair, err
	}

	pair[0], pair[1] = first, second

	return pair, nil
}

func decodeGasUnit(data []byte) (gasunit.GasUnit, error) {
	return gasunit.Decode(data)
}

// userMemoryRange addresses a span of the device's user memory.
type userMemoryRange struct {
	start byte
	count byte
}

// userMemoryWrite is a write to the device's user memory.
type userMemoryWrite struct {
	start byte
	data  []byte
}

var (
	getSetpointCmd = shdlc.NewCommand(opSetpoint, encodeScale, wire.Float32)

	setSetpointCmd = shdlc.NewCommand(opSetpoint, encodeScaledValue, decodeEmpty)

	getSetpointPersistCmd = shdlc.NewCommand(opSetpointPersistence, encodeSub(0x00), wire.Bool)

	setSetpointPersistCmd = shdlc.NewCommand(opSetpointPersistence, encodeSubBool(0x00), decodeEmpty)

	setpointAndMeasureCmd = shdlc.NewCommand(opSetpointAndMeasure, encodeScaledValue, wire.Float32)

	setpointAndMeasureTwoCmd = shdlc.NewCommand(opSetpointAndMeasureTwo, encodeScaledValue, decodeFloatPair)

	measureCmd = shdlc.NewCommand(opMeasure, encodeScale, wire.Float32)

	measureBufferedCmd = shdlc.NewCommand(opMeasureBuffered, encodeScale, decodeBufferedRead)

	measureTwoSensorsCmd = shdlc.NewCommand(opMeasureTwoSensors, encodeScale, decodeFloatPair)

	getValveSourceCmd = shdlc.NewCommand(opValve, encodeSub(valveSource),
		func(data []byte) (ValveInputSource, error) {
			b, err := wire.Byte(data)
			return ValveInputSource(b), err
		})

	setValveSourceCmd = shdlc.NewCommand(opValve,
		func(src ValveInputSource) ([]byte, error) { return []byte{valveSource, byte(src)}, nil },
		decodeEmpty)

	getValveUserValueCmd = shdlc.NewCommand(opValve, encodeSub(valveUserValue), wire.Float32)

	setValveUserValueCmd = shdlc.NewCommand(opValve, encodeSubFloat(valveUserValue), decodeEmpty)

	getMediumUnitCmd = shdlc.NewCommand(opMediumUnit,
		func(includeWildcards bool) ([]byte, error) {
			if includeWildcards {
				return []byte{1}, nil
			}
			return []byte{0}, nil
		},
		decodeGasUnit)

	setMediumUnitCmd = shdlc.NewCommand(opMediumUnit,
		func(u gasunit.GasUnit) ([]byte, error) { return append([]byte{0x00}, u.Encode()...), nil },
		decodeEmpty)

	convertedFullScaleCmd = shdlc.NewCommand(opMediumUnit, encodeSub(0x0A), wire.Float32)

	getGainCmd = shdlc.NewCommand(opController, encodeSub(ctrlGain), wire.Float32)

	setGainCmd = shdlc.NewCommand(opController, encodeSubFloat(ctrlGain), decodeEmpty)

	getPressureGainEnabledCmd = shdlc.NewCommand(opController, encodeSub(ctrlPressureGainEnable), wire.Bool)

	setPressureGainEnableCmd = shdlc.NewCommand(opController, encodeSubBool(ctrlPressureGainEnable), decodeEmpty)

	getPressureGainValueCmd = shdlc.NewCommand(opController, encodeSub(ctrlPressureGainValue), wire.Float32)

	setPressureGainValueCmd = shdlc.NewCommand(opController, encodeSubFloat(ctrlPressureGainValue), decodeEmpty)

	getGasTempEnabledCmd = shdlc.NewCommand(opController, encodeSub(ctrlGasTempEnable), wire.Bool)

	setGasTempEnableCmd = shdlc.NewCommand(opController, encodeSubBool(ctrlGasTempEnable), decodeEmpty)

	getGasTempValueCmd = shdlc.NewCommand(opController, encodeSub(ctrlGasTempValue), wire.Float32)

	setGasTempValueCmd = shdlc.NewCommand(opController, encodeSubFloat(ctrlGasTempValue), decodeEmpty)

	rawFlowCmd = shdlc.NewCommand(opRawMeasure, encodeSub(rawFlow), wire.Uint16)

	rawConductivityClosedCmd = shdlc.NewCommand(opRawMeasure, encodeSub(rawConductivityClosed), wire.Uint16)

	rawConductivityOpenCmd = shdlc.NewCommand(opRawMeasure, encodeSub(rawConductivityOpen), wire.Uint16)

	temperatureCmd = shdlc.NewCommand(opRawMeasure, encodeSub(rawTemperature), wire.Float32)

	calibrationCountCmd = shdlc.NewCommand(opCalibrationInfo, encodeSub(calCount), wire.Uint32)

	calibrationValidCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calValidity), wire.Bool)

	calibrationGasDescriptionCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calGasDescription), wire.String)

	calibrationGasIDCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calGasID), wire.Uint32)

	calibrationGasUnitCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calGasUnit), decodeGasUnit)

	calibrationFullScaleCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calFullScale), wire.Float32)

	calibrationInitialCondCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calInitialCond), decodeCalibrationConditions)

	calibrationRecalCondCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calRecalCond), decodeCalibrationConditions)

	calibrationConductivityCmd = shdlc.NewCommand(opCalibrationInfo, encodeSubIndex(calConductivity), wire.Uint16)

	currentGasDescriptionCmd = shdlc.NewCommand(opCurrentCalibration, encodeSub(calGasDescription), wire.String)

	currentGasIDCmd = shdlc.NewCommand(opCurrentCalibration, encodeSub(calGasID), wire.Uint32)

	currentGasUnitCmd = shdlc.NewCommand(opCurrentCalibration, encodeSub(calGasUnit), decodeGasUnit)

	currentFullScaleCmd = shdlc.NewCommand(opCurrentCalibration, encodeSub(calFullScale), wire.Float32)

	currentInitialCondCmd = shdlc.NewCommand(opCurrentCalibration, encodeSub(calInitialCond), decodeCalibrationConditions)

	currentRecalCondCmd = shdlc.NewCommand(opCurrentCalibration, encodeSub(calRecalCond), decodeCalibrationConditions)

	currentConductivityCmd = shdlc.NewCommand(opCurrentCalibration, encodeSub(calConductivity), wire.Uint16)

	selectCalibrationCmd = shdlc.NewCommand(opCalibrationSelect,
		func(index uint32) ([]byte, error) { return wire.AppendUint32(nil, index), nil },
		decodeEmpty)

	readUserMemoryCmd = shdlc.NewCommand(opUserMemory,
		func(r userMemoryRange) ([]byte, error) { return []byte{r.start, r.count}, nil },
		func(data []byte) ([]byte, error) { return data, nil })

	writeUserMemoryCmd = shdlc.NewCommand(opUserMemory,
		func(w userMemoryWrite) ([]byte, error) {
			return append([]byte{w.start, byte(len(w.data))}, w.data...), nil
		},
		decodeEmpty)

	factoryResetCmd = shdlc.NewCommand(opFactoryReset, encodeEmpty, decodeEmpty)
)
