// Package sfc5xxx provides a typed client for the Sensirion SFC5xxx mass
// flow controller family on top of the shdlc transport.
//
// Unlike the SFC6xxx family, SFC5xxx commands take an explicit Scale that
// selects whether flow values are percent of full scale, physical values in
// the calibration unit, or values in the configured medium unit.
package sfc5xxx

import (
	"context"

	"github.com/arloliu/go-shdlc/gasunit"
	"github.com/arloliu/go-shdlc/shdlc"
)

// Device is a handle to one SFC5xxx controller. It embeds the generic SHDLC
// device handle, so the standard commands (Version, SerialNumber, Baudrate,
// Reset, ...) are available directly.
type Device struct {
	*shdlc.Device
}

// NewDevice creates a handle for the SFC5xxx at address on the given
// transport.
func NewDevice(t *shdlc.Transport, address byte, opts ...shdlc.DeviceOption) *Device {
	return &Device{Device: shdlc.NewDevice(t, address, opts...)}
}

// Wrap adapts an existing generic device handle, e.g. one obtained from a
// shdlc.Bus.
func Wrap(d *shdlc.Device) *Device {
	return &Device{Device: d}
}

// Setpoint returns the current flow setpoint in the given scale.
func (d *Device) Setpoint(ctx context.Context, scale Scale) (float32, error) {
	return shdlc.Send(ctx, d.Device, getSetpointCmd, scale)
}

// SetSetpoint sets the flow setpoint in the given scale.
func (d *Device) SetSetpoint(ctx context.Context, scale Scale, setpoint float32) error {
	_, err := shdlc.Send(ctx, d.Device, setSetpointCmd, scaledValue{scale: scale, value: setpoint})
	return err
}

// SetpointPersistent reports whether the setpoint survives a device reset.
func (d *Device) SetpointPersistent(ctx context.Context) (bool, error) {
	return shdlc.Send(ctx, d.Device, getSetpointPersistCmd, struct{}{})
}

// SetSetpointPersistent configures whether the setpoint survives a device
// reset.
func (d *Device) SetSetpointPersistent(ctx context.Context, persist bool) error {
	_, err := shdlc.Send(ctx, d.Device, setSetpointPersistCmd, persist)
	return err
}

// SetSetpointAndMeasure sets the setpoint and reads the measured flow in a
// single exchange, both in the given scale.
func (d *Device) SetSetpointAndMeasure(ctx context.Context, scale Scale, setpoint float32) (float32, error) {
	return shdlc.Send(ctx, d.Device, setpointAndMeasureCmd, scaledValue{scale: scale, value: setpoint})
}

// SetSetpointAndMeasureTwoSensors sets the setpoint and reads both flow
// sensors in a single exchange. Requires firmware 1.48 or later.
func (d *Device) SetSetpointAndMeasureTwoSensors(ctx context.Context, scale Scale, setpoint float32) ([2]float32, error) {
	return shdlc.Send(ctx, d.Device, setpointAndMeasureTwoCmd, scaledValue{scale: scale, value: setpoint})
}

// MeasuredValue returns the latest measured flow in the given scale.
func (d *Device) MeasuredValue(ctx context.Context, scale Scale) (float32, error) {
	return shdlc.Send(ctx, d.Device, measureCmd, scale)
}

// MeasuredValueBuffered drains the device's internal measurement buffer.
func (d *Device) MeasuredValueBuffered(ctx context.Context, scale Scale) (BufferedRead, error) {
	return shdlc.Send(ctx, d.Device, measureBufferedCmd, scale)
}

// MeasuredValueTwoSensors returns the latest measured flow of both sensors.
// Requires firmware 1.48 or later.
func (d *Device) MeasuredValueTwoSensors(ctx context.Context, scale Scale) ([2]float32, error) {
	return shdlc.Send(ctx, d.Device, measureTwoSensorsCmd, scale)
}

// ValveInput returns the current valve input source configuration,
// including the user value when the source is ValveUserDefined.
func (d *Device) ValveInput(ctx context.Context) (ValveInput, error) {
	src, err := shdlc.Send(ctx, d.Device, getValveSourceCmd, struct{}{})
	if err != nil {
		return ValveInput{}, err
	}

	if src != ValveUserDefined {
		return ValveInput{Source: src}, nil
	}

	value, err := shdlc.Send(ctx, d.Device, getValveUserValueCmd, struct{}{})
	if err != nil {
		return ValveInput{}, err
	}

	return ValveInput{Source: src, Value: value}, nil
}

// SetValveInput configures the valve input source. When in.Source is
// ValveUserDefined the user value is written in a second exchange.
func (d *Device) SetValveInput(ctx context.Context, in ValveInput) error {
	if _, err := shdlc.Send(ctx, d.Device, setValveSourceCmd, in.Source); err != nil {
		return err
	}

	if in.Source != ValveUserDefined {
		return nil
	}

	_, err := shdlc.Send(ctx, d.Device, setValveUserValueCmd, in.Value)

	return err
}

// MediumUnit returns the configured medium unit. With wildcards included,
// fields configured as "same as calibration" report their wildcard value
// instead of the resolved unit.
func (d *Device) MediumUnit(ctx context.Context, includeWildcards bool) (gasunit.GasUnit, error) {
	return shdlc.Send(ctx, d.Device, getMediumUnitCmd, includeWildcards)
}

// SetMediumUnit configures the medium unit used by ScaleUserDefined values.
func (d *Device) SetMediumUnit(ctx context.Context, u gasunit.GasUnit) error {
	_, err := shdlc.Send(ctx, d.Device, setMediumUnitCmd, u)
	return err
}

// ConvertedFullScale returns the full scale flow converted to the
// configured medium unit.
func (d *Device) ConvertedFullScale(ctx context.Context) (float32, error) {
	return shdlc.Send(ctx, d.Device, convertedFullScaleCmd, struct{}{})
}

// ControllerGain returns the user controller gain.
func (d *Device) ControllerGain(ctx context.Context) (float32, error) {
	return shdlc.Send(ctx, d.Device, getGainCmd, struct{}{})
}

// SetControllerGain sets the user controller gain.
func (d *Device) SetControllerGain(ctx context.Context, gain float32) error {
	_, err := shdlc.Send(ctx, d.Device, setGainCmd, gain)
	return err
}

// PressureDependentGain returns the inlet pressure used for gain correction,
// or ok=false when pressure dependent gain is disabled.
func (d *Device) PressureDependentGain(ctx context.Context) (value float32, ok bool, err error) {
	enabled, err := shdlc.Send(ctx, d.Device, getPressureGainEnabledCmd, struct{}{})
	if err != nil || !enabled {
		return 0, false, err
	}

	value, err = shdlc.Send(ctx, d.Device, getPressureGainValueCmd, struct{}{})
	if err != nil {
		return 0, false, err
	}

	return value, true, nil
}

// SetPressureDependentGainEnabled enables or disables pressure dependent
// gain correction.
func (d *Device) SetPressureDependentGainEnabled(ctx context.Context, enabled bool) error {
	_, err := shdlc.Send(ctx, d.Device, setPressureGainEnableCmd, enabled)
	return err
}

// SetGainCorrection sets the inlet pressure in bar used for pressure
// dependent gain correction.
func (d *Device) SetGainCorrection(ctx context.Context, inletPressure float32) error {
	_, err := shdlc.Send(ctx, d.Device, setPressureGainValueCmd, inletPressure)
	return err
}

// GasTemperatureCompensation returns the inlet temperature used for gas
// temperature compensation, or ok=false when compensation is disabled.
func (d *Device) GasTemperatureCompensation(ctx context.Context) (value float32, ok bool, err error) {
	enabled, err := shdlc.Send(ctx, d.Device, getGasTempEnabledCmd, struct{}{})
	if err != nil || !enabled {
		return 0, false, err
	}

	value, err = shdlc.Send(ctx, d.Device, getGasTempValueCmd, struct{}{})
	if err != nil {
		return 0, false, err
	}

	return value, true, nil
}

// SetGasTemperatureCompensationEnabled enables or disables gas temperature
// compensation.
func (d *Device) SetGasTemperatureCompensationEnabled(ctx context.Context, enabled bool) error {
	_, err := shdlc.Send(ctx, d.Device, setGasTempEnableCmd, enabled)
	return err
}

// SetInletTemperatureCorrection sets the inlet gas temperature in degrees
// Celsius used for gas temperature compensation.
func (d *Device) SetInletTemperatureCorrection(ctx context.Context, temperature float32) error {
	_, err := shdlc.Send(ctx, d.Device, setGasTempValueCmd, temperature)
	return err
}

// RawFlow returns the measured flow in raw sensor ticks.
func (d *Device) RawFlow(ctx context.Context) (uint16, error) {
	return shdlc.Send(ctx, d.Device, rawFlowCmd, struct{}{})
}

// RawThermalConductivity performs a thermal conductivity measurement and
// returns the raw tick value. With valveClosed the device closes the valve
// for the measurement; otherwise the valve stays in its current state.
func (d *Device) RawThermalConductivity(ctx context.Context, valveClosed bool) (uint16, error) {
	if valveClosed {
		return shdlc.Send(ctx, d.Device, rawConductivityClosedCmd, struct{}{})
	}

	return shdlc.Send(ctx, d.Device, rawConductivityOpenCmd, struct{}{})
}

// Temperature returns the flow sensor temperature in degrees Celsius.
func (d *Device) Temperature(ctx context.Context) (float32, error) {
	return shdlc.Send(ctx, d.Device, temperatureCmd, struct{}{})
}

// CalibrationCount returns the number of calibration slots in device memory.
func (d *Device) CalibrationCount(ctx context.Context) (uint32, error) {
	return shdlc.Send(ctx, d.Device, calibrationCountCmd, struct{}{})
}

// CalibrationValid reports whether the calibration slot at index holds a
// valid calibration.
func (d *Device) CalibrationValid(ctx context.Context, index uint32) (bool, error) {
	return shdlc.Send(ctx, d.Device, calibrationValidCmd, index)
}

// CalibrationGasDescription returns the gas description of the calibration
// at index.
func (d *Device) CalibrationGasDescription(ctx context.Context, index uint32) (string, error) {
	return shdlc.Send(ctx, d.Device, calibrationGasDescriptionCmd, index)
}

// CalibrationGasID returns the gas ID of the calibration at index.
func (d *Device) CalibrationGasID(ctx context.Context, index uint32) (uint32, error) {
	return shdlc.Send(ctx, d.Device, calibrationGasIDCmd, index)
}

// CalibrationGasUnit returns the gas unit of the calibration at index.
func (d *Device) CalibrationGasUnit(ctx context.Context, index uint32) (gasunit.GasUnit, error) {
	return shdlc.Send(ctx, d.Device, calibrationGasUnitCmd, index)
}

// CalibrationFullScale returns the full scale flow of the calibration at
// index.
func (d *Device) CalibrationFullScale(ctx context.Context, index uint32) (float32, error) {
	return shdlc.Send(ctx, d.Device, calibrationFullScaleCmd, index)
}

// CalibrationInitialConditions returns the conditions the calibration at
// index was first recorded under.
func (d *Device) CalibrationInitialConditions(ctx context.Context, index uint32) (CalibrationConditions, error) {
	return shdlc.Send(ctx, d.Device, calibrationInitialCondCmd, index)
}

// CalibrationRecalibrationConditions returns the conditions of the most
// recent recalibration of the calibration at index.
func (d *Device) CalibrationRecalibrationConditions(ctx context.Context, index uint32) (CalibrationConditions, error) {
	return shdlc.Send(ctx, d.Device, calibrationRecalCondCmd, index)
}

// CalibrationThermalConductivityReference returns the thermal conductivity
// reference value of the calibration at index in raw ticks.
func (d *Device) CalibrationThermalConductivityReference(ctx context.Context, index uint32) (uint16, error) {
	return shdlc.Send(ctx, d.Device, calibrationConductivityCmd, index)
}

// CurrentGasDescription returns the gas description of the active
// calibration.
func (d *Device) CurrentGasDescription(ctx context.Context) (string, error) {
	return shdlc.Send(ctx, d.Device, currentGasDescriptionCmd, struct{}{})
}

// CurrentGasID returns the gas ID of the active calibration.
func (d *Device) CurrentGasID(ctx context.Context) (uint32, error) {
	return shdlc.Send(ctx, d.Device, currentGasIDCmd, struct{}{})
}

// CurrentGasUnit returns the gas unit of the active calibration.
func (d *Device) CurrentGasUnit(ctx context.Context) (gasunit.GasUnit, error) {
	return shdlc.Send(ctx, d.Device, currentGasUnitCmd, struct{}{})
}

// CurrentFullScale returns the full scale flow of the active calibration.
func (d *Device) CurrentFullScale(ctx context.Context) (float32, error) {
	return shdlc.Send(ctx, d.Device, currentFullScaleCmd, struct{}{})
}

// CurrentInitialConditions returns the initial calibration conditions of
// the active calibration.
func (d *Device) CurrentInitialConditions(ctx context.Context) (CalibrationConditions, error) {
	return shdlc.Send(ctx, d.Device, currentInitialCondCmd, struct{}{})
}

// CurrentRecalibrationConditions returns the recalibration conditions of
// the active calibration.
func (d *Device) CurrentRecalibrationConditions(ctx context.Context) (CalibrationConditions, error) {
	return shdlc.Send(ctx, d.Device, currentRecalCondCmd, struct{}{})
}

// CurrentThermalConductivityReference returns the thermal conductivity
// reference of the active calibration in raw ticks.
func (d *Device) CurrentThermalConductivityReference(ctx context.Context) (uint16, error) {
	return shdlc.Send(ctx, d.Device, currentConductivityCmd, struct{}{})
}

// SelectCalibration activates the calibration at index. The controller
// stops and the valve closes.
func (d *Device) SelectCalibration(ctx context.Context, index uint32) error {
	_, err := shdlc.Send(ctx, d.Device, selectCalibrationCmd, index)
	return err
}

// ReadUserMemory reads count bytes of the device's user memory starting at
// start.
func (d *Device) ReadUserMemory(ctx context.Context, start, count byte) ([]byte, error) {
	return shdlc.Send(ctx, d.Device, readUserMemoryCmd, userMemoryRange{start: start, count: count})
}

// WriteUserMemory writes data to the device's user memory starting at start.
func (d *Device) WriteUserMemory(ctx context.Context, start byte, data []byte) error {
	_, err := shdlc.Send(ctx, d.Device, writeUserMemoryCmd, userMemoryWrite{start: start, data: data})
	return err
}

// FactoryReset restores the device's factory configuration.
func (d *Device) FactoryReset(ctx context.Context) error {
	_, err := shdlc.Send(ctx, d.Device, factoryResetCmd, struct{}{})
	return err
}
