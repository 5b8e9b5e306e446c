// Package sfc6xxx provides a typed client for the Sensirion SFC6xxx mass
// flow controller family on top of the shdlc transport. Flow values are
// physical values in the unit of the active calibration; use CurrentGasUnit
// to learn it.
package sfc6xxx

import (
	"context"
	"fmt"

	"github.com/arloliu/go-shdlc/gasunit"
	"github.com/arloliu/go-shdlc/shdlc"
)

// MaxAverageCount is the largest measurement count the average measure
// command accepts.
const MaxAverageCount = 100

// Device is a handle to one SFC6xxx controller. It embeds the generic SHDLC
// device handle, so the standard commands (Version, SerialNumber, Baudrate,
// Reset, ...) are available directly.
type Device struct {
	*shdlc.Device
}

// NewDevice creates a handle for the SFC6xxx at address on the given
// transport.
func NewDevice(t *shdlc.Transport, address byte, opts ...shdlc.DeviceOption) *Device {
	return &Device{Device: shdlc.NewDevice(t, address, opts...)}
}

// Wrap adapts an existing generic device handle, e.g. one obtained from a
// shdlc.Bus.
func Wrap(d *shdlc.Device) *Device {
	return &Device{Device: d}
}

// Setpoint returns the current flow setpoint as a physical value.
func (d *Device) Setpoint(ctx context.Context) (float32, error) {
	return shdlc.Send(ctx, d.Device, getSetpointCmd, struct{}{})
}

// SetSetpoint sets the flow setpoint as a physical value. Valid setpoints
// range from 0 to the active calibration's full scale; the device resets the
// setpoint to 0 whenever the calibration changes.
func (d *Device) SetSetpoint(ctx context.Context, setpoint float32) error {
	_, err := shdlc.Send(ctx, d.Device, setSetpointCmd, setpoint)
	return err
}

// SetSetpointAndMeasure sets the setpoint and reads the measured flow in a
// single exchange.
func (d *Device) SetSetpointAndMeasure(ctx context.Context, setpoint float32) (float32, error) {
	return shdlc.Send(ctx, d.Device, setpointAndMeasureCmd, setpoint)
}

// MeasuredValue returns the latest measured flow as a physical value.
func (d *Device) MeasuredValue(ctx context.Context) (float32, error) {
	return shdlc.Send(ctx, d.Device, measureCmd, struct{}{})
}

// AverageMeasuredValue averages count flow measurements on the device and
// returns the result. Each measurement takes 1ms, so the response time grows
// with count; count must not exceed MaxAverageCount.
func (d *Device) AverageMeasuredValue(ctx context.Context, count uint8) (float32, error) {
	if count > MaxAverageCount {
		return 0, fmt.Errorf("sfc6xxx: average count %d exceeds maximum %d", count, MaxAverageCount)
	}

	return shdlc.Send(ctx, d.Device, measureAverageCmd, count)
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

// InitialStep returns the controller's initial step.
func (d *Device) InitialStep(ctx context.Context) (float32, error) {
	return shdlc.Send(ctx, d.Device, getInitialStepCmd, struct{}{})
}

// SetInitialStep sets the controller's initial step. The value is volatile
// and reverts after a device reset.
func (d *Device) SetInitialStep(ctx context.Context, step float32) error {
	_, err := shdlc.Send(ctx, d.Device, setInitialStepCmd, step)
	return err
}

// RawFlow returns the measured flow in raw sensor ticks.
func (d *Device) RawFlow(ctx context.Context) (uint16, error) {
	return shdlc.Send(ctx, d.Device, rawFlowCmd, struct{}{})
}

// RawThermalConductivity performs a thermal conductivity measurement and
// returns the raw tick value. The device closes the valve for the duration
// of the measurement.
func (d *Device) RawThermalConductivity(ctx context.Context) (uint16, error) {
	return shdlc.Send(ctx, d.Device, rawConductivityCmd, struct{}{})
}

// Temperature returns the flow sensor temperature in degrees Celsius.
func (d *Device) Temperature(ctx context.Context) (float32, error) {
	return shdlc.Send(ctx, d.Device, temperatureCmd, struct{}{})
}

// CalibrationCount returns the number of calibration slots in device memory.
// Not every slot holds a valid calibration; check CalibrationValid per slot.
func (d *Device) CalibrationCount(ctx context.Context) (uint32, error) {
	return shdlc.Send(ctx, d.Device, calibrationCountCmd, struct{}{})
}

// CalibrationValid reports whether the calibration slot at index holds a
// valid calibration.
func (d *Device) CalibrationValid(ctx context.Context, index uint32) (bool, error) {
	return shdlc.Send(ctx, d.Device, calibrationValidCmd, index)
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

// CurrentCalibration returns the slot index of the active calibration.
func (d *Device) CurrentCalibration(ctx context.Context) (uint32, error) {
	return shdlc.Send(ctx, d.Device, currentCalibrationCmd, struct{}{})
}

// SelectCalibration activates the calibration at index and stores the
// choice in non-volatile memory. The controller stops and the valve closes.
func (d *Device) SelectCalibration(ctx context.Context, index uint32) error {
	_, err := shdlc.Send(ctx, d.Device, selectCalibrationCmd, index)
	return err
}

// SelectCalibrationVolatile activates the calibration at index without
// persisting the choice; the previous calibration returns after a reset.
// The controller stops and the valve closes.
func (d *Device) SelectCalibrationVolatile(ctx context.Context, index uint32) error {
	_, err := shdlc.Send(ctx, d.Device, selectCalibrationVolatileCmd, index)
	return err
}
