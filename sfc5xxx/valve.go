package sfc5xxx

import "fmt"

// ValveInputSource selects what drives the valve.
type ValveInputSource byte

const (
	// ValveController drives the valve from the flow controller (normal
	// operation).
	ValveController ValveInputSource = 0x00

	// ValveForceClosed forces the valve fully closed.
	ValveForceClosed ValveInputSource = 0x01

	// ValveForceOpen forces the valve fully open.
	ValveForceOpen ValveInputSource = 0x02

	// ValveHold freezes the valve at its current position.
	ValveHold ValveInputSource = 0x03

	// ValveUserDefined drives the valve from a user supplied value.
	ValveUserDefined ValveInputSource = 0x10
)

func (s ValveInputSource) String() string {
	switch s {
	case ValveController:
		return "controller"
	case ValveForceClosed:
		return "force-closed"
	case ValveForceOpen:
		return "force-open"
	case ValveHold:
		return "hold"
	case ValveUserDefined:
		return "user-defined"
	default:
		return fmt.Sprintf("ValveInputSource(0x%02X)", byte(s))
	}
}

// ValveInput is the valve input source configuration. Value is only
// meaningful when Source is ValveUserDefined.
type ValveInput struct {
	Source ValveInputSource
	Value  float32
}
