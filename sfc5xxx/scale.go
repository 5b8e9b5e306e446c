package sfc5xxx

import "fmt"

// Scale selects how flow values in setpoint and measure commands are
// expressed.
type Scale byte

const (
	// ScalePercent expresses values as percent of full scale (0..100).
	ScalePercent Scale = 0

	// ScalePhysical expresses values in the unit of the active calibration.
	ScalePhysical Scale = 1

	// ScaleUserDefined expresses values in the configured medium unit.
	ScaleUserDefined Scale = 2
)

func (s Scale) String() string {
	switch s {
	case ScalePercent:
		return "percent"
	case ScalePhysical:
		return "physical"
	case ScaleUserDefined:
		return "user-defined"
	default:
		return fmt.Sprintf("Scale(%d)", byte(s))
	}
}
