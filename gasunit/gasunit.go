// Package gasunit models the 3-byte unit descriptors used by Sensirion mass
// flow controllers to report calibration units. A descriptor is an SI prefix,
// a medium unit and a time base, e.g. "mln/min" for milli norm liter per
// minute.
package gasunit

import "fmt"

// Prefix is an SI prefix encoded as its signed decimal exponent.
type Prefix int8

const (
	Yocto Prefix = -24
	Zepto Prefix = -21
	Atto  Prefix = -18
	Femto Prefix = -15
	Pico  Prefix = -12
	Nano  Prefix = -9
	Micro Prefix = -6
	Milli Prefix = -3
	Centi Prefix = -2
	Deci  Prefix = -1
	Base  Prefix = 0
	Deca  Prefix = 1
	Hecto Prefix = 2
	Kilo  Prefix = 3
	Mega  Prefix = 6
	Giga  Prefix = 9
	Tera  Prefix = 12
	Peta  Prefix = 15
	Exa   Prefix = 18
	Zetta Prefix = 21
	Yotta Prefix = 24

	// UndefinedPrefix marks an exponent the device families do not use.
	UndefinedPrefix Prefix = 0x7F
)

var prefixSymbols = map[Prefix]string{
	Yocto: "y", Zepto: "z", Atto: "a", Femto: "f", Pico: "p",
	Nano: "n", Micro: "u", Milli: "m", Centi: "c", Deci: "d",
	Base: "", Deca: "da", Hecto: "h", Kilo: "k", Mega: "M",
	Giga: "G", Tera: "T", Peta: "P", Exa: "E", Zetta: "Z", Yotta: "Y",
}

// Valid reports whether p is a prefix the device families define.
func (p Prefix) Valid() bool {
	_, ok := prefixSymbols[p]
	return ok
}

// String returns the SI symbol for p, e.g. "m" for Milli. The base prefix
// and undefined values render as the empty string.
func (p Prefix) String() string { return prefixSymbols[p] }

// Unit is the medium unit of a calibration, using the device wire encoding.
type Unit byte

const (
	NormLiter     Unit = 0
	StandardLiter Unit = 1
	LiterLiquid   Unit = 8
	Gram          Unit = 9
	Pascal        Unit = 16
	Bar           Unit = 17
	MeterH2O      Unit = 18
	InchH2O       Unit = 19

	UndefinedUnit Unit = 0xFF
)

var unitSymbols = map[Unit]string{
	NormLiter:     "ln",
	StandardLiter: "ls",
	LiterLiquid:   "l",
	Gram:          "g",
	Pascal:        "Pa",
	Bar:           "bar",
	MeterH2O:      "mH2O",
	InchH2O:       "inH2O",
}

// Valid reports whether u is a unit the device families define.
func (u Unit) Valid() bool {
	_, ok := unitSymbols[u]
	return ok
}

func (u Unit) String() string { return unitSymbols[u] }

// TimeBase is the time denominator of a calibration unit.
type TimeBase byte

const (
	NoTimeBase  TimeBase = 0
	Microsecond TimeBase = 1
	Millisecond TimeBase = 2
	Second      TimeBase = 3
	Minute      TimeBase = 4
	Hour        TimeBase = 5
	Day         TimeBase = 6

	UndefinedTimeBase TimeBase = 0xFF
)

var timeBaseSymbols = map[TimeBase]string{
	NoTimeBase:  "",
	Microsecond: "/us",
	Millisecond: "/ms",
	Second:      "/s",
	Minute:      "/min",
	Hour:        "/h",
	Day:         "/day",
}

// Valid reports whether t is a time base the device families define.
func (t TimeBase) Valid() bool {
	_, ok := timeBaseSymbols[t]
	return ok
}

func (t TimeBase) String() string { return timeBaseSymbols[t] }

// GasUnit is the unit a flow value is expressed in. It is transmitted as
// three bytes: signed prefix exponent, medium unit, time base.
type GasUnit struct {
	Prefix   Prefix
	Unit     Unit
	TimeBase TimeBase
}

// EncodedSize is the wire size of a gas unit descriptor.
const EncodedSize = 3

// Decode parses a 3-byte unit descriptor. Field values outside the defined
// sets are normalized to the package's Undefined constants rather than
// rejected, since newer firmware may add values.
func Decode(data []byte) (GasUnit, error) {
	if len(data) < EncodedSize {
		return GasUnit{}, fmt.Errorf("gasunit: need %d bytes, got %d", EncodedSize, len(data))
	}

	u := GasUnit{
		Prefix:   Prefix(int8(data[0])),
		Unit:     Unit(data[1]),
		TimeBase: TimeBase(data[2]),
	}

	if !u.Prefix.Valid() {
		u.Prefix = UndefinedPrefix
	}
	if !u.Unit.Valid() {
		u.Unit = UndefinedUnit
	}
	if !u.TimeBase.Valid() {
		u.TimeBase = UndefinedTimeBase
	}

	return u, nil
}

// Encode returns the 3-byte wire form of u.
func (u GasUnit) Encode() []byte {
	return []byte{byte(int8(u.Prefix)), byte(u.Unit), byte(u.TimeBase)}
}

// String renders u in conventional notation, e.g. "mln/min" for milli norm
// liter per minute.
func (u GasUnit) String() string {
	return u.Prefix.String() + u.Unit.String() + u.TimeBase.String()
}
