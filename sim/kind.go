package sim

import (
	"fmt"
	"strings"
)

// PointKind identifies one of the nine supported BACnet-style object types.
// The set is closed: the engine's update dispatch table covers every kind.
type PointKind int

const (
	AnalogInput PointKind = iota
	AnalogOutput
	AnalogValue
	BinaryInput
	BinaryOutput
	BinaryValue
	MultistateInput
	MultistateOutput
	MultistateValue
)

var kindNames = [...]string{
	AnalogInput:      "analogInput",
	AnalogOutput:     "analogOutput",
	AnalogValue:      "analogValue",
	BinaryInput:      "binaryInput",
	BinaryOutput:     "binaryOutput",
	BinaryValue:      "binaryValue",
	MultistateInput:  "multistateInput",
	MultistateOutput: "multistateOutput",
	MultistateValue:  "multistateValue",
}

func (k PointKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("PointKind(%d)", int(k))
	}
	return kindNames[k]
}

// AllKinds returns every PointKind in declaration order.
func AllKinds() []PointKind {
	return []PointKind{
		AnalogInput, AnalogOutput, AnalogValue,
		BinaryInput, BinaryOutput, BinaryValue,
		MultistateInput, MultistateOutput, MultistateValue,
	}
}

// IsInput reports whether the kind is a sensor-style object. Input kinds
// have no priority array and are always driven by the simulator.
func (k PointKind) IsInput() bool {
	return k == AnalogInput || k == BinaryInput || k == MultistateInput
}

// Commandable reports whether the kind carries a 16-slot priority array
// (Output and Value kinds).
func (k PointKind) Commandable() bool {
	return !k.IsInput()
}

func (k PointKind) IsAnalog() bool {
	return k == AnalogInput || k == AnalogOutput || k == AnalogValue
}

func (k PointKind) IsBinary() bool {
	return k == BinaryInput || k == BinaryOutput || k == BinaryValue
}

func (k PointKind) IsMultistate() bool {
	return k == MultistateInput || k == MultistateOutput || k == MultistateValue
}

// ParseKind maps a point-definition type string to a PointKind. It accepts
// the spellings seen in real export files: "Analog Input", "analogInput",
// "Multi State Value", "multistatevalue", and so on.
func ParseKind(s string) (PointKind, error) {
	key := strings.ToLower(s)
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, "_", "")
	switch key {
	case "analoginput", "ai":
		return AnalogInput, nil
	case "analogoutput", "ao":
		return AnalogOutput, nil
	case "analogvalue", "av":
		return AnalogValue, nil
	case "binaryinput", "bi":
		return BinaryInput, nil
	case "binaryoutput", "bo":
		return BinaryOutput, nil
	case "binaryvalue", "bv":
		return BinaryValue, nil
	case "multistateinput", "msi", "mi":
		return MultistateInput, nil
	case "multistateoutput", "mso", "mo":
		return MultistateOutput, nil
	case "multistatevalue", "msv", "mv":
		return MultistateValue, nil
	}
	return 0, fmt.Errorf("%w: unknown object type %q", ErrInvalidDefinition, s)
}

// Unit is a semantic tag on analog points. It is informational on the wire
// but selects the simulation shape (temperature points drift with the
// outdoor cycle, flow points get multiplicative noise, and so on).
type Unit int

const (
	UnitNone Unit = iota
	UnitTemperature
	UnitPercent
	UnitFlow
	UnitHumidity
	UnitPressure
)

var unitNames = [...]string{
	UnitNone:        "noUnits",
	UnitTemperature: "temperature",
	UnitPercent:     "percent",
	UnitFlow:        "flow",
	UnitHumidity:    "humidity",
	UnitPressure:    "pressure",
}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// NominalScale is the full-scale magnitude a unit's values move across.
// Per-tick analog variation is expressed as a fraction of this scale.
func (u Unit) NominalScale() float64 {
	switch u {
	case UnitTemperature:
		return 20
	case UnitPercent:
		return 100
	case UnitFlow:
		return 400
	case UnitHumidity:
		return 100
	case UnitPressure:
		return 30
	default:
		return 100
	}
}

// ParseUnit maps BACnet engineering-unit strings to a Unit tag. Unknown
// strings fall back to UnitNone rather than failing the definition.
func ParseUnit(s string) Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "degreescelsius", "degreesfahrenheit", "degreeskelvin", "deg-c", "deg-f":
		return UnitTemperature
	case "percent":
		return UnitPercent
	case "literspersecond", "cubicfeetperminute", "cubicmetersperhour", "cfm":
		return UnitFlow
	case "percentrelativehumidity":
		return UnitHumidity
	case "pascals", "kilopascals", "poundsforcepersquareinch", "inchesofwater", "psi":
		return UnitPressure
	}
	return UnitNone
}

// UnitFromName guesses a unit from a point name when the definition source
// carries no units column. Matches the naming used in building exports
// ("SpaceTemperature", "AirflowColdDeck", "DuctPressure", ...).
func UnitFromName(name string) Unit {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "humidity"):
		return UnitHumidity
	case strings.Contains(n, "temp") || strings.Contains(n, "setpoint"):
		return UnitTemperature
	case strings.Contains(n, "flow"):
		return UnitFlow
	case strings.Contains(n, "pressure"):
		return UnitPressure
	case strings.Contains(n, "damper") || strings.Contains(n, "valve") || strings.Contains(n, "reheat"):
		return UnitPercent
	}
	return UnitNone
}
