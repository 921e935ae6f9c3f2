package sim

import (
	"errors"
	"testing"
)

func TestParseKind_AcceptedSpellings(t *testing.T) {
	tests := []struct {
		in   string
		want PointKind
	}{
		{"analogInput", AnalogInput},
		{"Analog Input", AnalogInput},
		{"AI", AnalogInput},
		{"analog-output", AnalogOutput},
		{"Analog Value", AnalogValue},
		{"binaryInput", BinaryInput},
		{"Binary Output", BinaryOutput},
		{"bv", BinaryValue},
		{"Multi State Input", MultistateInput},
		{"multistate_output", MultistateOutput},
		{"multiStateValue", MultistateValue},
		{"MSV", MultistateValue},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q): got (%v, %v), want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := ParseKind("trendLog")
	if !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("ParseKind(trendLog): got %v, want ErrInvalidDefinition", err)
	}
}

func TestPointKind_Predicates(t *testing.T) {
	for _, k := range AllKinds() {
		if k.IsInput() == k.Commandable() {
			t.Errorf("%s: IsInput and Commandable must be complementary", k)
		}
	}
	if !AnalogInput.IsInput() || BinaryOutput.IsInput() {
		t.Error("IsInput misclassified analogInput or binaryOutput")
	}
	if !MultistateValue.IsMultistate() || !BinaryValue.IsBinary() || !AnalogValue.IsAnalog() {
		t.Error("family predicates misclassified a Value kind")
	}
}

func TestAllKinds_CoversNineKinds(t *testing.T) {
	kinds := AllKinds()
	if len(kinds) != 9 {
		t.Fatalf("AllKinds: got %d kinds, want 9", len(kinds))
	}
	seen := make(map[PointKind]bool)
	for _, k := range kinds {
		if seen[k] {
			t.Errorf("AllKinds: duplicate kind %s", k)
		}
		seen[k] = true
	}
}

func TestParseUnit_BACnetStrings(t *testing.T) {
	tests := []struct {
		in   string
		want Unit
	}{
		{"degreesCelsius", UnitTemperature},
		{"percent", UnitPercent},
		{"litersPerSecond", UnitFlow},
		{"percentRelativeHumidity", UnitHumidity},
		{"pascals", UnitPressure},
		{"noUnits", UnitNone},
		{"", UnitNone},
	}
	for _, tt := range tests {
		if got := ParseUnit(tt.in); got != tt.want {
			t.Errorf("ParseUnit(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUnitFromName_BuildingExportNames(t *testing.T) {
	tests := []struct {
		name string
		want Unit
	}{
		{"SpaceTemperature", UnitTemperature},
		{"SpaceSetpoint", UnitTemperature},
		{"AirflowColdDeck", UnitFlow},
		{"Humidity", UnitHumidity},
		{"DuctPressure", UnitPressure},
		{"Damper", UnitPercent},
		{"Reheat", UnitPercent},
		{"OccupiedCommand", UnitNone},
	}
	for _, tt := range tests {
		if got := UnitFromName(tt.name); got != tt.want {
			t.Errorf("UnitFromName(%q): got %v, want %v", tt.name, got, tt.want)
		}
	}
}
