package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarisRizvanovic/Mock-BacNET-Device/sim"
)

func TestParseValue_ExportCellFormats(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"72.5", 72.5},
		{"72.5 F", 72.5},
		{"  30 %  ", 30},
		{"[2]", 2},
		{"-4.25", -4.25},
		{"+10", 10},
		{".5", 0.5},
		{"", 0},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.in)
		require.NoError(t, err, "ParseValue(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseValue(%q)", tt.in)
	}
}

func TestParseValue_NonNumeric_Rejected(t *testing.T) {
	for _, in := range []string{"active", "N/A", "--"} {
		_, err := ParseValue(in)
		assert.ErrorIs(t, err, sim.ErrInvalidDefinition, "ParseValue(%q)", in)
	}
}

func TestToDefinition_UnitFallsBackToName(t *testing.T) {
	// GIVEN a record with no Units column but a recognizable name
	rec := Record{Type: "analogInput", Instance: 1, Name: "SpaceTemperature", PresentValue: "22"}

	def, err := ToDefinition(rec)

	require.NoError(t, err)
	assert.Equal(t, sim.UnitTemperature, def.Unit)
	assert.Equal(t, 22.0, def.InitialValue)
}

func TestToDefinition_MultistateGetsDefaultStates(t *testing.T) {
	// GIVEN a multistate record with no state list
	rec := Record{Type: "multiStateValue", Instance: 1, Name: "Mode", PresentValue: "2"}

	def, err := ToDefinition(rec)

	require.NoError(t, err)
	assert.Equal(t, defaultStateText, def.StateText)
}

func TestToDefinition_UnknownType_Rejected(t *testing.T) {
	_, err := ToDefinition(Record{Type: "trendLog", Instance: 1, Name: "X"})
	assert.ErrorIs(t, err, sim.ErrInvalidDefinition)
}

func TestPopulate_SkipsBadRecordsAndKeepsGoing(t *testing.T) {
	// GIVEN a batch with one malformed record in the middle
	reg := sim.NewRegistry()
	records := []Record{
		{Type: "analogInput", Instance: 1, Name: "Temp", PresentValue: "21"},
		{Type: "analogInput", Instance: 2, Name: "Bad", PresentValue: "not-a-number"},
		{Type: "binaryOutput", Instance: 1, Name: "Fan", PresentValue: "0"},
	}

	// WHEN the registry is populated
	created, failed := Populate(reg, records)

	// THEN the bad record is reported and the others registered
	assert.Equal(t, 2, created)
	require.Len(t, failed, 1)
	assert.Equal(t, "Bad", failed[0].Name)
	assert.True(t, errors.Is(failed[0].Err, sim.ErrInvalidDefinition))
	assert.Equal(t, 2, reg.Len())
}

func TestPopulate_DuplicateInstance_SecondSkipped(t *testing.T) {
	reg := sim.NewRegistry()
	records := []Record{
		{Type: "analogInput", Instance: 1, Name: "First", PresentValue: "1"},
		{Type: "analogInput", Instance: 1, Name: "Second", PresentValue: "2"},
	}

	created, failed := Populate(reg, records)

	assert.Equal(t, 1, created)
	require.Len(t, failed, 1)
	assert.True(t, errors.Is(failed[0].Err, sim.ErrDuplicateInstance))

	p, err := reg.Find(sim.AnalogInput, 1)
	require.NoError(t, err)
	assert.Equal(t, "First", p.Name())
}

func TestReadCSV_HeaderKeyed(t *testing.T) {
	// GIVEN a typical export with mixed column casing and a states cell
	csvText := strings.Join([]string{
		"Type,Instance,Name,Description,PresentValue,Units,States",
		"Analog Input,3000741,SpaceTemperature,Room temp,22.5 C,degreesCelsius,",
		"Multi State Value,3000743,OperationStatus,,1,,Normal;Setup;Fault",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(csvText))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint32(3000741), records[0].Instance)
	assert.Equal(t, "22.5 C", records[0].PresentValue)
	assert.Equal(t, []string{"Normal", "Setup", "Fault"}, records[1].States)
}

func TestReadCSV_MissingRequiredColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Name,PresentValue\nTemp,21"))
	assert.Error(t, err)
}

func TestReadCSV_BadInstance(t *testing.T) {
	csvText := "Type,Instance,Name\nanalogInput,xyz,Temp"
	_, err := ReadCSV(strings.NewReader(csvText))
	assert.Error(t, err)
}

func TestReadYAML_Document(t *testing.T) {
	yamlText := `
points:
  - type: analogInput
    instance: 5
    name: SpaceTemperature
    present_value: "22.0"
    units: degreesCelsius
  - type: multiStateValue
    instance: 7
    name: Mode
    present_value: "1"
    states: [Idle, Heat, Cool]
`
	records, err := ReadYAML(strings.NewReader(yamlText))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "SpaceTemperature", records[0].Name)
	assert.Equal(t, []string{"Idle", "Heat", "Cool"}, records[1].States)
}

func TestReadYAML_UnknownField_Rejected(t *testing.T) {
	yamlText := `
points:
  - type: analogInput
    instance: 5
    name: Temp
    presnt_value: "22.0"
`
	_, err := ReadYAML(strings.NewReader(yamlText))
	assert.Error(t, err)
}

func TestLoadFile_DispatchesByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "points.csv")
	require.NoError(t, os.WriteFile(csvPath,
		[]byte("Type,Instance,Name,PresentValue\nanalogInput,1,Temp,21\n"), 0o644))

	yamlPath := filepath.Join(dir, "points.yaml")
	require.NoError(t, os.WriteFile(yamlPath,
		[]byte("points:\n  - type: binaryValue\n    instance: 2\n    name: Occ\n"), 0o644))

	fromCSV, err := LoadFile(csvPath)
	require.NoError(t, err)
	require.Len(t, fromCSV, 1)
	assert.Equal(t, "Temp", fromCSV[0].Name)

	fromYAML, err := LoadFile(yamlPath)
	require.NoError(t, err)
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "Occ", fromYAML[0].Name)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
