// Package loader turns tabular point-definition files (the CSV exports
// real buildings produce, or a YAML equivalent) into populated registry
// points. It is the bootstrap collaborator: it runs once before the
// engine starts and is deliberately forgiving about the messy values
// found in real exports ("72.5 F", "30 %", "[2]").
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/FarisRizvanovic/Mock-BacNET-Device/sim"
)

// Record is one raw point-definition row, before validation.
type Record struct {
	Type         string   `yaml:"type"`
	Instance     uint32   `yaml:"instance"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	PresentValue string   `yaml:"present_value"`
	Units        string   `yaml:"units"`
	States       []string `yaml:"states"`
}

// defaultStateText is assigned to multistate records that carry no state
// list, matching the reference device's behavior for CSV exports that
// omit one.
var defaultStateText = []string{"State1", "State2", "State3", "State4"}

// numericValue matches the leading numeric token of a PresentValue cell,
// optionally wrapped in brackets ("[2]" is a state index in some exports).
var numericValue = regexp.MustCompile(`^\s*\[?\s*([-+]?\d*\.?\d+)`)

// ParseValue extracts the numeric seed from a PresentValue cell, ignoring
// trailing unit suffixes. An empty cell seeds zero; a cell with no leading
// number is a malformed definition.
func ParseValue(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, nil
	}
	m := numericValue.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, fmt.Errorf("%w: non-numeric value %q", sim.ErrInvalidDefinition, s)
	}
	var v float64
	if _, err := fmt.Sscanf(m[1], "%g", &v); err != nil {
		return 0, fmt.Errorf("%w: non-numeric value %q", sim.ErrInvalidDefinition, s)
	}
	return v, nil
}

// ToDefinition validates one record into a sim.Definition.
func ToDefinition(rec Record) (sim.Definition, error) {
	kind, err := sim.ParseKind(rec.Type)
	if err != nil {
		return sim.Definition{}, err
	}
	initial, err := ParseValue(rec.PresentValue)
	if err != nil {
		return sim.Definition{}, fmt.Errorf("point %q: %w", rec.Name, err)
	}

	unit := sim.ParseUnit(rec.Units)
	if unit == sim.UnitNone {
		unit = sim.UnitFromName(rec.Name)
	}

	states := rec.States
	if kind.IsMultistate() && states == nil {
		states = defaultStateText
	}

	return sim.Definition{
		Kind:         kind,
		Instance:     rec.Instance,
		Name:         rec.Name,
		Description:  rec.Description,
		Unit:         unit,
		InitialValue: initial,
		StateText:    states,
	}, nil
}

// RecordError ties a failed record to its cause.
type RecordError struct {
	Name string
	Err  error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("point %q: %v", e.Name, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

// Populate builds and registers a point per record. A malformed record
// inserts nothing (validation happens before registration) and does not
// stop the remaining records; each failure is logged and reported back.
func Populate(reg *sim.Registry, records []Record) (created int, failed []RecordError) {
	for _, rec := range records {
		def, err := ToDefinition(rec)
		if err != nil {
			logrus.Warnf("skipping point %q: %v", rec.Name, err)
			failed = append(failed, RecordError{Name: rec.Name, Err: err})
			continue
		}
		p, err := sim.NewPoint(def)
		if err != nil {
			logrus.Warnf("skipping point %q: %v", rec.Name, err)
			failed = append(failed, RecordError{Name: rec.Name, Err: err})
			continue
		}
		if err := reg.Register(p); err != nil {
			logrus.Warnf("skipping point %q: %v", rec.Name, err)
			failed = append(failed, RecordError{Name: rec.Name, Err: err})
			continue
		}
		created++
	}
	return created, failed
}

// LoadFile reads records from a CSV or YAML file, by extension.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open points file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadCSV(f)
	}
}
