package loader

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// pointsFile is the YAML document shape:
//
//	points:
//	  - type: analogInput
//	    instance: 5
//	    name: SpaceTemperature
//	    present_value: "22.0"
//	    units: degreesCelsius
type pointsFile struct {
	Points []Record `yaml:"points"`
}

// ReadYAML parses a YAML point-definition document. Unknown fields are
// rejected so typos in hand-written files surface at load time.
func ReadYAML(r io.Reader) ([]Record, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file pointsFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode points yaml: %w", err)
	}
	return file.Points, nil
}
