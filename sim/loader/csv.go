package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSV column headers, as produced by building-export tools. Matching is
// case-insensitive; unknown columns are ignored. A States cell holds a
// semicolon-separated list.
const (
	colType        = "type"
	colInstance    = "instance"
	colName        = "name"
	colDescription = "description"
	colPresent     = "presentvalue"
	colUnits       = "units"
	colStates      = "states"
)

// ReadCSV parses header-keyed point definition rows.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index[colType]; !ok {
		return nil, fmt.Errorf("csv has no Type column")
	}
	if _, ok := index[colInstance]; !ok {
		return nil, fmt.Errorf("csv has no Instance column")
	}

	cell := func(row []string, col string) string {
		if i, ok := index[col]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var records []Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++

		instance, err := strconv.ParseUint(cell(row, colInstance), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: bad instance %q", line, cell(row, colInstance))
		}

		rec := Record{
			Type:         cell(row, colType),
			Instance:     uint32(instance),
			Name:         cell(row, colName),
			Description:  cell(row, colDescription),
			PresentValue: cell(row, colPresent),
			Units:        cell(row, colUnits),
		}
		if s := cell(row, colStates); s != "" {
			for _, st := range strings.Split(s, ";") {
				rec.States = append(rec.States, strings.TrimSpace(st))
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
