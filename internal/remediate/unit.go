// Package remediate implements the batch semantics of the remediation API:
// parsing unit payloads, scanning their code, and echoing them back with
// findings attached.
package remediate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/abapscan/abapscan/internal/findings"
)

// Unit is one ABAP development object in a remediation batch. The three
// required fields identify the object; the remaining fields are nullable
// metadata echoed back to the caller untouched.
type Unit struct {
	PgmName             string  `json:"pgm_name"`
	IncName             string  `json:"inc_name"`
	Type                string  `json:"type"`
	Name                *string `json:"name"`
	ClassImplementation *string `json:"class_implementation"`
	StartLine           *int    `json:"start_line"`
	EndLine             *int    `json:"end_line"`
	Code                *string `json:"code"`
}

// UnitResult is a unit extended with the findings for its code.
type UnitResult struct {
	Unit
	MBTxnUsage []findings.Finding `json:"mb_txn_usage"`
}

// CodeText returns the unit's code, treating null as empty.
func (u *Unit) CodeText() string {
	if u.Code == nil {
		return ""
	}
	return *u.Code
}

var requiredUnitFields = []string{"pgm_name", "inc_name", "type"}

// ParseUnits decodes a request body holding a bare JSON array of units.
// Unknown fields and missing required fields are rejected so schema drift
// between clients and the service surfaces immediately. An absent code
// field defaults to the empty string, while an explicit null stays null.
func ParseUnits(data []byte) ([]Unit, error) {
	var rawUnits []json.RawMessage
	if err := json.Unmarshal(data, &rawUnits); err != nil {
		return nil, fmt.Errorf("request body must be a JSON array of units: %w", err)
	}

	units := make([]Unit, 0, len(rawUnits))
	for i, raw := range rawUnits {
		unit, err := parseUnit(raw)
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}
		units = append(units, unit)
	}
	return units, nil
}

func parseUnit(data []byte) (Unit, error) {
	var unit Unit
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&unit); err != nil {
		return Unit{}, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Unit{}, fmt.Errorf("unit must be a JSON object: %w", err)
	}

	for _, field := range requiredUnitFields {
		value, present := probe[field]
		if !present {
			return Unit{}, fmt.Errorf("missing required field %q", field)
		}
		if string(value) == "null" {
			return Unit{}, fmt.Errorf("field %q must not be null", field)
		}
	}

	if _, present := probe["code"]; !present {
		empty := ""
		unit.Code = &empty
	}

	return unit, nil
}

// LoadUnitsFile parses an exported units file, which uses the same bare
// array format as the API request body.
func LoadUnitsFile(data []byte) ([]Unit, error) {
	return ParseUnits(data)
}
