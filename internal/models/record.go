package models

import "math"

// Record is one row of the occupation/healthcare dataset
type Record struct {
	State       string  `json:"state"`
	Occupation1 float64 `json:"occupation1"`
	Healthcare  float64 `json:"healthcare"`
}

// Valid reports whether both numeric fields are present and finite
func (r Record) Valid() bool {
	return isFinite(r.Occupation1) && isFinite(r.Healthcare)
}

// Dataset is the parsed resource for one render pass
type Dataset struct {
	Records     []Record `json:"records"`
	Correlation float64  `json:"correlation"`
	// Skipped counts rows dropped for malformed numeric fields
	Skipped int    `json:"skipped"`
	Source  string `json:"source,omitempty"`
}

// Occupation returns the occupation1 column in record order
func (d *Dataset) Occupation() []float64 {
	vals := make([]float64, len(d.Records))
	for i, r := range d.Records {
		vals[i] = r.Occupation1
	}
	return vals
}

// Healthcare returns the healthcare column in record order
func (d *Dataset) Healthcare() []float64 {
	vals := make([]float64, len(d.Records))
	for i, r := range d.Records {
		vals[i] = r.Healthcare
	}
	return vals
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
