package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"healthcare-chart/internal/models"
)

// Column names expected in the dataset header
const (
	ColumnState       = "state"
	ColumnOccupation  = "occupation1"
	ColumnHealthcare  = "healthcare"
	ColumnCorrelation = "correlation"
)

var (
	// ErrNoRows is returned when the resource yields no usable record
	ErrNoRows = errors.New("dataset has no valid rows")
	// ErrMissingColumn is returned when a required header is absent
	ErrMissingColumn = errors.New("missing column")
)

type CSVService struct{}

func NewCSVService() *CSVService {
	return &CSVService{}
}

// Parse reads a header row followed by data rows and builds a Dataset
func (s *CSVService) Parse(r io.Reader) (*models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Rows with trailing empty cells are common in exported sheets
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}

	return s.ParseRows(headers, rows)
}

// ParseRows converts already split rows (from CSV or a DB query) into a Dataset.
// Malformed numeric fields become NaN and the row is skipped.
func (s *CSVService) ParseRows(headers []string, rows [][]string) (*models.Dataset, error) {
	idx := columnIndex(headers)
	for _, required := range []string{ColumnState, ColumnOccupation, ColumnHealthcare} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	ds := &models.Dataset{Correlation: math.NaN()}
	if col, ok := idx[ColumnCorrelation]; ok {
		ds.Correlation = ParseNumber(field(rows[0], col))
	}

	for i, row := range rows {
		rec := models.Record{
			State:       strings.TrimSpace(field(row, idx[ColumnState])),
			Occupation1: ParseNumber(field(row, idx[ColumnOccupation])),
			Healthcare:  ParseNumber(field(row, idx[ColumnHealthcare])),
		}
		if !rec.Valid() {
			log.Printf("skipping row %d (%q): non-numeric occupation1/healthcare", i+1, rec.State)
			ds.Skipped++
			continue
		}
		ds.Records = append(ds.Records, rec)
	}

	if len(ds.Records) == 0 {
		return nil, fmt.Errorf("%w: %d malformed", ErrNoRows, ds.Skipped)
	}

	if math.IsNaN(ds.Correlation) || math.IsInf(ds.Correlation, 0) {
		ds.Correlation = PearsonCorrelation(ds.Occupation(), ds.Healthcare())
	}

	return ds, nil
}

// ParseNumber converts a text cell to float64, returning NaN when the cell
// is empty or not numeric
func ParseNumber(val string) float64 {
	val = strings.TrimSpace(val)
	if val == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func columnIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		// Excel exports prefix the first header with a BOM
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
