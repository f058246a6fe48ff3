package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"healthcare-chart/internal/analysis"
	"healthcare-chart/internal/models"
)

// Load stages reported in LoadError
const (
	StageOpen  = "open"
	StageFetch = "fetch"
	StageQuery = "query"
	StageParse = "parse"
)

// LoadError is a dataset load failure at a specific stage
type LoadError struct {
	Source string
	Stage  string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s stage: %v", e.Source, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DataSourceConfig holds connection details
type DataSourceConfig struct {
	Path   string // CSV file on disk
	URL    string // CSV over HTTP
	Driver string // "postgres", "sqlite"
	DSN    string
	Table  string
}

// DataSource produces a Dataset per call
type DataSource interface {
	Name() string
	Load(ctx context.Context) (*models.Dataset, error)
}

// NewDataSource picks a source: database when a driver is set, then URL,
// then file
func NewDataSource(config DataSourceConfig, csv *analysis.CSVService) (DataSource, error) {
	switch {
	case config.Driver != "":
		return NewSQLDataSource(config, csv)
	case config.URL != "":
		return &HTTPDataSource{URL: config.URL, Client: &http.Client{Timeout: 30 * time.Second}, CSV: csv}, nil
	case config.Path != "":
		return &FileDataSource{Path: config.Path, CSV: csv}, nil
	}
	return nil, fmt.Errorf("no data source configured")
}

// FileDataSource reads a CSV file from disk
type FileDataSource struct {
	Path string
	CSV  *analysis.CSVService
}

func (f *FileDataSource) Name() string { return f.Path }

func (f *FileDataSource) Load(ctx context.Context) (*models.Dataset, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, &LoadError{Source: f.Name(), Stage: StageOpen, Err: err}
	}
	defer file.Close()

	ds, err := f.CSV.Parse(file)
	if err != nil {
		return nil, &LoadError{Source: f.Name(), Stage: StageParse, Err: err}
	}
	ds.Source = f.Name()
	return ds, nil
}

// HTTPDataSource fetches a CSV resource over HTTP
type HTTPDataSource struct {
	URL    string
	Client *http.Client
	CSV    *analysis.CSVService
}

func (h *HTTPDataSource) Name() string { return h.URL }

func (h *HTTPDataSource) Load(ctx context.Context) (*models.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, &LoadError{Source: h.Name(), Stage: StageFetch, Err: err}
	}
	req.Header.Set("Accept", "text/csv")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: h.Name(), Stage: StageFetch, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &LoadError{Source: h.Name(), Stage: StageFetch, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	ds, err := h.CSV.Parse(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: h.Name(), Stage: StageParse, Err: err}
	}
	ds.Source = h.Name()
	return ds, nil
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLDataSource reads the dataset table from postgres or sqlite
type SQLDataSource struct {
	db     *sql.DB
	driver string
	table  string
	csv    *analysis.CSVService
}

// NewSQLDataSource opens and pings the database
func NewSQLDataSource(config DataSourceConfig, csv *analysis.CSVService) (*SQLDataSource, error) {
	switch config.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported driver %q", config.Driver)
	}
	if !identifier.MatchString(config.Table) {
		return nil, fmt.Errorf("invalid table name %q", config.Table)
	}

	db, err := sql.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLDataSource{db: db, driver: config.Driver, table: config.Table, csv: csv}, nil
}

func (s *SQLDataSource) Name() string { return s.driver + ":" + s.table }

func (s *SQLDataSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load selects every row of the table. Columns are matched by name, so the
// table may carry extra columns.
func (s *SQLDataSource) Load(ctx context.Context) (*models.Dataset, error) {
	// table is validated as an identifier in NewSQLDataSource
	query := fmt.Sprintf("SELECT * FROM %s", s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &LoadError{Source: s.Name(), Stage: StageQuery, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &LoadError{Source: s.Name(), Stage: StageQuery, Err: err}
	}

	var data [][]string
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, &LoadError{Source: s.Name(), Stage: StageQuery, Err: err}
		}

		row := make([]string, len(columns))
		for i, val := range values {
			row[i] = cellString(val)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: s.Name(), Stage: StageQuery, Err: err}
	}

	ds, err := s.csv.ParseRows(columns, data)
	if err != nil {
		return nil, &LoadError{Source: s.Name(), Stage: StageParse, Err: err}
	}
	ds.Source = s.Name()
	return ds, nil
}

func cellString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
