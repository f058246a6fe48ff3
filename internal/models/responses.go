package models

// DatasetResponse is returned by /api/dataset
type DatasetResponse struct {
	Source      string   `json:"source"`
	Rows        int      `json:"rows"`
	Skipped     int      `json:"skipped"`
	Correlation *float64 `json:"correlation"`
	Records     []Record `json:"records"`
}

// CorrelationResult represents correlation between column pair
type CorrelationResult struct {
	Column1        string   `json:"column1"`
	Column2        string   `json:"column2"`
	Correlation    *float64 `json:"correlation"`
	Computed       *float64 `json:"computed"`
	Interpretation string   `json:"interpretation"`
}

// Finite returns nil for NaN and infinities, which JSON cannot carry
func Finite(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}

// ViewportStatus is the size of the last committed chart
type ViewportStatus struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StatusResponse is returned by /api/status
type StatusResponse struct {
	State      string          `json:"state"`
	Generation uint64          `json:"generation"`
	Marks      int             `json:"marks"`
	Viewport   *ViewportStatus `json:"viewport,omitempty"`
}
