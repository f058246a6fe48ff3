package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"healthcare-chart/internal/analysis"
	"healthcare-chart/internal/chart"
	"healthcare-chart/internal/models"
	"healthcare-chart/internal/service"
	"healthcare-chart/internal/state"
)

const (
	DefaultWidth  = 960
	DefaultHeight = 600
	// MaxDimension bounds the requested viewport
	MaxDimension = 10000
	// MaxSessionLen truncates client session tokens
	MaxSessionLen = 64

	pageTitle = "Healthcare vs. Occupation"
)

type Handler struct {
	Views  *chart.Views
	Loader chart.Loader
}

func NewHandler(views *chart.Views, loader chart.Loader) *Handler {
	return &Handler{
		Views:  views,
		Loader: loader,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/", templ.Handler(Page(pageTitle)).ServeHTTP)

	r.Get("/chart.svg", h.GetChartSVG)
	r.Get("/chart.png", h.GetChartPNG)

	r.Get("/api/dataset", h.GetDataset)
	r.Get("/api/status", h.GetStatus)
	r.Get("/correlation", h.GetCorrelation)
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// ============================================================================
// Chart
// ============================================================================

// GetChartSVG runs one render pass for the requested viewport in the
// caller's session
func (h *Handler) GetChartSVG(w http.ResponseWriter, r *http.Request) {
	vp, err := viewportParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	renderer, err := h.sessionRenderer(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	res, err := renderer.Render(r.Context(), vp)
	if err != nil {
		writeRenderError(w, err)
		return
	}

	var buf bytes.Buffer
	if _, err := res.Root.WriteTo(&buf); err != nil {
		http.Error(w, "Failed to write chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Render-Generation", strconv.FormatUint(res.Generation, 10))
	w.Write(buf.Bytes())
}

// GetChartPNG renders the same scatter as a PNG image
func (h *Handler) GetChartPNG(w http.ResponseWriter, r *http.Request) {
	vp, err := viewportParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ds, err := h.Loader.Load(r.Context())
	if err != nil {
		writeRenderError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, ds, vp, h.Views.Margins()); err != nil {
		writeRenderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// ============================================================================
// Data
// ============================================================================

func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Loader.Load(r.Context())
	if err != nil {
		writeRenderError(w, err)
		return
	}

	resp := models.DatasetResponse{
		Source:      ds.Source,
		Rows:        len(ds.Records),
		Skipped:     ds.Skipped,
		Correlation: models.Finite(ds.Correlation),
		Records:     ds.Records,
	}
	writeJSON(w, resp)
}

// GetCorrelation reports the annotated coefficient next to one computed from
// the records
func (h *Handler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Loader.Load(r.Context())
	if err != nil {
		writeRenderError(w, err)
		return
	}

	computed := analysis.PearsonCorrelation(ds.Occupation(), ds.Healthcare())
	resp := models.CorrelationResult{
		Column1:        analysis.ColumnOccupation,
		Column2:        analysis.ColumnHealthcare,
		Correlation:    models.Finite(ds.Correlation),
		Computed:       models.Finite(computed),
		Interpretation: analysis.Interpret(ds.Correlation),
	}
	writeJSON(w, resp)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	renderer, err := h.sessionRenderer(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	snap, err := renderer.Current()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := models.StatusResponse{
		State:      string(snap.Phase),
		Generation: snap.Generation,
		Marks:      snap.Marks,
	}
	if snap.Phase == state.Rendered {
		resp.Viewport = &models.ViewportStatus{Width: snap.Width, Height: snap.Height}
	}
	writeJSON(w, resp)
}

// ============================================================================
// Helpers
// ============================================================================

func (h *Handler) sessionRenderer(r *http.Request) (*chart.Renderer, error) {
	session := r.URL.Query().Get("session")
	if len(session) > MaxSessionLen {
		session = session[:MaxSessionLen]
	}
	return h.Views.Renderer(session)
}

func viewportParams(r *http.Request) (chart.Viewport, error) {
	width, err := getFloatParam(r, "width", DefaultWidth)
	if err != nil {
		return chart.Viewport{}, err
	}
	height, err := getFloatParam(r, "height", DefaultHeight)
	if err != nil {
		return chart.Viewport{}, err
	}
	return chart.Viewport{Width: width, Height: height}, nil
}

func getFloatParam(r *http.Request, name string, defaultVal float64) (float64, error) {
	valStr := r.URL.Query().Get(name)
	if valStr == "" {
		return defaultVal, nil
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || math.IsNaN(val) {
		return 0, errors.New(name + " must be a number")
	}
	if val <= 0 || val > MaxDimension {
		return 0, errors.New(name + " out of range")
	}
	return val, nil
}

func writeRenderError(w http.ResponseWriter, err error) {
	var loadErr *service.LoadError

	switch {
	case errors.Is(err, chart.ErrViewportTooSmall):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, state.ErrStale):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, chart.ErrDomain),
		errors.Is(err, analysis.ErrNoRows),
		errors.Is(err, analysis.ErrMissingColumn):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &loadErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Printf("render failed: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
