package main

import (
	"log"
	"net/http"

	"healthcare-chart/internal/analysis"
	"healthcare-chart/internal/api"
	"healthcare-chart/internal/chart"
	"healthcare-chart/internal/config"
	"healthcare-chart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Initialize Services
	csvService := analysis.NewCSVService()
	source, err := service.NewDataSource(service.DataSourceConfig{
		Path:   cfg.DataPath,
		URL:    cfg.DataURL,
		Driver: cfg.DBDriver,
		DSN:    cfg.DBDSN,
		Table:  cfg.DBTable,
	}, csvService)
	if err != nil {
		log.Fatalf("Data source error: %v", err)
	}
	if closer, ok := source.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	loader := service.NewLoader(source, cfg.LoadTimeout)

	views, err := chart.NewViews(loader, chart.UniformMargins(cfg.Margin), cfg.MaxSessions)
	if err != nil {
		log.Fatalf("Layout error: %v", err)
	}

	// Initialize Handler
	handler := api.NewHandler(views, loader)

	// Router Setup
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Render-Generation"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	handler.RegisterRoutes(r)

	log.Printf("Starting chart server on http://localhost:%s", cfg.Port)
	log.Printf("Dataset source: %s", loader.Source())

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
