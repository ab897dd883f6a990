package main

import (
	"context"
	"log"

	"github.com/gorilla/mux"

	"github.com/ikteng/NUUMobile/ai"
	"github.com/ikteng/NUUMobile/churn"
	"github.com/ikteng/NUUMobile/store"
	"github.com/ikteng/NUUMobile/utils"
)

// Server represents the churn analytics API server
type Server struct {
	router   *mux.Router
	config   *utils.ConfigManager
	registry *churn.Registry
	catalog  *store.Catalog
	ai       *ai.Client
}

// NewServer creates a new churn analytics server
func NewServer() (*Server, error) {
	if err := utils.LoadGlobalConfig(); err != nil {
		log.Printf("Failed to load configuration: %v", err)
	}

	s := &Server{
		router: mux.NewRouter(),
		config: utils.GetConfigManager(),
	}
	cfg := s.config.GetConfig()

	if err := utils.InitLogger(cfg.Logging); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}

	registry, err := churn.LoadRegistry(cfg.Storage.ModelsDir, utils.GetLogger())
	if err != nil {
		return nil, err
	}
	s.registry = registry

	catalog, err := store.NewCatalog(cfg.Storage.CatalogPath)
	if err != nil {
		return nil, err
	}
	s.catalog = catalog

	s.ai = ai.NewClient(cfg.AI)

	s.setupRoutes()
	return s, nil
}

// setupRoutes wires all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.errorRecoveryMiddleware)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.versionMiddleware("v1"))

	// Health and model inventory
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/models", s.handleListModels).Methods("GET")

	// Upload management
	api.HandleFunc("/upload", s.handleUpload).Methods("POST")
	api.HandleFunc("/files", s.handleListFiles).Methods("GET")
	api.HandleFunc("/files/{filename}", s.handleDeleteFile).Methods("DELETE")

	// Sheet and column introspection
	api.HandleFunc("/files/{filename}/sheets", s.handleListSheets).Methods("GET")
	api.HandleFunc("/files/{filename}/sheets/{sheet}/preview", s.handleSheetPreview).Methods("GET")
	api.HandleFunc("/files/{filename}/sheets/{sheet}/columns", s.handleListColumns).Methods("GET")
	api.HandleFunc("/files/{filename}/sheets/{sheet}/columns/{column}", s.handleColumnData).Methods("GET")

	// Predictions per model family
	api.HandleFunc("/predict/{family}/{filename}/{sheet}", s.handlePredict).Methods("GET")
	api.HandleFunc("/predict/{family}/{filename}/{sheet}/download", s.handleDownload).Methods("GET")
	api.HandleFunc("/predict/{family}/{filename}/{sheet}/features", s.handleFeatures).Methods("GET")
	api.HandleFunc("/predict/{family}/{filename}/{sheet}/evaluate", s.handleEvaluate).Methods("GET")

	// Dashboard statistics
	api.HandleFunc("/dashboard/{filename}/{sheet}/age-ranges", s.handleAgeRanges).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/model-types", s.handleModelTypes).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/model-channels", s.handleModelChannels).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/carriers", s.handleCarriers).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/slot-carriers", s.handleSlotCarriers).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/sim-countries", s.handleSimCountries).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/monthly-sales", s.handleMonthlySales).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/monthly-model-sales", s.handleMonthlyModelSales).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/retainment", s.handleRetainment).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/returns/count", s.handleReturnsCount).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/returns/defects", s.handleDefects).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/returns/feedback", s.handleFeedback).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/returns/verification", s.handleVerification).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/returns/responsible-party", s.handleResponsibleParty).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/correlation", s.handleCorrelation).Methods("GET")

	// AI summaries
	api.HandleFunc("/dashboard/{filename}/{sheet}/summary", s.handleColumnSummary).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/comparison-summary", s.handleComparisonSummary).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/returns-summary", s.handleReturnsSummary).Methods("GET")
	api.HandleFunc("/dashboard/{filename}/{sheet}/correlation-summary", s.handleCorrelationSummary).Methods("GET")
}

// Shutdown releases server resources
func (s *Server) Shutdown(ctx context.Context) error {
	if s.catalog != nil {
		return s.catalog.Close()
	}
	return nil
}
