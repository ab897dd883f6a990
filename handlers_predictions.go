package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ikteng/NUUMobile/churn"
	"github.com/ikteng/NUUMobile/workbook"
)

// predictorForRequest resolves the model family route segment.
func (s *Server) predictorForRequest(w http.ResponseWriter, r *http.Request) (*churn.Predictor, *workbook.Frame, bool) {
	vars := mux.Vars(r)

	predictor, err := s.registry.Get(vars["family"])
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return nil, nil, false
	}

	frame, err := s.loadSheet(vars["filename"], vars["sheet"])
	if err != nil {
		writePipelineError(w, err)
		return nil, nil, false
	}

	return predictor, frame, true
}

// handlePredict scores a sheet and returns per-row predictions.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	predictor, frame, ok := s.predictorForRequest(w, r)
	if !ok {
		return
	}

	predictions, err := predictor.Predict(frame)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	writeSuccessResponse(w, map[string]any{
		"family":      predictor.Family(),
		"threshold":   predictor.Threshold(),
		"predictions": predictions,
	})
}

// handleDownload streams the scored sheet as CSV.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	predictor, frame, ok := s.predictorForRequest(w, r)
	if !ok {
		return
	}

	scored, err := predictor.Download(frame)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	name := strings.TrimSuffix(mux.Vars(r)["filename"], ".xlsx")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s_%s_predictions.csv", name, predictor.Family()))
	if err := workbook.WriteCSV(w, scored); err != nil {
		// Headers are gone; nothing sensible left to send.
		return
	}
}

// handleFeatures returns the feature-importance report.
func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	predictor, frame, ok := s.predictorForRequest(w, r)
	if !ok {
		return
	}

	report, err := predictor.Explain(frame)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeSuccessResponse(w, report)
}

// handleEvaluate scores the sheet against derived ground truth.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	predictor, frame, ok := s.predictorForRequest(w, r)
	if !ok {
		return
	}

	evaluation, err := predictor.Evaluate(frame)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeSuccessResponse(w, evaluation)
}
