package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ikteng/NUUMobile/ai"
	"github.com/ikteng/NUUMobile/dashboard"
	"github.com/ikteng/NUUMobile/workbook"
)

// sheetForRequest loads the sheet named in the route.
func (s *Server) sheetForRequest(w http.ResponseWriter, r *http.Request) (*workbook.Frame, bool) {
	vars := mux.Vars(r)
	frame, err := s.loadSheet(vars["filename"], vars["sheet"])
	if err != nil {
		writePipelineError(w, err)
		return nil, false
	}
	return frame, true
}

func (s *Server) handleAgeRanges(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"age_range_frequency": dashboard.AgeRanges(frame)})
}

func (s *Server) handleModelTypes(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"model": dashboard.ModelTypes(frame)})
}

func (s *Server) handleModelChannels(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{
		"model_channel_performance": dashboard.ModelChannelPerformance(frame),
	})
}

func (s *Server) handleCarriers(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"carrier": dashboard.Carriers(frame)})
}

func (s *Server) handleSlotCarriers(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}

	if slot := r.URL.Query().Get("slot"); slot != "" {
		if slot != "Slot 1" && slot != "Slot 2" {
			writeBadRequestResponse(w, fmt.Sprintf("unknown slot %q", slot))
			return
		}
		writeSuccessResponse(w, map[string]any{"carrier": dashboard.SlotCarriers(frame, slot)})
		return
	}
	writeSuccessResponse(w, map[string]any{"carrier": dashboard.CombinedSlotCarriers(frame)})
}

func (s *Server) handleSimCountries(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"country": dashboard.SimCountries(frame)})
}

func (s *Server) handleMonthlySales(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"monthlySales": dashboard.MonthlySales(frame)})
}

func (s *Server) handleMonthlyModelSales(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"modelSales": dashboard.MonthlyModelSales(frame)})
}

func (s *Server) handleRetainment(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"modelRetention": dashboard.DeviceRetainment(frame)})
}

func (s *Server) handleReturnsCount(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"num_returns": dashboard.ReturnsCount(frame)})
}

func (s *Server) handleDefects(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"defects": dashboard.DefectCounts(frame)})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"feedback": dashboard.FeedbackCounts(frame)})
}

func (s *Server) handleVerification(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"verification": dashboard.VerificationCounts(frame)})
}

func (s *Server) handleResponsibleParty(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}
	writeSuccessResponse(w, map[string]any{"responsible_party": dashboard.ResponsiblePartyCounts(frame)})
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}

	correlations, err := dashboard.ChurnCorrelation(frame)
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}
	writeSuccessResponse(w, map[string]any{"corr": correlations})
}

// handleColumnSummary asks the generation service to interpret one
// column's distribution.
func (s *Server) handleColumnSummary(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}

	column := r.URL.Query().Get("column")
	if column == "" {
		writeBadRequestResponse(w, "missing column parameter")
		return
	}

	counts, err := dashboard.ColumnFrequency(frame, column)
	if err != nil {
		writeNotFoundResponse(w, err.Error())
		return
	}

	summary, err := s.ai.Generate(r.Context(), ai.ColumnSummaryPrompt(column, counts))
	if err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}
	writeSuccessResponse(w, map[string]any{"summary": summary})
}

// handleComparisonSummary interprets two columns jointly.
func (s *Server) handleComparisonSummary(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}

	column1 := r.URL.Query().Get("column1")
	column2 := r.URL.Query().Get("column2")
	if column1 == "" || column2 == "" {
		writeBadRequestResponse(w, "missing column1 or column2 parameter")
		return
	}

	counts1, err := dashboard.ColumnFrequency(frame, column1)
	if err != nil {
		writeNotFoundResponse(w, err.Error())
		return
	}
	counts2, err := dashboard.ColumnFrequency(frame, column2)
	if err != nil {
		writeNotFoundResponse(w, err.Error())
		return
	}

	summary, err := s.ai.Generate(r.Context(),
		ai.ComparisonSummaryPrompt(column1, column2, counts1, counts2))
	if err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}
	writeSuccessResponse(w, map[string]any{"summary": summary})
}

// handleReturnsSummary interprets the returns-analysis columns.
func (s *Server) handleReturnsSummary(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}

	topValues := make(map[string]string)
	for column, counts := range map[string]map[string]int{
		"Feedback":             dashboard.FeedbackCounts(frame),
		"Verification":         dashboard.VerificationCounts(frame),
		"Defect / Damage type": dashboard.DefectCounts(frame),
		"Responsible Party":    dashboard.ResponsiblePartyCounts(frame),
	} {
		if value, count := dashboard.TopValue(counts); value != "" {
			topValues[column] = fmt.Sprintf("%s (%d times)", value, count)
		} else {
			topValues[column] = "Column not found"
		}
	}

	summary, err := s.ai.Generate(r.Context(), ai.ReturnsSummaryPrompt(topValues))
	if err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}
	writeSuccessResponse(w, map[string]any{"summary": summary})
}

// handleCorrelationSummary interprets the churn correlation table.
func (s *Server) handleCorrelationSummary(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.sheetForRequest(w, r)
	if !ok {
		return
	}

	correlations, err := dashboard.ChurnCorrelation(frame)
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	summary, err := s.ai.Generate(r.Context(), ai.CorrelationSummaryPrompt(correlations))
	if err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}
	writeSuccessResponse(w, map[string]any{"aiSummary": summary})
}
