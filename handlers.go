package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ikteng/NUUMobile/dashboard"
	"github.com/ikteng/NUUMobile/store"
	"github.com/ikteng/NUUMobile/workbook"
)

// filePath resolves an uploaded workbook's location, stripping any
// path components from the client-supplied name.
func (s *Server) filePath(filename string) string {
	return filepath.Join(s.config.GetConfig().Storage.UserFilesDir, filepath.Base(filename))
}

// loadSheet reads one sheet of an uploaded workbook.
func (s *Server) loadSheet(filename, sheet string) (*workbook.Frame, error) {
	path := s.filePath(filename)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file %q: %w", filename, os.ErrNotExist)
	}
	return workbook.ReadSheet(path, sheet)
}

// handleHealth reports service liveness and loaded model families.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"models": s.registry.Families(),
	})
}

// handleListModels reports the loaded model families and thresholds.
func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models := make(map[string]any)
	for _, family := range s.registry.Families() {
		predictor, err := s.registry.Get(family)
		if err != nil {
			continue
		}
		models[family] = map[string]any{
			"threshold": predictor.Threshold(),
		}
	}
	writeSuccessResponse(w, models)
}

// handleUpload stores a workbook and catalogs its sheets.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequestResponse(w, "missing file field")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".xlsx" && ext != ".xlsm" && ext != ".xls" {
		writeBadRequestResponse(w, fmt.Sprintf("unsupported file type %q", ext))
		return
	}

	dir := s.config.GetConfig().Storage.UserFilesDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}

	path := filepath.Join(dir, name)
	dest, err := os.Create(path)
	if err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}
	size, err := io.Copy(dest, file)
	dest.Close()
	if err != nil {
		os.Remove(path)
		writeInternalServerErrorResponse(w, err.Error())
		return
	}

	sheets, err := workbook.SheetNames(path)
	if err != nil {
		os.Remove(path)
		writeBadRequestResponse(w, fmt.Sprintf("unreadable workbook: %v", err))
		return
	}

	upload := &store.Upload{
		ID:         uuid.NewString(),
		Filename:   name,
		SizeBytes:  size,
		Sheets:     sheets,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.catalog.Save(r.Context(), upload); err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("%s uploaded successfully", name),
		"upload":  upload,
	})
}

// handleListFiles lists catalogued uploads.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	uploads, err := s.catalog.List(r.Context())
	if err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}
	if uploads == nil {
		uploads = []*store.Upload{}
	}
	writeSuccessResponse(w, map[string]any{"files": uploads})
}

// handleDeleteFile removes an upload from disk and catalog.
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	path := s.filePath(filename)

	if _, err := os.Stat(path); err != nil {
		writeNotFoundResponse(w, "File not found")
		return
	}
	if err := os.Remove(path); err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}
	if err := s.catalog.Delete(r.Context(), filepath.Base(filename)); err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%s deleted successfully", filename),
	})
}

// handleListSheets lists the sheet names of an upload.
func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	path := s.filePath(filename)

	if _, err := os.Stat(path); err != nil {
		writeNotFoundResponse(w, "File not found")
		return
	}

	sheets, err := workbook.SheetNames(path)
	if err != nil {
		writeInternalServerErrorResponse(w, err.Error())
		return
	}
	writeSuccessResponse(w, map[string]any{"sheets": sheets})
}

// handleSheetPreview returns the first rows of a sheet.
func (s *Server) handleSheetPreview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	frame, err := s.loadSheet(vars["filename"], vars["sheet"])
	if err != nil {
		writePipelineError(w, err)
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("rows"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > frame.NumRows() {
		limit = frame.NumRows()
	}

	preview := make([]map[string]any, limit)
	for i := 0; i < limit; i++ {
		row := make(map[string]any, len(frame.Columns))
		for _, col := range frame.Columns {
			row[col] = workbook.CellString(frame.Rows[i][col])
		}
		preview[i] = row
	}

	writeSuccessResponse(w, map[string]any{
		"columns": frame.Columns,
		"preview": preview,
	})
}

// handleListColumns returns the canonical column names of a sheet.
func (s *Server) handleListColumns(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	frame, err := s.loadSheet(vars["filename"], vars["sheet"])
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeSuccessResponse(w, map[string]any{
		"columns": dashboard.CanonicalColumns(frame),
	})
}

// handleColumnData returns the value frequency of one column.
func (s *Server) handleColumnData(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	frame, err := s.loadSheet(vars["filename"], vars["sheet"])
	if err != nil {
		writePipelineError(w, err)
		return
	}

	frequency, err := dashboard.ColumnFrequency(frame, vars["column"])
	if err != nil {
		writeNotFoundResponse(w, err.Error())
		return
	}
	writeSuccessResponse(w, map[string]any{"frequency": frequency})
}
