package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/sitevision/internal/analysis"
	"github.com/jonathan/sitevision/internal/compliance"
	"github.com/jonathan/sitevision/internal/estimation"
	"github.com/jonathan/sitevision/internal/reporting"
	"github.com/jonathan/sitevision/internal/research"
	"github.com/jonathan/sitevision/internal/types"
)

// requireLLM writes an error and returns false when no model client is
// configured.
func (s *Server) requireLLM(w http.ResponseWriter) bool {
	if s.llm == nil {
		writeError(w, &InternalError{Cause: errors.New("LLM client not configured")})
		return false
	}
	return true
}

// analyzePhotoRequest is the payload for POST /api/analysis/photo.
type analyzePhotoRequest struct {
	Image    string `json:"image"` // base64-encoded
	MIMEType string `json:"mime_type"`
	Area     string `json:"area"`
}

// handleAnalyzePhoto turns an inspection photo into a draft defect.
func (s *Server) handleAnalyzePhoto(w http.ResponseWriter, r *http.Request) {
	if !s.requireLLM(w) {
		return
	}

	var req analyzePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ValidationError{Field: "body", Message: "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Image) == "" {
		writeError(w, &ValidationError{Field: "image", Message: "required"})
		return
	}

	imageData, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		writeError(w, &ValidationError{Field: "image", Message: "must be base64-encoded"})
		return
	}

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	defect, err := analysis.AnalyzePhoto(r.Context(), s.llm, imageData, mimeType, req.Area)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"defect": defect})
}

// defectRequest wraps a single defect payload.
type defectRequest struct {
	Defect types.Defect `json:"defect"`
}

// handleEstimateCost suggests a repair cost range for one defect.
func (s *Server) handleEstimateCost(w http.ResponseWriter, r *http.Request) {
	if !s.requireLLM(w) {
		return
	}

	var req defectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	if req.Defect.Title == "" {
		writeError(w, &ValidationError{Field: "defect.title", Message: "required"})
		return
	}

	cost, err := estimation.EstimateCost(r.Context(), s.llm, req.Defect)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"cost": cost})
}

// handleEnrichDefect generates the narrative fields for one defect.
func (s *Server) handleEnrichDefect(w http.ResponseWriter, r *http.Request) {
	if !s.requireLLM(w) {
		return
	}

	var req defectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	if req.Defect.Title == "" {
		writeError(w, &ValidationError{Field: "defect.title", Message: "required"})
		return
	}

	enriched, err := reporting.EnrichDefect(r.Context(), s.llm, req.Defect)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"defect": enriched})
}

// handleComplianceCheck runs one defect against the applicable
// Australian standards.
func (s *Server) handleComplianceCheck(w http.ResponseWriter, r *http.Request) {
	if !s.requireLLM(w) {
		return
	}

	var req defectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	if req.Defect.Title == "" {
		writeError(w, &ValidationError{Field: "defect.title", Message: "required"})
		return
	}

	note, err := compliance.CheckDefect(r.Context(), s.llm, req.Defect)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"compliance": note,
		"standards":  compliance.StandardsFor(req.Defect.Area),
	})
}

// handleHistory looks up public listing history for an address.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, &ValidationError{Field: "address", Message: "required"})
		return
	}

	if s.lookup == nil {
		writeError(w, &InternalError{Cause: research.ErrSearchUnavailable})
		return
	}

	details, err := s.lookup.History(r.Context(), address)
	if err != nil {
		if errors.Is(err, research.ErrNoListingsFound) {
			writeError(w, &NotFoundError{Resource: "property history", ID: address})
			return
		}
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, details)
}
