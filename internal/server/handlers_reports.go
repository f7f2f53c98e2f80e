package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/sitevision/internal/costs"
	"github.com/jonathan/sitevision/internal/db"
	"github.com/jonathan/sitevision/internal/server/middleware"
	"github.com/jonathan/sitevision/internal/types"
)

// handleSaveReport stores a new immutable report snapshot for the caller.
func (s *Server) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, &UnauthorizedError{})
		return
	}

	var report types.Report
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		writeError(w, &ValidationError{Field: "body", Message: "invalid request body"})
		return
	}

	if err := report.Validate(); err != nil {
		writeError(w, asValidationError(err))
		return
	}

	id, err := s.store.SaveReport(r.Context(), userID, &report)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleListReports lists report snapshots. Inspectors see their own;
// admins see everyone's.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, &UnauthorizedError{})
		return
	}

	summaries, err := s.store.ListReports(r.Context(), userID, s.isAdmin(r))
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": summaries,
		"count":   len(summaries),
	})
}

// handleGetReport returns one report snapshot including its payload.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadScopedReport(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleDeleteReport removes a snapshot. Inspectors can only delete
// their own; a missing and a foreign report are indistinguishable.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, &UnauthorizedError{})
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, &ValidationError{Field: "id", Message: "must be a UUID"})
		return
	}

	if err := s.store.DeleteReport(r.Context(), id, userID, s.isAdmin(r)); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, &NotFoundError{Resource: "report", ID: id.String()})
			return
		}
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Report deleted"})
}

// handleReportStats returns the aggregate numbers for one snapshot:
// defect count, safety hazards and the summed repair-cost bounds.
func (s *Server) handleReportStats(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadScopedReport(w, r)
	if !ok {
		return
	}

	report, ok := s.decodeSnapshot(w, record)
	if !ok {
		return
	}

	bounds := costs.TotalRepairs(report.Defects)
	writeJSON(w, http.StatusOK, map[string]any{
		"defect_count":   len(report.Defects),
		"safety_hazards": report.SafetyHazardCount(),
		"total_low":      bounds.Low,
		"total_high":     bounds.High,
		"total_range":    costs.FormatRange(bounds),
	})
}

// loadScopedReport fetches the {id} snapshot and enforces ownership.
// A foreign report reads as not found so the endpoint does not reveal
// which IDs exist.
func (s *Server) loadScopedReport(w http.ResponseWriter, r *http.Request) (*db.ReportRecord, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, &UnauthorizedError{})
		return nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, &ValidationError{Field: "id", Message: "must be a UUID"})
		return nil, false
	}

	record, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return nil, false
	}
	if record == nil || (!s.isAdmin(r) && record.UserID != userID) {
		writeError(w, &NotFoundError{Resource: "report", ID: id.String()})
		return nil, false
	}

	return record, true
}

// decodeSnapshot unmarshals a stored snapshot payload.
func (s *Server) decodeSnapshot(w http.ResponseWriter, record *db.ReportRecord) (*types.Report, bool) {
	var report types.Report
	if err := json.Unmarshal(record.Data, &report); err != nil {
		writeError(w, &InternalError{Cause: err})
		return nil, false
	}
	return &report, true
}
