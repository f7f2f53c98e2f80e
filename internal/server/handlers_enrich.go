package server

import (
	"net/http"

	"github.com/jonathan/sitevision/internal/reporting"
)

// handleEnrichReport runs full enrichment over a saved snapshot and
// returns the enriched report. The stored snapshot is not modified;
// callers save a new one if they want to keep the result.
func (s *Server) handleEnrichReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireLLM(w) {
		return
	}

	record, ok := s.loadScopedReport(w, r)
	if !ok {
		return
	}
	report, ok := s.decodeSnapshot(w, record)
	if !ok {
		return
	}

	if err := reporting.EnrichReport(r.Context(), s.llm, report, nil); err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}

// handleEnrichReportStream streams the same enrichment run as SSE
// events so clients can show per-defect progress.
func (s *Server) handleEnrichReportStream(w http.ResponseWriter, r *http.Request) {
	if !s.requireLLM(w) {
		return
	}

	record, ok := s.loadScopedReport(w, r)
	if !ok {
		return
	}
	report, ok := s.decodeSnapshot(w, record)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	for i := range report.Defects {
		if err := sse.WriteEvent("defect_started", map[string]any{
			"index": i,
			"title": report.Defects[i].Title,
			"area":  report.Defects[i].Area,
		}); err != nil {
			return
		}

		enriched, err := reporting.EnrichDefect(r.Context(), s.llm, report.Defects[i])
		if err != nil {
			sse.WriteError(err.Error())
			return
		}
		report.Defects[i] = enriched

		if err := sse.WriteEvent("defect_completed", map[string]any{
			"index":  i,
			"defect": enriched,
		}); err != nil {
			return
		}
	}

	sse.WriteEvent("report_enriched", map[string]any{"report": report}) //nolint:errcheck
}

// handleReportSummary generates the executive summary for a snapshot.
func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	if !s.requireLLM(w) {
		return
	}

	record, ok := s.loadScopedReport(w, r)
	if !ok {
		return
	}
	report, ok := s.decodeSnapshot(w, record)
	if !ok {
		return
	}

	summary, err := reporting.ExecSummary(r.Context(), s.llm, report)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// handleReportPlan generates the preventative maintenance plan for a
// snapshot.
func (s *Server) handleReportPlan(w http.ResponseWriter, r *http.Request) {
	if !s.requireLLM(w) {
		return
	}

	record, ok := s.loadScopedReport(w, r)
	if !ok {
		return
	}
	report, ok := s.decodeSnapshot(w, record)
	if !ok {
		return
	}

	plan, err := reporting.MaintenancePlan(r.Context(), s.llm, report)
	if err != nil {
		writeError(w, &InternalError{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"plan": plan})
}
