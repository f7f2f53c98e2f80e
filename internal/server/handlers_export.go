package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jonathan/sitevision/internal/logging"
	"github.com/jonathan/sitevision/internal/rendering"
)

// exportRequest is the payload for POST /api/reports/{id}/export.
type exportRequest struct {
	Format string `json:"format"`
}

// handleExportReport renders a snapshot to PDF or DOCX and returns the
// file bytes. PDF requires pdflatex on the host.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadScopedReport(w, r)
	if !ok {
		return
	}
	report, ok := s.decodeSnapshot(w, record)
	if !ok {
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &ValidationError{Field: "body", Message: "invalid request body"})
		return
	}

	rc := rendering.NewReportContext(report)
	filename := fmt.Sprintf("report-%s.%s", record.ID, req.Format)

	switch req.Format {
	case "docx":
		var buf bytes.Buffer
		if err := rendering.WriteDOCX(rc, &buf); err != nil {
			writeError(w, &InternalError{Cause: err})
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			logging.Sugar.Warnw("failed to write DOCX response", "error", err)
		}

	case "pdf":
		pdfBytes, err := s.compileSnapshotPDF(r, rc)
		if err != nil {
			var notFound *rendering.CompilerNotFoundError
			if errors.As(err, &notFound) {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": notFound.Error()})
				return
			}
			writeError(w, &InternalError{Cause: err})
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdfBytes); err != nil {
			logging.Sugar.Warnw("failed to write PDF response", "error", err)
		}

	default:
		writeError(w, &ValidationError{Field: "format", Message: "must be pdf or docx"})
	}
}

// compileSnapshotPDF renders the LaTeX source into a scratch directory
// and compiles it, returning the PDF bytes.
func (s *Server) compileSnapshotPDF(r *http.Request, rc *rendering.ReportContext) ([]byte, error) {
	workDir, err := os.MkdirTemp("", "sitevision-export-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	texPath := filepath.Join(workDir, "report.tex")
	if err := rendering.RenderLaTeXToFile(rc, texPath); err != nil {
		return nil, err
	}

	pdfPath, logOutput, err := rendering.CompilePDF(r.Context(), texPath)
	if err != nil {
		logging.Sugar.Debugw("pdflatex failed", "log", logOutput)
		return nil, err
	}

	return os.ReadFile(pdfPath)
}
