package server

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportReportDOCX(t *testing.T) {
	s, _ := newTestServer(t)
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")
	id := saveTestReport(t, s, user.Token, sampleReport())

	w := doRequest(s, http.MethodPost, "/api/reports/"+id+"/export", user.Token, exportRequest{Format: "docx"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		w.Header().Get("Content-Type"))
	assert.Equal(t,
		`attachment; filename="report-`+id+`.docx"`,
		w.Header().Get("Content-Disposition"))

	// The body is a well-formed OOXML package carrying the report
	data := w.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var doc string
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			r, err := f.Open()
			require.NoError(t, err)
			content, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			doc = string(content)
		}
	}
	require.NotEmpty(t, doc, "word/document.xml missing from package")
	assert.Contains(t, doc, "Pre-Purchase Inspection")
	assert.Contains(t, doc, "12 Wattle Street, Brunswick VIC 3056")
	assert.Contains(t, doc, "Cracked render to north elevation")
}

func TestExportReportPDF(t *testing.T) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		t.Skip("pdflatex not installed")
	}

	s, _ := newTestServer(t)
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")
	id := saveTestReport(t, s, user.Token, sampleReport())

	w := doRequest(s, http.MethodPost, "/api/reports/"+id+"/export", user.Token, exportRequest{Format: "pdf"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"), "body is not a PDF")
}

func TestExportReportInvalidFormat(t *testing.T) {
	s, _ := newTestServer(t)
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")
	id := saveTestReport(t, s, user.Token, sampleReport())

	w := doRequest(s, http.MethodPost, "/api/reports/"+id+"/export", user.Token, exportRequest{Format: "odt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportReportNotOwned(t *testing.T) {
	s, _ := newTestServer(t)
	alice := registerTestUser(t, s, "Alice", "alice@example.com", "password123")
	bob := registerTestUser(t, s, "Bob", "bob@example.com", "password123")
	id := saveTestReport(t, s, alice.Token, sampleReport())

	w := doRequest(s, http.MethodPost, "/api/reports/"+id+"/export", bob.Token, exportRequest{Format: "docx"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
