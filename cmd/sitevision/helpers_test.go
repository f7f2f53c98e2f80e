package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sitevision/internal/types"
)

func TestLoadConfigFile_EmptyPath(t *testing.T) {
	cfg, err := loadConfigFile("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, "", cfg.Report)
}

func TestLoadConfigFile_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")
	content := `{"api_key": "test-key", "inspector": "R. Castellan", "addr": ":9090"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "R. Castellan", cfg.Inspector)
	assert.Equal(t, ":9090", cfg.Addr)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := loadConfigFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfigFile_RejectsConflictingStores(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")
	content := `{"database_url": "postgres://localhost/x", "sqlite_path": "x.db"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := loadConfigFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestResolveAPIKey_Precedence(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	key, err := resolveAPIKey("flag-key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "flag-key", key)

	key, err = resolveAPIKey("", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "config-key", key)

	key, err = resolveAPIKey("", "")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)
}

func TestResolveAPIKey_Missing(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := resolveAPIKey("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestReadReportFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "report.json")
	content := `{
		"title": "Pre-Purchase Inspection",
		"address": "12 Wattle Street, Brunswick VIC 3056",
		"defects": [
			{"area": "Roof Exterior", "title": "Cracked tiles", "cost": "$500 - $1,000"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	report, err := readReportFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Pre-Purchase Inspection", report.Title)
	require.Len(t, report.Defects, 1)
	assert.Equal(t, "Cracked tiles", report.Defects[0].Title)
}

func TestReadReportFile_BadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "report.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := readReportFile(path)
	assert.Error(t, err)
}

func TestReadDefectFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "defect.json")
	content := `{"area": "Bathroom 1", "title": "Rising damp to wall base"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	defect, err := readDefectFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Rising damp to wall base", defect.Title)
	assert.Equal(t, "Bathroom 1", defect.Area)
}

func TestReadDefectFile_NoTitle(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "defect.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"area": "Bathroom 1"}`), 0644))

	_, err := readDefectFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no title")
}

func TestWriteJSONFile_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.json")

	defect := &types.Defect{Area: "Subfloor", Title: "Inadequate ventilation"}
	require.NoError(t, writeJSONFile(path, defect))

	loaded, err := readDefectFile(path)
	require.NoError(t, err)
	assert.Equal(t, defect.Title, loaded.Title)
}

func TestImageMIMEType(t *testing.T) {
	assert.Equal(t, "image/jpeg", imageMIMEType("site/photo.jpg"))
	assert.Equal(t, "image/jpeg", imageMIMEType("site/photo.JPEG"))
	assert.Equal(t, "image/png", imageMIMEType("site/photo.PNG"))
	assert.Equal(t, "image/webp", imageMIMEType("photo.webp"))
	assert.Equal(t, "image/heic", imageMIMEType("photo.heic"))
	assert.Equal(t, "image/jpeg", imageMIMEType("photo"))
}
