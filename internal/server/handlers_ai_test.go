package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/types"
)

func TestAnalyzePhotoEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	s.llm = &mockLLMClient{
		GenerateVisionFunc: func(_ context.Context, _ string, imageData []byte, mimeType string, _ llm.ModelTier) (string, error) {
			assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, imageData)
			assert.Equal(t, "image/jpeg", mimeType)
			return "Defect: Spalling Concrete\n" +
				"Observation: Exposed reinforcement to the garage lintel.\n" +
				"Recommendation: Engage structural engineer for repair", nil
		},
	}
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")

	w := doRequest(s, http.MethodPost, "/api/analysis/photo", user.Token, map[string]string{
		"image": base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF}),
		"area":  "Garage/Carport",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Defect types.Defect `json:"defect"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Spalling Concrete", resp.Defect.Title)
	assert.Equal(t, "Garage/Carport", resp.Defect.Area)
	assert.Contains(t, resp.Defect.Observation, "Exposed reinforcement")
}

func TestAnalyzePhotoValidation(t *testing.T) {
	s, _ := newTestServer(t)
	s.llm = &mockLLMClient{}
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")

	// Missing image
	w := doRequest(s, http.MethodPost, "/api/analysis/photo", user.Token, map[string]string{
		"area": "Interior",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Not base64
	w = doRequest(s, http.MethodPost, "/api/analysis/photo", user.Token, map[string]string{
		"image": "!!! definitely not base64 !!!",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzePhotoWithoutLLM(t *testing.T) {
	s, _ := newTestServer(t)
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")

	w := doRequest(s, http.MethodPost, "/api/analysis/photo", user.Token, map[string]string{
		"image": base64.StdEncoding.EncodeToString([]byte{0x01}),
	})

	// No model client configured; the cause stays out of the response
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp["error"])
}

func TestEstimateCostEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	s.llm = &mockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			assert.Contains(t, prompt, "Rising damp")
			return "$1,500 - $4,000\n", nil
		},
	}
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")

	w := doRequest(s, http.MethodPost, "/api/estimation/cost", user.Token, defectRequest{
		Defect: types.Defect{
			Area:     "Interior",
			Title:    "Rising damp",
			Severity: types.SeverityMajor,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "$1,500 - $4,000", resp["cost"])
}

func TestEstimateCostRequiresTitle(t *testing.T) {
	s, _ := newTestServer(t)
	s.llm = &mockLLMClient{}
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")

	w := doRequest(s, http.MethodPost, "/api/estimation/cost", user.Token, defectRequest{
		Defect: types.Defect{Area: "Interior"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrichDefectEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	s.llm = &mockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "Generated advisory text.", nil
		},
	}
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")

	w := doRequest(s, http.MethodPost, "/api/enrichment/defect", user.Token, defectRequest{
		Defect: types.Defect{
			Area:  "Wet Areas",
			Title: "Failed shower waterproofing",
			Trade: "Waterproofer", // pre-filled fields are preserved
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Defect types.Defect `json:"defect"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Generated advisory text.", resp.Defect.Scope)
	assert.Equal(t, "Generated advisory text.", resp.Defect.Impact)
	assert.Equal(t, "Generated advisory text.", resp.Defect.Liability)
	assert.Equal(t, "Waterproofer", resp.Defect.Trade)
	assert.True(t, resp.Defect.IsEnriched())
}

func TestComplianceCheckEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	s.llm = &mockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			assert.Contains(t, prompt, "Failed shower waterproofing")
			return "Non-compliant with AS 3740 waterproofing requirements.", nil
		},
	}
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")

	w := doRequest(s, http.MethodPost, "/api/compliance/check", user.Token, defectRequest{
		Defect: types.Defect{
			Area:  "Wet Areas",
			Title: "Failed shower waterproofing",
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Compliance string   `json:"compliance"`
		Standards  []string `json:"standards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Compliance, "AS 3740")
	assert.NotEmpty(t, resp.Standards)
}

func TestHistoryEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	user := registerTestUser(t, s, "Jane", "jane@example.com", "password123")

	// Address is required
	w := doRequest(s, http.MethodGet, "/api/history", user.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No lookup client configured
	w = doRequest(s, http.MethodGet, "/api/history?address=12+Wattle+Street", user.Token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
