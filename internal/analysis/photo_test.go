package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/types"
)

type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateVisionFunc  func(ctx context.Context, prompt string, imageData []byte, mimeType string, tier llm.ModelTier) (string, error)
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateVision(ctx context.Context, prompt string, imageData []byte, mimeType string, tier llm.ModelTier) (string, error) {
	if m.GenerateVisionFunc != nil {
		return m.GenerateVisionFunc(ctx, prompt, imageData, mimeType, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

func TestAnalyzePhoto_Success(t *testing.T) {
	var gotPrompt, gotMime string
	var gotImage []byte

	mock := &MockLLMClient{
		GenerateVisionFunc: func(ctx context.Context, prompt string, imageData []byte, mimeType string, tier llm.ModelTier) (string, error) {
			gotPrompt = prompt
			gotImage = imageData
			gotMime = mimeType
			return `Defect: Spalling Concrete
Observation: Exposed reinforcement to the garage lintel with Major section loss.
Recommendation: Engage structural engineer for repair`, nil
		},
	}

	defect, err := AnalyzePhoto(context.Background(), mock, []byte{0xFF, 0xD8}, "image/jpeg", "Garage/Carport")
	require.NoError(t, err)

	assert.Contains(t, gotPrompt, "AS 4349.1")
	assert.Equal(t, []byte{0xFF, 0xD8}, gotImage)
	assert.Equal(t, "image/jpeg", gotMime)

	assert.Equal(t, "Garage/Carport", defect.Area)
	assert.Equal(t, "Spalling Concrete", defect.Title)
	assert.Equal(t, types.SeverityMajor, defect.Severity)
	assert.Equal(t, "Exposed reinforcement to the garage lintel with Major section loss.", defect.Observation)
	assert.Equal(t, "Engage structural engineer for repair", defect.Recommendation)
	assert.Empty(t, defect.Cost)
}

func TestAnalyzePhoto_EmptyImage(t *testing.T) {
	mock := &MockLLMClient{}

	_, err := AnalyzePhoto(context.Background(), mock, nil, "image/png", "Interior")
	require.Error(t, err)

	var apiErr *APICallError
	assert.ErrorAs(t, err, &apiErr)
	assert.Contains(t, err.Error(), "image data is required")
}

func TestAnalyzePhoto_APIFailure(t *testing.T) {
	mock := &MockLLMClient{
		GenerateVisionFunc: func(ctx context.Context, prompt string, imageData []byte, mimeType string, tier llm.ModelTier) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}

	_, err := AnalyzePhoto(context.Background(), mock, []byte{0x01}, "image/png", "Roof Exterior")
	require.Error(t, err)

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestDraftDefect_Fallbacks(t *testing.T) {
	raw := "The brickwork shows no labelled findings at all."

	defect := DraftDefect(raw, "Exterior Walls")

	assert.Equal(t, "Unspecified Defect", defect.Title)
	assert.Equal(t, raw, defect.Observation)
	assert.Equal(t, "Engage a qualified inspector for further assessment.", defect.Recommendation)
	assert.Equal(t, types.SeverityMinor, defect.Severity)
	assert.Equal(t, "Exterior Walls", defect.Area)
}

func TestDraftDefect_SafetyLanguage(t *testing.T) {
	raw := `Defect: Exposed Wiring
Observation: Live conductors accessible in the sub-floor, an immediate safety risk.
Recommendation: Isolate circuit and engage licensed electrician.`

	defect := DraftDefect(raw, "Sub-floor Space")

	assert.Equal(t, "Exposed Wiring", defect.Title)
	assert.Equal(t, types.SeveritySafetyHazard, defect.Severity)
}
