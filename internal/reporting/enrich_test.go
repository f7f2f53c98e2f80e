package reporting

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
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

// routeEnrichment answers each enrichment prompt with a recognizable value
// keyed off the prompt wording.
func routeEnrichment(prompt string) string {
	switch {
	case strings.Contains(prompt, "Scope of Works"):
		return "Remove and replace damaged sections."
	case strings.Contains(prompt, "consequences"):
		return "Water ingress will accelerate."
	case strings.Contains(prompt, "licensed trade"):
		return "Roof Plumber"
	case strings.Contains(prompt, "legal risk assessor"):
		return "Owner carries a duty of care."
	default:
		return "unexpected prompt"
	}
}

func TestEnrichDefect_AllFields(t *testing.T) {
	var calls atomic.Int32
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
			calls.Add(1)
			return routeEnrichment(prompt) + "\n", nil
		},
	}

	defect := types.Defect{
		Area:           "Roof Exterior",
		Title:          "Cracked Roof Tiles",
		Severity:       types.SeverityMinor,
		Recommendation: "Replace broken tiles.",
	}

	enriched, err := EnrichDefect(context.Background(), mock, defect)
	require.NoError(t, err)

	assert.Equal(t, "Remove and replace damaged sections.", enriched.Scope)
	assert.Equal(t, "Water ingress will accelerate.", enriched.Impact)
	assert.Equal(t, "Roof Plumber", enriched.Trade)
	assert.Equal(t, "Owner carries a duty of care.", enriched.Liability)
	assert.Equal(t, int32(4), calls.Load())

	// Originals untouched.
	assert.Equal(t, "Cracked Roof Tiles", enriched.Title)
	assert.Equal(t, "Replace broken tiles.", enriched.Recommendation)
}

func TestEnrichDefect_SkipsPopulatedFields(t *testing.T) {
	var calls atomic.Int32
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
			calls.Add(1)
			return routeEnrichment(prompt), nil
		},
	}

	defect := types.Defect{
		Area:      "Roof Exterior",
		Title:     "Cracked Roof Tiles",
		Trade:     "Existing Trade",
		Liability: "Existing liability text.",
	}

	enriched, err := EnrichDefect(context.Background(), mock, defect)
	require.NoError(t, err)

	assert.Equal(t, "Existing Trade", enriched.Trade)
	assert.Equal(t, "Existing liability text.", enriched.Liability)
	assert.NotEmpty(t, enriched.Scope)
	assert.NotEmpty(t, enriched.Impact)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEnrichDefect_FirstErrorWins(t *testing.T) {
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
			if strings.Contains(prompt, "licensed trade") {
				return "", errors.New("quota exceeded")
			}
			return routeEnrichment(prompt), nil
		},
	}

	_, err := EnrichDefect(context.Background(), mock, types.Defect{Title: "Rising Damp"})
	require.Error(t, err)

	var enrichErr *EnrichmentError
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, "trade", enrichErr.Field)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestEnrichReport_ProgressCallback(t *testing.T) {
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
			return routeEnrichment(prompt), nil
		},
	}

	report := &types.Report{
		Title:   "Test Report",
		Address: "12 Wattle St, Sydney NSW",
		Defects: []types.Defect{
			{Area: "Roof Exterior", Title: "Cracked Roof Tiles"},
			{Area: "Interior", Title: "Rising Damp"},
		},
	}

	var seen []int
	err := EnrichReport(context.Background(), mock, report, func(i int, d types.Defect) {
		seen = append(seen, i)
		assert.NotEmpty(t, d.Scope)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, seen)
	assert.Equal(t, "Roof Plumber", report.Defects[0].Trade)
	assert.Equal(t, "Roof Plumber", report.Defects[1].Trade)
}

func TestEnrichReport_NilCallback(t *testing.T) {
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
			return routeEnrichment(prompt), nil
		},
	}

	report := &types.Report{
		Title:   "Test Report",
		Address: "12 Wattle St, Sydney NSW",
		Defects: []types.Defect{{Area: "Interior", Title: "Rising Damp"}},
	}

	require.NoError(t, EnrichReport(context.Background(), mock, report, nil))
	assert.NotEmpty(t, report.Defects[0].Impact)
}

func TestEnrichReport_StopsOnError(t *testing.T) {
	var calls atomic.Int32
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
			calls.Add(1)
			return "", errors.New("backend down")
		},
	}

	report := &types.Report{
		Defects: []types.Defect{
			{Title: "First"},
			{Title: "Second"},
		},
	}

	var progressed int
	err := EnrichReport(context.Background(), mock, report, func(i int, d types.Defect) {
		progressed++
	})
	require.Error(t, err)
	assert.Zero(t, progressed)
}
