package analysis

import (
	"context"
	"strings"

	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/prompts"
	"github.com/jonathan/sitevision/internal/types"
)

// AnalyzePhoto runs the vision model over a defect photo and returns a
// draft defect for the given inspection area. Title, observation,
// recommendation and severity are pre-filled from the model response;
// cost is left empty for the estimator.
func AnalyzePhoto(ctx context.Context, client llm.Client, imageData []byte, mimeType string, area string) (*types.Defect, error) {
	if len(imageData) == 0 {
		return nil, &APICallError{Message: "image data is required"}
	}

	prompt, _ := prompts.Get("analysis.json", "analyze-photo")
	if prompt == "" {
		prompt = `Act as an Australian Building Inspector. Analyze this image for defects and compliance against AS 4349.1.
Format ONLY the output as follows, using Australian terminology:
Defect: [Name, e.g., Spalling Concrete]
Observation: [Technical description of the condition]
Recommendation: [Required action, e.g., Engage structural engineer for repair]`
	}

	raw, err := client.GenerateVision(ctx, prompt, imageData, mimeType, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to analyze photo",
			Cause:   err,
		}
	}

	return DraftDefect(raw, area), nil
}

// DraftDefect builds a draft defect from a raw analysis response.
// Missing labeled lines fall back to defaults so the caller always gets
// something editable.
func DraftDefect(raw string, area string) *types.Defect {
	finding := ParseFindings(raw)

	if finding.Defect == "" {
		finding.Defect = "Unspecified Defect"
	}
	if finding.Observation == "" {
		finding.Observation = strings.TrimSpace(raw)
	}
	if finding.Recommendation == "" {
		finding.Recommendation = "Engage a qualified inspector for further assessment."
	}

	return &types.Defect{
		Area:           area,
		Title:          finding.Defect,
		Severity:       InferSeverity(raw),
		Observation:    finding.Observation,
		Recommendation: finding.Recommendation,
	}
}
