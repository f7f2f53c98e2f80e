// Package estimation produces indicative repair cost ranges for defects.
//
// Estimates are advisory AUD ranges ("$500 - $1,000") suitable for the
// financial summary; they are never treated as quotes. The model output is
// returned verbatim (trimmed) and the costs package tolerates any shape
// when aggregating.
package estimation

import (
	"context"
	"strings"

	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/prompts"
	"github.com/jonathan/sitevision/internal/types"
)

// EstimateCost asks the model for a repair cost range for a single defect.
// The returned string is not validated: downstream aggregation treats
// unparseable values as zero rather than failing the report.
func EstimateCost(ctx context.Context, client llm.Client, defect types.Defect) (string, error) {
	prompt, err := prompts.Render("estimation.json", "estimate-cost", map[string]string{
		"Defect":      defect.Title,
		"Severity":    defect.Severity,
		"Area":        defect.Area,
		"Observation": defect.Observation,
	})
	if err != nil {
		return "", err
	}

	estimate, err := client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &EstimationError{Defect: defect.Title, Cause: err}
	}

	return strings.TrimSpace(estimate), nil
}

// EstimateMissing fills Cost for every defect that does not already carry
// one. Failed estimates fall back to "N/A" so a single model hiccup never
// blocks report generation; the first error is reported to the caller.
func EstimateMissing(ctx context.Context, client llm.Client, defects []types.Defect) ([]types.Defect, error) {
	var firstErr error
	out := make([]types.Defect, len(defects))
	for i, d := range defects {
		if strings.TrimSpace(d.Cost) != "" {
			out[i] = d
			continue
		}
		estimate, err := EstimateCost(ctx, client, d)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			d.Cost = "N/A"
			out[i] = d
			continue
		}
		d.Cost = estimate
		out[i] = d
	}
	return out, firstErr
}
