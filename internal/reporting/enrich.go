// Package reporting generates the narrative sections of an inspection
// report: per-defect enrichment (scope of works, impact, trade, liability)
// and the report-level executive summary and maintenance plan.
package reporting

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/prompts"
	"github.com/jonathan/sitevision/internal/types"
)

// ProgressFunc is called after each defect finishes enriching, with the
// defect's index and its enriched value. Used for SSE and CLI streaming.
type ProgressFunc func(i int, d types.Defect)

// EnrichDefect generates the four advisory fields for one defect. The four
// model calls run concurrently; the first failure cancels the others.
// Fields that already carry text are left untouched, so re-running
// enrichment is safe and cheap.
func EnrichDefect(ctx context.Context, client llm.Client, defect types.Defect) (types.Defect, error) {
	g, gCtx := errgroup.WithContext(ctx)

	if defect.Scope == "" {
		g.Go(func() error {
			prompt := prompts.MustGet("reporting.json", "scope-of-works")
			prompt = prompts.Format(prompt, map[string]string{
				"Defect":         defect.Title,
				"Recommendation": defect.Recommendation,
			})
			text, err := client.GenerateContent(gCtx, prompt, llm.TierStandard)
			if err != nil {
				return &EnrichmentError{Field: "scope", Defect: defect.Title, Cause: err}
			}
			defect.Scope = strings.TrimSpace(text)
			return nil
		})
	}

	if defect.Impact == "" {
		g.Go(func() error {
			prompt := prompts.MustGet("reporting.json", "impact-statement")
			prompt = prompts.Format(prompt, map[string]string{"Defect": defect.Title})
			text, err := client.GenerateContent(gCtx, prompt, llm.TierStandard)
			if err != nil {
				return &EnrichmentError{Field: "impact", Defect: defect.Title, Cause: err}
			}
			defect.Impact = strings.TrimSpace(text)
			return nil
		})
	}

	if defect.Trade == "" {
		g.Go(func() error {
			prompt := prompts.MustGet("reporting.json", "suggest-trade")
			prompt = prompts.Format(prompt, map[string]string{"Defect": defect.Title})
			text, err := client.GenerateContent(gCtx, prompt, llm.TierLite)
			if err != nil {
				return &EnrichmentError{Field: "trade", Defect: defect.Title, Cause: err}
			}
			defect.Trade = strings.TrimSpace(text)
			return nil
		})
	}

	if defect.Liability == "" {
		g.Go(func() error {
			prompt := prompts.MustGet("reporting.json", "liability-statement")
			prompt = prompts.Format(prompt, map[string]string{
				"Defect":   defect.Title,
				"Severity": defect.Severity,
			})
			text, err := client.GenerateContent(gCtx, prompt, llm.TierStandard)
			if err != nil {
				return &EnrichmentError{Field: "liability", Defect: defect.Title, Cause: err}
			}
			defect.Liability = strings.TrimSpace(text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return defect, err
	}
	return defect, nil
}

// EnrichReport enriches every defect in the report in place. Defects are
// processed one at a time to stay inside provider rate limits; onProgress
// (optional) fires after each defect so callers can stream results.
func EnrichReport(ctx context.Context, client llm.Client, report *types.Report, onProgress ProgressFunc) error {
	for i := range report.Defects {
		enriched, err := EnrichDefect(ctx, client, report.Defects[i])
		if err != nil {
			return err
		}
		report.Defects[i] = enriched
		if onProgress != nil {
			onProgress(i, enriched)
		}
	}
	return nil
}
