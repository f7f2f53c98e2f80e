package reporting

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/sitevision/internal/costs"
	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/prompts"
	"github.com/jonathan/sitevision/internal/types"
)

// DefectRegister renders the report's defects as a compact text register
// for embedding in report-level prompts.
func DefectRegister(report *types.Report) string {
	if len(report.Defects) == 0 {
		return "No defects recorded."
	}
	var b strings.Builder
	for _, d := range report.Defects {
		fmt.Fprintf(&b, "- %s [%s] in %s", d.Title, d.Severity, d.Area)
		if d.Cost != "" {
			fmt.Fprintf(&b, " (Est: %s)", d.Cost)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ExecSummary generates the executive summary for the report. The prompt
// embeds the defect register and the aggregate rectification cost range.
func ExecSummary(ctx context.Context, client llm.Client, report *types.Report) (string, error) {
	total := costs.FormatRange(costs.TotalRepairs(report.Defects))

	prompt, err := prompts.Render("reporting.json", "executive-summary", map[string]string{
		"Address":    report.Address,
		"DefectList": DefectRegister(report),
		"TotalCost":  total,
	})
	if err != nil {
		return "", err
	}

	text, err := client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", &SummaryError{Section: "executive summary", Cause: err}
	}
	return strings.TrimSpace(text), nil
}

// MaintenancePlan generates a 5-year maintenance schedule grounded in the
// property's construction year and the current defect register.
func MaintenancePlan(ctx context.Context, client llm.Client, report *types.Report) (string, error) {
	yearBuilt := "unknown"
	if report.Property != nil && report.Property.YearBuilt > 0 {
		yearBuilt = strconv.Itoa(report.Property.YearBuilt)
	}

	prompt, err := prompts.Render("reporting.json", "maintenance-plan", map[string]string{
		"YearBuilt":  yearBuilt,
		"DefectList": DefectRegister(report),
	})
	if err != nil {
		return "", err
	}

	text, err := client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", &SummaryError{Section: "maintenance plan", Cause: err}
	}
	return strings.TrimSpace(text), nil
}
