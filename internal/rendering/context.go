// Package rendering turns a finished inspection report into deliverable
// documents: a LaTeX source compiled to PDF, or a minimal DOCX package.
package rendering

import (
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/sitevision/internal/costs"
	"github.com/jonathan/sitevision/internal/types"
)

// ReportContext carries a report plus the derived values both renderers
// need. Renderers read from it; the underlying report is never mutated.
type ReportContext struct {
	Report      *types.Report
	GeneratedAt time.Time
	TotalCost   string
	DefectCount int
	SafetyCount int
}

// NewReportContext derives totals and counts from the report.
func NewReportContext(report *types.Report) *ReportContext {
	return &ReportContext{
		Report:      report,
		GeneratedAt: time.Now(),
		TotalCost:   costs.FormatRange(costs.TotalRepairs(report.Defects)),
		DefectCount: len(report.Defects),
		SafetyCount: report.SafetyHazardCount(),
	}
}

// severityColor maps a severity label onto the template color names
// declared in the LaTeX preamble.
func severityColor(severity string) string {
	s := strings.ToLower(severity)
	switch {
	case strings.Contains(s, "safety"):
		return "sevSafety"
	case strings.Contains(s, "major"):
		return "sevMajor"
	default:
		return "sevMinor"
	}
}

// severityShade maps a severity label onto the DOCX cell fill used in the
// defect register.
func severityShade(severity string) string {
	s := strings.ToLower(severity)
	switch {
	case strings.Contains(s, "safety"):
		return "F5B7B1"
	case strings.Contains(s, "major"):
		return "FAD7A0"
	default:
		return "AED6F1"
	}
}

// propertyRows flattens the property overview into label/value pairs in
// display order, skipping empty entries.
func propertyRows(p *types.PropertyDetails) [][2]string {
	if p == nil {
		return nil
	}
	rows := make([][2]string, 0, 6)
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			rows = append(rows, [2]string{label, value})
		}
	}
	add("Year Built", intOrEmpty(p.YearBuilt))
	add("Property Type", p.PropertyType)
	add("Land Size", p.LandSize)
	add("Last Sale Price", p.LastSalePrice)
	add("Last Sale Year", intOrEmpty(p.LastSaleYear))
	add("Notes", p.Notes)
	return rows
}

func intOrEmpty(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// paragraphs splits generated prose into display paragraphs.
func paragraphs(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
