// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/sitevision/internal/costs"
	"github.com/jonathan/sitevision/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDefect outputs a human-readable summary of one defect.
func (p *Printer) PrintDefect(d *types.Defect) {
	if d == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Area:      %s\n", d.Area))
	sb.WriteString(fmt.Sprintf("Severity:  %s\n", d.Severity))

	if d.Observation != "" {
		sb.WriteString("\nObservation:\n")
		sb.WriteString(fmt.Sprintf("  %s\n", d.Observation))
	}
	if d.Recommendation != "" {
		sb.WriteString("\nRecommendation:\n")
		sb.WriteString(fmt.Sprintf("  %s\n", d.Recommendation))
	}
	if d.Cost != "" {
		sb.WriteString(fmt.Sprintf("\nEstimate:  %s\n", d.Cost))
	}
	if d.Trade != "" {
		sb.WriteString(fmt.Sprintf("Trade:     %s\n", d.Trade))
	}

	p.printBox(d.Title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReportSummary outputs the defect register totals for a report.
func (p *Printer) PrintReportSummary(r *types.Report) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Address:    %s\n", r.Address))
	if r.Inspector != "" {
		sb.WriteString(fmt.Sprintf("Inspector:  %s\n", r.Inspector))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Defects recorded:  %d\n", len(r.Defects)))
	sb.WriteString(fmt.Sprintf("Safety hazards:    %d\n", r.SafetyHazardCount()))

	byArea := r.DefectsByArea()
	for _, area := range r.AreaOrder() {
		sb.WriteString(fmt.Sprintf("  %-20s %d\n", area, len(byArea[area])))
	}

	bounds := costs.TotalRepairs(r.Defects)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Estimated repairs: %s", costs.FormatRange(bounds)))

	p.printBox("REPORT SUMMARY", sb.String())
}

// PrintPropertyDetails outputs the property history research result.
func (p *Printer) PrintPropertyDetails(details *types.PropertyDetails) {
	if details == nil {
		return
	}

	var sb strings.Builder
	if details.YearBuilt > 0 {
		sb.WriteString(fmt.Sprintf("Year built:     %d\n", details.YearBuilt))
	}
	if details.PropertyType != "" {
		sb.WriteString(fmt.Sprintf("Property type:  %s\n", details.PropertyType))
	}
	if details.LandSize != "" {
		sb.WriteString(fmt.Sprintf("Land size:      %s\n", details.LandSize))
	}
	if details.LastSalePrice != "" {
		sb.WriteString(fmt.Sprintf("Last sale:      %s", details.LastSalePrice))
		if details.LastSaleYear > 0 {
			sb.WriteString(fmt.Sprintf(" (%d)", details.LastSaleYear))
		}
		sb.WriteString("\n")
	}
	if details.Notes != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", details.Notes))
	}

	if len(details.Sources) > 0 {
		sb.WriteString("\nSources:\n")
		count := min(len(details.Sources), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", details.Sources[i]))
		}
		if len(details.Sources) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(details.Sources)-maxItemsToShow))
		}
	}

	if sb.Len() == 0 {
		sb.WriteString("No public records found.")
	}

	p.printBox("PROPERTY HISTORY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompliance outputs a compliance note with the standards consulted.
func (p *Printer) PrintCompliance(note string, standards []string) {
	var sb strings.Builder
	if len(standards) > 0 {
		sb.WriteString(fmt.Sprintf("Standards: %s\n\n", strings.Join(standards, ", ")))
	}
	sb.WriteString(note)

	p.printBox("COMPLIANCE CHECK", sb.String())
}

// EnrichStart prints the progress line for a defect about to be enriched.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) EnrichStart(i, total int, title string) {
	if len(title) > 45 {
		title = title[:42] + "..."
	}
	fmt.Fprintf(p.out, "→ [%d/%d] Enriching: %s\n", i+1, total, title)
}

// EnrichDone prints the completion line for an enriched defect, with a
// marker per generated field.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) EnrichDone(d types.Defect) {
	var checks []string
	if d.Scope != "" {
		checks = append(checks, "✓scope")
	}
	if d.Impact != "" {
		checks = append(checks, "✓impact")
	}
	if d.Trade != "" {
		checks = append(checks, "✓trade")
	}
	if d.Liability != "" {
		checks = append(checks, "✓liability")
	}
	fmt.Fprintf(p.out, "  [%s]\n", strings.Join(checks, " "))
}
