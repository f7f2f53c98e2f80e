// Package analysis turns defect photos into structured findings using
// the vision model.
package analysis

import (
	"strings"

	"github.com/jonathan/sitevision/internal/types"
)

// Finding holds the three labeled fields from a photo analysis response.
type Finding struct {
	Defect         string
	Observation    string
	Recommendation string
}

// ParseFindings extracts the labeled lines from a model response.
// Matching is case-insensitive and tolerates markdown bolding, list
// markers and extra whitespace. The first occurrence of each label wins.
// Pure and total: unparseable input yields zero-valued fields.
func ParseFindings(text string) Finding {
	var finding Finding

	for _, line := range strings.Split(text, "\n") {
		label, value := splitLabeledLine(line)
		switch label {
		case "defect":
			if finding.Defect == "" {
				finding.Defect = value
			}
		case "observation":
			if finding.Observation == "" {
				finding.Observation = value
			}
		case "recommendation":
			if finding.Recommendation == "" {
				finding.Recommendation = value
			}
		}
	}

	return finding
}

// splitLabeledLine returns the lowercased label and cleaned value of a
// "Label: value" line, or empty strings when the line has no label.
func splitLabeledLine(line string) (string, string) {
	trimmed := strings.TrimLeft(strings.TrimSpace(line), "-* \t")

	idx := strings.Index(trimmed, ":")
	if idx < 0 {
		return "", ""
	}

	label := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(trimmed[:idx], "*", "")))
	value := strings.TrimSpace(strings.ReplaceAll(trimmed[idx+1:], "**", ""))

	return label, value
}

// InferSeverity maps a model response onto the severity catalog.
// Safety language wins over structural language.
func InferSeverity(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "safety"):
		return types.SeveritySafetyHazard
	case strings.Contains(lower, "major"):
		return types.SeverityMajor
	default:
		return types.SeverityMinor
	}
}
