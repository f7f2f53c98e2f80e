// Package types provides type definitions for structured data used throughout the sitevision system.
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Severity levels for a logged defect, in ascending order of urgency.
const (
	SeverityMinor         = "Minor Defect (Maintenance)"
	SeverityMajor         = "Major Defect (Structural/Significant)"
	SeveritySafetyHazard  = "Safety Hazard (Immediate Action)"
	SeverityInvestigation = "Further Investigation Required"
)

// Severities lists the severity catalog in display order.
var Severities = []string{
	SeverityMinor,
	SeverityMajor,
	SeveritySafetyHazard,
	SeverityInvestigation,
}

// Areas lists the inspection areas in walk-through order.
var Areas = []string{
	"Site & Fencing",
	"Exterior Walls",
	"Sub-floor Space",
	"Roof Exterior",
	"Roof Space",
	"Interior",
	"Garage/Carport",
	"Wet Areas",
	"Outbuildings",
}

// Defect represents one building defect found during an inspection.
// Cost is a free-form estimate string ("$500 - $1,200", "N/A", or empty);
// the costs package owns its interpretation.
type Defect struct {
	Area           string `json:"area" validate:"required"`
	Title          string `json:"title" validate:"required"`
	Severity       string `json:"severity,omitempty"`
	Observation    string `json:"observation,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
	Cost           string `json:"cost,omitempty"`
	Trade          string `json:"trade,omitempty"`
	Scope          string `json:"scope,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Liability      string `json:"liability,omitempty"`
	Compliance     string `json:"compliance,omitempty"`
	ImagePath      string `json:"image_path,omitempty"`
	ImageData      string `json:"image_data,omitempty"`
	ImageMIME      string `json:"image_mime,omitempty"`
}

// Validate checks required fields and that severity/area values come from the catalogs.
func (d *Defect) Validate() error {
	validate := validator.New()
	if err := validate.Struct(d); err != nil {
		return err
	}
	if d.Severity != "" && !ValidSeverity(d.Severity) {
		return fmt.Errorf("unknown severity %q", d.Severity)
	}
	if !ValidArea(d.Area) {
		return fmt.Errorf("unknown inspection area %q", d.Area)
	}
	return nil
}

// IsSafetyHazard reports whether the defect requires immediate action.
func (d *Defect) IsSafetyHazard() bool {
	return d.Severity == SeveritySafetyHazard
}

// IsEnriched reports whether all four AI-generated fields are populated.
func (d *Defect) IsEnriched() bool {
	return d.Scope != "" && d.Impact != "" && d.Trade != "" && d.Liability != ""
}

// ValidSeverity reports whether s is one of the catalog severity levels.
func ValidSeverity(s string) bool {
	for _, level := range Severities {
		if s == level {
			return true
		}
	}
	return false
}

// ValidArea reports whether s is one of the catalog inspection areas.
func ValidArea(s string) bool {
	for _, area := range Areas {
		if s == area {
			return true
		}
	}
	return false
}

// NormalizeSeverity maps loosely-worded severity text onto the catalog.
// Exact catalog values pass through; otherwise a mention of "safety" wins
// over "major", and anything else is treated as a minor defect.
func NormalizeSeverity(s string) string {
	trimmed := strings.TrimSpace(s)
	if ValidSeverity(trimmed) {
		return trimmed
	}
	lower := strings.ToLower(trimmed)
	switch {
	case strings.Contains(lower, "safety"):
		return SeveritySafetyHazard
	case strings.Contains(lower, "major"):
		return SeverityMajor
	default:
		return SeverityMinor
	}
}
