package reporting

import "fmt"

// EnrichmentError indicates one of the per-defect enrichment calls failed.
type EnrichmentError struct {
	Field  string
	Defect string
	Cause  error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment of %s failed for %q: %v", e.Field, e.Defect, e.Cause)
}

func (e *EnrichmentError) Unwrap() error {
	return e.Cause
}

// SummaryError indicates a report-level section could not be generated.
type SummaryError struct {
	Section string
	Cause   error
}

func (e *SummaryError) Error() string {
	return fmt.Sprintf("failed to generate %s: %v", e.Section, e.Cause)
}

func (e *SummaryError) Unwrap() error {
	return e.Cause
}
