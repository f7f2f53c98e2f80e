package estimation

import "fmt"

// EstimationError indicates the cost model call failed for a defect.
type EstimationError struct {
	Defect string
	Cause  error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("cost estimation failed for %q: %v", e.Defect, e.Cause)
}

func (e *EstimationError) Unwrap() error {
	return e.Cause
}
