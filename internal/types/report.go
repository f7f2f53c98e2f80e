package types

import (
	"github.com/go-playground/validator/v10"
)

// PropertyDetails holds background information about the inspected
// property, typically gathered from public listing history.
type PropertyDetails struct {
	Address       string   `json:"address,omitempty"`
	YearBuilt     int      `json:"year_built,omitempty"`
	PropertyType  string   `json:"property_type,omitempty"`
	LandSize      string   `json:"land_size,omitempty"`
	LastSalePrice string   `json:"last_sale_price,omitempty"`
	LastSaleYear  int      `json:"last_sale_year,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Sources       []string `json:"sources,omitempty"`
}

// Report is the full content of one inspection report draft. Persistence
// metadata (id, owner, saved_at) lives on the stored record, not here.
type Report struct {
	Title           string           `json:"title" validate:"required"`
	Address         string           `json:"address" validate:"required"`
	Inspector       string           `json:"inspector,omitempty"`
	ClientName      string           `json:"client_name,omitempty"`
	InspectionDate  string           `json:"inspection_date,omitempty"`
	Property        *PropertyDetails `json:"property_details,omitempty"`
	Defects         []Defect         `json:"defects"`
	ExecSummary     string           `json:"exec_summary,omitempty"`
	MaintenancePlan string           `json:"maintenance_plan,omitempty"`
}

// Validate validates the Report and each of its defects.
func (r *Report) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	for i := range r.Defects {
		if err := r.Defects[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SafetyHazardCount returns the number of defects marked as immediate-action safety hazards.
func (r *Report) SafetyHazardCount() int {
	count := 0
	for i := range r.Defects {
		if r.Defects[i].IsSafetyHazard() {
			count++
		}
	}
	return count
}

// DefectsByArea groups the report's defects by inspection area,
// preserving entry order within each area.
func (r *Report) DefectsByArea() map[string][]Defect {
	grouped := make(map[string][]Defect)
	for _, d := range r.Defects {
		grouped[d.Area] = append(grouped[d.Area], d)
	}
	return grouped
}

// AreaOrder returns the areas present in the report, catalog order
// first, then any non-catalog areas in first-seen order.
func (r *Report) AreaOrder() []string {
	present := make(map[string]bool)
	for _, d := range r.Defects {
		present[d.Area] = true
	}

	var order []string
	for _, area := range Areas {
		if present[area] {
			order = append(order, area)
			delete(present, area)
		}
	}
	for _, d := range r.Defects {
		if present[d.Area] {
			order = append(order, d.Area)
			delete(present, d.Area)
		}
	}
	return order
}
