// Package compliance maps inspection findings to the Australian building
// standards that govern them and produces compliance commentary.
package compliance

// baseStandards apply to every residential inspection area.
var baseStandards = []string{
	"NCC 2022 Volume Two",
	"AS 4349.1-2007 (Inspection of Buildings - Pre-Purchase Inspections)",
}

// areaStandards holds the additional references that apply to a specific
// inspection area. Keys match the types.Areas catalog.
var areaStandards = map[string][]string{
	"Exterior Walls": {
		"AS 2870-2011 (Residential Slabs and Footings)",
	},
	"Sub-floor Space": {
		"AS 3660.1-2014 (Termite Management - New Building Work)",
		"AS 2870-2011 (Residential Slabs and Footings)",
	},
	"Roof Exterior": {
		"AS 2050-2018 (Installation of Roof Tiles)",
	},
	"Roof Space": {
		"AS 1684.2-2021 (Residential Timber-Framed Construction)",
	},
	"Interior": {
		"AS 3786-2014 (Smoke Alarms)",
	},
	"Wet Areas": {
		"AS 3740-2021 (Waterproofing of Domestic Wet Areas)",
		"AS/NZS 3500.2-2021 (Sanitary Plumbing and Drainage)",
	},
}

// StandardsFor returns the references applicable to an inspection area,
// base standards first. Unknown areas get the base set only.
func StandardsFor(area string) []string {
	refs := make([]string, 0, len(baseStandards)+2)
	refs = append(refs, baseStandards...)
	refs = append(refs, areaStandards[area]...)
	return refs
}
