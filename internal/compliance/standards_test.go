package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/sitevision/internal/types"
)

func TestStandardsFor_BaseEverywhere(t *testing.T) {
	for _, area := range types.Areas {
		refs := StandardsFor(area)
		assert.Contains(t, refs, "NCC 2022 Volume Two", "area %s", area)
		assert.Contains(t, refs, "AS 4349.1-2007 (Inspection of Buildings - Pre-Purchase Inspections)", "area %s", area)
	}
}

func TestStandardsFor_AreaSpecific(t *testing.T) {
	subFloor := StandardsFor("Sub-floor Space")
	assert.Contains(t, subFloor, "AS 3660.1-2014 (Termite Management - New Building Work)")

	wetAreas := StandardsFor("Wet Areas")
	assert.Contains(t, wetAreas, "AS 3740-2021 (Waterproofing of Domestic Wet Areas)")
	assert.Contains(t, wetAreas, "AS/NZS 3500.2-2021 (Sanitary Plumbing and Drainage)")

	roof := StandardsFor("Roof Exterior")
	assert.Contains(t, roof, "AS 2050-2018 (Installation of Roof Tiles)")
}

func TestStandardsFor_BaseFirst(t *testing.T) {
	refs := StandardsFor("Wet Areas")
	assert.Equal(t, "NCC 2022 Volume Two", refs[0])
}

func TestStandardsFor_UnknownArea(t *testing.T) {
	refs := StandardsFor("Helipad")
	assert.Len(t, refs, len(StandardsFor("Outbuildings")))
	assert.Contains(t, refs, "NCC 2022 Volume Two")
}
