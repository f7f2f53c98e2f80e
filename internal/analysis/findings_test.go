package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/sitevision/internal/types"
)

func TestParseFindings_ThreeLines(t *testing.T) {
	raw := `Defect: Spalling Concrete
Observation: Concrete cancer visible on the front slab edge with exposed reinforcement.
Recommendation: Engage structural engineer for repair`

	finding := ParseFindings(raw)

	assert.Equal(t, "Spalling Concrete", finding.Defect)
	assert.Equal(t, "Concrete cancer visible on the front slab edge with exposed reinforcement.", finding.Observation)
	assert.Equal(t, "Engage structural engineer for repair", finding.Recommendation)
}

func TestParseFindings_BoldMarkdown(t *testing.T) {
	raw := `**Defect:** Cracked Roof Tiles
**Observation:** Several fractured terracotta tiles along the ridge capping.
**Recommendation:** Roof plumber to replace broken tiles.`

	finding := ParseFindings(raw)

	assert.Equal(t, "Cracked Roof Tiles", finding.Defect)
	assert.Equal(t, "Several fractured terracotta tiles along the ridge capping.", finding.Observation)
	assert.Equal(t, "Roof plumber to replace broken tiles.", finding.Recommendation)
}

func TestParseFindings_CaseAndMarkers(t *testing.T) {
	raw := `- DEFECT: Rising Damp
* observation:   Salt staining to lower masonry courses.
RECOMMENDATION: Install damp course.`

	finding := ParseFindings(raw)

	assert.Equal(t, "Rising Damp", finding.Defect)
	assert.Equal(t, "Salt staining to lower masonry courses.", finding.Observation)
	assert.Equal(t, "Install damp course.", finding.Recommendation)
}

func TestParseFindings_FirstOccurrenceWins(t *testing.T) {
	raw := `Defect: First Finding
Observation: The one that matters.
Defect: Second Finding
Observation: Ignored.`

	finding := ParseFindings(raw)

	assert.Equal(t, "First Finding", finding.Defect)
	assert.Equal(t, "The one that matters.", finding.Observation)
}

func TestParseFindings_MissingLines(t *testing.T) {
	finding := ParseFindings("The image shows a well maintained wall with no visible issues.")

	assert.Empty(t, finding.Defect)
	assert.Empty(t, finding.Observation)
	assert.Empty(t, finding.Recommendation)
}

func TestParseFindings_PreambleIgnored(t *testing.T) {
	raw := `Here is my analysis of the photo:

Defect: Blocked Gutter
Observation: Leaf litter build-up along the full gutter run.
Recommendation: Clear gutters and install gutter guard.`

	finding := ParseFindings(raw)
	assert.Equal(t, "Blocked Gutter", finding.Defect)
}

func TestInferSeverity(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"safety language", "This presents a Safety hazard to occupants", types.SeveritySafetyHazard},
		{"major language", "A Major structural defect is present", types.SeverityMajor},
		{"neither", "Cosmetic hairline crack to render", types.SeverityMinor},
		{"safety wins over major", "Major defect and a safety risk", types.SeveritySafetyHazard},
		{"case insensitive", "IMMEDIATE SAFETY CONCERN", types.SeveritySafetyHazard},
		{"empty", "", types.SeverityMinor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferSeverity(tt.text))
		})
	}
}
