// Package costs implements repair-cost parsing and aggregation for
// inspection reports. Cost estimates arrive as free-form strings written
// by inspectors or suggested by the model ("$500 - $1,200", "$750",
// "N/A"); this package turns them into numeric bounds and portfolio
// totals without ever failing on malformed input.
package costs

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jonathan/sitevision/internal/types"
)

// NoEstimate is the sentinel used throughout the system for "no cost
// estimate available".
const NoEstimate = "N/A"

// Bounds is a low/high repair-cost range in whole dollars.
// Invariant: Low <= High for any value produced by this package.
type Bounds struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Add returns the element-wise sum of two bounds.
func (b Bounds) Add(other Bounds) Bounds {
	return Bounds{Low: b.Low + other.Low, High: b.High + other.High}
}

// IsZero reports whether both bounds are zero, the result for absent or
// unparseable estimates.
func (b Bounds) IsZero() bool {
	return b.Low == 0 && b.High == 0
}

// String renders the bounds as a display range, e.g. "$1,500 - $12,000".
func (b Bounds) String() string {
	return FormatRange(b)
}

// ParseCost extracts the numeric cost range from a free-form estimate
// string. The empty string and the NoEstimate sentinel yield (0, 0).
// Commas are stripped, then every maximal run of decimal digits becomes
// a token: no tokens yield (0, 0), one token n yields (n, n), and two or
// more yield (min, max) over all tokens regardless of their order in the
// string. Any number in the input counts as a token, so "Approx 2 x $300
// panels" parses as (2, 300); callers wanting tighter behavior must
// pre-clean their strings.
func ParseCost(s string) Bounds {
	if s == "" || s == NoEstimate {
		return Bounds{}
	}

	runs := digitRuns(strings.ReplaceAll(s, ",", ""))
	if len(runs) == 0 {
		return Bounds{}
	}

	low, high := runs[0], runs[0]
	for _, n := range runs[1:] {
		if n < low {
			low = n
		}
		if n > high {
			high = n
		}
	}
	return Bounds{Low: low, High: high}
}

// TotalRepairs sums the parsed cost bounds of every defect in the slice.
// Defects without a cost contribute (0, 0), exactly as if they carried
// the NoEstimate sentinel. An empty or nil slice yields (0, 0).
func TotalRepairs(defects []types.Defect) Bounds {
	var total Bounds
	for i := range defects {
		total = total.Add(ParseCost(defects[i].Cost))
	}
	return total
}

// digitRuns returns each maximal run of decimal digits in s as an
// integer, in order of appearance. Runs too large for int are skipped.
func digitRuns(s string) []int {
	var runs []int
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if n, err := strconv.Atoi(s[start:i]); err == nil {
				runs = append(runs, n)
			}
			start = -1
		}
	}
	return runs
}

var printer = message.NewPrinter(language.English)

// FormatRange renders bounds as "$<low> - $<high>" with thousands
// separators, matching the display format used in exported reports.
func FormatRange(b Bounds) string {
	return printer.Sprintf("$%d - $%d", b.Low, b.High)
}
