// Package research provides property history lookup via web search.
package research

import (
	"github.com/jonathan/sitevision/internal/fetch"
)

// CandidateURL is a search hit that may describe the subject property.
type CandidateURL struct {
	URL     string       `json:"url"`
	Title   string       `json:"title"`
	Snippet string       `json:"snippet"`
	Portal  fetch.Portal `json:"portal"`
}

// SearchQueries returns the query variants used to find listing and
// sales-record pages for an address.
func SearchQueries(address string) []string {
	return []string{
		`"` + address + `" year built`,
		`"` + address + `" sold price history`,
		`site:realestate.com.au "` + address + `"`,
		`site:domain.com.au "` + address + `"`,
		address + " property profile",
	}
}

// CandidateLinks extracts the URL list from candidates, preserving order.
func CandidateLinks(candidates []CandidateURL) []string {
	links := make([]string, 0, len(candidates))
	for _, c := range candidates {
		links = append(links, c.URL)
	}
	return links
}
