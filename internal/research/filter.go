// Package research - filter.go provides portal and LLM-guided link filtering.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/sitevision/internal/fetch"
	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/prompts"
)

// FilterToKnownPortals keeps candidates hosted on supported property portals.
func FilterToKnownPortals(candidates []CandidateURL) []CandidateURL {
	var filtered []CandidateURL
	for _, c := range candidates {
		if c.Portal != fetch.PortalUnknown {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// AssignPathPriority returns a priority for a listing URL based on path
// patterns. Property profile and sold-history pages carry the facts we
// want; suburb statistics and advice articles rarely do.
func AssignPathPriority(urlStr string) float64 {
	urlLower := strings.ToLower(urlStr)

	highValuePatterns := []string{
		"property-profile", "sale-history", "sold", "property-history",
	}
	for _, pattern := range highValuePatterns {
		if strings.Contains(urlLower, pattern) {
			return 0.95
		}
	}

	goodPatterns := []string{
		"/property/", "property-details", "listing",
	}
	for _, pattern := range goodPatterns {
		if strings.Contains(urlLower, pattern) {
			return 0.85
		}
	}

	skipPatterns := []string{
		"suburb-profile", "/news/", "/advice/", "/agent", "auction-results",
		"/guides/", "market-insights",
	}
	for _, pattern := range skipPatterns {
		if strings.Contains(urlLower, pattern) {
			return 0.1
		}
	}

	return 0.5
}

// RankByPathPriority orders candidates best-first by AssignPathPriority.
// The sort is stable so search ranking breaks ties.
func RankByPathPriority(candidates []CandidateURL) []CandidateURL {
	ranked := make([]CandidateURL, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return AssignPathPriority(ranked[i].URL) > AssignPathPriority(ranked[j].URL)
	})
	return ranked
}

// FilterListingLinks asks the LLM which links are most likely to describe
// the subject address. Links the model invents are discarded.
func FilterListingLinks(ctx context.Context, client llm.Client, address string, links []string) ([]string, error) {
	if len(links) == 0 {
		return nil, nil
	}

	template := prompts.MustGet("research.json", "filter-listing-links")
	prompt := prompts.Format(template, map[string]string{
		"Address": address,
		"Links":   strings.Join(links, "\n"),
	})

	jsonResp, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	jsonResp = llm.CleanJSONBlock(jsonResp)

	var kept []string
	if err := json.Unmarshal([]byte(jsonResp), &kept); err != nil {
		return nil, fmt.Errorf("failed to parse filter response: %w (content: %s)", err, jsonResp)
	}

	offered := make(map[string]bool, len(links))
	for _, link := range links {
		offered[link] = true
	}

	var valid []string
	for _, link := range kept {
		if offered[link] {
			valid = append(valid, link)
		}
	}

	return valid, nil
}
