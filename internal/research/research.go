package research

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/sitevision/internal/fetch"
)

// resultsPerQuery is how many hits each search query contributes.
const resultsPerQuery = 3

// Researcher handles external property record search
type Researcher struct {
	svc *customsearch.Service
	cx  string
}

// NewResearcher creates a new Researcher instance
func NewResearcher(ctx context.Context, apiKey string, cx string) (*Researcher, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &Researcher{
		svc: svc,
		cx:  cx,
	}, nil
}

// Search runs a single query and returns the top hits.
func (r *Researcher) Search(ctx context.Context, query string) ([]CandidateURL, error) {
	resp, err := r.svc.Cse.List().Context(ctx).Cx(r.cx).Q(query).Num(resultsPerQuery).Do()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	candidates := make([]CandidateURL, 0, len(resp.Items))
	for _, item := range resp.Items {
		candidates = append(candidates, CandidateURL{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
			Portal:  fetch.DetectPortal(item.Link),
		})
	}
	return candidates, nil
}

// FindListingPages searches for pages that may describe the address,
// combining several query variants and deduplicating the hits.
func (r *Researcher) FindListingPages(ctx context.Context, address string) ([]CandidateURL, error) {
	var candidates []CandidateURL
	seen := make(map[string]bool)
	var lastErr error

	for _, q := range SearchQueries(address) {
		hits, err := r.Search(ctx, q)
		if err != nil {
			// Skip failed queries gracefully; quota errors should not
			// sink the whole lookup
			lastErr = err
			continue
		}
		for _, hit := range hits {
			if !seen[hit.URL] {
				seen[hit.URL] = true
				candidates = append(candidates, hit)
			}
		}
	}

	if len(candidates) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return candidates, nil
}
