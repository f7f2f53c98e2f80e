// Package research - property.go orchestrates property history lookups.
package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/sitevision/internal/fetch"
	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/logging"
	"github.com/jonathan/sitevision/internal/schemas"
	"github.com/jonathan/sitevision/internal/types"
)

// maxPageChars bounds how much of each page goes into the extraction prompt.
const maxPageChars = 8000

// DefaultMaxPages is how many listing pages a lookup will fetch.
const DefaultMaxPages = 3

var (
	// ErrSearchUnavailable means no search service is configured.
	ErrSearchUnavailable = errors.New("property search unavailable: no search service configured")

	// ErrNoListingsFound means the search produced nothing usable.
	ErrNoListingsFound = errors.New("no listing pages found for address")
)

// LookupOptions configures a property lookup.
type LookupOptions struct {
	MaxPages   int
	UseBrowser bool
}

// PropertyLookup finds public records for an address and extracts
// structured property details from them.
type PropertyLookup struct {
	researcher *Researcher
	fetcher    *fetch.CachedFetcher
	client     llm.Client
	opts       LookupOptions
}

// NewPropertyLookup creates a lookup. The researcher may be nil when no
// search API is configured; History then fails with ErrSearchUnavailable
// but HistoryFromLinks still works with caller-provided URLs.
func NewPropertyLookup(researcher *Researcher, fetcher *fetch.CachedFetcher, client llm.Client, opts LookupOptions) *PropertyLookup {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if fetcher == nil {
		fetcher = fetch.NewCachedFetcher(nil)
	}
	return &PropertyLookup{
		researcher: researcher,
		fetcher:    fetcher,
		client:     client,
		opts:       opts,
	}
}

// History looks up property details for an address: search the portals,
// pick the best listing pages, fetch them and extract structured facts.
func (l *PropertyLookup) History(ctx context.Context, address string) (*types.PropertyDetails, error) {
	if l.researcher == nil {
		return nil, ErrSearchUnavailable
	}

	candidates, err := l.researcher.FindListingPages(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to search for listings: %w", err)
	}

	portalHits := RankByPathPriority(FilterToKnownPortals(candidates))
	links := CandidateLinks(portalHits)

	// When the portals give us too many pages, let the LLM pick the ones
	// about the subject address
	if len(links) > l.opts.MaxPages && l.client != nil {
		if filtered, err := FilterListingLinks(ctx, l.client, address, links); err == nil && len(filtered) > 0 {
			links = filtered
		} else if err != nil {
			logging.Sugar.Debugw("link filtering failed, keeping path ranking", "error", err)
		}
	}
	if len(links) > l.opts.MaxPages {
		links = links[:l.opts.MaxPages]
	}

	if len(links) == 0 {
		// Degraded mode: no portal pages, extract from search snippets
		corpus := snippetCorpus(candidates)
		if corpus == "" {
			return nil, ErrNoListingsFound
		}
		logging.Sugar.Debugw("no portal pages found, extracting from snippets", "address", address)
		return l.extract(ctx, address, corpus, nil)
	}

	return l.HistoryFromLinks(ctx, address, links)
}

// HistoryFromLinks fetches known listing pages and extracts details from
// their combined text.
func (l *PropertyLookup) HistoryFromLinks(ctx context.Context, address string, links []string) (*types.PropertyDetails, error) {
	results, errs := l.fetcher.FetchMultiple(ctx, links)

	var parts []string
	var sources []string
	for i, res := range results {
		if res == nil {
			logging.Sugar.Debugw("listing fetch failed", "url", links[i], "error", errs[i])
			continue
		}

		text := res.Text
		if fetch.ShouldUseBrowser(text) && l.opts.UseBrowser {
			if html, err := fetch.BrowserSimple(ctx, res.URL); err == nil {
				portal := fetch.DetectPortal(res.URL)
				rendered, err := fetch.ExtractMainText(html, fetch.PortalContentSelectors(portal), fetch.PortalNoiseSelectors(portal)...)
				if err == nil && rendered != "" {
					text = rendered
				}
			} else {
				logging.Sugar.Debugw("browser rendering failed", "url", res.URL, "error", err)
			}
		}

		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, llm.TruncateForPrompt(text, maxPageChars))
		sources = append(sources, res.URL)
	}

	if len(parts) == 0 {
		return nil, ErrNoListingsFound
	}

	corpus := strings.Join(parts, "\n\n---\n\n")
	return l.extract(ctx, address, corpus, sources)
}

// extract runs the LLM extraction over gathered page text and validates
// the result before decoding it.
func (l *PropertyLookup) extract(ctx context.Context, address, corpus string, sources []string) (*types.PropertyDetails, error) {
	if l.client == nil {
		return nil, fmt.Errorf("no LLM client configured for extraction")
	}

	input := fmt.Sprintf("Subject address: %s\n\n%s", address, corpus)
	prompt := llm.BuildExtractionPrompt(llm.PropertyDetailsSchema(), input)

	jsonResp, err := l.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("failed to extract property details: %w", err)
	}

	jsonResp = llm.CleanJSONBlock(jsonResp)

	if err := schemas.Validate(schemas.SchemaPropertyDetails, jsonResp); err != nil {
		return nil, fmt.Errorf("property details failed validation: %w", err)
	}

	var details types.PropertyDetails
	if err := json.Unmarshal([]byte(jsonResp), &details); err != nil {
		return nil, fmt.Errorf("failed to parse property details: %w (content: %s)", err, jsonResp)
	}

	if details.Address == "" {
		details.Address = address
	}
	details.Sources = sources

	return &details, nil
}

// snippetCorpus joins search snippets into a minimal extraction corpus.
func snippetCorpus(candidates []CandidateURL) string {
	var parts []string
	for _, c := range candidates {
		if strings.TrimSpace(c.Snippet) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s\n%s", c.Title, c.Snippet))
	}
	return strings.Join(parts, "\n\n")
}
