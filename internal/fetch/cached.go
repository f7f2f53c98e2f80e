// Package fetch provides generic URL fetching with optional caching.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/sitevision/internal/logging"
)

// DefaultCacheTTL is how long a cached page stays fresh.
const DefaultCacheTTL = 7 * 24 * time.Hour

// maxConcurrentFetches bounds parallelism in FetchMultiple so portals
// are not hammered.
const maxConcurrentFetches = 3

// CachedFetcher wraps URL fetching with disk-backed caching.
// Listing pages change slowly, so re-fetching on every lookup wastes
// time and risks rate limiting.
type CachedFetcher struct {
	dir       string
	options   *Options
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	Dir       string
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		Dir:       defaultCacheDir(),
		CacheTTL:  DefaultCacheTTL,
		SkipCache: false,
		Options:   DefaultOptions(),
	}
}

func defaultCacheDir() string {
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "sitevision", "pages")
	}
	return filepath.Join(os.TempDir(), "sitevision", "pages")
}

// NewCachedFetcher creates a new cached fetcher.
func NewCachedFetcher(config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.Dir == "" {
		config.Dir = defaultCacheDir()
	}
	return &CachedFetcher{
		dir:       config.Dir,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
	FetchedAt time.Time
}

// cacheEntry is the on-disk envelope for a cached page.
type cacheEntry struct {
	URL        string    `json:"url"`
	HTML       string    `json:"html"`
	Text       string    `json:"text"`
	StatusCode int       `json:"status_code"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Fetch retrieves a URL, using the cache if available and fresh.
// Fresh content is extracted with portal-aware selectors before caching.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if !f.skipCache {
		if entry := f.readCache(urlStr); entry != nil {
			return &CachedResult{
				Result: &Result{
					URL:        entry.URL,
					HTML:       entry.HTML,
					Text:       entry.Text,
					StatusCode: entry.StatusCode,
				},
				FromCache: true,
				FetchedAt: entry.FetchedAt,
			}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	portal := DetectPortal(urlStr)
	text, _ := ExtractMainText(result.HTML, PortalContentSelectors(portal), PortalNoiseSelectors(portal)...)
	result.Text = text

	now := time.Now()
	f.writeCache(&cacheEntry{
		URL:        urlStr,
		HTML:       result.HTML,
		Text:       result.Text,
		StatusCode: result.StatusCode,
		FetchedAt:  now,
	})

	return &CachedResult{
		Result:    result,
		FromCache: false,
		FetchedAt: now,
	}, nil
}

// FetchMultiple fetches multiple URLs concurrently with caching.
// Returns results in the same order as input URLs. Failed fetches have a
// nil result and a non-nil error at the same index.
func (f *CachedFetcher) FetchMultiple(ctx context.Context, urls []string) ([]*CachedResult, []error) {
	results := make([]*CachedResult, len(urls))
	errs := make([]error, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, urlStr := range urls {
		g.Go(func() error {
			result, err := f.Fetch(gCtx, urlStr)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = result
			return nil
		})
	}

	// Individual failures are reported per index, never as a group error
	_ = g.Wait()

	return results, errs
}

// InvalidateCache removes the cached copy of a URL, forcing a re-fetch
// on the next request.
func (f *CachedFetcher) InvalidateCache(urlStr string) error {
	err := os.Remove(f.cachePath(urlStr))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to invalidate cache for %s: %w", urlStr, err)
	}
	return nil
}

func (f *CachedFetcher) cachePath(urlStr string) string {
	sum := sha256.Sum256([]byte(urlStr))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:])+".json")
}

// readCache returns the cached entry for a URL if present and fresh.
func (f *CachedFetcher) readCache(urlStr string) *cacheEntry {
	data, err := os.ReadFile(f.cachePath(urlStr))
	if err != nil {
		return nil
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if time.Since(entry.FetchedAt) > f.cacheTTL {
		return nil
	}

	return &entry
}

// writeCache stores an entry on disk. Failures are logged, not returned;
// the fetch itself succeeded.
func (f *CachedFetcher) writeCache(entry *cacheEntry) {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		logging.Sugar.Warnw("failed to create cache dir", "dir", f.dir, "error", err)
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logging.Sugar.Warnw("failed to encode cache entry", "url", entry.URL, "error", err)
		return
	}

	if err := os.WriteFile(f.cachePath(entry.URL), data, 0644); err != nil {
		logging.Sugar.Warnw("failed to write cache entry", "url", entry.URL, "error", err)
	}
}
