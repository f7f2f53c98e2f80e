package ratelimit

import (
	"strings"
)

// aiSuffixes are report subresources that trigger model calls.
var aiSuffixes = []string{"/enrich", "/enrich/stream", "/summary", "/plan"}

// TierFor classifies a request path into a rate-limit tier.
func TierFor(path string) Tier {
	if path == "/api/health" {
		return TierUnlimited
	}

	if strings.HasPrefix(path, "/api/auth/") {
		return TierAuth
	}

	switch {
	case strings.HasPrefix(path, "/api/analysis/"),
		strings.HasPrefix(path, "/api/estimation/"),
		strings.HasPrefix(path, "/api/enrichment/"),
		strings.HasPrefix(path, "/api/compliance/"),
		path == "/api/history":
		return TierAI
	}

	// Report subresources that run the model are AI-tier even though
	// the rest of /api/reports is not.
	if strings.HasPrefix(path, "/api/reports/") {
		for _, suffix := range aiSuffixes {
			if strings.HasSuffix(path, suffix) {
				return TierAI
			}
		}
	}

	return TierDefault
}
