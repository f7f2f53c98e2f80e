package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Tier identifies a rate-limit class of endpoints. Buckets are keyed
// by client and tier, so one noisy endpoint drains the budget of its
// whole tier rather than getting a fresh bucket per path.
type Tier string

const (
	// TierAuth covers login and registration, which are the usual
	// brute-force targets.
	TierAuth Tier = "auth"
	// TierAI covers endpoints that call the model and therefore cost
	// real money per request.
	TierAI Tier = "ai"
	// TierDefault covers everything else.
	TierDefault Tier = "default"
	// TierUnlimited marks endpoints that are never limited, such as
	// the health check.
	TierUnlimited Tier = "unlimited"
)

// TierConfig represents rate limiting configuration for a single tier.
type TierConfig struct {
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	tiers := DefaultTiers()
	if limit := getEnvInt("RATE_LIMIT_AUTH_LIMIT", 0); limit > 0 {
		tc := tiers[TierAuth]
		tc.Limit = limit
		tiers[TierAuth] = tc
	}
	if limit := getEnvInt("RATE_LIMIT_AI_LIMIT", 0); limit > 0 {
		tc := tiers[TierAI]
		tc.Limit = limit
		tiers[TierAI] = tc
	}
	if limit := getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 0); limit > 0 {
		tc := tiers[TierDefault]
		tc.Limit = limit
		tiers[TierDefault] = tc
	}

	cleanupInterval := getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute)

	whitelist := parseIPList(getEnvString("RATE_LIMIT_WHITELIST", ""))
	blacklist := parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", ""))

	return &Config{
		Enabled:         true,
		Tiers:           tiers,
		CleanupInterval: cleanupInterval,
		Whitelist:       whitelist,
		Blacklist:       blacklist,
	}
}

// DefaultTiers returns the default per-tier configurations.
func DefaultTiers() map[Tier]TierConfig {
	return map[Tier]TierConfig{
		// Tight: failed logins refill slowly.
		TierAuth: {Limit: 10, Window: time.Minute, Burst: 5},
		// Moderate: model calls are slow and billed per request.
		TierAI: {Limit: 30, Window: time.Minute, Burst: 10},
		// Generous: reads and local operations.
		TierDefault: {Limit: 300, Window: time.Minute, Burst: 60},
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	ips := strings.Split(list, ",")
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}
