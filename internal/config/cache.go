package config

import "time"

// CacheConfig defines settings for the response cache middleware.
// Caching is skipped entirely when Enabled is false or no Redis client
// could be constructed.  Only GET responses up to MaxBodyBytes are
// stored; Prefix namespaces the keys so several deployments can share
// one Redis.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads cache settings from the environment, with
// defaults suitable for a small journal API.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "keikocho:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
