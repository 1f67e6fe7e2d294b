package config

import "time"

// CacheConfig controls the seat-map response cache.  The TTL default is
// deliberately short: terminals poll the seat map between realtime events,
// and a two-second window absorbs those bursts without showing a stale map
// for longer than an agent would notice.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* environment variables, with defaults that
// suit read-heavy seat map traffic.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 2*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "checkin:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Second
	}
	return cfg
}
