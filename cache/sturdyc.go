package cache

import (
	"time"

	"github.com/goliatone/go-gridbase/internal/cacheinfra"
)

// SturdycConfig exposes configuration for the sturdyc-backed store.
type SturdycConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultSturdycConfig returns a SturdycConfig populated with sensible defaults.
func DefaultSturdycConfig() SturdycConfig {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c SturdycConfig) Validate() error {
	return c.toInternal().Validate()
}

// NewSturdycStore constructs a sturdyc-backed Store. It trades the reference
// MemoryStore's expired-first eviction and per-entry TTLs for sturdyc's
// sharding and background eviction; entries expire on the client-wide TTL.
// The returned store implements Store, Deleter, and PrefixDeleter.
func NewSturdycStore(cfg SturdycConfig) (*cacheinfra.SturdycStore, error) {
	return cacheinfra.NewSturdycStore(cfg.toInternal())
}

func (c SturdycConfig) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

var (
	_ Store         = (*cacheinfra.SturdycStore)(nil)
	_ Deleter       = (*cacheinfra.SturdycStore)(nil)
	_ PrefixDeleter = (*cacheinfra.SturdycStore)(nil)
)

func convertFromInternal(cfg cacheinfra.Config) SturdycConfig {
	return SturdycConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
