// Package di wires the client and its cache store together for typical use
// cases, keeping construction in one place.
package di

import (
	"github.com/goliatone/go-gridbase/cache"
	"github.com/goliatone/go-gridbase/gridbase"
)

// Container provides dependency injection for the client and its caching
// components. It manages the singleton store and client instances and offers
// table handle factories.
type Container struct {
	store  cache.Store
	client *gridbase.Client
	config gridbase.Config
}

// NewContainer creates a DI container from the provided client configuration.
// When the configuration enables caching without naming a store, the
// reference in-process store is used.
func NewContainer(config gridbase.Config) (*Container, error) {
	var store cache.Store
	if config.Cache != nil {
		if config.Cache.Store == nil {
			config.Cache.Store = cache.NewMemoryStore()
		}
		store = config.Cache.Store
	}

	client, err := gridbase.New(config)
	if err != nil {
		return nil, err
	}

	return &Container{
		store:  store,
		client: client,
		config: config,
	}, nil
}

// NewContainerWithDefaults creates a container with caching enabled on the
// reference store. Convenience constructor for typical use.
func NewContainerWithDefaults(apiKey string) (*Container, error) {
	return NewContainer(gridbase.Config{
		APIKey: apiKey,
		Cache:  &cache.Config{Store: cache.NewMemoryStore()},
	})
}

// Client returns the singleton client instance.
func (c *Container) Client() *gridbase.Client {
	return c.client
}

// Store returns the configured cache store, nil when caching is disabled.
// This allows external invalidation or pre-warming through the key helpers.
func (c *Container) Store() cache.Store {
	return c.store
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() gridbase.Config {
	return c.config
}

// Table is a shortcut for Client().Base(baseID).Table(nameOrID).
func (c *Container) Table(baseID, nameOrID string) *gridbase.Table {
	return c.client.Base(baseID).Table(nameOrID)
}
