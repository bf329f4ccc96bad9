package di

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-gridbase/cache"
	"github.com/goliatone/go-gridbase/gridbase"
)

func TestNewContainer(t *testing.T) {
	container, err := NewContainer(gridbase.Config{APIKey: "key_test"})
	require.NoError(t, err)
	assert.NotNil(t, container.Client())
	assert.Nil(t, container.Store(), "no cache configured means no store")
}

func TestNewContainer_DefaultsStore(t *testing.T) {
	container, err := NewContainer(gridbase.Config{
		APIKey: "key_test",
		Cache:  &cache.Config{DefaultTTL: time.Minute},
	})
	require.NoError(t, err)

	store := container.Store()
	require.NotNil(t, store, "caching enabled without a store gets the reference store")

	if err := store.Set(context.Background(), "k", "v", 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	value, ok, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestNewContainer_KeepsProvidedStore(t *testing.T) {
	store := cache.NewMemoryStore(cache.WithMaxSize(10))
	container, err := NewContainer(gridbase.Config{
		APIKey: "key_test",
		Cache:  &cache.Config{Store: store},
	})
	require.NoError(t, err)
	assert.Same(t, store, container.Store())
}

func TestNewContainer_PropagatesClientError(t *testing.T) {
	_, err := NewContainer(gridbase.Config{})
	assert.ErrorIs(t, err, gridbase.ErrMissingAPIKey)
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults("key_test")
	require.NoError(t, err)
	assert.NotNil(t, container.Store())
	assert.Equal(t, "key_test", container.Config().APIKey)
}

func TestContainer_Table(t *testing.T) {
	container, err := NewContainerWithDefaults("key_test")
	require.NoError(t, err)
	assert.NotNil(t, container.Table("app1", "Tasks"))
}
