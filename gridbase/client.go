package gridbase

import (
	"math/rand"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-gridbase/cache"
)

// DefaultEndpointURL is the API endpoint used when none is configured.
const DefaultEndpointURL = "https://api.gridbase.io"

// Config is the explicit, immutable client configuration. There are no
// process-wide defaults: every client carries its own copy.
type Config struct {
	// APIKey authenticates every request. Required.
	APIKey string

	// EndpointURL overrides the API endpoint, e.g. for a proxy or a test
	// server. Defaults to DefaultEndpointURL.
	EndpointURL string

	// APIVersion, when set, is sent as the X-API-Version header.
	APIVersion string

	// HTTPClient performs the transport calls. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Headers are custom headers applied to every request. Per-call headers
	// override them key-by-key.
	Headers http.Header

	// Retry governs retry eligibility and backoff. Zero values fall back to
	// the package defaults.
	Retry RetryPolicy

	// Cache enables read-through caching of list/get operations. Nil
	// disables caching entirely.
	Cache *cache.Config

	// Logger receives debug logging for retries and warnings for cache
	// failures. Nil means no logging.
	Logger *zerolog.Logger
}

// Client is a typed client for the tabular-data HTTP API. It is safe for
// concurrent use.
type Client struct {
	apiKey      string
	endpointURL string
	apiVersion  string
	httpClient  *http.Client
	headers     http.Header
	retry       RetryPolicy
	cache       *cache.Config
	logger      zerolog.Logger

	// jitter returns a uniform value in [0, 1); replaced in tests.
	jitter func() float64
}

// New constructs a Client from cfg. It fails synchronously when required
// credentials are missing.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := strings.TrimRight(cfg.EndpointURL, "/")
	if endpoint == "" {
		endpoint = DefaultEndpointURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		apiKey:      cfg.APIKey,
		endpointURL: endpoint,
		apiVersion:  cfg.APIVersion,
		httpClient:  httpClient,
		headers:     cfg.Headers.Clone(),
		retry:       cfg.Retry.withDefaults(),
		cache:       cfg.Cache,
		logger:      logger,
		jitter:      rand.Float64,
	}, nil
}

// Base returns a handle on the base with the given id.
func (c *Client) Base(baseID string) *Base {
	return &Base{client: c, id: baseID}
}

// cacheFail routes a cache-layer failure through the shared error policy: the
// observer callback sees every failure, and the error propagates only when
// FailOnCacheError is set. Transport outcomes are never affected.
func (c *Client) cacheFail(err error, ectx cache.ErrorContext) error {
	cfg := c.cache
	if cfg == nil {
		return nil
	}
	if cfg.OnError != nil {
		cfg.OnError(err, ectx)
	}
	c.logger.Warn().
		Err(err).
		Str("op", string(ectx.Op)).
		Str("key", ectx.Key).
		Str("prefix", ectx.Prefix).
		Msg("cache operation failed")
	if cfg.FailOnCacheError {
		return err
	}
	return nil
}
