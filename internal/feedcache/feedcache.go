// Package feedcache holds one account's timeline in memory, backed by a cache
// store that is refreshed from the live timeline when missing or stale.
package feedcache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/feedcache/internal/feed"
	"github.com/ppiankov/feedcache/internal/store"
)

// DefaultMaxCacheAgeHours is used when Config.MaxCacheAgeHours is nil.
const DefaultMaxCacheAgeHours = 24

// Fetcher retrieves the current timeline of an account.
type Fetcher interface {
	Fetch(ctx context.Context, account string) ([]feed.Post, error)
}

// Config selects the account and cache entry. Zero values disable the
// corresponding behaviour: no account disables live fetches and no cache
// location disables caching.
type Config struct {
	Account       string
	CacheLocation string

	// MaxCacheAgeHours is the freshness window. nil means
	// DefaultMaxCacheAgeHours; zero or negative disables expiry.
	MaxCacheAgeHours *int
}

// Origin records where the loaded posts came from.
type Origin int

const (
	OriginEmpty Origin = iota
	OriginCache
	OriginNetwork
)

func (o Origin) String() string {
	switch o {
	case OriginCache:
		return "cache"
	case OriginNetwork:
		return "network"
	default:
		return "empty"
	}
}

// Option configures a FeedCache.
type Option func(*FeedCache)

// WithStore sets the cache store. The default is store.FileStore.
func WithStore(st store.Store) Option {
	return func(c *FeedCache) { c.store = st }
}

// WithFetcher sets the live timeline source. Without one FetchLive fails.
func WithFetcher(f Fetcher) Option {
	return func(c *FeedCache) { c.fetcher = f }
}

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *FeedCache) { c.log = log }
}

// WithClock overrides the time source used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(c *FeedCache) { c.now = now }
}

// FeedCache is not safe for concurrent use.
type FeedCache struct {
	account       string
	cacheLocation string
	maxAgeHours   int

	posts   []feed.Post
	origin  Origin
	saveErr error

	store   store.Store
	fetcher Fetcher
	log     zerolog.Logger
	now     func() time.Time
}

// New applies cfg and opts without touching the cache or the network.
func New(cfg Config, opts ...Option) *FeedCache {
	c := &FeedCache{
		account:       strings.TrimSpace(cfg.Account),
		cacheLocation: strings.TrimSpace(cfg.CacheLocation),
		maxAgeHours:   DefaultMaxCacheAgeHours,
		store:         store.FileStore{},
		log:           zerolog.Nop(),
		now:           time.Now,
	}
	if cfg.MaxCacheAgeHours != nil {
		c.maxAgeHours = *cfg.MaxCacheAgeHours
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open builds a FeedCache and runs Init. The returned FeedCache is always
// usable, even when Init reports an error.
func Open(ctx context.Context, cfg Config, opts ...Option) (*FeedCache, Origin, error) {
	c := New(cfg, opts...)
	origin, err := c.Init(ctx)
	return c, origin, err
}

// Init loads posts from the cache, falling back to a live fetch. On total
// failure it returns OriginEmpty and both causes.
func (c *FeedCache) Init(ctx context.Context) (Origin, error) {
	cacheErr := c.LoadFromCache()
	if cacheErr == nil {
		return OriginCache, nil
	}
	c.log.Debug().Err(cacheErr).Msg("cache not used, fetching live timeline")

	fetchErr := c.FetchLive(ctx)
	if fetchErr == nil {
		return OriginNetwork, nil
	}
	return OriginEmpty, errors.Join(cacheErr, fetchErr)
}

// LoadFromCache replaces the held posts with the cached ones. On failure the
// held posts are unchanged. An entry is stale when it is strictly older than
// the freshness window.
func (c *FeedCache) LoadFromCache() error {
	if c.cacheLocation == "" {
		return fmt.Errorf("%w: cache location", ErrConfigMissing)
	}
	log := c.log.With().Str("location", c.cacheLocation).Logger()

	modTime, err := c.store.Stat(c.cacheLocation)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	if c.maxAgeHours > 0 {
		age := c.now().Sub(modTime)
		if age > time.Duration(c.maxAgeHours)*time.Hour {
			log.Debug().Dur("age", age).Int("max_age_hours", c.maxAgeHours).Msg("cache stale")
			return fmt.Errorf("%w: stale (age %s, max %dh)", ErrCacheUnavailable, age.Round(time.Second), c.maxAgeHours)
		}
	}

	data, err := c.store.Read(c.cacheLocation)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	posts, err := feed.Decode(data)
	if err != nil {
		log.Warn().Err(err).Msg("cache corrupt")
		return fmt.Errorf("%w: %w", ErrCacheCorrupt, err)
	}

	c.posts = posts
	c.origin = OriginCache
	log.Debug().Int("posts", len(posts)).Msg("loaded posts from cache")
	return nil
}

// FetchLive replaces the held posts with the account's live timeline and
// writes them to the cache. A failed cache write is logged and kept for
// SaveErr but does not fail the fetch.
func (c *FeedCache) FetchLive(ctx context.Context) error {
	if c.account == "" {
		return fmt.Errorf("%w: account", ErrConfigMissing)
	}
	if c.fetcher == nil {
		return fmt.Errorf("%w: no timeline source configured", ErrFetchFailed)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	posts, err := c.fetcher.Fetch(ctx, c.account)
	if err != nil {
		c.log.Warn().Err(err).Str("account", c.account).Msg("live fetch failed")
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if len(posts) == 0 {
		return fmt.Errorf("%w: timeline for %s is empty", ErrFetchFailed, c.account)
	}

	c.posts = slices.Clone(posts)
	c.origin = OriginNetwork
	c.log.Info().Str("account", c.account).Int("posts", len(posts)).Msg("fetched live timeline")

	c.saveErr = c.SaveToCache()
	if c.saveErr != nil && !errors.Is(c.saveErr, ErrConfigMissing) {
		c.log.Warn().Err(c.saveErr).Str("location", c.cacheLocation).Msg("cache not updated")
	}
	return nil
}

// SaveErr returns the outcome of the cache write made by the last successful
// FetchLive. It matches ErrConfigMissing when caching is disabled.
func (c *FeedCache) SaveErr() error {
	return c.saveErr
}

// SaveToCache writes the held posts to the cache location, replacing any
// previous content.
func (c *FeedCache) SaveToCache() error {
	if len(c.posts) == 0 {
		return ErrNoData
	}
	if c.cacheLocation == "" {
		return fmt.Errorf("%w: cache location", ErrConfigMissing)
	}

	data, err := feed.Encode(c.posts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	if err := c.store.Write(c.cacheLocation, data); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}

	c.log.Debug().Str("location", c.cacheLocation).Int("posts", len(c.posts)).Msg("saved posts to cache")
	return nil
}

// Origin reports where the held posts came from.
func (c *FeedCache) Origin() Origin {
	return c.origin
}

// Len returns the number of held posts.
func (c *FeedCache) Len() int {
	return len(c.posts)
}

// Account returns the configured account.
func (c *FeedCache) Account() string {
	return c.account
}

// CacheLocation returns the configured cache location.
func (c *FeedCache) CacheLocation() string {
	return c.cacheLocation
}

// MaxCacheAgeHours returns the effective freshness window.
func (c *FeedCache) MaxCacheAgeHours() int {
	return c.maxAgeHours
}
