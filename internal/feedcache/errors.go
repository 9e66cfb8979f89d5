package feedcache

import "errors"

var (
	// ErrConfigMissing means the account or cache location needed for an operation is not set.
	ErrConfigMissing = errors.New("required configuration missing")
	// ErrCacheUnavailable means the cache entry is missing, unreadable, or stale.
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrCacheCorrupt means the cache entry exists but cannot be decoded.
	ErrCacheCorrupt = errors.New("cache corrupt")
	// ErrCacheWrite means persisting posts to the cache store failed.
	ErrCacheWrite = errors.New("cache write failed")
	// ErrFetchFailed covers network, status, and parse failures and empty timelines.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrNoData means no posts are loaded.
	ErrNoData = errors.New("no posts loaded")
	// ErrInvalidArgument means a query argument was rejected.
	ErrInvalidArgument = errors.New("invalid argument")
)
