package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/feedcache/internal/config"
	"github.com/ppiankov/feedcache/internal/feedcache"
	"github.com/ppiankov/feedcache/internal/logging"
	"github.com/ppiankov/feedcache/internal/source"
	"github.com/ppiankov/feedcache/internal/store"
)

// session is everything a command needs to query the configured account.
type session struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    store.Store
	timeline *source.Timeline
	cache    *feedcache.FeedCache
	close    func() error
}

func openSession(stderr io.Writer) (*session, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if account := strings.TrimSpace(accountFlag); account != "" {
		cfg.Account = account
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log := logging.New(stderr, level)
	for _, key := range cfg.Unknown {
		log.Warn().Str("key", key).Msg("ignoring unknown config key")
	}

	st, closeStore, err := store.Open(cfg.Cache.Backend, cfg.Cache.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}

	tl, err := source.NewTimeline(cfg.Source.Endpoint, cfg.Source.Timeout.Duration)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("create timeline source: %w", err)
	}

	cache := feedcache.New(cfg.FeedCache(),
		feedcache.WithStore(st),
		feedcache.WithFetcher(tl),
		feedcache.WithLogger(log),
	)

	return &session{
		cfg:      cfg,
		log:      log,
		store:    st,
		timeline: tl,
		cache:    cache,
		close:    closeStore,
	}, nil
}

func (s *session) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}
