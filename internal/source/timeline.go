package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ppiankov/feedcache/internal/feed"
)

const (
	DefaultEndpoint = "https://api.twitter.com/1/statuses/user_timeline.rss"
	DefaultTimeout  = 30 * time.Second

	timelineUserAgent = "Mozilla/5.0 (compatible; feedcache/1.0; +https://github.com/ppiankov/feedcache)"
	accountParam      = "screen_name"
)

// ErrNoItems is returned when the timeline parses but holds no items.
var ErrNoItems = errors.New("timeline has no items")

// Timeline fetches an account's recent posts from an RSS timeline endpoint.
type Timeline struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// NewTimeline creates a timeline source. An empty endpoint selects
// DefaultEndpoint and a non-positive timeout selects DefaultTimeout.
func NewTimeline(endpoint string, timeout time.Duration) (*Timeline, error) {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("timeline: parse endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("timeline: endpoint %q must be an absolute http(s) URL", endpoint)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Timeline{
		endpoint: endpoint,
		timeout:  timeout,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &timelineTransport{base: http.DefaultTransport},
		},
	}, nil
}

// URL returns the timeline address for account.
func (t *Timeline) URL(account string) string {
	u, err := url.Parse(t.endpoint)
	if err != nil {
		return t.endpoint
	}
	q := u.Query()
	q.Set(accountParam, account)
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch retrieves and parses the account's timeline. Items are returned in
// the order the endpoint delivered them.
func (t *Timeline) Fetch(ctx context.Context, account string) ([]feed.Post, error) {
	if strings.TrimSpace(account) == "" {
		return nil, errors.New("timeline: account is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	feedURL := t.URL(account)

	fp := gofeed.NewParser()
	fp.Client = t.client
	parsed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, ErrNoItems)
	}

	return postsFromFeed(parsed), nil
}

// timelineTransport injects a User-Agent header into every request.
type timelineTransport struct {
	base http.RoundTripper
}

func (t *timelineTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", timelineUserAgent)
	return t.base.RoundTrip(req)
}

// postsFromFeed keeps item order. gofeed has already trimmed the outer
// whitespace of each title.
func postsFromFeed(parsed *gofeed.Feed) []feed.Post {
	posts := make([]feed.Post, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		posts = append(posts, feed.Post{
			Content:   feed.NormalizeContent(item.Title),
			Timestamp: itemTimestamp(item),
			Permalink: itemPermalink(item),
		})
	}
	return posts
}

func itemTimestamp(item *gofeed.Item) int64 {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.Unix()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.Unix()
	}
	return 0
}

func itemPermalink(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}
