package feedcache

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ppiankov/feedcache/internal/feed"
)

// DefaultCount is the number of posts returned when the caller does not say.
const DefaultCount = 3

// Order selects the presentation order of Get.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Get returns at most count posts. OrderDesc reverses the held sequence before
// truncating; any other order keeps it as stored.
func (c *FeedCache) Get(count int, order Order) ([]feed.Post, error) {
	if len(c.posts) == 0 {
		return nil, ErrNoData
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d is negative", ErrInvalidArgument, count)
	}

	posts := slices.Clone(c.posts)
	if order == OrderDesc {
		slices.Reverse(posts)
	}

	count = min(count, len(posts))
	return posts[:count:count], nil
}

// GetAll returns every held post.
func (c *FeedCache) GetAll() ([]feed.Post, error) {
	if len(c.posts) == 0 {
		return nil, ErrNoData
	}
	return slices.Clone(c.posts), nil
}

// ParseCount converts user input to a count for Get.
func ParseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: count %q is not a number", ErrInvalidArgument, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: count %d is negative", ErrInvalidArgument, n)
	}
	return n, nil
}

// ParseOrder maps user input to an Order. Only the exact string "desc"
// reverses; anything else, including "DESC", is ascending.
func ParseOrder(s string) Order {
	if s == string(OrderDesc) {
		return OrderDesc
	}
	return OrderAsc
}
