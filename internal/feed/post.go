// Package feed defines the post model and the on-disk cache payload format.
package feed

import (
	"strings"
	"time"
)

// Post is a single item retrieved from an account timeline.
type Post struct {
	Content   string // title text with newlines stripped
	Timestamp int64  // publication time, unix seconds
	Permalink string // link to the original item
}

// Time returns the publication time in UTC.
func (p Post) Time() time.Time {
	return time.Unix(p.Timestamp, 0).UTC()
}

// NormalizeContent strips line breaks from raw item text.
func NormalizeContent(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "")
}
