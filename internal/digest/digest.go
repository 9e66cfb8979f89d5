// Package digest formats an account's posts for display.
package digest

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/feedcache/internal/feed"
)

const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// DigestInput is the full input for a digest formatter.
type DigestInput struct {
	Account string
	Origin  string // "cache" or "network"
	Posts   []feed.Post
}

// Formatter writes a formatted digest to w.
type Formatter interface {
	Format(w io.Writer, input DigestInput) error
}

// New returns the formatter for format. An empty format selects the terminal.
func New(format string, color bool) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTerminal:
		return NewTerminal(color), nil
	case FormatJSON:
		return NewJSON(), nil
	case FormatMarkdown, "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want terminal, json, or markdown)", format)
	}
}

func postedAt(p feed.Post) string {
	if p.Timestamp == 0 {
		return "unknown time"
	}
	return p.Time().Format(time.RFC3339)
}
