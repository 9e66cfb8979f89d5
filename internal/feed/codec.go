package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// PayloadFormat identifies the cache payload layout. Decode rejects anything else.
const PayloadFormat = "feedcache/v1"

var (
	// ErrCorrupt is returned when a cache payload cannot be decoded.
	ErrCorrupt = errors.New("corrupt cache payload")
	// ErrInvalidText is returned by Encode for text that is not valid UTF-8,
	// which JSON could only store lossily.
	ErrInvalidText = errors.New("post text is not valid UTF-8")
)

type payload struct {
	Format string         `json:"format"`
	Posts  *[]payloadPost `json:"posts"`
}

type payloadPost struct {
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	Permalink string `json:"permalink"`
}

// Encode serializes posts into the cache payload format. Content and
// permalinks must be valid UTF-8.
func Encode(posts []Post) ([]byte, error) {
	items := make([]payloadPost, 0, len(posts))
	for i, p := range posts {
		if !utf8.ValidString(p.Content) || !utf8.ValidString(p.Permalink) {
			return nil, fmt.Errorf("%w: post %d", ErrInvalidText, i)
		}
		items = append(items, payloadPost{
			Content:   p.Content,
			Timestamp: p.Timestamp,
			Permalink: p.Permalink,
		})
	}

	data, err := json.Marshal(payload{Format: PayloadFormat, Posts: &items})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

// Decode parses a cache payload. Order is preserved.
func Decode(data []byte) ([]Post, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrCorrupt)
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if p.Format != PayloadFormat {
		return nil, fmt.Errorf("%w: unknown format %q", ErrCorrupt, p.Format)
	}
	if p.Posts == nil {
		return nil, fmt.Errorf("%w: missing posts", ErrCorrupt)
	}

	posts := make([]Post, 0, len(*p.Posts))
	for _, item := range *p.Posts {
		posts = append(posts, Post(item))
	}
	return posts, nil
}
