package digest

import (
	"encoding/json"
	"io"
)

type jsonDigest struct {
	Meta  jsonMeta   `json:"meta"`
	Posts []jsonPost `json:"posts"`
}

type jsonMeta struct {
	Account string `json:"account"`
	Origin  string `json:"origin,omitempty"`
	Count   int    `json:"count"`
}

type jsonPost struct {
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	PostedAt  string `json:"posted_at,omitempty"`
	Permalink string `json:"permalink,omitempty"`
}

// JSONFormatter formats a digest as JSON.
type JSONFormatter struct{}

// NewJSON creates a JSON formatter.
func NewJSON() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the digest as JSON to w.
func (f *JSONFormatter) Format(w io.Writer, input DigestInput) error {
	out := jsonDigest{
		Meta: jsonMeta{
			Account: input.Account,
			Origin:  input.Origin,
			Count:   len(input.Posts),
		},
		Posts: make([]jsonPost, 0, len(input.Posts)),
	}
	for _, p := range input.Posts {
		jp := jsonPost{
			Content:   p.Content,
			Timestamp: p.Timestamp,
			Permalink: p.Permalink,
		}
		if p.Timestamp != 0 {
			jp.PostedAt = p.Time().Format("2006-01-02T15:04:05Z")
		}
		out.Posts = append(out.Posts, jp)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
