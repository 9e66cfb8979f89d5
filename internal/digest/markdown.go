package digest

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter formats a digest as Markdown.
type MarkdownFormatter struct{}

// NewMarkdown creates a Markdown formatter.
func NewMarkdown() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the digest as a Markdown list to w.
func (f *MarkdownFormatter) Format(w io.Writer, input DigestInput) error {
	if _, err := fmt.Fprintf(w, "# @%s\n\n", input.Account); err != nil {
		return err
	}
	if input.Origin != "" {
		fmt.Fprintf(w, "%d posts, from %s\n\n", len(input.Posts), input.Origin)
	} else {
		fmt.Fprintf(w, "%d posts\n\n", len(input.Posts))
	}

	if len(input.Posts) == 0 {
		fmt.Fprintln(w, "No posts found.")
		return nil
	}

	for _, p := range input.Posts {
		text := escapeMarkdown(p.Content)
		if p.Permalink != "" {
			fmt.Fprintf(w, "- %s — [%s](%s)\n", text, postedAt(p), p.Permalink)
		} else {
			fmt.Fprintf(w, "- %s — %s\n", text, postedAt(p))
		}
	}
	return nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
