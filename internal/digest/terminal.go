package digest

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// TerminalFormatter formats a digest for terminal output.
type TerminalFormatter struct {
	bold *color.Color
	dim  *color.Color
	cyan *color.Color
}

// NewTerminal creates a terminal formatter. Set useColor=true for ANSI colors.
func NewTerminal(useColor bool) *TerminalFormatter {
	f := &TerminalFormatter{
		bold: color.New(color.Bold),
		dim:  color.New(color.Faint),
		cyan: color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{f.bold, f.dim, f.cyan} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Format writes one block per post in the given order.
func (f *TerminalFormatter) Format(w io.Writer, input DigestInput) error {
	header := fmt.Sprintf("@%s — %d posts", input.Account, len(input.Posts))
	if input.Origin != "" {
		header += " (from " + input.Origin + ")"
	}
	if _, err := fmt.Fprintln(w, f.bold.Sprint(header)); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if len(input.Posts) == 0 {
		fmt.Fprintln(w, "No posts found.")
		return nil
	}

	for _, p := range input.Posts {
		fmt.Fprintf(w, "  %s  %s\n", f.cyan.Sprint(postedAt(p)), p.Content)
		if p.Permalink != "" {
			fmt.Fprintf(w, "      %s\n", f.dim.Sprint(p.Permalink))
		}
	}
	return nil
}
