package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feedcache/internal/feedcache"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cache entry and whether it is fresh, without fetching",
	Args:  cobra.NoArgs,
	RunE:  statusAction,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusAction(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	printStatus(cmd.OutOrStdout(), sess, time.Now())
	return nil
}

func printStatus(w io.Writer, sess *session, now time.Time) {
	c := sess.cache

	account := c.Account()
	if account == "" {
		account = "(not set, live fetch disabled)"
	}
	fmt.Fprintf(w, "account:   %s\n", account)
	fmt.Fprintf(w, "endpoint:  %s\n", sess.timeline.URL(c.Account()))

	if c.CacheLocation() == "" {
		fmt.Fprintln(w, "cache:     disabled (no cache.location)")
		return
	}
	fmt.Fprintf(w, "cache:     %s (%s backend)\n", c.CacheLocation(), sess.cfg.Cache.Backend)

	maxAge := c.MaxCacheAgeHours()
	if maxAge > 0 {
		fmt.Fprintf(w, "max age:   %dh\n", maxAge)
	} else {
		fmt.Fprintln(w, "max age:   never expires")
	}

	modTime, err := sess.store.Stat(c.CacheLocation())
	if err != nil {
		fmt.Fprintf(w, "state:     unavailable (%v)\n", err)
		return
	}
	age := now.Sub(modTime)
	fmt.Fprintf(w, "written:   %s (%s ago)\n", modTime.UTC().Format(time.RFC3339), formatAge(age))

	switch err := c.LoadFromCache(); {
	case err == nil:
		fmt.Fprintf(w, "state:     fresh, %d posts\n", c.Len())
	case errors.Is(err, feedcache.ErrCacheCorrupt):
		fmt.Fprintln(w, "state:     corrupt (next query will refetch)")
	case errors.Is(err, feedcache.ErrCacheUnavailable):
		fmt.Fprintln(w, "state:     stale (next query will refetch)")
	default:
		fmt.Fprintf(w, "state:     %v\n", err)
	}
}

func formatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
