package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feedcache/internal/feedcache"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the live timeline and rewrite the cache, ignoring freshness",
	Args:  cobra.NoArgs,
	RunE:  refreshAction,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func refreshAction(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	c := sess.cache
	if err := c.FetchLive(cmd.Context()); err != nil {
		return fmt.Errorf("refresh %q: %w", c.Account(), err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Fetched %d posts for @%s", c.Len(), c.Account())

	switch err := c.SaveErr(); {
	case err == nil:
		fmt.Fprintf(w, " (cached at %s)", c.CacheLocation())
	case errors.Is(err, feedcache.ErrConfigMissing):
		fmt.Fprint(w, " (caching disabled)")
	default:
		fmt.Fprintln(w)
		return err
	}
	fmt.Fprintln(w)
	return nil
}
