package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feedcache/internal/digest"
	"github.com/ppiankov/feedcache/internal/feed"
	"github.com/ppiankov/feedcache/internal/feedcache"
	"github.com/ppiankov/feedcache/internal/logging"
)

var (
	getOrder     string
	outputFormat string
	noColor      bool
)

var getCmd = &cobra.Command{
	Use:   "get [count]",
	Short: "Print the most recent posts (default 3)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  getAction,
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Print every cached or fetched post",
	Args:  cobra.NoArgs,
	RunE:  allAction,
}

func init() {
	getCmd.Flags().StringVar(&getOrder, "order", string(feedcache.OrderAsc), "asc keeps the feed order, desc reverses it")
	for _, c := range []*cobra.Command{getCmd, allCmd} {
		c.Flags().StringVar(&outputFormat, "format", "", "output format: terminal, json, markdown")
		c.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
	}
	rootCmd.AddCommand(getCmd, allCmd)
}

func getAction(cmd *cobra.Command, args []string) error {
	count := feedcache.DefaultCount
	if len(args) == 1 {
		n, err := feedcache.ParseCount(args[0])
		if err != nil {
			return err
		}
		count = n
	}

	return withLoadedCache(cmd, func(c *feedcache.FeedCache) ([]feed.Post, error) {
		return c.Get(count, feedcache.ParseOrder(getOrder))
	})
}

func allAction(cmd *cobra.Command, _ []string) error {
	return withLoadedCache(cmd, func(c *feedcache.FeedCache) ([]feed.Post, error) {
		return c.GetAll()
	})
}

func withLoadedCache(cmd *cobra.Command, query func(*feedcache.FeedCache) ([]feed.Post, error)) error {
	formatter, err := digest.New(outputFormat, useColor(cmd))
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	origin, err := sess.cache.Init(cmd.Context())
	if err != nil {
		return fmt.Errorf("no posts available for %q: %w", sess.cache.Account(), err)
	}

	posts, err := query(sess.cache)
	if err != nil && !errors.Is(err, feedcache.ErrNoData) {
		return err
	}

	return formatter.Format(cmd.OutOrStdout(), digest.DigestInput{
		Account: sess.cache.Account(),
		Origin:  origin.String(),
		Posts:   posts,
	})
}

func useColor(cmd *cobra.Command) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return logging.IsTerminal(cmd.OutOrStdout())
}
