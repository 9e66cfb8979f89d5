package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feedcache/internal/config"
	"github.com/ppiankov/feedcache/internal/source"
	"github.com/ppiankov/feedcache/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and cache store health",
	Args:  cobra.NoArgs,
	RunE:  doctorAction,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func doctorAction(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	ok := true

	// Config dir
	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		printCheck(w, false, "config directory %s", configDir)
		ok = false
	} else {
		printCheck(w, true, "config directory %s", configDir)
	}

	// Config file
	cfg, err := config.Load(configDir)
	if err != nil {
		printCheck(w, false, "config.yaml: %v", err)
		return fmt.Errorf("some checks failed")
	}
	printCheck(w, true, "config.yaml")
	for _, key := range cfg.Unknown {
		printInfo(w, "unknown key ignored: %s", key)
	}

	account := cfg.Account
	if accountFlag != "" {
		account = accountFlag
	}
	if account == "" {
		printCheck(w, false, "account not set (live fetch disabled)")
		ok = false
	} else {
		printCheck(w, true, "account %s", account)
	}

	if tl, err := source.NewTimeline(cfg.Source.Endpoint, cfg.Source.Timeout.Duration); err != nil {
		printCheck(w, false, "endpoint: %v", err)
		ok = false
	} else {
		printCheck(w, true, "endpoint %s (timeout %s)", tl.URL(account), cfg.Source.Timeout.Duration)
	}

	// Cache store
	st, closeStore, err := store.Open(cfg.Cache.Backend, cfg.Cache.DBPath)
	if err != nil {
		printCheck(w, false, "cache store: %v", err)
		ok = false
	} else {
		defer func() { _ = closeStore() }()
		if cfg.Cache.Backend == store.BackendSQLite {
			printCheck(w, true, "cache store sqlite %s", cfg.Cache.DBPath)
		} else {
			printCheck(w, true, "cache store file")
		}

		if cfg.Cache.Location == "" {
			printInfo(w, "caching disabled: cache.location is not set")
		} else if _, err := st.Stat(cfg.Cache.Location); err != nil {
			printInfo(w, "no cache entry yet at %s", cfg.Cache.Location)
		} else {
			printCheck(w, true, "cache entry %s", cfg.Cache.Location)
		}
	}

	if !ok {
		return fmt.Errorf("some checks failed")
	}
	fmt.Fprintln(w, "\nAll checks passed.")
	return nil
}

func printCheck(w io.Writer, pass bool, format string, args ...any) {
	mark := "FAIL"
	if pass {
		mark = " OK "
	}
	fmt.Fprintf(w, "[%s] %s\n", mark, fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "[INFO] %s\n", fmt.Sprintf(format, args...))
}
