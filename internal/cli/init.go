package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feedcache/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config directory with an example config.yaml",
	Args:  cobra.NoArgs,
	RunE:  initAction,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func initAction(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, config.DefaultConfigFile)
	wrote, err := writeIfNotExists(w, configPath, []byte(exampleConfig))
	if err != nil {
		return err
	}

	if wrote {
		fmt.Fprintf(w, "Initialized %s. Set account in %s, then run 'feedcache get'.\n", configDir, configPath)
	} else {
		fmt.Fprintf(w, "Config directory %s already initialized.\n", configDir)
	}
	return nil
}

// writeIfNotExists writes data to path if the file does not exist.
// Returns true if the file was created.
func writeIfNotExists(w io.Writer, path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  exists: %s\n", path)
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(w, "  created: %s\n", path)
	return true, nil
}

const exampleConfig = `# feedcache configuration

# Account whose timeline is fetched. FEEDCACHE_ACCOUNT overrides it.
account: ""

cache:
  backend: file            # file or sqlite
  location: .feedcache/timeline.json
  # db_path: .feedcache/feedcache.db   # sqlite backend only
  max_age_hours: 24        # 0 disables expiry

source:
  endpoint: https://api.twitter.com/1/statuses/user_timeline.rss
  timeout: 30s

log:
  level: warn
`
