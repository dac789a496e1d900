// Command suar serves the Suar Indonesia website and maintains its local
// content cache.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "suar",
	Short: "Suar Indonesia website server",
	Long: `suar serves the Suar Indonesia website and maintains the local
content cache that keeps articles available when the remote store is down.

Configuration is read from --config (YAML) and from SUAR_* environment
variables, for example SUAR_REMOTE_URL or SUAR_STORE_DIR.

Examples:
  suar serve --config suar.yaml
  suar cache count
  suar cache clear articles
  suar content init content`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the suar version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "suar %s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
