// Command adminshell serves and inspects the admin console's route table.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/adminshell/internal/config"
	"github.com/vango-dev/adminshell/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "adminshell",
		Short: "Serve and inspect the admin console",
		Long: `adminshell serves the admin console's HTML shell and exposes its
route table.

The console has four pages (resources, categories, users and logs);
the root path redirects to resources. Settings are read from
adminshell.json in the working directory or the file given by --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to adminshell.json")

	load := func() (*config.Config, error) {
		return loadConfig(configPath)
	}

	rootCmd.AddCommand(
		serveCmd(load),
		routesCmd(load),
		resolveCmd(load),
		publishCmd(load),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads path, or adminshell.json from the working directory when
// path is empty and the file exists, or falls back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.ConfigFileName); err == nil {
			path = config.ConfigFileName
		}
	}
	return config.LoadOrDefault(path)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
