package main

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags (available to all commands)
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "buildconf",
	Short: "Resolve the effective build pipeline configuration",
	Long: `buildconf resolves the effective runtime configuration for the
application build/serve pipeline.

It discovers the nearest buildconf.yaml (or executable buildconf.lua) above
the working directory, merges it over the built-in defaults one level deep,
validates the result and prints or serves it.`,
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Add subcommands to root
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(defaultsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
