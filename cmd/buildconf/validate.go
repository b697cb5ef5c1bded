package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nauticalab/buildconf/internal/config"
)

var (
	// Validate command flags
	validateDir   string
	validatePhase string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the discovered configuration",
	Long: `Resolve the configuration for a directory and report whether it
passes the validator chain.

Examples:
  buildconf validate
  buildconf validate --dir ./website --phase development-server`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		resolver := newResolver()

		cfg, err := resolver.Resolve(validatePhase, validateDir, nil)
		if err != nil {
			if kind := config.ErrorKind(err); kind != "" {
				fmt.Fprintf(os.Stderr, "invalid configuration (%s): %v\n", kind, err)
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}

		if cfg.ConfigOrigin == config.OriginDefault {
			fmt.Println("no configuration file found; defaults apply")
			return
		}
		fmt.Printf("%s is valid\n", cfg.ConfigFile)
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateDir, "dir", ".", "Directory to start configuration discovery from")
	validateCmd.Flags().StringVar(&validatePhase, "phase", config.PhaseProductionBuild, "Build phase passed to function-form configurations")
}
