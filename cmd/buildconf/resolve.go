package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/nauticalab/buildconf/internal/config"
	"github.com/nauticalab/buildconf/internal/logging"
)

var (
	// Resolve command flags
	resolveDir   string
	resolvePhase string
	resolveJSON  bool
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [path]",
	Short: "Resolve and print the effective configuration",
	Long: `Resolve the effective configuration and print it as YAML (or JSON).

An optional path argument selects a single field using gjson path syntax.

Examples:
  buildconf resolve
  buildconf resolve --phase production-build --json
  buildconf resolve images.deviceSizes
  buildconf resolve --dir ./website basePath`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := newResolver()

		cfg, err := resolver.Resolve(resolvePhase, resolveDir, nil)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			raw, err := json.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			result := gjson.GetBytes(raw, args[0])
			if !result.Exists() {
				return fmt.Errorf("no value at path %q", args[0])
			}
			fmt.Println(result.String())
			return nil
		}

		if resolveJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

// newResolver builds the resolver shared by the CLI commands. Warnings go to
// stderr; --verbose keeps informational notices as well.
func newResolver() *config.Resolver {
	log := logging.New("buildconf")
	if !verbose {
		log = log.Level(zerolog.WarnLevel)
	}
	return config.NewResolver(config.WithLogger(log))
}

func init() {
	resolveCmd.Flags().StringVar(&resolveDir, "dir", ".", "Directory to start configuration discovery from")
	resolveCmd.Flags().StringVar(&resolvePhase, "phase", config.PhaseProductionBuild, "Build phase passed to function-form configurations")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print JSON instead of YAML")
}
