package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nauticalab/buildconf/internal/config"
)

// defaultsCmd represents the defaults command
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in default registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(config.DefaultConfig())
		if err != nil {
			return fmt.Errorf("failed to encode defaults: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}
