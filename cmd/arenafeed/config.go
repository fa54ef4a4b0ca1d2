package main

import (
	"fmt"

	"github.com/cuemby/arenafeed/pkg/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration files",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate an arenafeed configuration file and print the effective
configuration with defaults applied.

Examples:
  arenafeed config validate -f arenafeed.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, _ := cmd.Flags().GetString("file")

		cfg, err := config.Load(filename)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n\n%s", filename, out)
		return nil
	},
}

func init() {
	configValidateCmd.Flags().StringP("file", "f", "", "YAML file to validate (required)")
	_ = configValidateCmd.MarkFlagRequired("file")

	configCmd.AddCommand(configValidateCmd)
}
