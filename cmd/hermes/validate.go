package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"mercator-hq/hermes/pkg/cli"
	"mercator-hq/hermes/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply environment overrides, and validate
the result without contacting any provider.

Examples:
  # Validate the default config file
  hermes validate

  # Validate a specific file
  hermes validate --config /etc/hermes/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}

	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("✓ Configuration valid")
	fmt.Printf("  Config file: %s\n", cfgFile)
	fmt.Printf("  Providers:   %s\n", strings.Join(names, ", "))
	fmt.Printf("  Defaults:    %s / %s\n", cfg.Defaults.Provider, cfg.Defaults.Model)
	fmt.Printf("  Catalog TTL: %s\n", cfg.Catalog.TTL)
	if cfg.History.Enabled {
		fmt.Printf("  History:     %s\n", cfg.History.Backend)
	} else {
		fmt.Println("  History:     disabled")
	}
	return nil
}
