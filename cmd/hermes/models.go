package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/hermes/pkg/cli"
	"mercator-hq/hermes/pkg/providers"
)

var modelsFlags struct {
	refresh bool
	health  bool
	output  string
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model catalog",
	Long: `List the models available across configured providers.

The catalog merges a built-in list for OpenAI and Anthropic with whatever a
configured gateway advertises, deduplicated and cached for the configured
TTL. --refresh bypasses the cache and re-runs discovery; --health adds a
live reachability check of every configured provider.

Examples:
  # List the cached catalog
  hermes models

  # Force fresh gateway discovery
  hermes models --refresh

  # Machine-readable output with provider health
  hermes models --health -o json`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().BoolVar(&modelsFlags.refresh, "refresh", false, "bypass the catalog cache and re-run discovery")
	modelsCmd.Flags().BoolVar(&modelsFlags.health, "health", false, "run a health check against each provider")
	modelsCmd.Flags().StringVarP(&modelsFlags.output, "output", "o", "text", "output format: text, json")
}

func runModels(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(modelsFlags.output)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	var models []providers.ModelDescriptor
	if modelsFlags.refresh {
		models, err = a.catalog.Refresh(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: model discovery failed (%v); listing last known catalog\n", err)
		}
	} else {
		models = a.catalog.GetModels(ctx)
	}

	var health map[string]healthView
	if modelsFlags.health {
		health = checkProviders(ctx, a)
	}

	if format == cli.FormatJSON {
		out := struct {
			Models []providers.ModelDescriptor `json:"models"`
			Health map[string]healthView       `json:"health,omitempty"`
		}{Models: models, Health: health}
		return cli.NewFormatter(format).FormatTo(os.Stdout, out)
	}

	printModelTable(models)
	if modelsFlags.health {
		fmt.Println()
		printHealthTable(health)
	}
	return nil
}

// healthView is the per-provider health shape shared by the text and JSON
// renderings.
type healthView struct {
	Healthy             bool      `json:"healthy"`
	LastCheck           time.Time `json:"last_check"`
	ConsecutiveFailures int       `json:"consecutive_failures,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
}

// checkProviders runs a live health check against every configured provider,
// updating the health gauge as it goes.
func checkProviders(ctx context.Context, a *app) map[string]healthView {
	views := make(map[string]healthView, a.manager.Count())
	for _, name := range a.manager.Names() {
		p, err := a.manager.Get(name)
		if err != nil {
			continue
		}

		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = p.HealthCheck(checkCtx)
		cancel()
		a.metrics.UpdateProviderHealth(name, err == nil)

		view := healthView{Healthy: err == nil}
		if err != nil {
			view.LastError = err.Error()
		}
		if h := p.GetHealth(); !h.LastCheck.IsZero() {
			view.LastCheck = h.LastCheck
			view.ConsecutiveFailures = h.ConsecutiveFailures
		}
		views[name] = view
	}
	return views
}

func printModelTable(models []providers.ModelDescriptor) {
	if len(models) == 0 {
		fmt.Println("No models available.")
		return
	}

	fmt.Printf("%-34s %-28s %-10s %10s\n", "ID", "NAME", "PROVIDER", "CONTEXT")
	for _, m := range models {
		fmt.Printf("%-34s %-28s %-10s %10d\n", m.ID, m.DisplayName, m.Provider, m.ContextWindowTokens)
	}
	fmt.Printf("\n%d models\n", len(models))
}

func printHealthTable(views map[string]healthView) {
	if len(views) == 0 {
		fmt.Println("No providers configured.")
		return
	}

	names := make([]string, 0, len(views))
	for name := range views {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-12s %-10s %-21s %s\n", "PROVIDER", "STATUS", "LAST CHECK", "ERROR")
	for _, name := range names {
		v := views[name]
		status := "healthy"
		if !v.Healthy {
			status = "unhealthy"
		}
		lastCheck := "-"
		if !v.LastCheck.IsZero() {
			lastCheck = v.LastCheck.UTC().Format(time.RFC3339)
		}
		errText := "-"
		if v.LastError != "" {
			errText = v.LastError
		}
		fmt.Printf("%-12s %-10s %-21s %s\n", name, status, lastCheck, errText)
	}
}
