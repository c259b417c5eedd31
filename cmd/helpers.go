/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbbaier/alchemy-migrator/internal/config"
	"github.com/nbbaier/alchemy-migrator/internal/config/file"
	"github.com/nbbaier/alchemy-migrator/internal/report"
	"github.com/nbbaier/alchemy-migrator/internal/resolve"
)

// providerOverride replaces the file-based provider when set.
var providerOverride config.Provider

// SetProvider injects a configuration provider (for testing)
func SetProvider(p config.Provider) {
	providerOverride = p
}

// createProvider builds a configuration provider: wrangler configs given as
// arguments take precedence, otherwise the project file is used.
func createProvider(cmd *cobra.Command, args []string) config.Provider {
	if providerOverride != nil {
		return providerOverride
	}
	if len(args) > 0 {
		return file.NewUnitProvider(args...)
	}
	configFile, _ := cmd.Flags().GetString("config")
	return file.NewProvider(configFile)
}

// loadOptions layers explicitly-set CLI flags over the provider's defaults.
func loadOptions(cmd *cobra.Command, provider config.Provider) (config.Options, error) {
	opts, err := provider.Options()
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("app-name") {
		opts.AppName, _ = flags.GetString("app-name")
	}
	if flags.Changed("stage") {
		opts.Stage, _ = flags.GetString("stage")
	}
	if flags.Changed("env") {
		opts.TargetEnvironment, _ = flags.GetString("env")
	}
	if flags.Changed("adopt") {
		opts.Adopt, _ = flags.GetBool("adopt")
	}
	if flags.Changed("preserve-names") {
		opts.PreserveNames, _ = flags.GetBool("preserve-names")
	}

	return opts, nil
}

// runPipeline loads all units and resolves them into the final model.
func runPipeline(ctx context.Context, provider config.Provider, opts config.Options) (*resolve.ResolvedModel, error) {
	if err := provider.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	units, err := provider.LoadUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load worker configs: %w", err)
	}

	resolved, err := resolve.NewPipeline().Run(units, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}
	return resolved, nil
}

// newRenderer creates a summary renderer honouring the colour flag.
func newRenderer(cmd *cobra.Command) *report.Renderer {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return report.NewRenderer(cmd.OutOrStdout(), report.NewStyles(!noColor))
}
