/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [wrangler-config...]",
	Short: "Check wrangler configuration without generating anything",
	Long: `Resolve wrangler configuration and report what the migration would find.

This runs the full pipeline — environment resolution, resource
normalization, binding resolution, and cross-reference validation — and
prints the resulting summary, warnings, and errors without writing any
output file. It provides fast feedback while cleaning up a configuration.

Examples:
  alchemy-migrator validate                     # Validate the project file's configs
  alchemy-migrator validate wrangler.toml       # Validate a single worker
  alchemy-migrator validate -e production       # Validate the production environment`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		provider := createProvider(cmd, args)
		opts, err := loadOptions(cmd, provider)
		if err != nil {
			return err
		}

		resolved, err := runPipeline(ctx, provider, opts)
		if err != nil {
			return err
		}

		newRenderer(cmd).Summary(resolved)

		if envs, err := provider.ListEnvironments(); err == nil && len(envs) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\nDeclared environments: %s\n", strings.Join(envs, ", "))
		}

		if len(resolved.Errors) > 0 {
			return fmt.Errorf("found %d error(s)", len(resolved.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
