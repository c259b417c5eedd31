/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "alchemy-migrator",
	Short: "Convert Cloudflare Workers wrangler configuration to Alchemy programs",
	Long: `Alchemy Migrator translates wrangler configuration files into equivalent
Alchemy (alchemy.run) TypeScript programs:

• Reads wrangler.toml and wrangler.json, including named environments
• Deduplicates shared resources across multiple workers
• Detects likely secrets and routes them through environment variables
• Flags dangling references and naming conflicts before anything is deployed
• Produces a reviewable alchemy.run.ts instead of touching live resources

Use alchemy-migrator to move one worker or a whole multi-worker project onto
infrastructure-as-code without re-declaring every binding by hand.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "alchemy-migrator.yaml", "project file listing wrangler configs")
	rootCmd.PersistentFlags().String("app-name", "", "application name used for synthesized resource names")
	rootCmd.PersistentFlags().String("stage", "", "deployment stage suffix for synthesized resource names")
	rootCmd.PersistentFlags().StringP("env", "e", "", "named wrangler environment to resolve before migrating")
	rootCmd.PersistentFlags().Bool("adopt", true, "adopt existing resources instead of creating new ones")
	rootCmd.PersistentFlags().Bool("preserve-names", true, "keep original names for resources with explicit platform ids")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable coloured output")
}
