/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nbbaier/alchemy-migrator/internal/config/file"
	"github.com/nbbaier/alchemy-migrator/internal/generate"
	"github.com/nbbaier/alchemy-migrator/internal/prompt"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate [wrangler-config...]",
	Short: "Generate an Alchemy program from wrangler configuration",
	Long: `Resolve wrangler configuration into an Alchemy program and write it out.

Wrangler configs are processed in the order given (or the order listed in the
project file); when several workers declare the same resource, the first
declaration wins and later workers share it. The resolved model is summarised
before anything is written, and generation is refused while the configuration
has errors unless --force is given.

Examples:
  alchemy-migrator migrate                          # Use alchemy-migrator.yaml
  alchemy-migrator migrate wrangler.toml            # Migrate a single worker
  alchemy-migrator migrate api/wrangler.toml web/wrangler.toml
  alchemy-migrator migrate -e staging wrangler.toml # Resolve the staging environment first`,
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

		renderer := newRenderer(cmd)
		renderer.Summary(resolved)

		force, _ := cmd.Flags().GetBool("force")
		if len(resolved.Errors) > 0 && !force {
			return fmt.Errorf("configuration has %d error(s); fix them or rerun with --force", len(resolved.Errors))
		}

		generator, err := generate.New()
		if err != nil {
			return err
		}
		program, err := generator.Generate(resolved, opts)
		if err != nil {
			return err
		}

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), program)
			return nil
		}

		outputPath, _ := cmd.Flags().GetString("output")
		if fp, ok := provider.(*file.Provider); ok && !cmd.Flags().Changed("output") && fp.OutputPath() != "" {
			outputPath = fp.OutputPath()
		}

		if _, err := os.Stat(outputPath); err == nil && !force {
			confirmed, err := prompt.ConfirmOverwrite(outputPath)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := os.WriteFile(outputPath, []byte(program), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", outputPath)
		renderer.Secrets(resolved)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringP("output", "o", "alchemy.run.ts", "path of the generated program")
	migrateCmd.Flags().Bool("dry-run", false, "print the generated program instead of writing it")
	migrateCmd.Flags().Bool("force", false, "generate despite errors and overwrite without asking")
}
