/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbbaier/alchemy-migrator/internal/prompt"
)

func TestMigrateCommand_Flags(t *testing.T) {
	flags := migrateCmd.Flags()

	outputFlag := flags.Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "alchemy.run.ts", outputFlag.DefValue)
	assert.Equal(t, "o", outputFlag.Shorthand)

	require.NotNil(t, flags.Lookup("dry-run"))
	require.NotNil(t, flags.Lookup("force"))
}

func TestMigrateCommand_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "wrangler.toml", `
name = "api"
main = "src/index.ts"

[[kv_namespaces]]
binding = "SESSIONS"
id = "abc123"

[vars]
AUTH_TOKEN = "xyz"
`)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"migrate", path,
		"--app-name", "shop", "--stage", "prod", "--preserve-names=false",
		"--no-color=true", "--dry-run=true", "--force=false"})

	err := rootCmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Migration summary")
	assert.Contains(t, output, `import { KVNamespace, Worker } from "alchemy/cloudflare";`)
	assert.Contains(t, output, "const sessions = await KVNamespace(")
	assert.Contains(t, output, "AUTH_TOKEN: alchemy.secret(process.env.AUTH_TOKEN),")
	// The secret's value must not leak into the program
	assert.NotContains(t, output, "xyz")
}

func TestMigrateCommand_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "wrangler.toml", `
name = "api"

[[kv_namespaces]]
binding = "SESSIONS"
id = "abc123"

[vars]
AUTH_TOKEN = "xyz"
`)
	outPath := filepath.Join(dir, "alchemy.run.ts")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"migrate", path,
		"--app-name", "shop", "--stage", "prod", "--preserve-names=false",
		"--no-color=true", "--dry-run=false", "--force=false", "-o", outPath})

	err := rootCmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Wrote "+outPath)
	assert.Contains(t, buf.String(), "Secrets to provide as environment variables:")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "const sessions = await KVNamespace(")
	assert.Contains(t, string(data), "await app.finalize();")
}

func TestMigrateCommand_RefusesOnErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "wrangler.toml", `
name = "api"

[[kv_namespaces]]
binding = "CACHE"
id = "kv-id"

[[r2_buckets]]
binding = "CACHE"
bucket_name = "bucket"
`)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"migrate", path,
		"--no-color=true", "--dry-run=true", "--force=false"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rerun with --force")
}

func TestMigrateCommand_ForceGeneratesDespiteErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "wrangler.toml", `
name = "api"

[[kv_namespaces]]
binding = "CACHE"
id = "kv-id"

[[r2_buckets]]
binding = "CACHE"
bucket_name = "bucket"
`)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"migrate", path,
		"--no-color=true", "--dry-run=true", "--force=true"})

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "await app.finalize();")
}

func TestMigrateCommand_PromptsBeforeOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "wrangler.toml", "name = \"api\"\n")
	outPath := filepath.Join(dir, "alchemy.run.ts")
	require.NoError(t, os.WriteFile(outPath, []byte("existing"), 0o644))

	originalPrompter := prompt.GetDefaultPrompter()
	defer prompt.SetPrompter(originalPrompter)

	mockPrompter := &prompt.MockPrompter{}
	mockPrompter.On("ConfirmOverwrite", outPath).Return(false, nil).Once()
	prompt.SetPrompter(mockPrompter)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"migrate", path,
		"--no-color=true", "--dry-run=false", "--force=false", "-o", outPath})

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Aborted.")
	mockPrompter.AssertExpectations(t)

	// The declined overwrite must leave the file untouched
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestMigrateCommand_ProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "api.toml", `
name = "api"

[[d1_databases]]
binding = "DB"
database_name = "main"
database_id = "id-1"
`)
	writeConfig(t, dir, "worker.toml", `
name = "worker"

[[d1_databases]]
binding = "DB"
database_name = "main"
database_id = "id-1"
`)
	project := writeConfig(t, dir, "alchemy-migrator.yaml", `
app: shop
stage: prod
preserve_names: false
output: generated.ts
configs:
  - api.toml
  - worker.toml
`)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"migrate", "-c", project,
		"--no-color=true", "--dry-run=true", "--force=false"})

	err := rootCmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "workers: 2")
	assert.Contains(t, output, "resources: 1")
	assert.Contains(t, output, "const db = await D1Database(")
	assert.Contains(t, output, `export const api = await Worker("api", {`)
	assert.Contains(t, output, `export const worker = await Worker("worker", {`)
}
