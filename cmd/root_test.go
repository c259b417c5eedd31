/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	// Test basic command properties
	assert.Equal(t, "alchemy-migrator", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)

	// Test that the long description contains expected content
	assert.Contains(t, rootCmd.Long, "wrangler configuration files")
	assert.Contains(t, rootCmd.Long, "Deduplicates shared resources")
	assert.Contains(t, rootCmd.Long, "Detects likely secrets")
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	configFlag := flags.Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "alchemy-migrator.yaml", configFlag.DefValue)
	assert.Equal(t, "c", configFlag.Shorthand)

	envFlag := flags.Lookup("env")
	require.NotNil(t, envFlag)
	assert.Equal(t, "e", envFlag.Shorthand)
	assert.Contains(t, envFlag.Usage, "environment")

	adoptFlag := flags.Lookup("adopt")
	require.NotNil(t, adoptFlag)
	assert.Equal(t, "true", adoptFlag.DefValue)

	preserveFlag := flags.Lookup("preserve-names")
	require.NotNil(t, preserveFlag)
	assert.Equal(t, "true", preserveFlag.DefValue)

	require.NotNil(t, flags.Lookup("app-name"))
	require.NotNil(t, flags.Lookup("stage"))
	require.NotNil(t, flags.Lookup("no-color"))
}

func TestRootCmd_FlagTypes(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	assert.Equal(t, "string", flags.Lookup("config").Value.Type())
	assert.Equal(t, "string", flags.Lookup("app-name").Value.Type())
	assert.Equal(t, "bool", flags.Lookup("adopt").Value.Type())
	assert.Equal(t, "bool", flags.Lookup("no-color").Value.Type())
}

func TestRootCmd_Help(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--help"})

	err := rootCmd.Execute()
	assert.NoError(t, err)

	helpOutput := buf.String()
	assert.Contains(t, helpOutput, "alchemy-migrator")
	assert.Contains(t, helpOutput, "Available Commands:")
	assert.Contains(t, helpOutput, "migrate")
	assert.Contains(t, helpOutput, "validate")
	assert.Contains(t, helpOutput, "--config")
	assert.Contains(t, helpOutput, "--env")
}

func TestRootCmd_NoArgs(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{})

	err := rootCmd.Execute()
	assert.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "alchemy-migrator")
	assert.Contains(t, output, "Available Commands:")
}

func TestRootCmd_InvalidFlag(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--invalid-flag"})

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(buf.String()), "unknown flag")
}

func TestRootCmd_Subcommands(t *testing.T) {
	commands := rootCmd.Commands()

	commandNames := make([]string, len(commands))
	for i, cmd := range commands {
		commandNames[i] = cmd.Name()
	}

	assert.Contains(t, commandNames, "migrate")
	assert.Contains(t, commandNames, "validate")
	assert.Contains(t, commandNames, "version")
}
