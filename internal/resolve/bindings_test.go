/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbbaier/alchemy-migrator/internal/config"
	"github.com/nbbaier/alchemy-migrator/internal/model"
	"github.com/nbbaier/alchemy-migrator/internal/registry"
)

func TestIsSecretName(t *testing.T) {
	secret := []string{
		"API_KEY", "api-key", "APIKEY", "AUTH_TOKEN", "SECRET",
		"DB_PASSWORD", "PRIVATE_KEY", "OAUTH_CREDENTIAL", "token",
	}
	for _, name := range secret {
		assert.True(t, IsSecretName(name), "%q should be a secret", name)
	}

	plain := []string{"API_URL", "DEBUG", "LOG_LEVEL", "REGION", "BASE_PATH"}
	for _, name := range plain {
		assert.False(t, IsSecretName(name), "%q should not be a secret", name)
	}

	// Over-flagging is the accepted trade-off for names containing a
	// credential-ish substring
	assert.True(t, IsSecretName("AUTHOR"))
	assert.True(t, IsSecretName("TOKENIZER_CONFIG"))
}

func TestResolveBindings_ResourceBindings(t *testing.T) {
	reg := registry.New()
	unit := &config.WorkerConfig{
		Name: "api",
		KVNamespaces: []config.KVNamespaceDecl{
			{Binding: "SESSIONS", ID: "abc123"},
		},
		QueueProducers: []config.QueueProducerDecl{
			{Binding: "JOBS", Queue: "jobs"},
		},
	}
	NormalizeResources(unit, reg, defaultNormalizeOptions())

	resolved := ResolveBindings(unit, reg)
	require.Len(t, resolved.Bindings, 2)

	assert.Equal(t, "SESSIONS", resolved.Bindings[0].Name)
	assert.Equal(t, model.BindingResource, resolved.Bindings[0].Kind)
	assert.Equal(t, model.Key("kv:sessions"), resolved.Bindings[0].Key)

	assert.Equal(t, "JOBS", resolved.Bindings[1].Name)
	assert.Equal(t, model.Key("queue:jobs"), resolved.Bindings[1].Key)
}

func TestResolveBindings_UnregisteredResourceOmitted(t *testing.T) {
	// An empty registry means no resource binding can resolve; the
	// cross-reference validator owns surfacing that, not this step
	reg := registry.New()
	unit := &config.WorkerConfig{
		Name: "api",
		KVNamespaces: []config.KVNamespaceDecl{
			{Binding: "SESSIONS", ID: "abc123"},
		},
	}

	resolved := ResolveBindings(unit, reg)
	assert.Empty(t, resolved.Bindings)
}

func TestResolveBindings_VarsClassified(t *testing.T) {
	reg := registry.New()
	unit := &config.WorkerConfig{
		Name: "api",
		Vars: map[string]any{
			"DEBUG":      "true",
			"AUTH_TOKEN": "xyz",
			"MAX_ITEMS":  50,
			"FEATURES":   map[string]any{"beta": true},
		},
	}

	resolved := ResolveBindings(unit, reg)
	require.Len(t, resolved.Bindings, 4)

	// Plain variables come out in sorted name order
	names := make([]string, 0, len(resolved.Bindings))
	for _, b := range resolved.Bindings {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"AUTH_TOKEN", "DEBUG", "FEATURES", "MAX_ITEMS"}, names)

	auth := resolved.Bindings[0]
	assert.Equal(t, model.BindingSecret, auth.Kind)
	assert.Equal(t, "AUTH_TOKEN", auth.EnvVar)

	debug := resolved.Bindings[1]
	assert.Equal(t, model.BindingText, debug.Kind)
	assert.Equal(t, "true", debug.Text)

	features := resolved.Bindings[2]
	assert.Equal(t, model.BindingJSON, features.Kind)
	assert.Equal(t, map[string]any{"beta": true}, features.Value)

	maxItems := resolved.Bindings[3]
	assert.Equal(t, model.BindingJSON, maxItems.Kind)
	assert.Equal(t, 50, maxItems.Value)

	assert.Equal(t, []string{"AUTH_TOKEN"}, resolved.SecretNames)
}

func TestResolveBindings_SecretValueNeverInlined(t *testing.T) {
	reg := registry.New()
	unit := &config.WorkerConfig{
		Name: "api",
		Vars: map[string]any{"API_KEY": "super-sensitive"},
	}

	resolved := ResolveBindings(unit, reg)
	require.Len(t, resolved.Bindings, 1)

	b := resolved.Bindings[0]
	assert.Equal(t, model.BindingSecret, b.Kind)
	assert.Empty(t, b.Text)
	assert.Nil(t, b.Value)
}

func TestResolveBindings_ResourceBindingsPrecedeVars(t *testing.T) {
	reg := registry.New()
	unit := &config.WorkerConfig{
		Name: "api",
		KVNamespaces: []config.KVNamespaceDecl{
			{Binding: "ZCACHE", ID: "id-1"},
		},
		Vars: map[string]any{"AAA": "first-alphabetically"},
	}
	NormalizeResources(unit, reg, defaultNormalizeOptions())

	resolved := ResolveBindings(unit, reg)
	require.Len(t, resolved.Bindings, 2)
	assert.Equal(t, "ZCACHE", resolved.Bindings[0].Name)
	assert.Equal(t, "AAA", resolved.Bindings[1].Name)
}
