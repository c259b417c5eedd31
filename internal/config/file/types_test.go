/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package file

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRouteValue_UnmarshalJSON(t *testing.T) {
	var rv routeValue
	require.NoError(t, json.Unmarshal([]byte(`"example.com/*"`), &rv))
	assert.Equal(t, "example.com/*", rv.Pattern)
	assert.Empty(t, rv.ZoneName)

	rv = routeValue{}
	require.NoError(t, json.Unmarshal([]byte(`{"pattern": "a/*", "zone_name": "a.com"}`), &rv))
	assert.Equal(t, "a/*", rv.Pattern)
	assert.Equal(t, "a.com", rv.ZoneName)

	err := json.Unmarshal([]byte(`{"zone_name": "a.com"}`), &rv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must have a pattern")
}

func TestRouteValue_UnmarshalTOML(t *testing.T) {
	var rv routeValue
	require.NoError(t, rv.UnmarshalTOML("example.com/*"))
	assert.Equal(t, "example.com/*", rv.Pattern)

	rv = routeValue{}
	require.NoError(t, rv.UnmarshalTOML(map[string]any{"pattern": "a/*", "zone_name": "a.com"}))
	assert.Equal(t, "a/*", rv.Pattern)
	assert.Equal(t, "a.com", rv.ZoneName)

	rv = routeValue{}
	assert.Error(t, rv.UnmarshalTOML(map[string]any{"zone_name": "a.com"}))
	assert.Error(t, rv.UnmarshalTOML(42))
}

func TestProjectConfig_UnmarshalYAML(t *testing.T) {
	var pf projectFile
	require.NoError(t, yaml.Unmarshal([]byte(`
configs:
  - api.toml
  - path: worker/wrangler.toml
`), &pf))
	require.Len(t, pf.Configs, 2)
	assert.Equal(t, "api.toml", pf.Configs[0].Path)
	assert.Equal(t, "worker/wrangler.toml", pf.Configs[1].Path)

	err := yaml.Unmarshal([]byte("configs:\n  - {}\n"), &pf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must have a path")
}
