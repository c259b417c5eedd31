/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeployableUnit_Binding(t *testing.T) {
	unit := &DeployableUnit{
		ID: "api",
		Bindings: []Binding{
			{Name: "SESSIONS", Kind: BindingResource, Key: MakeKey(KVNamespace, "SESSIONS")},
			{Name: "DEBUG", Kind: BindingText, Text: "true"},
		},
	}

	b, ok := unit.Binding("SESSIONS")
	assert.True(t, ok)
	assert.Equal(t, BindingResource, b.Kind)
	assert.Equal(t, Key("kv:sessions"), b.Key)

	_, ok = unit.Binding("MISSING")
	assert.False(t, ok)
}
