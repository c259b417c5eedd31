/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeKey_Idempotent(t *testing.T) {
	// Equal inputs always produce equal keys
	assert.Equal(t, MakeKey(KVNamespace, "CACHE"), MakeKey(KVNamespace, "CACHE"))
	assert.Equal(t, MakeKey(Queue, "jobs"), MakeKey(Queue, "jobs"))
}

func TestMakeKey_NormalizationVariants(t *testing.T) {
	// Casing and punctuation variants that normalize identically yield the
	// same key
	assert.Equal(t, MakeKey(KVNamespace, "My-Cache"), MakeKey(KVNamespace, "my_cache"))
	assert.Equal(t, MakeKey(KVNamespace, "MY CACHE"), MakeKey(KVNamespace, "my.cache"))
	assert.Equal(t, Key("kv:my_cache"), MakeKey(KVNamespace, "My-Cache"))
}

func TestMakeKey_DifferentTypesNeverCollide(t *testing.T) {
	assert.NotEqual(t, MakeKey(KVNamespace, "cache"), MakeKey(R2Bucket, "cache"))
}

func TestMakeKey_EmptyNamePermitted(t *testing.T) {
	// Emptiness validation is the normalizer's job, not the key scheme's
	key := MakeKey(D1Database, "")
	assert.Equal(t, Key("d1:"), key)

	rt, ok := key.Type()
	assert.True(t, ok)
	assert.Equal(t, D1Database, rt)
}

func TestKey_Type(t *testing.T) {
	for _, rt := range AllResourceTypes() {
		key := MakeKey(rt, "thing")
		parsed, ok := key.Type()
		assert.True(t, ok, "key %s should parse", key)
		assert.Equal(t, rt, parsed)
	}
}

func TestKey_LocalID(t *testing.T) {
	assert.Equal(t, "sessions", MakeKey(KVNamespace, "SESSIONS").LocalID())
}

func TestKeyCodes_Unambiguous(t *testing.T) {
	// Every code must be distinct and free of the separator, so a key
	// always maps back to exactly one resource type
	seen := make(map[string]ResourceType)
	for _, rt := range AllResourceTypes() {
		code := strings.SplitN(string(MakeKey(rt, "x")), KeySeparator, 2)[0]
		assert.NotContains(t, code, KeySeparator)
		prev, dup := seen[code]
		assert.False(t, dup, "code %q used by both %s and %s", code, prev, rt)
		seen[code] = rt
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SESSIONS", "sessions"},
		{"My-Cache", "my_cache"},
		{"a.b c", "a_b_c"},
		{"under_score", "under_score"},
		{"", ""},
		{"123", "123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "input %q", tt.in)
	}
}

func TestLocalID_MeaningfulNameUsedAsIs(t *testing.T) {
	assert.Equal(t, "sessions", LocalID(KVNamespace, "SESSIONS", 1))
	assert.Equal(t, "sessions", LocalID(KVNamespace, "SESSIONS", 3))
}

func TestLocalID_GenericNameFallsBack(t *testing.T) {
	// The type's own short name and the literal word "binding" are too
	// generic to serve as identifiers
	assert.Equal(t, "kv", LocalID(KVNamespace, "KV", 1))
	assert.Equal(t, "kv2", LocalID(KVNamespace, "KV", 2))
	assert.Equal(t, "queue", LocalID(Queue, "BINDING", 1))
	assert.Equal(t, "queue3", LocalID(Queue, "BINDING", 3))
	assert.Equal(t, "d1", LocalID(D1Database, "", 1))
	assert.Equal(t, "d12", LocalID(D1Database, "", 2))
}

func TestAdoptable_StaticRuleTable(t *testing.T) {
	// Code-colocated and platform-managed constructs are never adoptable
	assert.False(t, DurableObject.Adoptable())
	assert.False(t, AI.Adoptable())
	assert.False(t, Browser.Adoptable())

	assert.True(t, KVNamespace.Adoptable())
	assert.True(t, R2Bucket.Adoptable())
	assert.True(t, D1Database.Adoptable())
	assert.True(t, Queue.Adoptable())
}
