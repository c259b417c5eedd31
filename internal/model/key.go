/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package model defines the resolved data model produced by the migration
// pipeline: resource keys, normalized resources, bindings, and deployable
// units. It has no dependencies and performs no I/O.
package model

import (
	"strconv"
	"strings"
)

// ResourceType identifies a category of provisionable Cloudflare resource.
type ResourceType string

const (
	KVNamespace       ResourceType = "kv-namespace"
	R2Bucket          ResourceType = "r2-bucket"
	D1Database        ResourceType = "d1-database"
	Queue             ResourceType = "queue"
	DurableObject     ResourceType = "durable-object"
	Service           ResourceType = "service"
	Hyperdrive        ResourceType = "hyperdrive"
	VectorizeIndex    ResourceType = "vectorize-index"
	AI                ResourceType = "ai"
	Browser           ResourceType = "browser"
	AnalyticsEngine   ResourceType = "analytics-engine"
	DispatchNamespace ResourceType = "dispatch-namespace"
)

// KeySeparator separates the type code from the local identifier in a Key.
const KeySeparator = ":"

// typeTraits holds the per-type facts the pipeline needs. Codes are assigned
// explicitly here rather than derived from the type name, so that no future
// category can collide with an existing one by accident. Codes must never
// contain the key separator.
type typeTraits struct {
	// Code is the key prefix for this type.
	Code string
	// ShortName is the base identifier used when a binding name is too
	// generic to serve as a variable name.
	ShortName string
	// Adoptable is false for code-colocated or platform-managed constructs
	// that can never bind to independently provisioned infrastructure.
	Adoptable bool
}

var traits = map[ResourceType]typeTraits{
	KVNamespace:       {Code: "kv", ShortName: "kv", Adoptable: true},
	R2Bucket:          {Code: "r2", ShortName: "r2", Adoptable: true},
	D1Database:        {Code: "d1", ShortName: "d1", Adoptable: true},
	Queue:             {Code: "queue", ShortName: "queue", Adoptable: true},
	DurableObject:     {Code: "do", ShortName: "do", Adoptable: false},
	Service:           {Code: "service", ShortName: "service", Adoptable: true},
	Hyperdrive:        {Code: "hyperdrive", ShortName: "hyperdrive", Adoptable: true},
	VectorizeIndex:    {Code: "vectorize", ShortName: "vectorize", Adoptable: true},
	AI:                {Code: "ai", ShortName: "ai", Adoptable: false},
	Browser:           {Code: "browser", ShortName: "browser", Adoptable: false},
	AnalyticsEngine:   {Code: "ae", ShortName: "ae", Adoptable: true},
	DispatchNamespace: {Code: "dispatch", ShortName: "dispatch", Adoptable: true},
}

// codeToType is the reverse of the traits table, for parsing keys.
var codeToType = func() map[string]ResourceType {
	m := make(map[string]ResourceType, len(traits))
	for rt, t := range traits {
		m[t.Code] = rt
	}
	return m
}()

// AllResourceTypes returns every known resource type in a fixed, stable order.
func AllResourceTypes() []ResourceType {
	return []ResourceType{
		KVNamespace, R2Bucket, D1Database, Queue, DurableObject, Service,
		Hyperdrive, VectorizeIndex, AI, Browser, AnalyticsEngine, DispatchNamespace,
	}
}

// ShortName returns the generic identifier base for this resource type.
func (rt ResourceType) ShortName() string {
	return traits[rt].ShortName
}

// Adoptable reports whether resources of this type may bind to pre-existing
// physical infrastructure.
func (rt ResourceType) Adoptable() bool {
	return traits[rt].Adoptable
}

// Key is the stable identity of a normalized resource, of the form
// "<code>:<localId>". Equal (type, localId) pairs always produce equal keys.
type Key string

// MakeKey builds the key for a resource type and a user-supplied local name.
// The name is normalized (lowercased, every character outside [a-z0-9_]
// replaced with '_'), so any casing or punctuation variant that normalizes
// identically yields the same key. MakeKey is pure and idempotent; it never
// rejects input — emptiness validation is the normalizer's job.
func MakeKey(rt ResourceType, rawLocalName string) Key {
	return Key(traits[rt].Code + KeySeparator + NormalizeName(rawLocalName))
}

// Type returns the resource type encoded in the key.
func (k Key) Type() (ResourceType, bool) {
	code, _, found := strings.Cut(string(k), KeySeparator)
	if !found {
		return "", false
	}
	rt, ok := codeToType[code]
	return rt, ok
}

// LocalID returns the local identifier portion of the key.
func (k Key) LocalID() string {
	_, local, _ := strings.Cut(string(k), KeySeparator)
	return local
}

// NormalizeName lowercases a user-supplied name and replaces every character
// outside [a-z0-9_] with '_'.
func NormalizeName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// LocalID derives the local identifier for the ordinal-th declaration
// (1-based) of the given resource type within one configuration unit. A name
// that normalizes to something non-generic is used as-is; an empty name, the
// literal word "binding", or the type's own short name falls back to
// "<shortName><ordinal>", with no suffix for the first occurrence. This keeps
// generated identifiers legal when users name several resources "KV" or
// "BINDING".
func LocalID(rt ResourceType, rawName string, ordinal int) string {
	id := NormalizeName(rawName)
	if id != "" && id != "binding" && id != traits[rt].ShortName {
		return id
	}
	if ordinal <= 1 {
		return traits[rt].ShortName
	}
	return traits[rt].ShortName + strconv.Itoa(ordinal)
}
