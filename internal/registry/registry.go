/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package registry provides the shared resource registry for one pipeline
// run. It is the only mutable state in the pipeline and is what lets several
// configuration units converge on a single entry for "the same" resource.
package registry

import (
	"github.com/nbbaier/alchemy-migrator/internal/model"
)

// Registry is an insertion-ordered store of normalized resources, exactly one
// entry per key. It must not be shared across independent pipeline runs.
type Registry struct {
	entries map[model.Key]*model.NormalizedResource
	order   []model.Key
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[model.Key]*model.NormalizedResource),
	}
}

// Has reports whether an entry exists for the key.
func (r *Registry) Has(key model.Key) bool {
	_, ok := r.entries[key]
	return ok
}

// Get returns the entry for the key, or nil when absent.
func (r *Registry) Get(key model.Key) *model.NormalizedResource {
	return r.entries[key]
}

// GetOrInsert returns the existing entry for the key unchanged, without
// invoking factory. Otherwise it invokes factory, inserts the result
// preserving insertion order, and returns it.
//
// This is the first-writer-wins dedup point: when two units declare a
// resource that maps to the same key, whichever unit is processed first
// determines the stored properties and adoption flag; later declarations fold
// into the existing entry untouched.
func (r *Registry) GetOrInsert(key model.Key, factory func() *model.NormalizedResource) *model.NormalizedResource {
	if existing, ok := r.entries[key]; ok {
		return existing
	}
	entry := factory()
	r.entries[key] = entry
	r.order = append(r.order, key)
	return entry
}

// Entries returns all entries in insertion order. The slice is freshly
// allocated on each call; repeated traversals yield identical order.
func (r *Registry) Entries() []*model.NormalizedResource {
	out := make([]*model.NormalizedResource, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key])
	}
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.order)
}
