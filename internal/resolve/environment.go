/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package resolve implements the migration pipeline: environment resolution,
// resource normalization, binding resolution, and the orchestrator that
// drives them across configuration units.
package resolve

import (
	"fmt"

	"github.com/nbbaier/alchemy-migrator/internal/config"
)

// ResolveDefault returns the base unit unchanged for the no-environment
// case.
func ResolveDefault(base *config.WorkerConfig) *config.WorkerConfig {
	return base
}

// ResolveEnvironments resolves every named environment override of the base
// unit into a concrete, fully-specified unit.
func ResolveEnvironments(base *config.WorkerConfig) map[string]*config.WorkerConfig {
	resolved := make(map[string]*config.WorkerConfig, len(base.Env))
	for name, override := range base.Env {
		resolved[name] = mergeEnvironment(base, override)
	}
	return resolved
}

// ResolveEnvironment resolves one named environment override.
func ResolveEnvironment(base *config.WorkerConfig, name string) (*config.WorkerConfig, error) {
	override, ok := base.Env[name]
	if !ok {
		return nil, fmt.Errorf("environment %q not declared in worker %q", name, base.Name)
	}
	return mergeEnvironment(base, override), nil
}

// mergeEnvironment applies the environment merge policy:
//
//   - scalar fields: override replaces base when present (non-empty),
//     otherwise the base value is kept
//   - resource declaration lists: a present (non-nil) override list replaces
//     the base list wholesale — an environment is a full redefinition of
//     that resource category, not an additive patch
//   - vars: shallow-merged, override keys win, base keys survive
//
// The returned unit shares no mutable state with the base and carries no
// environment overrides of its own.
func mergeEnvironment(base *config.WorkerConfig, override *config.EnvOverride) *config.WorkerConfig {
	out := &config.WorkerConfig{
		Name:               scalarOr(override.Name, base.Name),
		Main:               scalarOr(override.Main, base.Main),
		CompatibilityDate:  scalarOr(override.CompatibilityDate, base.CompatibilityDate),
		CompatibilityFlags: listOr(override.CompatibilityFlags, base.CompatibilityFlags),

		Routes:   listOr(override.Routes, base.Routes),
		Triggers: listOr(override.Triggers, base.Triggers),

		Vars: mergeVars(base.Vars, override.Vars),

		KVNamespaces:            listOr(override.KVNamespaces, base.KVNamespaces),
		R2Buckets:               listOr(override.R2Buckets, base.R2Buckets),
		D1Databases:             listOr(override.D1Databases, base.D1Databases),
		QueueProducers:          listOr(override.QueueProducers, base.QueueProducers),
		QueueConsumers:          listOr(override.QueueConsumers, base.QueueConsumers),
		DurableObjects:          listOr(override.DurableObjects, base.DurableObjects),
		Services:                listOr(override.Services, base.Services),
		Hyperdrive:              listOr(override.Hyperdrive, base.Hyperdrive),
		Vectorize:               listOr(override.Vectorize, base.Vectorize),
		AnalyticsEngineDatasets: listOr(override.AnalyticsEngineDatasets, base.AnalyticsEngineDatasets),
		DispatchNamespaces:      listOr(override.DispatchNamespaces, base.DispatchNamespaces),
	}

	out.AI = base.AI
	if override.AI != nil {
		out.AI = override.AI
	}
	out.Browser = base.Browser
	if override.Browser != nil {
		out.Browser = override.Browser
	}

	return out
}

func scalarOr(override, base string) string {
	if override != "" {
		return override
	}
	return base
}

// listOr replaces the whole list when the override declares one, copying to
// avoid shared backing arrays.
func listOr[T any](override, base []T) []T {
	src := base
	if override != nil {
		src = override
	}
	if src == nil {
		return nil
	}
	out := make([]T, len(src))
	copy(out, src)
	return out
}

// mergeVars shallow-merges vars: override keys win, base keys not present in
// the override survive.
func mergeVars(base, override map[string]any) map[string]any {
	if base == nil && override == nil {
		return nil
	}
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
