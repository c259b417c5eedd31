/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/nbbaier/alchemy-migrator/internal/config"
	"github.com/nbbaier/alchemy-migrator/internal/model"
	"github.com/nbbaier/alchemy-migrator/internal/registry"
)

// NormalizeOptions control naming and adoption during normalization.
type NormalizeOptions struct {
	AppName       string
	Stage         string
	Adopt         bool
	PreserveNames bool

	// Environment names the override that produced this unit, for
	// diagnostics. Empty for the base unit.
	Environment string
}

// resourceDecl is one resource declaration with its derived identity. The
// declaration walk assigns keys in one place so that the normalizer and the
// binding resolver can never drift apart on key derivation.
type resourceDecl struct {
	Type        model.ResourceType
	BindingName string

	// LocalID and Key are derived via model.LocalID/model.MakeKey, with
	// per-type ordinals counted across the unit.
	LocalID string
	Key     model.Key

	// PlatformID is the explicit platform identifier the user declared,
	// empty when the resource has none.
	PlatformID string

	Properties map[string]any

	// SkipReason is non-empty when a required sub-field is missing; the
	// normalizer warns and skips such items instead of aborting the unit.
	SkipReason string
}

// declarations walks every resource-category section of the unit in a fixed
// category order and returns one entry per declared item, identity already
// assigned. Both the normalizer and the binding resolver consume this walk.
func declarations(unit *config.WorkerConfig) []resourceDecl {
	var decls []resourceDecl
	ordinals := make(map[model.ResourceType]int)

	add := func(rt model.ResourceType, bindingName, platformID string, props map[string]any, skip string) {
		ordinals[rt]++
		localID := model.LocalID(rt, bindingName, ordinals[rt])
		decls = append(decls, resourceDecl{
			Type:        rt,
			BindingName: bindingName,
			LocalID:     localID,
			Key:         model.MakeKey(rt, localID),
			PlatformID:  platformID,
			Properties:  props,
			SkipReason:  skip,
		})
	}

	for _, d := range unit.KVNamespaces {
		skip := requireField(d.Binding, "kv namespace", "binding")
		add(model.KVNamespace, d.Binding, d.ID,
			props("id", d.ID, "previewId", d.PreviewID), skip)
	}
	for _, d := range unit.R2Buckets {
		skip := requireField(d.Binding, "r2 bucket", "binding")
		add(model.R2Bucket, d.Binding, d.BucketName,
			props("bucketName", d.BucketName, "jurisdiction", d.Jurisdiction), skip)
	}
	for _, d := range unit.D1Databases {
		skip := requireField(d.Binding, "d1 database", "binding")
		if skip == "" && d.DatabaseName == "" && d.DatabaseID == "" {
			skip = fmt.Sprintf("d1 database %q has no database name or id", d.Binding)
		}
		platformID := d.DatabaseID
		if platformID == "" {
			platformID = d.DatabaseName
		}
		add(model.D1Database, d.Binding, platformID,
			props("databaseName", d.DatabaseName, "databaseId", d.DatabaseID), skip)
	}
	for _, d := range unit.QueueProducers {
		skip := requireField(d.Binding, "queue producer", "binding")
		if skip == "" && d.Queue == "" {
			skip = fmt.Sprintf("queue producer %q has no queue name", d.Binding)
		}
		add(model.Queue, d.Binding, d.Queue, props("queueName", d.Queue), skip)
	}
	for _, d := range unit.DurableObjects {
		skip := requireField(d.Name, "durable object", "name")
		if skip == "" && d.ClassName == "" {
			skip = fmt.Sprintf("durable object %q has no class name", d.Name)
		}
		add(model.DurableObject, d.Name, "",
			props("className", d.ClassName, "scriptName", d.ScriptName), skip)
	}
	for _, d := range unit.Services {
		skip := requireField(d.Binding, "service binding", "binding")
		if skip == "" && d.Service == "" {
			skip = fmt.Sprintf("service binding %q has no target service", d.Binding)
		}
		add(model.Service, d.Binding, d.Service,
			props("service", d.Service, "environment", d.Environment), skip)
	}
	for _, d := range unit.Hyperdrive {
		skip := requireField(d.Binding, "hyperdrive", "binding")
		add(model.Hyperdrive, d.Binding, d.ID, props("id", d.ID), skip)
	}
	for _, d := range unit.Vectorize {
		skip := requireField(d.Binding, "vectorize index", "binding")
		if skip == "" && d.IndexName == "" {
			skip = fmt.Sprintf("vectorize index %q has no index name", d.Binding)
		}
		add(model.VectorizeIndex, d.Binding, d.IndexName,
			props("indexName", d.IndexName), skip)
	}
	if unit.AI != nil {
		skip := requireField(unit.AI.Binding, "ai", "binding")
		add(model.AI, unit.AI.Binding, "", map[string]any{}, skip)
	}
	if unit.Browser != nil {
		skip := requireField(unit.Browser.Binding, "browser", "binding")
		add(model.Browser, unit.Browser.Binding, "", map[string]any{}, skip)
	}
	for _, d := range unit.AnalyticsEngineDatasets {
		skip := requireField(d.Binding, "analytics engine dataset", "binding")
		add(model.AnalyticsEngine, d.Binding, d.Dataset, props("dataset", d.Dataset), skip)
	}
	for _, d := range unit.DispatchNamespaces {
		skip := requireField(d.Binding, "dispatch namespace", "binding")
		if skip == "" && d.Namespace == "" {
			skip = fmt.Sprintf("dispatch namespace %q has no namespace", d.Binding)
		}
		add(model.DispatchNamespace, d.Binding, d.Namespace,
			props("namespace", d.Namespace), skip)
	}

	return decls
}

// NormalizeResources walks the unit's resource declarations and registers
// each into the shared registry, deduplicating by key across units
// (first-writer-wins). It returns the unit's resources — including entries
// shared from earlier units — and any item-level warnings. A malformed item
// is skipped with a warning; it never aborts the unit.
func NormalizeResources(unit *config.WorkerConfig, reg *registry.Registry, opts NormalizeOptions) ([]*model.NormalizedResource, []string) {
	var resources []*model.NormalizedResource
	var warnings []string

	for _, decl := range declarations(unit) {
		if decl.SkipReason != "" {
			warnings = append(warnings, fmt.Sprintf("worker %q: %s, skipping", unit.Name, decl.SkipReason))
			continue
		}

		shared := reg.Has(decl.Key)
		entry := reg.GetOrInsert(decl.Key, func() *model.NormalizedResource {
			return buildResource(decl, reg, opts)
		})
		if shared && !reflect.DeepEqual(entry.Properties, decl.Properties) {
			warnings = append(warnings, fmt.Sprintf(
				"worker %q: %s %q redeclares %s with different properties; keeping the first declaration",
				unit.Name, decl.Type, decl.BindingName, decl.Key))
		}
		resources = append(resources, entry)
	}

	// Queue consumers need a queue object to attach to; register their
	// target queue under its own name so a consumer-only unit still
	// produces one.
	for _, c := range unit.QueueConsumers {
		if c.Queue == "" {
			warnings = append(warnings, fmt.Sprintf("worker %q: queue consumer has no queue name, skipping", unit.Name))
			continue
		}
		key := model.MakeKey(model.Queue, c.Queue)
		entry := reg.GetOrInsert(key, func() *model.NormalizedResource {
			return buildConsumerQueue(c.Queue, key, reg, opts)
		})
		resources = append(resources, entry)
	}

	return resources, warnings
}

// buildResource constructs the registry entry for a declaration.
func buildResource(decl resourceDecl, reg *registry.Registry, opts NormalizeOptions) *model.NormalizedResource {
	displayName := decl.BindingName
	if !opts.PreserveNames || decl.PlatformID == "" {
		displayName = synthesizeName(opts.AppName, decl.LocalID, opts.Stage)
	}

	// The deduped variable name doubles as the constructor id, so ids stay
	// unique when a kv and an r2 bucket share a local id.
	variable := uniqueVariableName(reg, decl.LocalID)

	return &model.NormalizedResource{
		Key:               decl.Key,
		Type:              decl.Type,
		GeneratedID:       variable,
		DisplayName:       displayName,
		VariableName:      variable,
		AdoptExisting:     opts.Adopt && decl.Type.Adoptable(),
		Properties:        decl.Properties,
		SourceEnvironment: opts.Environment,
	}
}

// buildConsumerQueue constructs a queue entry keyed by the queue's own name.
func buildConsumerQueue(queueName string, key model.Key, reg *registry.Registry, opts NormalizeOptions) *model.NormalizedResource {
	localID := key.LocalID()
	displayName := queueName
	if !opts.PreserveNames {
		displayName = synthesizeName(opts.AppName, localID, opts.Stage)
	}
	variable := uniqueVariableName(reg, localID)

	return &model.NormalizedResource{
		Key:               key,
		Type:              model.Queue,
		GeneratedID:       variable,
		DisplayName:       displayName,
		VariableName:      variable,
		AdoptExisting:     opts.Adopt,
		Properties:        map[string]any{"queueName": queueName},
		SourceEnvironment: opts.Environment,
	}
}

// synthesizeName joins the non-empty parts of <appName>-<localId>[-<stage>].
func synthesizeName(appName, localID, stage string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{appName, localID, stage} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}

// uniqueVariableName keeps generated identifiers unique across the run:
// resources of different types can normalize to the same local id (a kv and
// an r2 bucket both named "CACHE"), and generated code cannot declare the
// same identifier twice.
func uniqueVariableName(reg *registry.Registry, candidate string) string {
	used := make(map[string]bool, reg.Len())
	for _, entry := range reg.Entries() {
		used[entry.VariableName] = true
	}
	if !used[candidate] {
		return candidate
	}
	for i := 2; ; i++ {
		next := candidate + strconv.Itoa(i)
		if !used[next] {
			return next
		}
	}
}

// props builds a property map from alternating key/value pairs, dropping
// empty values.
func props(pairs ...string) map[string]any {
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			out[pairs[i]] = pairs[i+1]
		}
	}
	return out
}

// requireField builds a skip reason when a required field is empty.
func requireField(value, category, field string) string {
	if value != "" {
		return ""
	}
	return fmt.Sprintf("%s declaration has no %s", category, field)
}
