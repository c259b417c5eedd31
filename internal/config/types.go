/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package config defines the resolved, format-independent worker
// configuration types consumed by the pipeline, and the provider interface
// that supplies them.
package config

import (
	"context"
)

// Provider supplies resolved worker configurations from some source
// (typically wrangler files on disk, possibly discovered via a project file).
type Provider interface {
	// LoadUnits returns all configured worker units, in a fixed
	// caller-determined order. The pipeline's cross-unit dedup semantics
	// depend on this order being stable.
	LoadUnits(ctx context.Context) ([]*WorkerConfig, error)

	// ListEnvironments returns the named environment overrides declared
	// across all units.
	ListEnvironments() ([]string, error)

	// Options returns the pipeline options the source configures, before
	// CLI flags are layered on top.
	Options() (Options, error)

	// Validate checks the source configuration for consistency.
	Validate() error
}

// Options are the pipeline knobs passed through from the CLI layer.
type Options struct {
	// AppName prefixes synthesized resource display names.
	AppName string

	// Stage suffixes synthesized resource display names when set.
	Stage string

	// Adopt binds generated resources to pre-existing infrastructure
	// instead of creating new. Non-adoptable resource types ignore it.
	Adopt bool

	// PreserveNames keeps the user's original name as the display name for
	// resources declared with an explicit platform identifier.
	PreserveNames bool

	// TargetEnvironment selects a named environment override to resolve
	// before normalization. Empty means the unmodified base unit.
	TargetEnvironment string
}

// DefaultOptions returns the default pipeline options.
func DefaultOptions() Options {
	return Options{
		Adopt:         true,
		PreserveNames: true,
	}
}

// WorkerConfig is one schema-validated configuration unit (one worker),
// either a base unit or the result of resolving a named environment override.
type WorkerConfig struct {
	Name               string
	Main               string
	CompatibilityDate  string
	CompatibilityFlags []string

	Routes   []Route
	Triggers []string

	Vars map[string]any

	KVNamespaces            []KVNamespaceDecl
	R2Buckets               []R2BucketDecl
	D1Databases             []D1DatabaseDecl
	QueueProducers          []QueueProducerDecl
	QueueConsumers          []QueueConsumerDecl
	DurableObjects          []DurableObjectDecl
	Services                []ServiceDecl
	Hyperdrive              []HyperdriveDecl
	Vectorize               []VectorizeDecl
	AI                      *AIDecl
	Browser                 *BrowserDecl
	AnalyticsEngineDatasets []AnalyticsEngineDecl
	DispatchNamespaces      []DispatchNamespaceDecl

	// Env holds named environment overrides. Nil after environment
	// resolution.
	Env map[string]*EnvOverride
}

// Route maps a URL pattern to this worker.
type Route struct {
	Pattern  string
	ZoneName string
}

// KVNamespaceDecl declares a KV namespace binding.
type KVNamespaceDecl struct {
	Binding   string
	ID        string
	PreviewID string
}

// R2BucketDecl declares an R2 bucket binding.
type R2BucketDecl struct {
	Binding      string
	BucketName   string
	Jurisdiction string
}

// D1DatabaseDecl declares a D1 database binding.
type D1DatabaseDecl struct {
	Binding      string
	DatabaseName string
	DatabaseID   string
}

// QueueProducerDecl declares a queue producer binding.
type QueueProducerDecl struct {
	Binding string
	Queue   string
}

// QueueConsumerDecl attaches this worker as a consumer of a queue.
type QueueConsumerDecl struct {
	Queue           string
	MaxBatchSize    int
	MaxRetries      int
	DeadLetterQueue string
}

// DurableObjectDecl declares a durable object class binding.
type DurableObjectDecl struct {
	Name       string
	ClassName  string
	ScriptName string
}

// ServiceDecl declares a binding to another deployed worker.
type ServiceDecl struct {
	Binding     string
	Service     string
	Environment string
}

// HyperdriveDecl declares a Hyperdrive connection binding.
type HyperdriveDecl struct {
	Binding string
	ID      string
}

// VectorizeDecl declares a Vectorize index binding.
type VectorizeDecl struct {
	Binding   string
	IndexName string
}

// AIDecl declares the Workers AI binding.
type AIDecl struct {
	Binding string
}

// BrowserDecl declares the browser rendering binding.
type BrowserDecl struct {
	Binding string
}

// AnalyticsEngineDecl declares an Analytics Engine dataset binding.
type AnalyticsEngineDecl struct {
	Binding string
	Dataset string
}

// DispatchNamespaceDecl declares a dispatch namespace binding.
type DispatchNamespaceDecl struct {
	Binding   string
	Namespace string
}

// EnvOverride is a partial WorkerConfig for one named environment. Absence is
// encoded as the zero value: empty string for scalars, nil for lists and
// maps. A present (non-nil) list replaces the base list wholesale; vars are
// shallow-merged with override keys winning.
type EnvOverride struct {
	Name               string
	Main               string
	CompatibilityDate  string
	CompatibilityFlags []string

	Routes   []Route
	Triggers []string

	Vars map[string]any

	KVNamespaces            []KVNamespaceDecl
	R2Buckets               []R2BucketDecl
	D1Databases             []D1DatabaseDecl
	QueueProducers          []QueueProducerDecl
	QueueConsumers          []QueueConsumerDecl
	DurableObjects          []DurableObjectDecl
	Services                []ServiceDecl
	Hyperdrive              []HyperdriveDecl
	Vectorize               []VectorizeDecl
	AI                      *AIDecl
	Browser                 *BrowserDecl
	AnalyticsEngineDatasets []AnalyticsEngineDecl
	DispatchNamespaces      []DispatchNamespaceDecl
}
