/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package file contains types and structures specific to file-based
// configuration providers. These types represent the raw wrangler.toml /
// wrangler.json structure before environment resolution, plus the migrator's
// own YAML project file.
package file

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nbbaier/alchemy-migrator/internal/config"
)

// wranglerConfig is the raw wrangler file structure. The same struct decodes
// both TOML and JSON variants of the format.
type wranglerConfig struct {
	Name               string   `toml:"name" json:"name"`
	Main               string   `toml:"main" json:"main"`
	CompatibilityDate  string   `toml:"compatibility_date" json:"compatibility_date"`
	CompatibilityFlags []string `toml:"compatibility_flags" json:"compatibility_flags"`

	// Route and Routes are mutually exclusive in practice; both are
	// accepted and folded together.
	Route  *routeValue  `toml:"route" json:"route"`
	Routes []routeValue `toml:"routes" json:"routes"`

	Triggers *wranglerTriggers `toml:"triggers" json:"triggers"`

	Vars map[string]any `toml:"vars" json:"vars"`

	KVNamespaces            []wranglerKVNamespace      `toml:"kv_namespaces" json:"kv_namespaces"`
	R2Buckets               []wranglerR2Bucket         `toml:"r2_buckets" json:"r2_buckets"`
	D1Databases             []wranglerD1Database       `toml:"d1_databases" json:"d1_databases"`
	Queues                  *wranglerQueues            `toml:"queues" json:"queues"`
	DurableObjects          *wranglerDurableObjects    `toml:"durable_objects" json:"durable_objects"`
	Services                []wranglerService          `toml:"services" json:"services"`
	Hyperdrive              []wranglerHyperdrive       `toml:"hyperdrive" json:"hyperdrive"`
	Vectorize               []wranglerVectorize        `toml:"vectorize" json:"vectorize"`
	AI                      *wranglerAI                `toml:"ai" json:"ai"`
	Browser                 *wranglerBrowser           `toml:"browser" json:"browser"`
	AnalyticsEngineDatasets []wranglerAnalyticsEngine  `toml:"analytics_engine_datasets" json:"analytics_engine_datasets"`
	DispatchNamespaces      []wranglerDispatchBinding  `toml:"dispatch_namespaces" json:"dispatch_namespaces"`
	Env                     map[string]*wranglerConfig `toml:"env" json:"env"`
}

type wranglerTriggers struct {
	Crons []string `toml:"crons" json:"crons"`
}

type wranglerKVNamespace struct {
	Binding   string `toml:"binding" json:"binding"`
	ID        string `toml:"id" json:"id"`
	PreviewID string `toml:"preview_id" json:"preview_id"`
}

type wranglerR2Bucket struct {
	Binding      string `toml:"binding" json:"binding"`
	BucketName   string `toml:"bucket_name" json:"bucket_name"`
	Jurisdiction string `toml:"jurisdiction" json:"jurisdiction"`
}

type wranglerD1Database struct {
	Binding      string `toml:"binding" json:"binding"`
	DatabaseName string `toml:"database_name" json:"database_name"`
	DatabaseID   string `toml:"database_id" json:"database_id"`
}

type wranglerQueues struct {
	Producers []wranglerQueueProducer `toml:"producers" json:"producers"`
	Consumers []wranglerQueueConsumer `toml:"consumers" json:"consumers"`
}

type wranglerQueueProducer struct {
	Binding string `toml:"binding" json:"binding"`
	Queue   string `toml:"queue" json:"queue"`
}

type wranglerQueueConsumer struct {
	Queue           string `toml:"queue" json:"queue"`
	MaxBatchSize    int    `toml:"max_batch_size" json:"max_batch_size"`
	MaxRetries      int    `toml:"max_retries" json:"max_retries"`
	DeadLetterQueue string `toml:"dead_letter_queue" json:"dead_letter_queue"`
}

type wranglerDurableObjects struct {
	Bindings []wranglerDurableObjectBinding `toml:"bindings" json:"bindings"`
}

type wranglerDurableObjectBinding struct {
	Name       string `toml:"name" json:"name"`
	ClassName  string `toml:"class_name" json:"class_name"`
	ScriptName string `toml:"script_name" json:"script_name"`
}

type wranglerService struct {
	Binding     string `toml:"binding" json:"binding"`
	Service     string `toml:"service" json:"service"`
	Environment string `toml:"environment" json:"environment"`
}

type wranglerHyperdrive struct {
	Binding string `toml:"binding" json:"binding"`
	ID      string `toml:"id" json:"id"`
}

type wranglerVectorize struct {
	Binding   string `toml:"binding" json:"binding"`
	IndexName string `toml:"index_name" json:"index_name"`
}

type wranglerAI struct {
	Binding string `toml:"binding" json:"binding"`
}

type wranglerBrowser struct {
	Binding string `toml:"binding" json:"binding"`
}

type wranglerAnalyticsEngine struct {
	Binding string `toml:"binding" json:"binding"`
	Dataset string `toml:"dataset" json:"dataset"`
}

type wranglerDispatchBinding struct {
	Binding   string `toml:"binding" json:"binding"`
	Namespace string `toml:"namespace" json:"namespace"`
}

// routeValue represents either a bare pattern string or a {pattern,
// zone_name} table. Wrangler accepts both spellings.
type routeValue struct {
	Pattern  string `json:"pattern"`
	ZoneName string `json:"zone_name"`
}

// UnmarshalTOML implements toml.Unmarshaler for routeValue.
func (rv *routeValue) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		rv.Pattern = v
		return nil
	case map[string]any:
		if p, ok := v["pattern"].(string); ok {
			rv.Pattern = p
		}
		if z, ok := v["zone_name"].(string); ok {
			rv.ZoneName = z
		}
		if rv.Pattern == "" {
			return fmt.Errorf("route table must have a pattern")
		}
		return nil
	default:
		return fmt.Errorf("route must be a string or a table, got %T", data)
	}
}

// UnmarshalJSON implements json.Unmarshaler for routeValue.
func (rv *routeValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := unmarshalJSON(data, &s); err != nil {
			return err
		}
		rv.Pattern = s
		return nil
	}
	type plain routeValue
	var p plain
	if err := unmarshalJSON(data, &p); err != nil {
		return err
	}
	if p.Pattern == "" {
		return fmt.Errorf("route object must have a pattern")
	}
	*rv = routeValue(p)
	return nil
}

// projectFile is the migrator's own YAML project file
// (alchemy-migrator.yaml): an ordered list of wrangler config paths plus
// default pipeline options for multi-unit runs.
type projectFile struct {
	App           string            `yaml:"app"`
	Stage         string            `yaml:"stage"`
	Environment   string            `yaml:"environment"`
	Adopt         *bool             `yaml:"adopt"`
	PreserveNames *bool             `yaml:"preserve_names"`
	Output        string            `yaml:"output"`
	Configs       []projectConfig   `yaml:"configs"`
	Vars          map[string]string `yaml:"vars"`
}

// projectConfig is one entry of the configs list: either a bare path string
// or a {path: ...} mapping for future per-unit settings.
type projectConfig struct {
	Path string `yaml:"path"`
}

// UnmarshalYAML implements custom YAML unmarshalling for projectConfig,
// accepting both scalar and mapping forms.
func (pc *projectConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		pc.Path = node.Value
		return nil
	case yaml.MappingNode:
		type plain projectConfig
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		if p.Path == "" {
			return fmt.Errorf("config entry must have a path")
		}
		*pc = projectConfig(p)
		return nil
	default:
		return fmt.Errorf("config entry must be a path string or a mapping")
	}
}

// toWorkerConfig converts a raw wrangler config to the resolved config type.
func (wc *wranglerConfig) toWorkerConfig() *config.WorkerConfig {
	out := &config.WorkerConfig{
		Name:               wc.Name,
		Main:               wc.Main,
		CompatibilityDate:  wc.CompatibilityDate,
		CompatibilityFlags: copySlice(wc.CompatibilityFlags),
		Routes:             wc.routes(),
		Vars:               copyAnyMap(wc.Vars),
	}
	if wc.Triggers != nil {
		out.Triggers = copySlice(wc.Triggers.Crons)
	}
	for _, d := range wc.KVNamespaces {
		out.KVNamespaces = append(out.KVNamespaces, config.KVNamespaceDecl(d))
	}
	for _, d := range wc.R2Buckets {
		out.R2Buckets = append(out.R2Buckets, config.R2BucketDecl(d))
	}
	for _, d := range wc.D1Databases {
		out.D1Databases = append(out.D1Databases, config.D1DatabaseDecl(d))
	}
	if wc.Queues != nil {
		for _, d := range wc.Queues.Producers {
			out.QueueProducers = append(out.QueueProducers, config.QueueProducerDecl(d))
		}
		for _, d := range wc.Queues.Consumers {
			out.QueueConsumers = append(out.QueueConsumers, config.QueueConsumerDecl(d))
		}
	}
	if wc.DurableObjects != nil {
		for _, d := range wc.DurableObjects.Bindings {
			out.DurableObjects = append(out.DurableObjects, config.DurableObjectDecl(d))
		}
	}
	for _, d := range wc.Services {
		out.Services = append(out.Services, config.ServiceDecl(d))
	}
	for _, d := range wc.Hyperdrive {
		out.Hyperdrive = append(out.Hyperdrive, config.HyperdriveDecl(d))
	}
	for _, d := range wc.Vectorize {
		out.Vectorize = append(out.Vectorize, config.VectorizeDecl(d))
	}
	if wc.AI != nil {
		out.AI = &config.AIDecl{Binding: wc.AI.Binding}
	}
	if wc.Browser != nil {
		out.Browser = &config.BrowserDecl{Binding: wc.Browser.Binding}
	}
	for _, d := range wc.AnalyticsEngineDatasets {
		out.AnalyticsEngineDatasets = append(out.AnalyticsEngineDatasets, config.AnalyticsEngineDecl(d))
	}
	for _, d := range wc.DispatchNamespaces {
		out.DispatchNamespaces = append(out.DispatchNamespaces, config.DispatchNamespaceDecl(d))
	}
	if len(wc.Env) > 0 {
		out.Env = make(map[string]*config.EnvOverride, len(wc.Env))
		for name, raw := range wc.Env {
			out.Env[name] = raw.toEnvOverride()
		}
	}
	return out
}

// toEnvOverride converts a raw environment section to a partial override.
// Nested env sections are ignored; wrangler does not support them either.
func (wc *wranglerConfig) toEnvOverride() *config.EnvOverride {
	full := wc.toWorkerConfig()
	return &config.EnvOverride{
		Name:               full.Name,
		Main:               full.Main,
		CompatibilityDate:  full.CompatibilityDate,
		CompatibilityFlags: full.CompatibilityFlags,
		Routes:             full.Routes,
		Triggers:           full.Triggers,
		Vars:               full.Vars,

		KVNamespaces:            full.KVNamespaces,
		R2Buckets:               full.R2Buckets,
		D1Databases:             full.D1Databases,
		QueueProducers:          full.QueueProducers,
		QueueConsumers:          full.QueueConsumers,
		DurableObjects:          full.DurableObjects,
		Services:                full.Services,
		Hyperdrive:              full.Hyperdrive,
		Vectorize:               full.Vectorize,
		AI:                      full.AI,
		Browser:                 full.Browser,
		AnalyticsEngineDatasets: full.AnalyticsEngineDatasets,
		DispatchNamespaces:      full.DispatchNamespaces,
	}
}

// routes folds the singular route field and the routes list together,
// singular first.
func (wc *wranglerConfig) routes() []config.Route {
	var out []config.Route
	if wc.Route != nil {
		out = append(out, config.Route{Pattern: wc.Route.Pattern, ZoneName: wc.Route.ZoneName})
	}
	for _, rv := range wc.Routes {
		out = append(out, config.Route{Pattern: rv.Pattern, ZoneName: rv.ZoneName})
	}
	return out
}

func copySlice(source []string) []string {
	if source == nil {
		return nil
	}
	out := make([]string, len(source))
	copy(out, source)
	return out
}

func copyAnyMap(source map[string]any) map[string]any {
	if source == nil {
		return nil
	}
	out := make(map[string]any, len(source))
	for k, v := range source {
		out[k] = v
	}
	return out
}
