/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package generate renders a resolved model into an Alchemy program
// (alchemy.run.ts). It consumes the model in its deterministic order and
// performs no I/O; output is byte-identical across runs on equal input.
package generate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/nbbaier/alchemy-migrator/internal/config"
	"github.com/nbbaier/alchemy-migrator/internal/model"
	"github.com/nbbaier/alchemy-migrator/internal/resolve"
)

// constructors maps resource types to their Alchemy constructor names.
var constructors = map[model.ResourceType]string{
	model.KVNamespace:       "KVNamespace",
	model.R2Bucket:          "R2Bucket",
	model.D1Database:        "D1Database",
	model.Queue:             "Queue",
	model.DurableObject:     "DurableObjectNamespace",
	model.Service:           "Service",
	model.Hyperdrive:        "Hyperdrive",
	model.VectorizeIndex:    "VectorizeIndex",
	model.AI:                "Ai",
	model.Browser:           "BrowserRendering",
	model.AnalyticsEngine:   "AnalyticsEngineDataset",
	model.DispatchNamespace: "DispatchNamespace",
}

// nameProp is the constructor property that carries the resource's display
// name, per type. A property key listed here as the physical-name source is
// superseded by the display name and not re-emitted.
var nameProp = map[model.ResourceType]string{
	model.KVNamespace:       "title",
	model.R2Bucket:          "name",
	model.D1Database:        "name",
	model.Queue:             "name",
	model.DurableObject:     "className",
	model.Service:           "name",
	model.Hyperdrive:        "name",
	model.VectorizeIndex:    "name",
	model.AnalyticsEngine:   "dataset",
	model.DispatchNamespace: "namespace",
}

// supersededProps are property keys whose value the naming policy already
// folded into the display name.
var supersededProps = map[string]bool{
	"bucketName":   true,
	"databaseName": true,
	"queueName":    true,
	"indexName":    true,
	"dataset":      true,
	"namespace":    true,
	"className":    true,
}

const programTemplate = `// Generated by alchemy-migrator — review before deploying.
import alchemy from "alchemy";
import { {{ join ", " .Imports }} } from "alchemy/cloudflare";

const app = await alchemy({{ .AppName | quote }}{{ if .Stage }}, { stage: {{ .Stage | quote }} }{{ end }});

{{ range .Resources -}}
const {{ .Var }} = await {{ .Ctor }}({{ .ID | quote }}{{ if .Args }}, {{ .Args }}{{ end }});
{{ end }}
{{- range .Workers }}
export const {{ .Var }} = await Worker({{ .ID | quote }}, {
{{- range .Lines }}
  {{ . }}
{{- end }}
});
{{ end }}
await app.finalize();
`

// Generator renders resolved models into Alchemy programs.
type Generator struct {
	tmpl *template.Template
}

// New creates a generator with the program template parsed.
func New() (*Generator, error) {
	tmpl, err := template.New("alchemy").Funcs(sprig.TxtFuncMap()).Parse(programTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse program template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

type resourceView struct {
	Var  string
	Ctor string
	ID   string
	Args string
}

type workerView struct {
	Var   string
	ID    string
	Lines []string
}

type programData struct {
	AppName   string
	Stage     string
	Imports   []string
	Resources []resourceView
	Workers   []workerView
}

// Generate renders the model. Registry entries appear in insertion order,
// workers in unit order.
func (g *Generator) Generate(m *resolve.ResolvedModel, opts config.Options) (string, error) {
	data := programData{
		AppName: opts.AppName,
		Stage:   opts.Stage,
	}
	if data.AppName == "" {
		data.AppName = "app"
	}

	imports := map[string]bool{"Worker": true}
	used := make(map[string]bool, m.Registry.Len())
	for _, entry := range m.Registry.Entries() {
		ctor := constructors[entry.Type]
		imports[ctor] = true
		name := tsIdent(entry.VariableName)
		used[name] = true
		data.Resources = append(data.Resources, resourceView{
			Var:  name,
			Ctor: ctor,
			ID:   entry.GeneratedID,
			Args: resourceArgs(entry),
		})
	}
	data.Imports = sortedKeys(imports)

	for _, unit := range m.Units {
		name := uniqueIdent(used, tsIdent(model.NormalizeName(unit.ID)))
		used[name] = true
		data.Workers = append(data.Workers, workerView{
			Var:   name,
			ID:    unit.ID,
			Lines: workerLines(unit, m),
		})
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render program: %w", err)
	}
	return buf.String(), nil
}

// resourceArgs renders the constructor's options object, empty when the
// resource has nothing beyond its identity.
func resourceArgs(entry *model.NormalizedResource) string {
	var pairs []string

	if prop, ok := nameProp[entry.Type]; ok {
		pairs = append(pairs, prop+": "+jsValue(entry.DisplayName))
	}

	for _, key := range sortedPropKeys(entry.Properties) {
		if supersededProps[key] {
			continue
		}
		pairs = append(pairs, key+": "+jsValue(entry.Properties[key]))
	}

	if entry.AdoptExisting {
		pairs = append(pairs, "adopt: true")
	}

	if len(pairs) == 0 {
		return ""
	}
	out := "{ "
	for i, p := range pairs {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out + " }"
}

// workerLines renders the Worker options, one property per line.
func workerLines(unit *model.DeployableUnit, m *resolve.ResolvedModel) []string {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("name: %s,", jsValue(unit.DisplayName))
	if unit.Entrypoint != "" {
		add("entrypoint: %s,", jsValue(unit.Entrypoint))
	}
	if unit.Compatibility.Date != "" {
		add("compatibilityDate: %s,", jsValue(unit.Compatibility.Date))
	}
	if len(unit.Compatibility.Flags) > 0 {
		add("compatibilityFlags: %s,", jsValue(unit.Compatibility.Flags))
	}

	if len(unit.Bindings) > 0 {
		add("bindings: {")
		for _, binding := range unit.Bindings {
			add("  %s: %s,", jsKey(binding.Name), bindingExpr(binding, m))
		}
		add("},")
	}

	if len(unit.Routes) > 0 {
		add("routes: [")
		for _, route := range unit.Routes {
			if route.Zone != "" {
				add("  { pattern: %s, zone: %s },", jsValue(route.Pattern), jsValue(route.Zone))
				continue
			}
			add("  %s,", jsValue(route.Pattern))
		}
		add("],")
	}

	if len(unit.CronTriggers) > 0 {
		add("crons: %s,", jsValue(unit.CronTriggers))
	}

	if len(unit.Consumers) > 0 {
		add("eventSources: [")
		for _, consumer := range unit.Consumers {
			add("  %s,", consumerExpr(consumer, m))
		}
		add("],")
	}

	return lines
}

// bindingExpr renders the value side of one bindings entry.
func bindingExpr(binding model.Binding, m *resolve.ResolvedModel) string {
	switch binding.Kind {
	case model.BindingResource:
		if entry := m.Registry.Get(binding.Key); entry != nil {
			return tsIdent(entry.VariableName)
		}
		return "undefined"
	case model.BindingSecret:
		return "alchemy.secret(process.env." + binding.EnvVar + ")"
	case model.BindingText:
		return jsValue(binding.Text)
	default:
		return jsValue(binding.Value)
	}
}

// consumerExpr renders one eventSources entry.
func consumerExpr(consumer model.Consumer, m *resolve.ResolvedModel) string {
	queue := "undefined"
	if entry := m.Registry.Get(consumer.QueueKey); entry != nil {
		queue = tsIdent(entry.VariableName)
	}

	settings := ""
	s := consumer.Settings
	var pairs []string
	if s.BatchSize > 0 {
		pairs = append(pairs, "batchSize: "+strconv.Itoa(s.BatchSize))
	}
	if s.MaxRetries > 0 {
		pairs = append(pairs, "maxRetries: "+strconv.Itoa(s.MaxRetries))
	}
	if s.DeadLetterQueue != "" {
		pairs = append(pairs, "deadLetterQueue: "+jsValue(s.DeadLetterQueue))
	}
	for i, p := range pairs {
		if i == 0 {
			settings = ", settings: { "
		} else {
			settings += ", "
		}
		settings += p
	}
	if settings != "" {
		settings += " }"
	}

	return "{ queue: " + queue + settings + " }"
}

// jsValue renders a Go value as a JavaScript literal. encoding/json output
// is valid JS for strings, numbers, booleans, arrays, and objects, and
// marshals map keys in sorted order, which keeps output deterministic.
func jsValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return strconv.Quote(fmt.Sprintf("%v", v))
	}
	return string(data)
}

// identPattern matches names that are legal as bare JavaScript identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// jsKey renders a bindings key, quoting names that are not legal identifiers.
func jsKey(name string) string {
	if identPattern.MatchString(name) {
		return name
	}
	return jsValue(name)
}

// uniqueIdent keeps worker constants out of the resource constants' namespace:
// a worker named "db" must not shadow the db resource its bindings reference.
func uniqueIdent(used map[string]bool, base string) string {
	if !used[base] {
		return base
	}
	if next := base + "Worker"; !used[next] {
		return next
	}
	for i := 2; ; i++ {
		next := base + "Worker" + strconv.Itoa(i)
		if !used[next] {
			return next
		}
	}
}

// tsIdent makes a normalized name safe as a TypeScript identifier.
func tsIdent(name string) string {
	if name == "" {
		return "_"
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "_" + name
	}
	return name
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedPropKeys(props map[string]any) []string {
	out := make([]string, 0, len(props))
	for k := range props {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
