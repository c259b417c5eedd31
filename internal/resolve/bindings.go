/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"regexp"
	"sort"

	"github.com/nbbaier/alchemy-migrator/internal/config"
	"github.com/nbbaier/alchemy-migrator/internal/model"
	"github.com/nbbaier/alchemy-migrator/internal/registry"
)

// secretNamePattern flags variable names that look like credentials. The
// match is case-insensitive and runs against the name only, never the value.
// It is deliberately false-positive-tolerant: names like AUTHOR or
// TOKENIZER_CONFIG are over-flagged, which is the accepted trade-off — a
// value wrongly inlined into generated source is far worse than one wrongly
// routed through the environment.
var secretNamePattern = regexp.MustCompile(`(?i)api[_-]?key|secret|password|token|private[_-]?key|auth|credential`)

// IsSecretName reports whether a variable name matches the secret heuristic.
func IsSecretName(name string) bool {
	return secretNamePattern.MatchString(name)
}

// ResolvedBindings is the binding resolver's output for one unit.
type ResolvedBindings struct {
	// Bindings are in deterministic order: resource bindings in
	// declaration order, then plain variables in sorted name order.
	Bindings []model.Binding

	// SecretNames lists the variables classified as secrets, sorted.
	SecretNames []string
}

// ResolveBindings produces the unit's normalized bindings. Resource bindings
// derive their key through the same declaration walk the normalizer uses and
// are looked up in the registry; a binding whose key is absent is silently
// omitted — the cross-reference validator surfaces that gap, keeping this
// step a pure, always-succeeding lookup. Plain variables are classified by
// the secret heuristic, then as text or structured literals.
func ResolveBindings(unit *config.WorkerConfig, reg *registry.Registry) ResolvedBindings {
	var out ResolvedBindings

	for _, decl := range declarations(unit) {
		if decl.SkipReason != "" {
			continue
		}
		if !reg.Has(decl.Key) {
			continue
		}
		out.Bindings = append(out.Bindings, model.Binding{
			Name: decl.BindingName,
			Kind: model.BindingResource,
			Key:  decl.Key,
		})
	}

	names := make([]string, 0, len(unit.Vars))
	for name := range unit.Vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := unit.Vars[name]
		switch {
		case IsSecretName(name):
			out.Bindings = append(out.Bindings, model.Binding{
				Name:   name,
				Kind:   model.BindingSecret,
				EnvVar: name,
			})
			out.SecretNames = append(out.SecretNames, name)
		default:
			if text, ok := value.(string); ok {
				out.Bindings = append(out.Bindings, model.Binding{
					Name: name,
					Kind: model.BindingText,
					Text: text,
				})
				continue
			}
			out.Bindings = append(out.Bindings, model.Binding{
				Name:  name,
				Kind:  model.BindingJSON,
				Value: value,
			})
		}
	}

	return out
}
