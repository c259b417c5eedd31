/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"fmt"

	"github.com/nbbaier/alchemy-migrator/internal/config"
	"github.com/nbbaier/alchemy-migrator/internal/model"
	"github.com/nbbaier/alchemy-migrator/internal/registry"
	"github.com/nbbaier/alchemy-migrator/internal/validate"
)

// ResolvedModel is the pipeline's final output, handed to the code
// generator. Registry entries and unit bindings are in deterministic order;
// problems are expressed as warnings and errors in the model, never as
// aborts — migration tooling must always produce a best-effort artifact for
// a human to review.
type ResolvedModel struct {
	Registry *registry.Registry
	Units    []*model.DeployableUnit
	Warnings []string
	Errors   []string
}

// Pipeline sequences environment resolution, resource normalization, binding
// resolution, and cross-reference validation across configuration units. One
// pipeline owns one registry and must not be reused across runs — the
// shared registry is what enables cross-unit dedup, and first-writer-wins is
// only meaningful while unit processing stays sequential and ordered.
type Pipeline struct {
	reg *registry.Registry
}

// NewPipeline creates a pipeline with a fresh registry.
func NewPipeline() *Pipeline {
	return &Pipeline{reg: registry.New()}
}

// Run processes the units in the order given and returns the resolved model.
// Units are final once processed: a later unit folds into resources an
// earlier unit registered, never the other way around.
//
// Run fails only on structural errors the schema layer should have caught
// (a nil or nameless unit); everything else becomes model warnings/errors.
func (p *Pipeline) Run(units []*config.WorkerConfig, opts config.Options) (*ResolvedModel, error) {
	resolved := &ResolvedModel{Registry: p.reg}

	for i, base := range units {
		if base == nil {
			return nil, fmt.Errorf("configuration unit %d is nil", i)
		}
		if base.Name == "" {
			return nil, fmt.Errorf("configuration unit %d has no name", i)
		}

		unit := ResolveDefault(base)
		environment := ""
		if opts.TargetEnvironment != "" {
			if merged, err := ResolveEnvironment(base, opts.TargetEnvironment); err == nil {
				unit = merged
				environment = opts.TargetEnvironment
			} else {
				resolved.Warnings = append(resolved.Warnings, fmt.Sprintf(
					"worker %q does not declare environment %q, using base configuration",
					base.Name, opts.TargetEnvironment))
			}
		}

		_, warnings := NormalizeResources(unit, p.reg, NormalizeOptions{
			AppName:       opts.AppName,
			Stage:         opts.Stage,
			Adopt:         opts.Adopt,
			PreserveNames: opts.PreserveNames,
			Environment:   environment,
		})
		resolved.Warnings = append(resolved.Warnings, warnings...)

		bindings := ResolveBindings(unit, p.reg)

		resolved.Units = append(resolved.Units, buildUnit(unit, bindings))
	}

	result := validate.Validate(p.reg, resolved.Units)
	resolved.Errors = append(resolved.Errors, result.Errors...)
	resolved.Warnings = append(resolved.Warnings, result.Warnings...)

	return resolved, nil
}

// buildUnit assembles the immutable deployable unit from a resolved config
// unit and its bindings.
func buildUnit(unit *config.WorkerConfig, bindings ResolvedBindings) *model.DeployableUnit {
	out := &model.DeployableUnit{
		ID:          unit.Name,
		DisplayName: unit.Name,
		Entrypoint:  unit.Main,
		Compatibility: model.CompatibilityMarker{
			Date:  unit.CompatibilityDate,
			Flags: unit.CompatibilityFlags,
		},
		Bindings:     bindings.Bindings,
		CronTriggers: unit.Triggers,
		SecretNames:  bindings.SecretNames,
	}

	for _, r := range unit.Routes {
		out.Routes = append(out.Routes, model.Route{Pattern: r.Pattern, Zone: r.ZoneName})
	}

	for _, c := range unit.QueueConsumers {
		if c.Queue == "" {
			continue
		}
		out.Consumers = append(out.Consumers, model.Consumer{
			QueueKey: model.MakeKey(model.Queue, c.Queue),
			Settings: model.ConsumerSettings{
				BatchSize:       c.MaxBatchSize,
				MaxRetries:      c.MaxRetries,
				DeadLetterQueue: c.DeadLetterQueue,
			},
		})
	}

	return out
}
