/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package validate checks the aggregate resolved model for cross-reference
// integrity. It is read-only: every finding is a diagnostic string, nothing
// here mutates the model or aborts the pipeline.
package validate

import (
	"fmt"

	"github.com/nbbaier/alchemy-migrator/internal/model"
	"github.com/nbbaier/alchemy-migrator/internal/registry"
)

// Result carries the validator's findings. Errors block code generation at
// the CLI's discretion; warnings never do.
type Result struct {
	Errors   []string
	Warnings []string
}

// Validate checks every unit against the shared registry:
//
//   - a binding name declared twice within one unit is an error — generated
//     code cannot carry two bindings of the same name (the same name in
//     different units is fine)
//   - a resource binding whose key is not registered is a warning; the
//     binding resolver omits unresolvable bindings, so this only fires when
//     the two declaration walks disagree
//   - a queue consumer's dead-letter-queue must resolve to a registered
//     queue, same severity
func Validate(reg *registry.Registry, units []*model.DeployableUnit) Result {
	var result Result

	for _, unit := range units {
		seen := make(map[string]bool, len(unit.Bindings))
		for _, binding := range unit.Bindings {
			if seen[binding.Name] {
				result.Errors = append(result.Errors, fmt.Sprintf(
					"worker %q: duplicate binding name %q", unit.ID, binding.Name))
			}
			seen[binding.Name] = true

			if binding.Kind == model.BindingResource && !reg.Has(binding.Key) {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"worker %q: binding %q refers to an unregistered resource %s",
					unit.ID, binding.Name, binding.Key))
			}
		}

		for _, consumer := range unit.Consumers {
			if !reg.Has(consumer.QueueKey) {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"worker %q: queue consumer refers to an unregistered queue %s",
					unit.ID, consumer.QueueKey))
			}
			dlq := consumer.Settings.DeadLetterQueue
			if dlq == "" {
				continue
			}
			dlqKey := model.MakeKey(model.Queue, dlq)
			if !reg.Has(dlqKey) {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"worker %q: dead letter queue %q is not a registered queue",
					unit.ID, dlq))
			}
		}
	}

	return result
}
