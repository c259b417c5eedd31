/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

// NormalizedResource represents one physical resource the generated program
// will create or adopt. Entries are immutable once registered.
type NormalizedResource struct {
	// Key is the resource's stable identity.
	Key Key

	// Type is the resource category.
	Type ResourceType

	// GeneratedID is the logical identifier passed as the resource
	// constructor's first argument. Unique across one pipeline run.
	GeneratedID string

	// DisplayName is the physical name the resource carries on the
	// platform, either preserved from the user's declaration or
	// synthesized as <appName>-<localId>[-<stage>].
	DisplayName string

	// VariableName is the identifier other generated statements use to
	// reference this resource. Unique across one pipeline run.
	VariableName string

	// AdoptExisting binds to a pre-existing physical resource rather than
	// creating a new one. Always false for non-adoptable types.
	AdoptExisting bool

	// Properties carries resource-type-specific configuration.
	Properties map[string]any

	// SourceEnvironment names the environment override that produced this
	// entry, when one was applied. Diagnostic only.
	SourceEnvironment string
}

// BindingKind discriminates the binding variants.
type BindingKind int

const (
	// BindingResource points at a registered resource by key.
	BindingResource BindingKind = iota
	// BindingSecret is supplied out-of-band at deploy time.
	BindingSecret
	// BindingText is an inline string literal.
	BindingText
	// BindingJSON is an inline non-string literal (number, bool, or
	// structured value).
	BindingJSON
)

// Binding is one named handle a deployable unit accesses at runtime.
type Binding struct {
	Name string
	Kind BindingKind

	// Key is set for BindingResource.
	Key Key
	// EnvVar is set for BindingSecret.
	EnvVar string
	// Text is set for BindingText.
	Text string
	// Value is set for BindingJSON.
	Value any
}

// Route maps a URL pattern to a worker, optionally scoped to a zone.
type Route struct {
	Pattern string
	Zone    string
}

// ConsumerSettings configures one queue consumer attachment.
type ConsumerSettings struct {
	BatchSize       int
	MaxRetries      int
	DeadLetterQueue string
}

// Consumer attaches a deployable unit to a queue as its consumer.
type Consumer struct {
	QueueKey Key
	Settings ConsumerSettings
}

// CompatibilityMarker is the runtime compatibility bundle, opaque to the
// pipeline.
type CompatibilityMarker struct {
	Date  string
	Flags []string
}

// DeployableUnit is one worker, fully resolved. Immutable once validated.
type DeployableUnit struct {
	ID            string
	DisplayName   string
	Entrypoint    string
	Compatibility CompatibilityMarker

	// Bindings are in deterministic declaration order.
	Bindings []Binding

	Routes       []Route
	CronTriggers []string
	Consumers    []Consumer

	// SecretNames lists the bindings classified as secrets, sorted.
	SecretNames []string
}

// Binding returns the named binding, if present.
func (u *DeployableUnit) Binding(name string) (Binding, bool) {
	for _, b := range u.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}
