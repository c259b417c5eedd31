/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package report

import (
	"fmt"
	"io"

	"github.com/nbbaier/alchemy-migrator/internal/resolve"
)

// Renderer writes migration summaries to an output stream.
type Renderer struct {
	out    io.Writer
	styles *Styles
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, styles *Styles) *Renderer {
	return &Renderer{out: out, styles: styles}
}

// Summary renders the resolved model: resource and unit counts, the
// registered resources in their canonical order, then warnings and errors.
func (r *Renderer) Summary(m *resolve.ResolvedModel) {
	s := r.styles

	entries := m.Registry.Entries()
	fmt.Fprintln(r.out, s.Header.Render("Migration summary"))
	fmt.Fprintf(r.out, "  %s %s\n", s.Key.Render("workers:"), s.Value.Render(fmt.Sprintf("%d", len(m.Units))))
	fmt.Fprintf(r.out, "  %s %s\n", s.Key.Render("resources:"), s.Value.Render(fmt.Sprintf("%d", len(entries))))

	secrets := 0
	for _, unit := range m.Units {
		secrets += len(unit.SecretNames)
	}
	fmt.Fprintf(r.out, "  %s %s\n", s.Key.Render("secrets:"), s.Value.Render(fmt.Sprintf("%d", secrets)))

	if len(entries) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, s.Header.Render("Resources"))
		for _, entry := range entries {
			line := fmt.Sprintf("  %s %s", s.Key.Render(string(entry.Key)), s.Value.Render(entry.DisplayName))
			if entry.AdoptExisting {
				line += " " + s.Subtle.Render("(adopt)")
			}
			fmt.Fprintln(r.out, line)
		}
	}

	if len(m.Warnings) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, s.Header.Render("Warnings"))
		for _, w := range m.Warnings {
			fmt.Fprintf(r.out, "  %s %s\n", s.Warning.Render("!"), w)
		}
	}

	if len(m.Errors) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, s.Header.Render("Errors"))
		for _, e := range m.Errors {
			fmt.Fprintf(r.out, "  %s %s\n", s.Error.Render("✗"), e)
		}
		return
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, s.Success.Render("✓ no errors"))
}

// Secrets renders the post-generation reminder listing the environment
// variables the user must supply before running the generated program.
func (r *Renderer) Secrets(m *resolve.ResolvedModel) {
	var names []string
	seen := make(map[string]bool)
	for _, unit := range m.Units {
		for _, name := range unit.SecretNames {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return
	}

	s := r.styles
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, s.Header.Render("Secrets to provide as environment variables:"))
	for _, name := range names {
		fmt.Fprintf(r.out, "  %s\n", s.Key.Render(name))
	}
}
