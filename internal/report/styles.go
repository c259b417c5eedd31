/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package report renders a human-readable summary of a migration run:
// registered resources, deployable units, warnings, and errors.
package report

import (
	"os"

	"github.com/charmbracelet/fang"
	"charm.land/lipgloss/v2"
)

// Styles contains the styles for rendering migration summaries.
type Styles struct {
	Header  lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Subtle  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Whether colours are enabled
	UseColour bool
}

// NewStyles creates the style set, using Fang's colour scheme for
// consistency with the CLI chrome. Colours are optimised for the detected
// terminal background.
func NewStyles(useColour bool) *Styles {
	s := &Styles{UseColour: useColour}

	if !useColour {
		plain := lipgloss.NewStyle()
		s.Header = plain
		s.Key = plain
		s.Value = plain
		s.Subtle = plain
		s.Success = plain
		s.Warning = plain
		s.Error = plain
		return s
	}

	hasDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	scheme := fang.DefaultColorScheme(lipgloss.LightDark(hasDark))

	s.Header = lipgloss.NewStyle().Bold(true).Foreground(scheme.Title)
	s.Key = lipgloss.NewStyle().Foreground(scheme.Argument)
	s.Value = lipgloss.NewStyle().Foreground(scheme.Base)
	s.Subtle = lipgloss.NewStyle().Foreground(scheme.Comment)
	s.Success = lipgloss.NewStyle().Foreground(scheme.Flag)
	s.Warning = lipgloss.NewStyle().Foreground(scheme.Command)
	s.Error = lipgloss.NewStyle().Foreground(scheme.ErrorDetails)

	return s
}
