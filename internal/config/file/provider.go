/*
Copyright © 2025 Alchemy Migrator Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nbbaier/alchemy-migrator/internal/config"
)

// unmarshalJSON aliases encoding/json for the custom unmarshallers.
var unmarshalJSON = json.Unmarshal

// DefaultProjectFile is the filename the provider looks for when no explicit
// wrangler configs are given.
const DefaultProjectFile = "alchemy-migrator.yaml"

// Provider implements config.Provider by reading wrangler files from disk,
// either given directly or listed in a YAML project file. Wrangler configs
// are loaded in the order supplied; that order is what the pipeline's
// first-writer-wins semantics observe.
type Provider struct {
	projectFilename string
	configPaths     []string

	project *projectFile
	units   []*config.WorkerConfig
}

var _ config.Provider = (*Provider)(nil)

// NewProvider creates a provider backed by a project file.
func NewProvider(projectFilename string) *Provider {
	return &Provider{projectFilename: projectFilename}
}

// NewUnitProvider creates a provider for an explicit ordered list of wrangler
// config paths, bypassing any project file.
func NewUnitProvider(configPaths ...string) *Provider {
	return &Provider{configPaths: configPaths}
}

// LoadUnits loads and converts all wrangler configs, preserving order.
func (fp *Provider) LoadUnits(ctx context.Context) ([]*config.WorkerConfig, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}
	return fp.units, nil
}

// ListEnvironments returns the union of named environment overrides declared
// across all units, sorted.
func (fp *Provider) ListEnvironments() ([]string, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, unit := range fp.units {
		for name := range unit.Env {
			seen[name] = true
		}
	}

	envs := make([]string, 0, len(seen))
	for name := range seen {
		envs = append(envs, name)
	}
	sort.Strings(envs)
	return envs, nil
}

// Validate checks the source configuration for consistency.
func (fp *Provider) Validate() error {
	if err := fp.ensureLoaded(); err != nil {
		return err
	}

	seen := make(map[string]string)
	for i, unit := range fp.units {
		path := fp.resolvedPaths()[i]
		if unit.Name == "" {
			return fmt.Errorf("worker config %s has no name", path)
		}
		if prev, ok := seen[unit.Name]; ok {
			return fmt.Errorf("worker name %q declared in both %s and %s", unit.Name, prev, path)
		}
		seen[unit.Name] = path
	}
	return nil
}

// Options returns pipeline options assembled from the project file, when one
// was loaded. Callers layer CLI flags on top.
func (fp *Provider) Options() (config.Options, error) {
	if err := fp.ensureLoaded(); err != nil {
		return config.Options{}, err
	}

	opts := config.DefaultOptions()
	if fp.project == nil {
		return opts, nil
	}
	opts.AppName = fp.project.App
	opts.Stage = fp.project.Stage
	opts.TargetEnvironment = fp.project.Environment
	if fp.project.Adopt != nil {
		opts.Adopt = *fp.project.Adopt
	}
	if fp.project.PreserveNames != nil {
		opts.PreserveNames = *fp.project.PreserveNames
	}
	return opts, nil
}

// OutputPath returns the project file's configured output path, or empty.
func (fp *Provider) OutputPath() string {
	if fp.project == nil {
		return ""
	}
	return fp.project.Output
}

// ensureLoaded parses the project file (when configured) and every wrangler
// config exactly once.
func (fp *Provider) ensureLoaded() error {
	if fp.units != nil {
		return nil
	}

	if fp.projectFilename != "" {
		data, err := os.ReadFile(fp.projectFilename)
		if err != nil {
			return fmt.Errorf("failed to read project file %s: %w", fp.projectFilename, err)
		}
		var project projectFile
		if err := yaml.Unmarshal(data, &project); err != nil {
			return fmt.Errorf("failed to parse project file %s: %w", fp.projectFilename, err)
		}
		if len(project.Configs) == 0 {
			return fmt.Errorf("project file %s lists no configs", fp.projectFilename)
		}
		fp.project = &project
	}

	paths := fp.resolvedPaths()
	units := make([]*config.WorkerConfig, 0, len(paths))
	for _, path := range paths {
		unit, err := loadWranglerConfig(path)
		if err != nil {
			return err
		}
		units = append(units, unit)
	}
	fp.units = units
	return nil
}

// resolvedPaths returns the ordered wrangler config paths, project-relative
// when they come from a project file.
func (fp *Provider) resolvedPaths() []string {
	if fp.project == nil {
		return fp.configPaths
	}
	base := filepath.Dir(fp.projectFilename)
	paths := make([]string, 0, len(fp.project.Configs))
	for _, pc := range fp.project.Configs {
		if filepath.IsAbs(pc.Path) {
			paths = append(paths, pc.Path)
			continue
		}
		paths = append(paths, filepath.Join(base, pc.Path))
	}
	return paths
}

// loadWranglerConfig reads one wrangler file, choosing the decoder by
// extension.
func loadWranglerConfig(path string) (*config.WorkerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wrangler config %s: %w", path, err)
	}

	var raw wranglerConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q for %s (expected .toml or .json)", ext, path)
	}

	return raw.toWorkerConfig(), nil
}
