package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"netc/internal/project"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Paths   pathsConfig   `toml:"paths"`
	Pattern patternConfig `toml:"pattern"`
	Diag    diagConfig    `toml:"diag"`
}

type pathsConfig struct {
	LibRoots []string `toml:"lib_roots"`
}

type patternConfig struct {
	MaxAtoms int `toml:"max_atoms"`
}

type diagConfig struct {
	Max int `toml:"max"`
}

// loadProjectManifest finds netc.toml above startDir. ok is false when there
// is none, which is not an error.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := project.FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("pattern", "max_atoms") && cfg.Pattern.MaxAtoms <= 0 {
		return projectConfig{}, fmt.Errorf("%s: [pattern].max_atoms must be positive", path)
	}
	if meta.IsDefined("diag", "max") && cfg.Diag.Max <= 0 {
		return projectConfig{}, fmt.Errorf("%s: [diag].max must be positive", path)
	}
	for i, root := range cfg.Paths.LibRoots {
		if strings.TrimSpace(root) == "" {
			return projectConfig{}, fmt.Errorf("%s: [paths].lib_roots[%d] is empty", path, i)
		}
	}
	return cfg, nil
}

// LibRoots returns the manifest library roots made absolute against the
// manifest directory.
func (m *projectManifest) LibRoots() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.Config.Paths.LibRoots))
	for _, root := range m.Config.Paths.LibRoots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(m.Root, root)
		}
		out = append(out, filepath.Clean(root))
	}
	return out
}
