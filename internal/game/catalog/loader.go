package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Extension is the YAML structure of one catalog content file.
type Extension struct {
	Items   []*ItemDef      `yaml:"items"`
	Units   []*UnitTemplate `yaml:"units"`
	Recipes []*Recipe       `yaml:"recipes"`
}

// ParseExtension decodes a single catalog content document.
func ParseExtension(data []byte) (*Extension, error) {
	var ext Extension
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("parsing catalog extension: %w", err)
	}
	return &ext, nil
}

// LoadExtensions reads all *.yaml and *.yml files from dir in lexical order
// and parses each as an Extension.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all parsed extensions or the first encountered error.
func LoadExtensions(dir string) ([]*Extension, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadExtensions: cannot read directory %q: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var out []*Extension
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadExtensions: cannot read file %q: %w", path, err)
		}
		ext, err := ParseExtension(data)
		if err != nil {
			return nil, fmt.Errorf("LoadExtensions: %q: %w", path, err)
		}
		out = append(out, ext)
	}
	return out, nil
}

// Apply registers every item, then every unit template, then every recipe of
// the given extensions, so a unit may reference an item from a later file.
//
// Postcondition: on error, entries registered before the failure remain.
func (r *Registry) Apply(exts ...*Extension) error {
	for _, ext := range exts {
		for _, d := range ext.Items {
			if err := r.RegisterItem(d); err != nil {
				return err
			}
		}
	}
	for _, ext := range exts {
		for _, u := range ext.Units {
			if err := r.RegisterUnit(u); err != nil {
				return err
			}
		}
	}
	for _, ext := range exts {
		for _, rc := range ext.Recipes {
			if err := r.RegisterRecipe(rc); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load builds the sealed game catalog: Core() plus every extension found in
// contentDir. An empty contentDir yields the core catalog only.
func Load(contentDir string) (*Registry, error) {
	r := Core()
	if contentDir != "" {
		exts, err := LoadExtensions(contentDir)
		if err != nil {
			return nil, err
		}
		if err := r.Apply(exts...); err != nil {
			return nil, fmt.Errorf("applying catalog extensions from %q: %w", contentDir, err)
		}
	}
	r.Seal()
	return r, nil
}
