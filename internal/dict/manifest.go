package dict

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Manifest declares the servable versions of a dictionary directory.
type Manifest struct {
	Versions []ManifestVersion `yaml:"versions"`
}

type ManifestVersion struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label,omitempty"`
}

// LoadManifest reads versions.yaml from the dictionary directory. Without a
// manifest it falls back to scanning for version subdirectories that carry a
// Base/ record-set directory.
func LoadManifest(dir string) (*Manifest, error) {
	for _, name := range []string{"versions.yaml", "versions.yml"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, &LoadError{Version: "", Source: name, Err: err}
		}
		return &m, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Version: "", Source: dir, Err: err}
	}
	var m Manifest
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if st, err := os.Stat(filepath.Join(dir, e.Name(), "Base")); err == nil && st.IsDir() {
			m.Versions = append(m.Versions, ManifestVersion{Name: e.Name()})
		}
	}
	sort.Slice(m.Versions, func(i, j int) bool { return m.Versions[i].Name < m.Versions[j].Name })
	return &m, nil
}
