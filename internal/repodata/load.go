// Package repodata loads a package universe from a metadata dump (YAML or
// JSON) and indexes it into an in-memory oracle. The dump is the boundary to
// whatever produced the metadata; this package only validates shape, not
// dependency consistency.
package repodata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"depgraph/internal/logging"
	"depgraph/internal/model"
	"depgraph/internal/oracle"
)

// packageRecord is the on-disk shape of one package.
type packageRecord struct {
	Name     string   `yaml:"name" json:"name"`
	Version  string   `yaml:"version" json:"version"`
	IsSource bool     `yaml:"is_source" json:"is_source"`
	Source   string   `yaml:"source" json:"source"`
	Repo     string   `yaml:"repo" json:"repo"`
	Provides []string `yaml:"provides" json:"provides"`
	Requires []string `yaml:"requires" json:"requires"`
	Files    []string `yaml:"files" json:"files"`
}

// Dump is the on-disk shape of a universe.
type Dump struct {
	PrimaryRepo string          `yaml:"primary_repo" json:"primary_repo"`
	Packages    []packageRecord `yaml:"packages" json:"packages"`
}

// Load reads a universe dump and returns an indexed oracle. The format is
// chosen by file extension: .yaml/.yml or .json.
func Load(path string) (*oracle.Universe, error) {
	timer := logging.StartTimer(logging.CategoryOracle, "repodata.Load")
	defer timer.Stop()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read universe file: %w", err)
	}

	var dump Dump
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &dump); err != nil {
			return nil, fmt.Errorf("failed to parse YAML universe: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &dump); err != nil {
			return nil, fmt.Errorf("failed to parse JSON universe: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported universe format %q", filepath.Ext(path))
	}

	return FromDump(&dump)
}

// FromDump indexes an already-parsed dump.
func FromDump(dump *Dump) (*oracle.Universe, error) {
	if dump.PrimaryRepo == "" {
		return nil, fmt.Errorf("universe dump is missing primary_repo")
	}

	u := oracle.NewUniverse(dump.PrimaryRepo)
	for i, rec := range dump.Packages {
		if rec.Name == "" {
			return nil, fmt.Errorf("package %d has no name", i)
		}
		if rec.IsSource && rec.Source != "" {
			return nil, fmt.Errorf("source package %q must not name a source itself", rec.Name)
		}
		u.Add(&model.Package{
			Name:       rec.Name,
			Version:    rec.Version,
			IsSource:   rec.IsSource,
			SourceName: rec.Source,
			Repo:       rec.Repo,
			Provides:   rec.Provides,
			Requires:   rec.Requires,
			Files:      rec.Files,
		})
	}
	logging.Get(logging.CategoryOracle).Info("loaded universe: %d packages, primary repo %s",
		len(dump.Packages), dump.PrimaryRepo)
	return u, nil
}
