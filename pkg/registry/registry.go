// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"

	apperrors "caregiver-matcher/internal/common/errors"
	"caregiver-matcher/internal/matching"
)

// Registry is a read-only snapshot of algorithm presets. The built-in default is
// always present; a preset file may override it or add others.
type Registry struct {
	defaultID string
	presets   map[string]matching.AlgorithmConfig
}

// New returns a registry holding only the built-in default.
func New() *Registry {
	def := matching.DefaultAlgorithm()
	return &Registry{
		defaultID: def.AlgorithmID,
		presets:   map[string]matching.AlgorithmConfig{def.AlgorithmID: def},
	}
}

// LoadRegistry reads presets from a JSON file. Each preset is decoded over the
// built-in default, so a file only needs the fields it changes.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var file AlgorithmRegistry
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse algorithm registry: %w", err)
	}

	reg := New()
	for i, raw := range file.Algorithms {
		algo := matching.DefaultAlgorithm()
		if err := json.Unmarshal(raw, &algo); err != nil {
			return nil, fmt.Errorf("algorithm %d: %w", i, err)
		}
		if err := algo.Validate(); err != nil {
			return nil, fmt.Errorf("algorithm %q: %w", algo.AlgorithmID, err)
		}
		reg.presets[algo.AlgorithmID] = algo
	}

	if file.DefaultID != "" {
		if _, ok := reg.presets[file.DefaultID]; !ok {
			return nil, fmt.Errorf("default algorithm %q is not defined", file.DefaultID)
		}
		reg.defaultID = file.DefaultID
	}
	return reg, nil
}

// WithDefault returns a copy of r whose empty-id lookups resolve to id.
func (r *Registry) WithDefault(id string) (*Registry, error) {
	if id == "" {
		return r, nil
	}
	if _, ok := r.presets[id]; !ok {
		return nil, apperrors.NewAlgorithmNotFoundError(id)
	}
	return &Registry{defaultID: id, presets: r.presets}, nil
}

// Resolve returns a copy of the named preset. An empty id selects the default.
func (r *Registry) Resolve(algorithmID string) (matching.AlgorithmConfig, error) {
	if algorithmID == "" {
		algorithmID = r.defaultID
	}
	algo, ok := r.presets[algorithmID]
	if !ok {
		return matching.AlgorithmConfig{}, apperrors.NewAlgorithmNotFoundError(algorithmID)
	}
	algo.Filters.RequiredCertifications = slices.Clone(algo.Filters.RequiredCertifications)
	return algo, nil
}

// IDs lists the registered presets in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.presets))
	for id := range r.presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) DefaultID() string {
	return r.defaultID
}
