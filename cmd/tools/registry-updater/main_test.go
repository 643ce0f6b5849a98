package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"caregiver-matcher/internal/matching"
	"caregiver-matcher/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddUpdateSetDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algorithms.json")

	_, err := run(t, "add", "--path", path, "--id", "urgent_v2", "--name", "Urgent v2")
	require.NoError(t, err)

	_, err = run(t, "update", "--path", path, "--id", "urgent_v2", "--field", "weights.locationProximity", "--value", "0.4")
	require.NoError(t, err)

	_, err = run(t, "set-default", "--path", path, "--id", "urgent_v2")
	require.NoError(t, err)

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "urgent_v2", reg.DefaultID())

	algo, err := reg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "Urgent v2", algo.Name)
	assert.InDelta(t, 0.4, algo.Weights.LocationProximity, 1e-9)
	assert.Equal(t, matching.DefaultAlgorithm().Weights.QualificationMatch, algo.Weights.QualificationMatch)

	out, err := run(t, "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 algorithms")
}

func TestAdd_Duplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algorithms.json")

	_, err := run(t, "add", "--path", path, "--id", "a1", "--name", "A1")
	require.NoError(t, err)
	_, err = run(t, "add", "--path", path, "--id", "a1", "--name", "A1 again")
	assert.Error(t, err)

	_, err = run(t, "add", "--path", path, "--id", matching.DefaultAlgorithmID, "--name", "shadow")
	assert.Error(t, err)
}

func TestUpdate_Rejections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algorithms.json")
	_, err := run(t, "add", "--path", path, "--id", "a1", "--name", "A1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		field string
		value string
	}{
		{"unknown field", "weights.charisma", "0.5"},
		{"negative weight", "weights.culturalFit", "-1"},
		{"immutable id", "algorithmId", "a2"},
		{"wrong type", "weights.culturalFit", "high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "update", "--path", path, "--id", "a1", "--field", tt.field, "--value", tt.value)
			assert.Error(t, err)
		})
	}
}

func TestSetDefault_Unknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algorithms.json")

	_, err := run(t, "set-default", "--path", path, "--id", "missing")
	assert.Error(t, err)
}

func TestValidate_ShippedPresets(t *testing.T) {
	out, err := run(t, "validate", "--path", filepath.Join("..", "..", "..", "configs", "algorithms.json"))

	require.NoError(t, err)
	assert.Contains(t, out, "default default_v1")
}
