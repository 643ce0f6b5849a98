// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "caregiver-matcher/internal/common/errors"
	"caregiver-matcher/internal/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetFile = `{
  "version": "1.0.0",
  "lastUpdated": "2025-01-15",
  "defaultAlgorithm": "default_v1",
  "algorithms": [
    {
      "algorithmId": "proximity_first",
      "name": "Proximity First",
      "version": "1.1.0",
      "weights": {"locationProximity": 0.4, "qualificationMatch": 0.2}
    }
  ]
}`

func TestNew_HasDefault(t *testing.T) {
	reg := New()

	algo, err := reg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, matching.DefaultAlgorithm(), algo)
	assert.Equal(t, []string{matching.DefaultAlgorithmID}, reg.IDs())
}

func TestParse_PartialOverride(t *testing.T) {
	reg, err := Parse([]byte(presetFile))
	require.NoError(t, err)

	algo, err := reg.Resolve("proximity_first")
	require.NoError(t, err)
	assert.Equal(t, "Proximity First", algo.Name)
	assert.Equal(t, 0.4, algo.Weights.LocationProximity)
	assert.Equal(t, 0.2, algo.Weights.QualificationMatch)
	// Untouched fields keep the defaults.
	assert.Equal(t, 0.20, algo.Weights.AvailabilityAlignment)
	assert.Equal(t, 50.0, algo.Filters.MaxDistance)

	assert.Equal(t, []string{"default_v1", "proximity_first"}, reg.IDs())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"negative weight", `{"algorithms":[{"algorithmId":"x","weights":{"languageMatch":-1}}]}`},
		{"missing id", `{"algorithms":[{"algorithmId":""}]}`},
		{"unknown default", `{"defaultAlgorithm":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	_, err := New().Resolve("experimental_v9")
	assert.ErrorIs(t, err, apperrors.ErrAlgorithmNotFound)
}

func TestResolve_ReturnsCopies(t *testing.T) {
	reg := New()
	a, _ := reg.Resolve("")
	a.Weights.LocationProximity = 1
	a.Filters.RequiredCertifications = append(a.Filters.RequiredCertifications, "RN")

	b, _ := reg.Resolve("")
	assert.Equal(t, 0.20, b.Weights.LocationProximity)
	assert.Empty(t, b.Filters.RequiredCertifications)
}

func TestWithDefault(t *testing.T) {
	reg, err := Parse([]byte(presetFile))
	require.NoError(t, err)

	switched, err := reg.WithDefault("proximity_first")
	require.NoError(t, err)
	algo, err := switched.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "proximity_first", algo.AlgorithmID)

	_, err = reg.WithDefault("nope")
	assert.ErrorIs(t, err, apperrors.ErrAlgorithmNotFound)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algorithms.json")
	require.NoError(t, os.WriteFile(path, []byte(presetFile), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "default_v1", reg.DefaultID())

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
