// pkg/registry/schema.go
package registry

import "encoding/json"

// AlgorithmRegistry is the on-disk preset file.
type AlgorithmRegistry struct {
	Version     string            `json:"version"`
	LastUpdated string            `json:"lastUpdated"`
	DefaultID   string            `json:"defaultAlgorithm"`
	Algorithms  []json.RawMessage `json:"algorithms"`
}
