// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"caregiver-matcher/internal/matching"
	"caregiver-matcher/pkg/registry"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var registryPath string

	cmd := &cobra.Command{
		Use:          "registry-updater",
		Short:        "Maintain the algorithm preset file",
		SilenceUsage: true,
		Example: `  registry-updater add --id urgent_v2 --name "Urgent v2" --from urgent_proximity_v1
  registry-updater update --id urgent_v2 --field weights.locationProximity --value 0.4
  registry-updater set-default --id urgent_v2
  registry-updater validate --path configs/algorithms.json`,
	}
	cmd.PersistentFlags().StringVar(&registryPath, "path", "configs/algorithms.json", "path to the preset file")

	cmd.AddCommand(
		newAddCmd(&registryPath),
		newUpdateCmd(&registryPath),
		newSetDefaultCmd(&registryPath),
		newValidateCmd(&registryPath),
	)
	return cmd
}

func newAddCmd(path *string) *cobra.Command {
	var id, name, version, from string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a preset, copied from an existing one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := addAlgorithm(*path, id, name, version, from); err != nil {
				return fmt.Errorf("add algorithm: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added algorithm: %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "algorithm id")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&version, "version", "1.0.0", "version")
	cmd.Flags().StringVar(&from, "from", matching.DefaultAlgorithmID, "preset to copy")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newUpdateCmd(path *string) *cobra.Command {
	var id, field, value string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Set one field of a preset, e.g. weights.locationProximity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := updateAlgorithm(*path, id, field, value); err != nil {
				return fmt.Errorf("update algorithm: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated algorithm %s, field %s to %s\n", id, field, value)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "algorithm id")
	cmd.Flags().StringVar(&field, "field", "", "dotted field path")
	cmd.Flags().StringVar(&value, "value", "", "new value")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newSetDefaultCmd(path *string) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "set-default",
		Short: "Select the preset used when a request names none",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, algos, err := loadFile(*path)
			if err != nil {
				return err
			}
			if _, ok := find(algos, id); !ok && id != matching.DefaultAlgorithmID {
				return fmt.Errorf("algorithm %s not found", id)
			}
			file.DefaultID = id
			if err := saveFile(*path, file, algos); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default algorithm is now %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "algorithm id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newValidateCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the preset file loads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return validateRegistry(*path, cmd.OutOrStdout())
		},
	}
}

// loadFile decodes every preset over the built-in default, the same way the
// service loads them.
func loadFile(path string) (*registry.AlgorithmRegistry, []matching.AlgorithmConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &registry.AlgorithmRegistry{Version: "1.0.0"}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load registry: %w", err)
	}

	var file registry.AlgorithmRegistry
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse registry: %w", err)
	}

	algos := make([]matching.AlgorithmConfig, 0, len(file.Algorithms))
	for i, raw := range file.Algorithms {
		algo := matching.DefaultAlgorithm()
		if err := json.Unmarshal(raw, &algo); err != nil {
			return nil, nil, fmt.Errorf("algorithm %d: %w", i, err)
		}
		algos = append(algos, algo)
	}
	return &file, algos, nil
}

func find(algos []matching.AlgorithmConfig, id string) (int, bool) {
	for i, a := range algos {
		if a.AlgorithmID == id {
			return i, true
		}
	}
	return -1, false
}

func addAlgorithm(path, id, name, version, from string) error {
	file, algos, err := loadFile(path)
	if err != nil {
		return err
	}
	if _, exists := find(algos, id); exists || id == matching.DefaultAlgorithmID {
		return fmt.Errorf("algorithm with ID %s already exists", id)
	}

	base := matching.DefaultAlgorithm()
	if from != matching.DefaultAlgorithmID {
		i, ok := find(algos, from)
		if !ok {
			return fmt.Errorf("base algorithm %s not found", from)
		}
		base = algos[i]
	}
	base.AlgorithmID = id
	base.Name = name
	base.Version = version

	return saveFile(path, file, append(algos, base))
}

// updateAlgorithm sets a dotted JSON field path. Numeric and boolean values are
// written as such; anything else as a string.
func updateAlgorithm(path, id, field, value string) error {
	file, algos, err := loadFile(path)
	if err != nil {
		return err
	}
	i, ok := find(algos, id)
	if !ok {
		return fmt.Errorf("algorithm with ID %s not found", id)
	}
	if field == "algorithmId" {
		return fmt.Errorf("algorithmId cannot be changed")
	}

	data, err := json.Marshal(algos[i])
	if err != nil {
		return err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if err := setPath(doc, strings.Split(field, "."), parseValue(value)); err != nil {
		return err
	}

	data, err = json.Marshal(doc)
	if err != nil {
		return err
	}
	updated := matching.DefaultAlgorithm()
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	algos[i] = updated

	return saveFile(path, file, algos)
}

func setPath(doc map[string]interface{}, keys []string, value interface{}) error {
	for _, key := range keys[:len(keys)-1] {
		next, ok := doc[key].(map[string]interface{})
		if !ok {
			return fmt.Errorf("unknown field: %s", key)
		}
		doc = next
	}
	last := keys[len(keys)-1]
	if _, ok := doc[last]; !ok {
		return fmt.Errorf("unknown field: %s", last)
	}
	doc[last] = value
	return nil
}

func parseValue(value string) interface{} {
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

func validateRegistry(path string, out io.Writer) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	fmt.Fprintf(out, "Registry validation passed. Found %d algorithms, default %s.\n", len(reg.IDs()), reg.DefaultID())
	return nil
}

func saveFile(path string, file *registry.AlgorithmRegistry, algos []matching.AlgorithmConfig) error {
	file.Algorithms = file.Algorithms[:0]
	for _, a := range algos {
		raw, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to marshal algorithm %s: %w", a.AlgorithmID, err)
		}
		file.Algorithms = append(file.Algorithms, raw)
	}
	file.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	// Refuse to write a file the service would reject.
	if _, err := registry.Parse(data); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
