package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// defaultsFile is the embedded base every configuration starts from.
const defaultsFile = "defaults.json"

// decode unmarshals JSON into a T. Unknown keys are rejected.
func decode[T any](name string, content []byte, into *T) error {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("failed to parse JSON from %s: %w", name, err)
	}
	return nil
}

// loadEmbedded reads and decodes a file from the embedded filesystem.
func loadEmbedded[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}
	if err := decode(filename, content, &result); err != nil {
		return result, err
	}
	return result, nil
}

// overlayFile decodes a JSON file from disk on top of cfg. Keys absent from
// the file keep their current values.
func overlayFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return decode(path, content, cfg)
}
