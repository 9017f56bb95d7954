package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type document struct {
	Models []Definition `yaml:"models"`
}

// LoadFile reads model definitions from a YAML document of the form
// {models: [...]}. Each definition is normalized and validated.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read models file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML model definitions.
func Parse(data []byte) ([]Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}

	if err := Prepare(doc.Models); err != nil {
		return nil, err
	}
	return doc.Models, nil
}

// Prepare normalizes and validates each definition in place and rejects
// definitions that share a key.
func Prepare(defs []Definition) error {
	seen := make(map[string]struct{}, len(defs))
	for i := range defs {
		defs[i].Normalize()
		if err := defs[i].Validate(); err != nil {
			return err
		}
		key := defs[i].Key()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate model %q", ErrInvalidDefinition, defs[i].Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}
