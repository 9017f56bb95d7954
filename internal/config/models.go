package config

import (
	"fmt"

	"github.com/JaimeStill/crud-generator/pkg/crud"
	"github.com/JaimeStill/crud-generator/pkg/model"
)

// ModelConfig declares a model inline under [[models]] together with its
// presentation settings.
type ModelConfig struct {
	Name    string           `toml:"name"`
	Table   string           `toml:"table"`
	Columns []model.Column   `toml:"columns"`
	List    *crud.ListConfig `toml:"list"`

	// Forms renders create and edit pages through validating, CSRF-protected
	// form descriptors instead of plain column inputs.
	Forms bool `toml:"forms"`

	// SkipWeb registers only the JSON API for the model.
	SkipWeb bool `toml:"skip_web"`
}

// Definition returns the model definition declared by the entry.
func (m ModelConfig) Definition() model.Definition {
	return model.Definition{Name: m.Name, Table: m.Table, Columns: m.Columns}
}

// ResolveModels returns every configured model: the entries of models_file
// first, then the inline [[models]]. Definitions are normalized and
// validated, and model names must be unique across both sources.
func (c *Config) ResolveModels() ([]ModelConfig, error) {
	var entries []ModelConfig

	if c.ModelsFile != "" {
		defs, err := model.LoadFile(c.ModelsFile)
		if err != nil {
			return nil, fmt.Errorf("models_file: %w", err)
		}
		for _, d := range defs {
			entries = append(entries, ModelConfig{Name: d.Name, Table: d.Table, Columns: d.Columns})
		}
	}
	entries = append(entries, c.Models...)

	defs := make([]model.Definition, len(entries))
	for i, e := range entries {
		defs[i] = e.Definition()
	}
	if err := model.Prepare(defs); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Table = defs[i].Table
		entries[i].Columns = defs[i].Columns
	}
	return entries, nil
}
