package openapi

import "os"

// Config holds the document metadata shown in /openapi.json.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

type ConfigEnv struct {
	Title       string
	Description string
}

func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "CRUD Generator API"
	}
	if c.Description == "" {
		c.Description = "JSON CRUD endpoints generated from model definitions."
	}
	if env != nil {
		if v := getenv(env.Title); v != "" {
			c.Title = v
		}
		if v := getenv(env.Description); v != "" {
			c.Description = v
		}
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
