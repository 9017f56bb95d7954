package web

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docker/go-units"
)

// Config contains settings for the generated HTML pages.
type Config struct {
	// TemplateDir is the host directory bundled templates are installed
	// into and parsed from. Default: "templates"
	TemplateDir string `toml:"template_dir"`
	// MaxBodySize caps form and JSON request bodies, e.g. "1MB".
	MaxBodySize    string `toml:"max_body_size"`
	maxBodySizeVal int64
	// Sanitize strips HTML markup from submitted form text.
	Sanitize bool `toml:"sanitize"`
}

// Env maps environment variable names for web configuration.
type Env struct {
	TemplateDir string
	MaxBodySize string
	Sanitize    string
}

// MaxBodySizeBytes returns the parsed body limit. It is only valid after Finalize.
func (c *Config) MaxBodySizeBytes() int64 {
	return c.maxBodySizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.TemplateDir != "" {
		c.TemplateDir = overlay.TemplateDir
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	if overlay.Sanitize {
		c.Sanitize = true
	}
}

func (c *Config) loadDefaults() {
	if c.TemplateDir == "" {
		c.TemplateDir = "templates"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MiB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.TemplateDir != "" {
		if v := os.Getenv(env.TemplateDir); v != "" {
			c.TemplateDir = v
		}
	}
	if env.MaxBodySize != "" {
		if v := os.Getenv(env.MaxBodySize); v != "" {
			c.MaxBodySize = v
		}
	}
	if env.Sanitize != "" {
		if v := os.Getenv(env.Sanitize); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Sanitize = b
			}
		}
	}
}

func (c *Config) validate() error {
	size, err := units.RAMInBytes(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_body_size must be positive")
	}
	c.maxBodySizeVal = size
	return nil
}
