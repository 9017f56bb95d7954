package main

import (
	"errors"
	"io/fs"

	"github.com/JaimeStill/crud-generator/internal/config"
)

// loadConfig reads and finalizes the configuration. A missing file is only
// tolerated for the default path, so the service runs on defaults and
// environment variables alone. mutate runs before Finalize, so environment
// variables still take precedence over it.
func loadConfig(opts *rootOptions, explicit bool, mutate func(*config.Config)) (*config.Config, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &config.Config{}
	}

	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// storageless selects the memory backend for commands that never touch records.
func storageless(cfg *config.Config) {
	cfg.Session = config.BackendMemory
}
