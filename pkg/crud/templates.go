package crud

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed templates/*.html
var bundled embed.FS

// Templates exposes the bundled template files at the root of the FS.
func Templates() fs.FS {
	sub, err := fs.Sub(bundled, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// InstallTemplates copies every bundled template into dir, creating it
// when missing. Same-named files are overwritten without confirmation.
// It returns the paths written.
func InstallTemplates(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create template dir: %w", err)
	}

	src := Templates()
	entries, err := fs.ReadDir(src, ".")
	if err != nil {
		return nil, fmt.Errorf("read bundled templates: %w", err)
	}

	written := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := fs.ReadFile(src, e.Name())
		if err != nil {
			return written, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		dst := filepath.Join(dir, e.Name())
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return written, fmt.Errorf("install %s: %w", e.Name(), err)
		}
		written = append(written, dst)
	}
	return written, nil
}
