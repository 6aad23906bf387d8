package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the per-project configuration file.
const ManifestName = "netc.toml"

// FindManifest walks up from start to locate netc.toml. start may be a
// directory or a design file, in which case the search begins in its
// directory.
func FindManifest(start string) (path string, ok bool, err error) {
	dir, err := searchStart(start)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		st, err := os.Stat(candidate)
		switch {
		case err == nil && !st.IsDir():
			return candidate, true, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// ProjectRoot returns the directory diagnostics are displayed relative to:
// the one holding netc.toml above entry, else the directory of entry itself.
func ProjectRoot(entry string) string {
	if manifest, ok, err := FindManifest(entry); err == nil && ok {
		return filepath.Dir(manifest)
	}
	dir, err := searchStart(entry)
	if err != nil {
		return ""
	}
	return dir
}

func searchStart(start string) (string, error) {
	if start == "" {
		start = "."
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && !st.IsDir() {
		abs = filepath.Dir(abs)
	}
	return abs, nil
}
