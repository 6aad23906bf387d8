package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// EnvLibPath lists extra library roots, separated like PATH.
const EnvLibPath = "NETC_LIB_PATH"

// EnvRoots returns the roots listed in NETC_LIB_PATH.
func EnvRoots() []string {
	var out []string
	for _, r := range filepath.SplitList(os.Getenv(EnvLibPath)) {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

type lookupStatus uint8

const (
	lookupFound lookupStatus = iota
	lookupNotFound
	lookupAmbiguous
	lookupFailed
)

type lookupResult struct {
	status     lookupStatus
	path       string
	candidates []string
	searched   []string
	err        error
}

// isExplicitRelative reports whether p is anchored at the importing file.
func isExplicitRelative(p string) bool {
	p = filepath.ToSlash(p)
	return p == "." || p == ".." || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../")
}

// lookupImport resolves an import path written in a file located in dir.
// Explicit relative paths are tried only against dir; other paths are tried
// against every root, and more than one hit is ambiguous.
func lookupImport(dir, p string, roots []string) lookupResult {
	switch {
	case filepath.IsAbs(p):
		return probeOne(filepath.Clean(p))
	case isExplicitRelative(p):
		return probeOne(filepath.Join(dir, p))
	}
	res := lookupResult{status: lookupNotFound}
	seen := make(map[string]bool, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(filepath.Join(root, p))
		if err != nil {
			continue
		}
		res.searched = append(res.searched, root)
		if seen[abs] {
			continue
		}
		seen[abs] = true
		ok, err := isFile(abs)
		if err != nil {
			return lookupResult{status: lookupFailed, path: abs, err: err}
		}
		if ok {
			res.candidates = append(res.candidates, abs)
		}
	}
	switch len(res.candidates) {
	case 0:
		return res
	case 1:
		res.status, res.path = lookupFound, res.candidates[0]
	default:
		res.status = lookupAmbiguous
	}
	return res
}

func probeOne(p string) lookupResult {
	abs, err := filepath.Abs(p)
	if err != nil {
		return lookupResult{status: lookupFailed, path: p, err: err}
	}
	ok, err := isFile(abs)
	switch {
	case err != nil:
		return lookupResult{status: lookupFailed, path: abs, err: err}
	case !ok:
		return lookupResult{status: lookupNotFound, path: abs}
	}
	return lookupResult{status: lookupFound, path: abs}
}

func isFile(p string) (bool, error) {
	st, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return st.Mode().IsRegular(), nil
}
