package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, dir, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "netc.toml"), []byte(data), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoadProjectManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `# test manifest
[paths]
lib_roots = ["lib", "/opt/cells"]

[pattern]
max_atoms = 512

[diag]
max = 50
`)
	nested := filepath.Join(root, "src", "top")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := loadProjectManifest(nested)
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	if m.Config.Pattern.MaxAtoms != 512 || m.Config.Diag.Max != 50 {
		t.Fatalf("config = %+v", m.Config)
	}
	want := []string{filepath.Join(root, "lib"), "/opt/cells"}
	if diff := cmp.Diff(want, m.LibRoots()); diff != "" {
		t.Fatalf("lib roots (-want +got):\n%s", diff)
	}
}

func TestLoadProjectManifestMissing(t *testing.T) {
	m, ok, err := loadProjectManifest(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// выше TempDir манифеста нет
	if ok || m != nil {
		t.Skip("a netc.toml exists above the temp dir")
	}
	if m.LibRoots() != nil {
		t.Fatalf("nil manifest must have no lib roots")
	}
}

func TestLoadProjectConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[paths\n", "failed to parse TOML"},
		{"unknown key", "[paths]\nlibs = []\n", "unknown keys: paths.libs"},
		{"max atoms", "[pattern]\nmax_atoms = 0\n", "max_atoms must be positive"},
		{"diag max", "[diag]\nmax = -1\n", "[diag].max must be positive"},
		{"empty root", "[paths]\nlib_roots = [\" \"]\n", "lib_roots[0] is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tt.data)
			_, err := loadProjectConfig(filepath.Join(dir, "netc.toml"))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}
