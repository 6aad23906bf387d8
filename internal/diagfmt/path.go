package diagfmt

import (
	"path/filepath"
	"strings"

	"netc/internal/source"
)

// autoPathLimit is the length above which PathModeAuto prints the basename
// of an absolute path.
const autoPathLimit = 48

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return "<netc>"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil && f.Flags&source.FileVirtual == 0 {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		return source.RelativePath(f.Path, fs.BaseDir())
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	if filepath.IsAbs(f.Path) && len(f.Path) > autoPathLimit {
		return filepath.Base(f.Path)
	}
	if f.Flags&source.FileVirtual == 0 && filepath.IsAbs(f.Path) {
		if rel := fs.DisplayPath(id); !strings.HasPrefix(rel, "../") {
			return rel
		}
	}
	return f.Path
}
