package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every design file read during one session. FileIDs are
// dense indexes into files. The import resolver is the only writer and adds
// files from one goroutine in discovery order.
type FileSet struct {
	files   []File
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// SetBaseDir sets the directory DisplayPath is relative to.
func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir falls back to the working directory when none was set.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add registers content that was already passed through Normalize.
// Paths are not deduplicated; the import resolver tracks what it loaded.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	next, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	id := FileID(next)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    filepath.ToSlash(filepath.Clean(path)),
		Content: content,
		LineIdx: BuildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	return id
}

// AddVirtual registers an in-memory buffer (tests, CLI arguments).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns nil for ids this set never handed out, NoFileID included.
func (fs *FileSet) Get(id FileID) *File {
	if uint64(id) >= uint64(len(fs.files)) {
		return nil
	}
	return &fs.files[id]
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Resolve maps both ends of span to line and column.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	if f := fs.Get(span.File); f != nil {
		start, end = f.Position(span.Start), f.Position(span.End)
	}
	return start, end
}

// DisplayPath is what diagnostics print for id: virtual and relative paths
// as given, absolute paths relative to BaseDir.
func (fs *FileSet) DisplayPath(id FileID) string {
	f := fs.Get(id)
	switch {
	case f == nil:
		return "<unknown>"
	case f.Flags&FileVirtual != 0, !filepath.IsAbs(f.Path):
		return f.Path
	}
	return RelativePath(f.Path, fs.BaseDir())
}
