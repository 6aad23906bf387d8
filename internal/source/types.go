package source

type (
	// FileID uniquely identifies a design file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a design file.
	FileFlags uint8
)

// NoFileID marks spans that do not point into any loaded file.
const NoFileID FileID = ^FileID(0)

const (
	// FileVirtual indicates the file was added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single design file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a design file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
