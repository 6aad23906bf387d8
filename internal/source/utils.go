package source

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a leading BOM and turns CRLF into LF. A lone '\r' stays.
// The returned flags record what was changed.
func Normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, bom); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// BuildLineIndex returns the offsets of every '\n' in content.
func BuildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off, c := range content {
		if c == '\n' {
			idx = append(idx, uint32(off))
		}
	}
	return idx
}

// lineStart returns the offset of the first byte of 1-based line,
// false when the content has fewer lines.
func lineStart(lineIdx []uint32, line uint32) (uint32, bool) {
	switch {
	case line <= 1:
		return 0, true
	case int(line-2) >= len(lineIdx):
		return 0, false
	}
	return lineIdx[line-2] + 1, true
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// переводов строк строго до off
	n := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	start, _ := lineStart(lineIdx, uint32(n+1))
	return LineCol{Line: uint32(n + 1), Col: off - start + 1}
}

// OffsetOf converts a 1-based line/column pair back into a byte offset.
// Out of range positions are clamped to the content.
func OffsetOf(lineIdx []uint32, contentLen int, pos LineCol) uint32 {
	if pos.Line == 0 {
		return 0
	}
	limit := uint32(contentLen)
	start, ok := lineStart(lineIdx, pos.Line)
	if !ok {
		return limit
	}
	if pos.Col > 0 {
		start += pos.Col - 1
	}
	return min(start, limit)
}

// Position converts a byte offset of f into line and column.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// Line returns 1-based line n without its trailing newline, or "" past EOF.
func (f *File) Line(n uint32) string {
	if n == 0 {
		return ""
	}
	start, ok := lineStart(f.LineIdx, n)
	if !ok {
		return ""
	}
	end := uint32(len(f.Content))
	if int(n-1) < len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// RelativePath returns path relative to base (the working directory when
// empty), or path unchanged when no relative form exists.
func RelativePath(path, base string) string {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return path
		}
		base = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
