package source

import (
	"fmt"
)

// Span is a half-open byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// NoSpan is used for diagnostics that are not tied to a location.
var NoSpan = Span{File: NoFileID}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// IsKnown reports whether the span points into a loaded file.
func (s Span) IsKnown() bool {
	return s.File != NoFileID
}

func (s Span) String() string {
	if !s.IsKnown() {
		return "?"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends s so that it also includes other. Spans from different files
// are left untouched.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Sub returns the span of bytes [from, to) relative to the start of s.
// Used to point at a group inside a pattern expression.
func (s Span) Sub(from, to int) Span {
	if !s.IsKnown() || from < 0 || to < from {
		return s
	}
	start := s.Start + uint32(from)
	end := s.Start + uint32(to)
	if end > s.End {
		end = s.End
	}
	if start > end {
		start = end
	}
	return Span{File: s.File, Start: start, End: end}
}
