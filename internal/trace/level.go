package trace

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // only dumped after an internal error
	LevelStage        // driver + stage boundaries
	LevelDetail       // plus files
	LevelDebug        // everything
)

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelStage:
		return scope <= ScopeStage
	case LevelDetail:
		return scope <= ScopeFile
	case LevelDebug:
		return true
	}
	// LevelError пишет только в ring, который сам решает, что хранить
	return false
}

// records reports whether events of scope must be produced at all. A ring
// at LevelError keeps every scope for crash dumps.
func (l Level) records(scope Scope) bool {
	return l == LevelError || l.ShouldEmit(scope)
}
