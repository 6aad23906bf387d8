package diagfmt

// PathMode selects how file paths are printed in diagnostics.
type PathMode uint8

const (
	// PathModeAuto prints project-relative paths and falls back to the
	// basename for long absolute ones.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = map[string]PathMode{
	"":         PathModeAuto,
	"auto":     PathModeAuto,
	"absolute": PathModeAbsolute,
	"abs":      PathModeAbsolute,
	"relative": PathModeRelative,
	"rel":      PathModeRelative,
	"basename": PathModeBasename,
	"base":     PathModeBasename,
}

// ParsePathMode accepts auto|absolute|relative|basename and their short forms.
func ParsePathMode(s string) (PathMode, bool) {
	mode, ok := pathModeNames[s]
	return mode, ok
}

type PrettyOpts struct {
	Color     bool
	Context   int8 // строки контекста вокруг основной
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// SarifRunMeta fills the tool and invocation sections of a SARIF run.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
