package symbols

import (
	"fmt"
	"strings"

	"netc/internal/diag"
	"netc/internal/document"
	"netc/internal/source"
)

// Substituter expands "{name}" placeholders with module variables.
// Variables may reference each other; cycles and undefined names are
// reported once and the affected values fail.
type Substituter struct {
	rep       diag.Reporter
	vars      map[string]document.Scalar
	resolving map[string]bool
	resolved  map[string]string
	failed    map[string]bool
	stack     []string
}

func NewSubstituter(vars []document.Entry, rep diag.Reporter) *Substituter {
	s := &Substituter{
		rep:       rep,
		vars:      make(map[string]document.Scalar, len(vars)),
		resolving: make(map[string]bool),
		resolved:  make(map[string]string),
		failed:    make(map[string]bool),
	}
	for _, v := range vars {
		s.vars[v.Key.Value] = v.Value
	}
	return s
}

// Value returns the fully substituted value of variable name.
func (s *Substituter) Value(name string) (string, bool) {
	if v, ok := s.resolved[name]; ok {
		return v, true
	}
	if s.failed[name] {
		return "", false
	}
	raw, ok := s.vars[name]
	if !ok {
		return "", false
	}
	if s.resolving[name] {
		s.reportCycle(name, raw.Span)
		return "", false
	}
	s.resolving[name] = true
	s.stack = append(s.stack, name)
	out, ok := s.expand(raw.Value, raw.Span)
	s.stack = s.stack[:len(s.stack)-1]
	delete(s.resolving, name)
	if !ok {
		s.failed[name] = true
		return "", false
	}
	s.resolved[name] = out
	return out, true
}

// Substitute expands every placeholder in text. span locates text for
// diagnostics about undefined variables.
func (s *Substituter) Substitute(text string, span source.Span) (string, bool) {
	return s.expand(text, span)
}

func (s *Substituter) expand(text string, span source.Span) (string, bool) {
	if !strings.Contains(text, "{") {
		return text, true
	}
	var sb strings.Builder
	ok := true
	for i := 0; i < len(text); {
		open := strings.IndexByte(text[i:], '{')
		if open < 0 {
			sb.WriteString(text[i:])
			break
		}
		open += i
		end := strings.IndexByte(text[open:], '}')
		if end < 0 {
			sb.WriteString(text[i:])
			break
		}
		end += open
		name := text[open+1 : end]
		sb.WriteString(text[i:open])
		i = end + 1
		if !isVarName(name) {
			sb.WriteString(text[open:i])
			continue
		}
		if _, known := s.vars[name]; !known {
			diag.ReportError(s.rep, diag.SymUndefinedVariable, span.Sub(open, i),
				fmt.Sprintf("undefined variable %q", name)).Emit()
			ok = false
			continue
		}
		v, vok := s.Value(name)
		if !vok {
			ok = false
			continue
		}
		sb.WriteString(v)
	}
	return sb.String(), ok
}

func (s *Substituter) reportCycle(name string, span source.Span) {
	start := 0
	for i, n := range s.stack {
		if n == name {
			start = i
			break
		}
	}
	chain := append(append([]string(nil), s.stack[start:]...), name)
	for _, n := range s.stack[start:] {
		s.failed[n] = true
	}
	diag.ReportError(s.rep, diag.SymVariableCycle, span,
		fmt.Sprintf("variable cycle: %s", strings.Join(chain, " -> "))).Emit()
}

func isVarName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
