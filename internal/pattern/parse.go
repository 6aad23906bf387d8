package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"netc/internal/diag"
	"netc/internal/source"
)

// DefaultMaxAtoms bounds the expansion of a single expression.
const DefaultMaxAtoms = 10000

// Options controls parsing and expansion of one expression.
type Options struct {
	// MaxAtoms caps the total atom count; 0 means DefaultMaxAtoms.
	MaxAtoms int
	// NoSplice rejects ';'-separated segments (e.g. port names).
	NoSplice bool
	// Named maps axis names to their definitions ("<0,1>", "[3:0]").
	Named map[string]string
	// Span locates the expression in its file; diagnostics point inside it.
	Span source.Span
}

func (o Options) maxAtoms() int {
	if o.MaxAtoms <= 0 {
		return DefaultMaxAtoms
	}
	return o.MaxAtoms
}

type parser struct {
	raw    string
	opts   Options
	rep    diag.Reporter
	failed bool
}

// Parse splits raw into segments and groups. It reports every syntax problem
// it can find and returns false if any of them is an error.
func Parse(raw string, opts Options, rep diag.Reporter) (*Expression, bool) {
	if opts.Span == (source.Span{}) {
		opts.Span = source.NoSpan
	}
	p := &parser{raw: raw, opts: opts, rep: rep}
	if strings.TrimSpace(raw) == "" {
		p.errorf(diag.PatEmptyExpression, 0, len(raw), "empty pattern expression")
		return nil, false
	}
	expr := p.parse()
	if p.failed {
		return nil, false
	}
	return expr, true
}

func (p *parser) parse() *Expression {
	expr := &Expression{Raw: p.raw}
	var pieces []Piece
	segStart, textStart := 0, 0

	flushText := func(end int) {
		if end > textStart {
			pieces = append(pieces, Piece{Text: p.raw[textStart:end]})
		}
	}
	finishSegment := func(end int) {
		if len(pieces) == 0 {
			p.errorf(diag.PatEmptySegment, segStart, end, fmt.Sprintf("empty segment in %q", p.raw))
		}
		expr.Segments = append(expr.Segments, Segment{Pieces: pieces, Start: segStart, End: end})
		pieces = nil
	}

	for i := 0; i < len(p.raw); {
		switch c := p.raw[i]; c {
		case ';':
			flushText(i)
			finishSegment(i)
			segStart = i + 1
			textStart = i + 1
			i++
		case '<', '[':
			flushText(i)
			end := p.findClose(i)
			if end < 0 {
				return expr
			}
			if g := p.parseGroup(i, end); g != nil {
				pieces = append(pieces, Piece{Group: g})
			}
			i = end + 1
			textStart = i
		case '>', ']':
			p.errorf(diag.PatUnexpectedClose, i, i+1, fmt.Sprintf("unexpected %q in %q", c, p.raw))
			i++
		default:
			i++
		}
	}
	flushText(len(p.raw))
	finishSegment(len(p.raw))

	if p.opts.NoSplice && len(expr.Segments) > 1 {
		p.errorf(diag.PatSpliceNotAllowed, 0, len(p.raw), fmt.Sprintf("splice ';' is not allowed in %q", p.raw))
	}
	return expr
}

// findClose returns the index of the delimiter closing the group opened at
// open, or -1 after reporting an unclosed or nested group.
func (p *parser) findClose(open int) int {
	closeCh := byte('>')
	if p.raw[open] == '[' {
		closeCh = ']'
	}
	for j := open + 1; j < len(p.raw); j++ {
		switch p.raw[j] {
		case closeCh:
			return j
		case '<', '[':
			p.errorf(diag.PatNestedGroup, open, j+1, fmt.Sprintf("nested group in %q", p.raw))
			return -1
		case ';', '>', ']':
			p.errorf(diag.PatUnclosedGroup, open, j, fmt.Sprintf("unclosed %q in %q", p.raw[open], p.raw))
			return -1
		}
	}
	p.errorf(diag.PatUnclosedGroup, open, len(p.raw), fmt.Sprintf("unclosed %q in %q", p.raw[open], p.raw))
	return -1
}

func (p *parser) parseGroup(open, end int) *Group {
	content := p.raw[open+1 : end]
	if p.raw[open] == '[' {
		return p.parseRange(content, open, end+1)
	}
	if strings.HasPrefix(content, "@") {
		return p.parseNamed(content[1:], open, end+1)
	}
	return p.parseEnum(content, open, end+1)
}

func (p *parser) parseEnum(content string, start, end int) *Group {
	if strings.TrimSpace(content) == "" {
		p.errorf(diag.PatEmptyGroup, start, end, fmt.Sprintf("empty enumeration in %q", p.raw))
		return nil
	}
	raw := strings.Split(content, ",")
	items := make([]Part, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			p.errorf(diag.PatEmptyItem, start, end, fmt.Sprintf("empty item in enumeration <%s>", content))
			return nil
		}
		items = append(items, Literal(item))
	}
	if len(items) == 1 {
		diag.ReportWarning(p.rep, diag.PatSingleItem, p.opts.Span.Sub(start, end),
			fmt.Sprintf("enumeration <%s> has a single item", content)).Emit()
	}
	return &Group{Kind: GroupEnum, Items: items, Start: start, End: end}
}

func (p *parser) parseRange(content string, start, end int) *Group {
	if strings.TrimSpace(content) == "" {
		p.errorf(diag.PatEmptyGroup, start, end, fmt.Sprintf("empty range in %q", p.raw))
		return nil
	}
	bounds := strings.Split(content, ":")
	if len(bounds) != 2 {
		p.errorf(diag.PatInvalidRange, start, end, fmt.Sprintf("range [%s] must have the form [hi:lo]", content))
		return nil
	}
	hi, errHi := strconv.Atoi(strings.TrimSpace(bounds[0]))
	lo, errLo := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if errHi != nil || errLo != nil || hi < 0 || lo < 0 {
		p.errorf(diag.PatInvalidRange, start, end, fmt.Sprintf("range [%s] bounds must be non-negative integers", content))
		return nil
	}
	// span cannot overflow for non-negative bounds; span+1 can
	step, span := 1, lo-hi
	if hi > lo {
		step, span = -1, hi-lo
	}
	if span >= p.opts.maxAtoms() {
		p.errorf(diag.PatTooManyAtoms, start, end,
			fmt.Sprintf("range [%s] yields %d values, limit is %d", content, uint64(span)+1, p.opts.maxAtoms()))
		return nil
	}
	items := make([]Part, 0, span+1)
	for v := hi; ; v += step {
		items = append(items, Numeric(v))
		if v == lo {
			break
		}
	}
	return &Group{Kind: GroupRange, Items: items, Start: start, End: end}
}

func (p *parser) parseNamed(name string, start, end int) *Group {
	if !isAxisName(name) {
		p.errorf(diag.PatInvalidAxisName, start, end, fmt.Sprintf("invalid named pattern reference <@%s>", name))
		return nil
	}
	def, ok := p.opts.Named[name]
	if !ok {
		p.errorf(diag.PatUnknownNamed, start, end, fmt.Sprintf("unknown named pattern %q", name))
		return nil
	}
	g, ok := parseDefinition(def, p.opts.MaxAtoms)
	if !ok {
		p.errorf(diag.PatInvalidNamed, start, end,
			fmt.Sprintf("named pattern %q must be a single group such as <a,b> or [3:0], got %q", name, def))
		return nil
	}
	return &Group{Kind: g.Kind, Items: g.Items, Axis: name, Start: start, End: end}
}

// parseDefinition parses the right-hand side of a named pattern.
func parseDefinition(def string, maxAtoms int) (*Group, bool) {
	var sink diag.Collector
	expr, ok := Parse(strings.TrimSpace(def), Options{MaxAtoms: maxAtoms, NoSplice: true}, &sink)
	if !ok || len(expr.Segments) != 1 {
		return nil, false
	}
	pieces := expr.Segments[0].Pieces
	if len(pieces) != 1 || pieces[0].Group == nil || pieces[0].Group.Axis != "" {
		return nil, false
	}
	return pieces[0].Group, true
}

// ValidateNamed checks a named pattern definition in isolation.
func ValidateNamed(name, def string, span source.Span, rep diag.Reporter) bool {
	if !isAxisName(name) {
		diag.ReportError(rep, diag.PatInvalidAxisName, span, fmt.Sprintf("invalid named pattern name %q", name)).Emit()
		return false
	}
	if _, ok := parseDefinition(def, 0); !ok {
		diag.ReportError(rep, diag.PatInvalidNamed, span,
			fmt.Sprintf("named pattern %q must be a single group such as <a,b> or [3:0], got %q", name, def)).Emit()
		return false
	}
	return true
}

func isAxisName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func (p *parser) errorf(code diag.Code, start, end int, msg string) {
	p.failed = true
	diag.ReportError(p.rep, code, p.opts.Span.Sub(start, end), msg).Emit()
}
