package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"netc/internal/diag"
	"netc/internal/source"
)

// Decode registers src in fs and converts its YAML tree into a Document.
// Malformed declarations are reported and skipped; the returned document is
// never nil.
func Decode(fs *source.FileSet, src *Source, rep diag.Reporter) *Document {
	id := fs.Add(src.Path, src.Content, src.Flags)
	file := fs.Get(id)
	doc := &Document{File: id, Path: file.Path}
	d := decoder{file: file, rep: rep}
	if src.Err != nil {
		d.syntaxError(src.Err)
		return doc
	}
	root := src.Root
	if root == nil {
		return doc
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return doc
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return doc
	}
	d.document(root, doc)
	return doc
}

// DecodeBytes is a shortcut for tests and in-memory documents.
func DecodeBytes(fs *source.FileSet, path string, content []byte, rep diag.Reporter) *Document {
	content, flags := source.Normalize(content)
	return Decode(fs, FromBytes(path, content, flags|source.FileVirtual), rep)
}

type decoder struct {
	file *source.File
	rep  diag.Reporter
}

var syntaxLine = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

func (d *decoder) syntaxError(err error) {
	msg := err.Error()
	span := source.Span{File: d.file.ID}
	if m := syntaxLine.FindStringSubmatch(msg); m != nil {
		if line, convErr := strconv.ParseUint(m[1], 10, 32); convErr == nil {
			off := source.OffsetOf(d.file.LineIdx, len(d.file.Content), source.LineCol{Line: uint32(line), Col: 1})
			span = source.Span{File: d.file.ID, Start: off, End: off}
		}
		msg = m[2]
	}
	diag.ReportError(d.rep, diag.DocSyntax, span, "invalid YAML: "+msg).Emit()
}

func (d *decoder) errorf(code diag.Code, n *yaml.Node, format string, args ...any) {
	diag.ReportError(d.rep, code, d.span(n), fmt.Sprintf(format, args...)).Emit()
}

// span covers the text of a scalar; for other nodes it is the start position.
func (d *decoder) span(n *yaml.Node) source.Span {
	if n == nil || n.Line == 0 {
		return source.Span{File: d.file.ID}
	}
	line := uint32(n.Line) // #nosec G115 -- yaml lines fit in uint32 for files FileSet accepted
	start := source.OffsetOf(d.file.LineIdx, len(d.file.Content), source.LineCol{
		Line: line,
		Col:  byteColumn(d.file.Line(line), n.Column),
	})
	end := start
	if n.Kind == yaml.ScalarNode {
		if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
			start++
		}
		end = start + uint32(len(n.Value))
		if limit := uint32(len(d.file.Content)); end > limit {
			end = limit
		}
		if start > end {
			start = end
		}
	}
	return source.Span{File: d.file.ID, Start: start, End: end}
}

// byteColumn converts yaml's 1-based column, counted in characters, into a
// 1-based byte column of text.
func byteColumn(text string, col int) uint32 {
	seen := 1
	for off := range text {
		if seen == col {
			return uint32(off + 1) // #nosec G115 -- line length is bounded by the file size
		}
		seen++
	}
	return uint32(len(text) + 1 + max(col-seen, 0)) // #nosec G115 -- as above
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// mapping walks an ordered mapping, reporting duplicate and non-scalar keys.
func (d *decoder) mapping(n *yaml.Node, what string, fn func(key Scalar, keyNode, value *yaml.Node)) bool {
	n = resolve(n)
	if isNull(n) {
		return true
	}
	if n.Kind != yaml.MappingNode {
		d.errorf(diag.DocShape, n, "%s must be a mapping", what)
		return false
	}
	seen := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, value := resolve(n.Content[i]), resolve(n.Content[i+1])
		if keyNode.Kind != yaml.ScalarNode {
			d.errorf(diag.DocShape, keyNode, "keys of %s must be strings", what)
			continue
		}
		if prev, dup := seen[keyNode.Value]; dup {
			diag.ReportError(d.rep, diag.DocDuplicateKey, d.span(keyNode),
				fmt.Sprintf("duplicate key %q in %s", keyNode.Value, what)).
				WithNote(d.span(prev), "first defined here").
				Emit()
			continue
		}
		seen[keyNode.Value] = keyNode
		fn(Scalar{Value: keyNode.Value, Span: d.span(keyNode)}, keyNode, value)
	}
	return true
}

func (d *decoder) scalar(n *yaml.Node, what string) (Scalar, bool) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode || isNull(n) {
		d.errorf(diag.DocShape, n, "%s must be a string", what)
		return Scalar{}, false
	}
	return Scalar{Value: n.Value, Span: d.span(n)}, true
}

// scalarList accepts a sequence of strings or a single string.
func (d *decoder) scalarList(n *yaml.Node, what string) []Scalar {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	if n.Kind == yaml.ScalarNode {
		return []Scalar{{Value: n.Value, Span: d.span(n)}}
	}
	if n.Kind != yaml.SequenceNode {
		d.errorf(diag.DocShape, n, "%s must be a list of strings", what)
		return nil
	}
	out := make([]Scalar, 0, len(n.Content))
	for _, item := range n.Content {
		if s, ok := d.scalar(item, "item of "+what); ok {
			out = append(out, s)
		}
	}
	return out
}

func (d *decoder) entries(n *yaml.Node, what string) []Entry {
	var out []Entry
	d.mapping(n, what, func(key Scalar, _, value *yaml.Node) {
		if v, ok := d.scalar(value, fmt.Sprintf("%s %q", what, key.Value)); ok {
			out = append(out, Entry{Key: key, Value: v})
		}
	})
	return out
}

func (d *decoder) name(key Scalar, keyNode *yaml.Node, what string) bool {
	if strings.TrimSpace(key.Value) == "" {
		d.errorf(diag.DocEmptyName, keyNode, "%s name is empty", what)
		return false
	}
	// имена сравниваются побайтно
	if !norm.NFC.IsNormalString(key.Value) {
		diag.ReportWarning(d.rep, diag.DocNotNormalized, key.Span,
			fmt.Sprintf("%s name %q is not in Unicode NFC form", what, key.Value)).
			WithNote(key.Span, fmt.Sprintf("normalized spelling is %q", norm.NFC.String(key.Value))).
			Emit()
	}
	return true
}

func (d *decoder) unknown(keyNode *yaml.Node, where string) {
	diag.ReportWarning(d.rep, diag.DocUnknownField, d.span(keyNode),
		fmt.Sprintf("unknown field %q in %s", keyNode.Value, where)).Emit()
}

func (d *decoder) document(root *yaml.Node, doc *Document) {
	d.mapping(root, "document", func(key Scalar, keyNode, value *yaml.Node) {
		switch key.Value {
		case "top":
			if s, ok := d.scalar(value, "top"); ok {
				doc.Top = &s
			}
		case "imports":
			for _, e := range d.entries(value, "imports") {
				doc.Imports = append(doc.Imports, Import{Namespace: e.Key, Path: e.Value})
			}
		case "devices":
			d.mapping(value, "devices", func(name Scalar, nameNode, body *yaml.Node) {
				if d.name(name, nameNode, "device") {
					doc.Devices = append(doc.Devices, d.device(name, body))
				}
			})
		case "modules":
			d.mapping(value, "modules", func(name Scalar, nameNode, body *yaml.Node) {
				if d.name(name, nameNode, "module") {
					doc.Modules = append(doc.Modules, d.module(name, body))
				}
			})
		default:
			d.unknown(keyNode, "document")
		}
	})
}

func (d *decoder) device(name Scalar, body *yaml.Node) *DeviceDecl {
	dev := &DeviceDecl{Name: name, Span: name.Span}
	where := fmt.Sprintf("device %q", name.Value)
	d.mapping(body, where, func(key Scalar, keyNode, value *yaml.Node) {
		switch key.Value {
		case "ports":
			dev.Ports = d.scalarList(value, "ports")
		case "parameters":
			dev.Parameters = d.entries(value, "parameters")
		case "backends":
			d.mapping(value, "backends", func(backend Scalar, _, fields *yaml.Node) {
				dev.Backends = append(dev.Backends, Backend{Name: backend, Fields: d.entries(fields, "backend "+backend.Value)})
			})
		default:
			d.unknown(keyNode, where)
		}
	})
	return dev
}

func (d *decoder) module(name Scalar, body *yaml.Node) *ModuleDecl {
	mod := &ModuleDecl{Name: name, Span: name.Span}
	where := fmt.Sprintf("module %q", name.Value)
	d.mapping(body, where, func(key Scalar, keyNode, value *yaml.Node) {
		switch key.Value {
		case "parameters":
			mod.Parameters = d.entries(value, "parameters")
		case "variables":
			mod.Variables = d.entries(value, "variables")
		case "patterns":
			mod.Patterns = d.entries(value, "patterns")
		case "instances":
			d.mapping(value, "instances", func(inst Scalar, instNode, token *yaml.Node) {
				if !d.name(inst, instNode, "instance") {
					return
				}
				if s, ok := d.scalar(token, fmt.Sprintf("instance %q", inst.Value)); ok {
					mod.Instances = append(mod.Instances, Entry{Key: inst, Value: s})
				}
			})
		case "nets":
			d.mapping(value, "nets", func(net Scalar, netNode, eps *yaml.Node) {
				if decl, ok := d.net(net, netNode, eps); ok {
					mod.Nets = append(mod.Nets, decl)
				}
			})
		case "instance_defaults":
			d.mapping(value, "instance_defaults", func(ref Scalar, _, body *yaml.Node) {
				mod.Defaults = append(mod.Defaults, d.defaults(ref, body))
			})
		default:
			d.unknown(keyNode, where)
		}
	})
	return mod
}

func (d *decoder) net(name Scalar, nameNode, eps *yaml.Node) (NetDecl, bool) {
	decl := NetDecl{Name: name}
	if strings.HasPrefix(name.Value, "$") {
		decl.Port = true
		decl.Name = Scalar{Value: name.Value[1:], Span: name.Span.Sub(1, len(name.Value))}
	}
	if !d.name(decl.Name, nameNode, "net") {
		return NetDecl{}, false
	}
	for _, ep := range d.scalarList(eps, fmt.Sprintf("endpoints of net %q", name.Value)) {
		ref := EndpointRef{Expr: ep}
		if strings.HasPrefix(ep.Value, "!") {
			ref.Suppressed = true
			ref.Expr = Scalar{Value: ep.Value[1:], Span: ep.Span.Sub(1, len(ep.Value))}
		}
		if strings.TrimSpace(ref.Expr.Value) == "" {
			diag.ReportError(d.rep, diag.DocInvalidEndpoint, ep.Span,
				fmt.Sprintf("empty endpoint on net %q", name.Value)).Emit()
			continue
		}
		decl.Endpoints = append(decl.Endpoints, ref)
	}
	return decl, true
}

func (d *decoder) defaults(ref Scalar, body *yaml.Node) DefaultDecl {
	decl := DefaultDecl{Ref: ref}
	where := fmt.Sprintf("instance_defaults %q", ref.Value)
	d.mapping(body, where, func(key Scalar, keyNode, value *yaml.Node) {
		if key.Value != "bindings" {
			d.unknown(keyNode, where)
			return
		}
		decl.Bindings = d.entries(value, "bindings")
	})
	return decl
}
