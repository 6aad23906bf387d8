package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"netc/internal/diag"
	"netc/internal/document"
	"netc/internal/ids"
	"netc/internal/source"
	"netc/internal/symbols"
	"netc/internal/trace"
)

// ResolveOptions configures import discovery.
type ResolveOptions struct {
	// LibRoots are searched in order for non-relative import paths.
	LibRoots []string
	// EnvRoots are searched after LibRoots; see EnvRoots.
	EnvRoots []string
	// Jobs bounds concurrent file reads; <= 0 means GOMAXPROCS.
	Jobs int
	// FileSet receives every loaded file; a new one is created when nil.
	FileSet *source.FileSet
}

// Edge is one namespace binding of a file.
type Edge struct {
	Namespace string
	Target    source.FileID
	Span      source.Span
}

// FileNode is one design file of the graph.
type FileNode struct {
	ID      source.FileID
	Path    string
	Doc     *document.Document
	Imports []Edge
}

// ImportGraph is every file reachable from the entry file plus the global
// symbol table. It is read-only once Resolve returns.
type ImportGraph struct {
	// Files in discovery order, entry file first.
	Files   []*FileNode
	FileSet *source.FileSet
	DB      *symbols.ProgramDB
	// Broken is set when any error was reported while resolving; the graph
	// then holds whatever could be loaded.
	Broken bool
	byID   map[source.FileID]*FileNode
}

// Lookup implements symbols.Bindings.
func (g *ImportGraph) Lookup(file source.FileID, namespace string) (source.FileID, bool) {
	node := g.byID[file]
	if node == nil {
		return 0, false
	}
	for _, e := range node.Imports {
		if e.Namespace == namespace {
			return e.Target, true
		}
	}
	return 0, false
}

// Node returns the file node for id, or nil.
func (g *ImportGraph) Node(id source.FileID) *FileNode {
	return g.byID[id]
}

// Docs returns the documents in discovery order.
func (g *ImportGraph) Docs() []*document.Document {
	out := make([]*document.Document, len(g.Files))
	for i, n := range g.Files {
		out[i] = n.Doc
	}
	return out
}

// Resolve loads entry and everything it imports, depth first. Files of one
// importer are read concurrently, but file ids and symbol ids are assigned in
// discovery order so the result does not depend on scheduling.
//
// An import cycle is reported once with its full chain and yields a nil
// graph. Other errors mark the graph Broken. The returned error is only set
// when ctx is cancelled.
func Resolve(ctx context.Context, entry string, opts ResolveOptions, alloc *ids.Allocator, rep diag.Reporter) (*ImportGraph, error) {
	fileSet := opts.FileSet
	if fileSet == nil {
		fileSet = source.NewFileSet()
	}
	tracker := &diag.ErrorTracker{Next: rep}
	r := &resolver{
		ctx:      ctx,
		opts:     opts,
		fs:       fileSet,
		rep:      tracker,
		nodes:    make(map[string]*FileNode),
		onStack:  make(map[string]int),
		prefetch: make(map[string]prefetched),
	}
	if r.opts.Jobs <= 0 {
		r.opts.Jobs = runtime.GOMAXPROCS(0)
	}

	abs, err := filepath.Abs(entry)
	if err != nil {
		abs = filepath.Clean(entry)
	}
	r.visit(abs, source.NoSpan)
	if r.err != nil {
		return nil, r.err
	}
	if r.cyclic {
		return nil, nil
	}

	g := &ImportGraph{
		Files:   r.order,
		FileSet: fileSet,
		DB:      symbols.NewProgramDB(nil),
		byID:    make(map[source.FileID]*FileNode, len(r.order)),
	}
	for _, node := range r.order {
		g.byID[node.ID] = node
		g.DB.AddFile(node.Doc, alloc, tracker)
	}
	g.Broken = tracker.Errors() > 0
	return g, nil
}

type prefetched struct {
	src *document.Source
	err error
}

type resolver struct {
	ctx      context.Context
	opts     ResolveOptions
	fs       *source.FileSet
	rep      diag.Reporter
	nodes    map[string]*FileNode
	order    []*FileNode
	stack    []string
	onStack  map[string]int
	prefetch map[string]prefetched
	cyclic   bool
	err      error
}

type pendingImport struct {
	imp  document.Import
	path string
}

func (r *resolver) visit(path string, from source.Span) *FileNode {
	if r.err != nil {
		return nil
	}
	if err := r.ctx.Err(); err != nil {
		r.err = err
		return nil
	}
	if idx, ok := r.onStack[path]; ok {
		r.reportCycle(idx, path, from)
		return nil
	}
	if node, ok := r.nodes[path]; ok {
		return node
	}

	src, err := r.take(path)
	if errors.Is(err, fs.ErrNotExist) {
		diag.ReportError(r.rep, diag.ImpFileNotFound, from,
			fmt.Sprintf("design file %s not found", path)).Emit()
		return nil
	}
	if err != nil {
		diag.ReportError(r.rep, diag.ImpReadError, from,
			fmt.Sprintf("cannot read %s: %v", path, err)).Emit()
		return nil
	}
	doc := document.Decode(r.fs, src, r.rep)
	node := &FileNode{ID: doc.File, Path: path, Doc: doc}
	r.nodes[path] = node
	r.order = append(r.order, node)
	span := trace.Begin(trace.FromContext(r.ctx), trace.ScopeFile, "file:"+r.display(path), trace.CurrentSpan(r.ctx))
	defer func() { span.WithExtra("imports", strconv.Itoa(len(node.Imports))).End("") }()

	r.onStack[path] = len(r.stack)
	r.stack = append(r.stack, path)
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.onStack, path)
	}()

	pending := r.lookupAll(path, doc)
	r.readAhead(pending)

	targets := make(map[string]string, len(pending))
	for _, p := range pending {
		if prev, dup := targets[p.path]; dup {
			diag.ReportWarning(r.rep, diag.ImpDuplicateNS, p.imp.Namespace.Span,
				fmt.Sprintf("namespace %q imports the same file as %q", p.imp.Namespace.Value, prev)).Emit()
		} else {
			targets[p.path] = p.imp.Namespace.Value
		}
		child := r.visit(p.path, p.imp.Path.Span)
		if r.cyclic || r.err != nil {
			return node
		}
		if child == nil {
			continue
		}
		node.Imports = append(node.Imports, Edge{
			Namespace: p.imp.Namespace.Value,
			Target:    child.ID,
			Span:      p.imp.Namespace.Span,
		})
	}
	return node
}

// lookupAll maps every import of doc to a file, reporting the ones that do
// not resolve.
func (r *resolver) lookupAll(path string, doc *document.Document) []pendingImport {
	dir := filepath.Dir(path)
	roots := append(append([]string(nil), r.opts.LibRoots...), r.opts.EnvRoots...)
	out := make([]pendingImport, 0, len(doc.Imports))
	for _, imp := range doc.Imports {
		ns, p := imp.Namespace, imp.Path
		if ns.Value == "" || strings.ContainsAny(ns.Value, ". \t") {
			diag.ReportError(r.rep, diag.ImpInvalidPath, ns.Span,
				fmt.Sprintf("invalid namespace %q", ns.Value)).Emit()
			continue
		}
		if strings.TrimSpace(p.Value) == "" {
			diag.ReportError(r.rep, diag.ImpInvalidPath, p.Span,
				fmt.Sprintf("import %q has an empty path", ns.Value)).Emit()
			continue
		}
		res := lookupImport(dir, p.Value, roots)
		switch res.status {
		case lookupFound:
			out = append(out, pendingImport{imp: imp, path: res.path})
		case lookupAmbiguous:
			b := diag.ReportError(r.rep, diag.ImpAmbiguousImport, p.Span,
				fmt.Sprintf("import %q matches %d files", p.Value, len(res.candidates)))
			for _, c := range res.candidates {
				b.WithNote(source.NoSpan, "candidate "+c)
			}
			b.Emit()
		case lookupFailed:
			diag.ReportError(r.rep, diag.ImpReadError, p.Span,
				fmt.Sprintf("cannot inspect %s: %v", res.path, res.err)).Emit()
		default:
			msg := fmt.Sprintf("imported file %q not found", p.Value)
			if len(res.searched) > 0 {
				msg += " in " + strings.Join(res.searched, ", ")
			} else if res.path != "" {
				msg = fmt.Sprintf("imported file %q not found (%s)", p.Value, res.path)
			}
			diag.ReportError(r.rep, diag.ImpFileNotFound, p.Span, msg).Emit()
		}
	}
	return out
}

// readAhead reads and parses the not yet seen targets concurrently.
func (r *resolver) readAhead(pending []pendingImport) {
	var paths []string
	want := make(map[string]bool, len(pending))
	for _, p := range pending {
		if _, seen := r.nodes[p.path]; seen {
			continue
		}
		if _, done := r.prefetch[p.path]; done || want[p.path] {
			continue
		}
		want[p.path] = true
		paths = append(paths, p.path)
	}
	if len(paths) < 2 {
		return
	}

	results := make([]prefetched, len(paths))
	g, gctx := errgroup.WithContext(r.ctx)
	g.SetLimit(min(r.opts.Jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			src, err := document.Read(path)
			results[i] = prefetched{src: src, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.err = err
		return
	}
	for i, path := range paths {
		r.prefetch[path] = results[i]
	}
}

func (r *resolver) take(path string) (*document.Source, error) {
	if p, ok := r.prefetch[path]; ok {
		delete(r.prefetch, path)
		return p.src, p.err
	}
	return document.Read(path)
}

func (r *resolver) reportCycle(idx int, path string, from source.Span) {
	chain := make([]string, 0, len(r.stack)-idx+1)
	for _, p := range r.stack[idx:] {
		chain = append(chain, r.display(p))
	}
	chain = append(chain, r.display(path))
	diag.ReportError(r.rep, diag.ImpCycle, from,
		"import cycle: "+strings.Join(chain, " -> ")).Emit()
	r.cyclic = true
}

func (r *resolver) display(path string) string {
	if node := r.nodes[path]; node != nil {
		return r.fs.DisplayPath(node.ID)
	}
	return path
}
