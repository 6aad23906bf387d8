package driver

import (
	"context"
	"fmt"
	"time"

	"netc/internal/atomize"
	"netc/internal/diag"
	"netc/internal/ids"
	"netc/internal/ir"
	"netc/internal/observ"
	"netc/internal/project"
	"netc/internal/source"
	"netc/internal/symbols"
	"netc/internal/trace"
)

// Stage names, as they appear in timings and traces.
const (
	StageResolve = "resolve"
	StageBuild   = "build"
	StageAtomize = "atomize"
)

// Options configures Elaborate.
type Options struct {
	LibRoots []string
	// EnvRoots defaults to project.EnvRoots() when nil.
	EnvRoots []string
	Jobs     int
	MaxAtoms int

	MaxDiagnostics   int
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool

	// Cache, when set, stores successful results keyed by the input files.
	Cache    *DiskCache
	Observer StageObserver
}

// Result is the outcome of one elaboration.
type Result struct {
	// Program is nil when any error was reported.
	Program *ir.Program
	Bag     *diag.Bag
	FileSet *source.FileSet
	Graph   *project.ImportGraph
	Timings observ.Report
	// CacheHit is set when build and atomize were skipped.
	CacheHit bool
}

// Elaborate runs the whole pipeline on entry with a single id allocator.
// Design problems end up in Result.Bag; the error is for cancellation and
// I/O failures outside the design itself.
func Elaborate(ctx context.Context, entry string, opts Options) (*Result, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 200
	}
	if opts.EnvRoots == nil {
		opts.EnvRoots = project.EnvRoots()
	}

	span, ctx := trace.Start(ctx, trace.ScopeDriver, "elaborate")
	defer span.End("")

	res := &Result{
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		FileSet: source.NewFileSet(),
	}
	res.FileSet.SetBaseDir(project.ProjectRoot(entry))
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	alloc := ids.NewAllocator()
	st := newStages(ctx, opts)
	st.dedup = rep

	done := st.begin(StageResolve)
	graph, err := project.Resolve(ctx, entry, project.ResolveOptions{
		LibRoots: opts.LibRoots,
		EnvRoots: opts.EnvRoots,
		Jobs:     opts.Jobs,
		FileSet:  res.FileSet,
	}, alloc, rep)
	if err != nil {
		done("cancelled")
		return nil, err
	}
	res.Graph = graph
	if graph == nil || graph.Broken {
		done("failed")
		return st.finish(res, opts), nil
	}
	done(fmt.Sprintf("files=%d", len(graph.Files)))

	key := cacheKey(graph, opts)
	if prog, diags, ok := loadCached(opts.Cache, key); ok {
		forward(rep, diags)
		res.Program = prog
		res.CacheHit = true
		trace.Point(ctx, trace.ScopeStage, "cache", "hit")
		return st.finish(res, opts), nil
	}

	// Диагностики build/atomize копятся отдельно, чтобы их можно было
	// сохранить в кэш вместе с программой.
	var stageDiags diag.Collector
	prog := st.buildAndAtomize(graph, alloc, opts, &stageDiags)
	forward(rep, stageDiags.Items)
	if prog != nil {
		res.Program = prog
		storeCached(opts.Cache, key, prog, stageDiags.Items)
	}
	return st.finish(res, opts), nil
}

func (st *stages) buildAndAtomize(graph *project.ImportGraph, alloc *ids.Allocator, opts Options, rep *diag.Collector) *ir.Program {
	done := st.begin(StageBuild)
	pg, ok := symbols.BuildPatterned(symbols.BuildInput{
		Docs:     graph.Docs(),
		DB:       graph.DB,
		Bindings: graph,
	}, alloc, rep)
	if !ok {
		done("failed")
		return nil
	}
	done(fmt.Sprintf("modules=%d exprs=%d", len(pg.Modules), pg.Exprs.Len()))

	done = st.begin(StageAtomize)
	prog, ok := atomize.Atomize(pg, alloc, atomize.Options{MaxAtoms: opts.MaxAtoms}, rep)
	if !ok {
		done("failed")
		return nil
	}
	for _, id := range prog.EmitOrder {
		m := prog.Modules[id]
		trace.Point(st.ctx, trace.ScopeModule, "module:"+m.Name,
			fmt.Sprintf("nets=%d instances=%d endpoints=%d", len(m.Nets), len(m.Instances), len(m.Endpoints)))
	}
	done(fmt.Sprintf("modules=%d", len(prog.Modules)))
	return prog
}

func forward(rep diag.Reporter, items []diag.Diagnostic) {
	for _, d := range items {
		rep.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}
}

// stages ties the timer, the tracer and the observer together.
type stages struct {
	ctx      context.Context
	timer    *observ.Timer
	observer StageObserver
	dedup    *diag.DedupReporter
}

func newStages(ctx context.Context, opts Options) *stages {
	st := &stages{ctx: ctx, observer: opts.Observer}
	if opts.EnableTimings {
		st.timer = observ.NewTimer()
	}
	return st
}

func (st *stages) begin(name string) func(note string) {
	span, _ := trace.Start(st.ctx, trace.ScopeStage, name)
	idx := -1
	if st.timer != nil {
		idx = st.timer.Begin(name)
	}
	if st.observer != nil {
		st.observer(StageEvent{Name: name, Status: StageStart})
	}
	started := time.Now()
	return func(note string) {
		elapsed := span.End(note)
		if st.timer != nil {
			st.timer.End(idx, note)
		}
		if st.observer != nil {
			if elapsed == 0 {
				elapsed = time.Since(started)
			}
			st.observer(StageEvent{Name: name, Status: StageEnd, Elapsed: elapsed, Note: note})
		}
	}
}

// finish applies the warning policy, orders the bag and drops the program
// when errors remain.
func (st *stages) finish(res *Result, opts Options) *Result {
	if opts.WarningsAsErrors {
		res.Bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
	if opts.IgnoreWarnings {
		res.Bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	}
	if n := st.dedup.Suppressed(); n > 0 {
		trace.Point(st.ctx, trace.ScopeStage, "dedup", fmt.Sprintf("suppressed=%d", n))
	}
	if st.timer != nil {
		res.Timings = st.timer.Report()
		appendTimingDiagnostic(res.Bag, res.Timings, res.CacheHit)
	}
	res.Bag.Sort()
	if res.Bag.HasErrors() {
		res.Program = nil
	}
	return res
}

func cacheKey(graph *project.ImportGraph, opts Options) project.Digest {
	return project.Combine(graph.Digest(), project.Salt(opts.MaxAtoms))
}
