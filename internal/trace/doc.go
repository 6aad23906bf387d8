// Package trace records what the elaborator is doing and for how long.
//
// Enable tracing from the command line:
//
//	netc diag --trace=- --trace-level=stage design.yaml
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after an internal error
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a scope; the level decides which scopes are kept:
//
//   - LevelStage: driver and pipeline stages (resolve, build, atomize, verify)
//   - LevelDetail: plus per-file events of the import resolver
//   - LevelDebug: plus per-module atomization
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopeStage, "atomize")
//	defer span.End("")
package trace
