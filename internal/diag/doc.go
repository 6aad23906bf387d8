// Package diag defines the diagnostic model shared by all netc stages.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the document loader, pattern expander, import resolver, symbol resolver
//     and atomizer.
//   - Offer light-weight utilities (Reporter, Bag, Collector) that let stages
//     emit diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform any formatting beyond the single-line short
// form, IO or CLI integration. Rendering lives in internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error.
//   - Code – compact numeric identifier (see codes.go) grouped by stage. The
//     stable string form carries the stage prefix (DOC, PAT, AXS, IMP, SYM, IR,
//     OBS) so external tooling can filter by prefix.
//   - Message – short and actionable.
//   - Primary span – the source.Span pointing to the issue, or source.NoSpan.
//   - Notes – optional secondary spans/messages for additional context.
//
// # Propagation
//
// Every stage reports into a Reporter and keeps going when it can, so that
// independent problems in one design are reported together. A stage returns
// an absent result only when it cannot produce a structurally valid graph;
// ErrorTracker lets a stage ask whether an error passed through it.
// Panics are reserved for broken internal contracts.
package diag
