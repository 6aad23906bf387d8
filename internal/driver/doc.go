// Package driver runs one elaboration: import resolution, symbol resolution
// into a patterned graph, then atomization and verification.
package driver
