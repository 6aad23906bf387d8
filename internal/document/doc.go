// Package document turns YAML design files into ordered declaration trees.
//
// Every name, expression and value keeps the span of its text in the file so
// later stages can point diagnostics at the exact group or endpoint that
// failed. Map order is preserved because declaration order drives id
// allocation downstream.
package document
