// Package ir holds the two graphs of the elaboration pipeline.
//
// PatternedGraph is the resolved but unexpanded design: every name, net,
// instance, endpoint and parameter value is an expression id pointing into
// ExprTable. Program is the atomized result with literal names only, which
// is what emitters consume. Both are immutable once built.
package ir
