// Package pkg provides the libraries behind dottex.
//
// # Overview
//
// dottex prepares labels of mathematical objects for the dot2tex and
// Graphviz tool chain. The pkg directory is organized as:
//
//  1. [quote] - Label sanitizers (LaTeX label, text label, node key)
//  2. [dot] - DOT graph builder carrying sanitized labels
//  3. [layout] - Positioners (in-process Graphviz, installed binary, cached)
//     and the layout engine capability probe
//  4. [cache] - Layout cache backends (file, Redis, null)
//  5. [errors] - Structured error codes shared by the CLI and the service
//  6. [observability] - Hooks for layout, probe and cache events
//
// # Data Flow
//
//	values / edge list
//	         ↓
//	  quote + dot  →  DOT text
//	         ↓
//	     layout    →  node positions (points)
//
// [layout.Require] should be called before handing DOT to dot2tex: it
// distinguishes a missing Graphviz (TOOL_MISSING) from a broken one
// (TOOL_MISCONFIGURED).
package pkg
