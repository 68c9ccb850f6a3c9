// Package quote sanitizes labels of arbitrary values for dot2tex and Graphviz.
//
// # Overview
//
// Graph descriptions consumed by dot2tex carry two labels per node: a plain
// text label (the DOT "label" attribute) and a LaTeX label (the "texlbl"
// attribute). Both end up inside double-quoted DOT strings, so characters
// that DOT or dot2tex treat as syntax must be removed first.
//
// # Renderings
//
// Every value has two independent renderings:
//
//   - Plain text: [Text], which uses fmt.Sprint (so fmt.Stringer and error
//     are honoured).
//   - LaTeX: [LaTeX], which calls Latex() on values implementing [Latexer]
//     and otherwise falls back to [Verbatim] of the plain text.
//
// # Sanitizers
//
//	quote.Latex(x)       // LaTeX label: \verb → \text, no quotes, no newlines, no % comments
//	quote.Str(x)         // text label: no quotes or braces, newlines as \n\ continuations
//	quote.Key(x)         // DOT identifier: punctuation and whitespace stripped
//	quote.KeyWithHash(x) // Key plus a content hash suffix
//
// dot2tex does not understand \verb, so [Latex] rewrites every
// \verb<d>body<d> into \text{body} and blanks out the characters _ ^ { }
// inside body, which \text would otherwise interpret.
//
// All functions are pure and safe for concurrent use.
package quote
