package quote

import (
	"fmt"
	"strings"
)

// Latexer is implemented by values that know their own LaTeX rendering.
type Latexer interface {
	Latex() string
}

// TeX is a string that already holds LaTeX source.
type TeX string

// Latex returns t unchanged.
func (t TeX) Latex() string { return string(t) }

// Text returns the plain-text rendering of x.
func Text(x any) string {
	return fmt.Sprint(x)
}

// LaTeX returns the LaTeX rendering of x. Values that do not implement
// [Latexer] are typeset verbatim via [Verbatim].
func LaTeX(x any) string {
	if l, ok := x.(Latexer); ok {
		return l.Latex()
	}
	return Verbatim(Text(x))
}

// verbDelims are tried in order when choosing a \verb delimiter for a word.
const verbDelims = "|!@#$&+=~`;:?/-,.<>()[]0123456789"

// Verbatim typesets s so that every character prints as-is.
//
// Words become \verb|word| and each run of n spaces becomes
// \phantom{\verb!x…x!} with n x's, so column alignment survives. Multi-line
// input is stacked in a left-aligned array:
//
//	Verbatim("a b")    // \verb|a|\phantom{\verb!x!}\verb|b|
//	Verbatim("a\n b")  // \begin{array}{l}\verb|a|\\\phantom{\verb!x!}\verb|b|\end{array}
func Verbatim(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		return verbatimLine(s)
	}

	var b strings.Builder
	b.WriteString(`\begin{array}{l}`)
	for i, line := range lines {
		if i > 0 {
			b.WriteString(`\\`)
		}
		b.WriteString(verbatimLine(line))
	}
	b.WriteString(`\end{array}`)
	return b.String()
}

func verbatimLine(line string) string {
	var b strings.Builder
	for len(line) > 0 {
		n := strings.IndexFunc(line, func(r rune) bool { return r != ' ' })
		if n < 0 {
			n = len(line)
		}
		if n > 0 {
			b.WriteString(`\phantom{\verb!` + strings.Repeat("x", n) + `!}`)
			line = line[n:]
			continue
		}

		n = strings.IndexByte(line, ' ')
		if n < 0 {
			n = len(line)
		}
		b.WriteString(verb(line[:n]))
		line = line[n:]
	}
	return b.String()
}

// verb typesets one word. Words containing % or every delimiter are set
// with \text instead; there % is written \char37{} so [Latex] cannot
// mistake it for a comment.
func verb(word string) string {
	if !strings.ContainsRune(word, '%') {
		for _, d := range verbDelims {
			if !strings.ContainsRune(word, d) {
				return `\verb` + string(d) + word + string(d)
			}
		}
	}
	return `\text{` + strings.ReplaceAll(verbBodyReplacer.Replace(word), "%", `\char37{}`) + `}`
}
