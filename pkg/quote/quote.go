package quote

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	// verbRe matches \verb<d>body<d>. The closing delimiter is a
	// backreference, which RE2 cannot express.
	verbRe = regexp2.MustCompile(`\\verb(.)(.*?)\1`, regexp2.None)

	// latexStripRe matches what dot2tex chokes on outside \verb: quotes,
	// carriage returns, newlines, and % comments up to and including the
	// newline that ends them (or the end of the string).
	latexStripRe = regexp.MustCompile("\"|\r|%[^\n]*\n?|\n")

	verbBodyReplacer = strings.NewReplacer("_", " ", "^", " ", "{", " ", "}", " ")

	strReplacer = strings.NewReplacer(
		`"`, "",
		"\r", "",
		"{", "",
		"}", "",
		"\n", "\\n\\\n",
	)
)

// Latex returns the LaTeX rendering of x made safe for a dot2tex texlbl.
//
//	Latex("coucou")                       // \text{coucou}
//	Latex(TeX(`\frac{1}{2}% half` + "\n")) // \frac{1}{2}
func Latex(x any) string {
	s := LaTeX(x)

	s, err := verbRe.ReplaceFunc(s, func(m regexp2.Match) string {
		return `\text{` + verbBodyReplacer.Replace(m.GroupByNumber(2).String()) + `}`
	}, -1, -1)
	if err != nil {
		// Only a match timeout fails, and verbRe has none.
		s = LaTeX(x)
	}

	return latexStripRe.ReplaceAllString(s, "")
}

// Str returns the plain-text rendering of x made safe for a DOT label.
//
// Quotes, carriage returns and braces are removed. Each newline becomes the
// two characters \n (a DOT line break) followed by a backslash-newline
// continuation, so the label stays one DOT token while the source remains
// readable:
//
//	Str("[1 1]\n[0 1]")  // "[1 1]\\n\\\n[0 1]"
func Str(x any) string {
	return strReplacer.Replace(Text(x))
}

// Key returns the plain-text rendering of x with every character that is
// not safe in a bare DOT identifier removed: \ ' " [ ] ( ) . { } and all
// spaces, tabs, carriage returns and newlines.
func Key(x any) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\\', '\'', '"', '[', ']', '(', ')', ' ', '\t', '\r', '\n', '{', '}', '.':
			return -1
		}
		return r
	}, Text(x))
}

// KeyWithHash is [Key] followed by "_" and a short hash of the full
// plain-text rendering. Values whose keys collide after stripping, such as
// "a.b" and "ab", still get distinct identifiers.
func KeyWithHash(x any) string {
	text := Text(x)
	sum := sha256.Sum256([]byte(text))
	return Key(text) + "_" + hex.EncodeToString(sum[:8])
}
