package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxDOTSize caps graph descriptions accepted from untrusted callers.
const MaxDOTSize = 1 << 20

// Engines lists the Graphviz layout engines dottex accepts.
var Engines = []string{"dot", "neato", "fdp", "sfdp", "circo", "twopi", "osage", "patchwork"}

// ValidateDOT performs cheap sanity checks on a graph description before it
// is handed to a layout engine. It does not parse DOT.
//
// The validation rules:
//   - No empty input
//   - No null bytes
//   - Maximum size of MaxDOTSize bytes
//   - Must contain a graph body ("{")
func ValidateDOT(dot string) error {
	if strings.TrimSpace(dot) == "" {
		return New(ErrCodeInvalidInput, "graph description cannot be empty")
	}

	if len(dot) > MaxDOTSize {
		return New(ErrCodeInvalidInput, "graph description too large (max %d bytes)", MaxDOTSize)
	}

	if strings.ContainsRune(dot, 0) {
		return New(ErrCodeInvalidInput, "graph description contains null bytes")
	}

	if !strings.Contains(dot, "{") {
		return New(ErrCodeInvalidFormat, "graph description has no body")
	}

	return nil
}

// ValidateEngine checks that name is a known Graphviz layout engine.
func ValidateEngine(name string) error {
	if name == "" {
		return New(ErrCodeInvalidEngine, "layout engine cannot be empty")
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidEngine, "layout engine contains invalid characters")
		}
	}
	if !slices.Contains(Engines, name) {
		return New(ErrCodeInvalidEngine, "unsupported layout engine: %s (supported: %s)", name, strings.Join(Engines, ", "))
	}
	return nil
}
