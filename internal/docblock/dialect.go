// Package docblock extracts and normalizes `/** ... */` documentation
// comments from source text without requiring a full language parser.
package docblock

import (
	"regexp"
)

// Dialect describes one comment dialect: the block delimiters, how far to
// look ahead for the attached declaration, and the per-line prefix handling.
// Marker and placeholder syntax is shared across dialects.
type Dialect struct {
	Name string

	open    string
	close   string
	blockRE *regexp.Regexp

	// Maximum number of lines scanned after a block when searching for the
	// declaration signature. Keeps the heuristic bounded on pathological input.
	signatureLookahead int
}

func newDialect(name, open, close string, lookahead int) Dialect {
	re := regexp.MustCompile(regexp.QuoteMeta(open) + `([\s\S]*?)` + regexp.QuoteMeta(close) + `([ \t]*\r?\n)?`)
	return Dialect{
		Name:               name,
		open:               open,
		close:              close,
		blockRE:            re,
		signatureLookahead: lookahead,
	}
}

var (
	// JSDoc is the harvest-side dialect: JSDoc blocks immediately preceding a
	// TypeScript declaration.
	JSDoc = newDialect("jsdoc", "/**", "*/", 40)

	// CHeader is the apply-side dialect: C-style blocks in header files. The
	// signature is informational only on this side, so the lookahead is short.
	CHeader = newDialect("cheader", "/**", "*/", 8)
)
