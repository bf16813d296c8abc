package docblock

import (
	"regexp"
	"strings"
)

// Block is one extracted documentation comment.
type Block struct {
	// Start and End delimit the `/** ... */` span in bytes. End points just
	// past the closing delimiter; any trailing whitespace and newline on the
	// same line is captured separately in Trailing and stays outside the span.
	Start int
	End   int

	// Raw is the full block text including delimiters, Inner the text between
	// them.
	Raw   string
	Inner string

	// Trailing is the whitespace-and-newline run following the closing
	// delimiter, if any.
	Trailing string

	// Indent is the leading whitespace of the line the block opens on.
	Indent string

	// Signature is the first non-blank, non-comment line after the block,
	// right-trimmed. Empty for orphan blocks. SignatureLine is its zero-based
	// line number, -1 when absent.
	Signature     string
	SignatureLine int
}

var (
	lineCommentRE      = regexp.MustCompile(`^\s*//`)
	blockCommentOpenRE = regexp.MustCompile(`^\s*/\*`)
	blockCommentEndRE  = regexp.MustCompile(`\*/\s*$`)
	indentRE           = regexp.MustCompile(`^[ \t]*`)
)

// Blocks returns every documentation block in text, in source order.
func (d Dialect) Blocks(text string) []Block {
	var blocks []Block
	lines := strings.Split(text, "\n")

	for _, m := range d.blockRE.FindAllStringSubmatchIndex(text, -1) {
		start := m[0]
		end := m[1]
		trailing := ""
		if m[4] != -1 {
			end = m[4]
			trailing = text[m[4]:m[5]]
		}

		b := Block{
			Start:    start,
			End:      end,
			Raw:      text[start:end],
			Inner:    text[m[2]:m[3]],
			Trailing: trailing,
			Indent:   lineIndent(text, start),
		}
		b.Signature, b.SignatureLine = d.findSignature(text, lines, end)
		blocks = append(blocks, b)
	}

	return blocks
}

// lineIndent returns the whitespace between the preceding newline and pos.
func lineIndent(text string, pos int) string {
	lineStart := strings.LastIndexByte(text[:pos], '\n') + 1
	return indentRE.FindString(text[lineStart:pos])
}

// findSignature locates the declaration line attached to a block ending at
// endPos. It skips blank lines, line comments, and interleaved block
// comments, bounded by the dialect's lookahead.
func (d Dialect) findSignature(text string, lines []string, endPos int) (string, int) {
	startLine := strings.Count(text[:endPos], "\n")
	limit := startLine + 1 + d.signatureLookahead
	if limit > len(lines) {
		limit = len(lines)
	}

	inBlockComment := false
	for i := startLine + 1; i < limit; i++ {
		s := strings.TrimSpace(lines[i])
		if s == "" {
			continue
		}

		if inBlockComment {
			if blockCommentEndRE.MatchString(s) {
				inBlockComment = false
			}
			continue
		}
		if blockCommentOpenRE.MatchString(s) && !blockCommentEndRE.MatchString(s) {
			inBlockComment = true
			continue
		}
		if lineCommentRE.MatchString(s) {
			continue
		}
		// Stray block terminators left on their own line.
		if strings.TrimLeft(s, "*") == "/" || s == "*/" {
			continue
		}

		return strings.TrimRight(lines[i], " \t\r"), i
	}

	return "", -1
}
