// Package apply implements the propagation direction: store records are
// rendered back into marker-anchored comment blocks in a destination tree.
package apply

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/example/docsync/internal/docblock"
	"github.com/example/docsync/internal/store"
)

// Style is the comment layout rendered at one destination block.
type Style struct {
	Open   string // opening line
	Prefix string // prefix for text lines
	Blank  string // blank doc line
	Close  string // closing line
}

// StyleFor returns the canonical block style at the given indentation.
// Output is always normalized to `indent + " * "` lines, even when the
// existing block used a compact prefix: consistent style keeps diffs stable.
func StyleFor(indent string) Style {
	return Style{
		Open:   indent + "/**",
		Prefix: indent + " * ",
		Blank:  indent + " *",
		Close:  indent + " */",
	}
}

var placeholderRE = regexp.MustCompile(`^\s*@example\s+([A-Za-z0-9_.-]+)\s*$`)

// RenderBlock produces the canonical comment block for a record: the marker
// line, then the description with every `@example <key>` placeholder
// replaced by the example's title heading and a fenced snippet in lang.
//
// Missing content never fails the render. A placeholder whose key is absent
// from the record gets a MISSING stub naming the key and store filename; a
// key with no snippet for lang gets a WARNING stub naming the language and
// the store path. Both are deliberate in-artifact diagnostics.
//
// Output is byte-deterministic and carries no trailing newline; the
// destination file's own newline after `*/` is preserved by the caller.
func RenderBlock(rec *store.Record, id, lang string, style Style) string {
	lines := []string{
		style.Open,
		strings.TrimRight(style.Prefix+docblock.MarkerLine(id), " \t"),
	}

	appendLine := func(s string) {
		lines = append(lines, strings.TrimRight(s, " \t"))
	}
	appendBlank := func() {
		if lines[len(lines)-1] != style.Blank {
			lines = append(lines, style.Blank)
		}
	}

	emitExample := func(key string) {
		ex, ok := rec.Examples.Get(key)

		title := "Example"
		if ok && ex.Title != "" {
			title = ex.Title
		}
		appendLine(style.Prefix + "@example " + title)

		switch {
		case !ok:
			appendLine(style.Prefix + "```" + lang)
			appendLine(style.Prefix + "// MISSING example " + key)
			appendLine(style.Prefix + "// Filename: " + filepath.Base(rec.Path))
			appendLine(style.Prefix + "```")
		case strings.TrimSpace(ex.Code[lang]) == "":
			appendLine(style.Prefix + "```" + lang)
			appendLine(style.Prefix + `// WARNING:  No example block found for lang "` + lang + `" for ` + key)
			appendLine(style.Prefix + "// Filename: " + rec.Path)
			appendLine(style.Prefix + "```")
		default:
			appendLine(style.Prefix + "```" + lang)
			for _, ln := range strings.Split(strings.TrimRight(ex.Code[lang], "\n"), "\n") {
				appendLine(style.Prefix + ln)
			}
			appendLine(style.Prefix + "```")
		}
	}

	desc := strings.Trim(rec.Description, "\n")
	placeholders := 0

	if desc != "" {
		for _, raw := range strings.Split(desc, "\n") {
			if raw == "" {
				lines = append(lines, style.Blank)
				continue
			}
			if m := placeholderRE.FindStringSubmatch(raw); m != nil {
				placeholders++
				appendBlank()
				emitExample(m[1])
				lines = append(lines, style.Blank)
				continue
			}
			appendLine(style.Prefix + strings.TrimRight(raw, " \t"))
		}
	}

	// No placeholders anywhere: render every example at the end, in sorted
	// key order for determinism.
	if placeholders == 0 && rec.Examples.Len() > 0 {
		appendBlank()
		keys := append([]string(nil), rec.Examples.Keys()...)
		sort.Strings(keys)
		for _, key := range keys {
			emitExample(key)
			lines = append(lines, style.Blank)
		}
		for len(lines) > 0 && lines[len(lines)-1] == style.Blank {
			lines = lines[:len(lines)-1]
		}
	}

	lines = append(lines, style.Close)
	return strings.Join(lines, "\n")
}
