package docblock

import (
	"fmt"
	"regexp"
	"strings"
)

// Doc is a parsed documentation block. Description contains one
// `@example <key>` placeholder line at the exact position each harvested
// example appeared; the example content itself lives in Examples.
type Doc struct {
	ID          string
	Description string
	Examples    []Example
	Categories  []string
	Internal    bool
	Hidden      bool
}

// Example is one fenced snippet harvested from a doc block.
type Example struct {
	Key   string
	Title string
	Lang  string
	Code  string
}

// Suppressed reports whether the block opted out of harvesting.
func (d Doc) Suppressed() bool {
	return d.Internal || d.Hidden
}

var (
	starLineRE   = regexp.MustCompile(`^\s*\*\s?(.*)$`)
	fenceRE      = regexp.MustCompile("^\\s*```")
	exampleTagRE = regexp.MustCompile(`^@example(?:\s+(.+?))?\s*$`)
	categoryRE   = regexp.MustCompile(`^@category\s+(.+?)\s*$`)
	internalRE   = regexp.MustCompile(`@internal\b`)
	hiddenRE     = regexp.MustCompile(`@hidden\b`)
	multiSpaceRE = regexp.MustCompile(`\s{2,}`)
	slugRE       = regexp.MustCompile(`[^a-z0-9]+`)

	markerRE = regexp.MustCompile(`<!--\s*doc-id:\s*([A-Za-z0-9_.-]+?)\s*-->`)

	headingRE  = regexp.MustCompile(`^\s*#+\s*`)
	emphasisRE = regexp.MustCompile(`^(\*\*|__)(.*)(\*\*|__)$`)
)

// MarkerID extracts the identifier from the first `<!-- doc-id: ... -->`
// marker in text, if any.
func MarkerID(text string) (string, bool) {
	m := markerRE.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MarkerLine renders the canonical identifier marker for id.
func MarkerLine(id string) string {
	return fmt.Sprintf("<!-- doc-id: %s -->", id)
}

// Normalize strips per-line `*` prefixes from the inside of a block while
// preserving indentation relative to the prefix (significant inside fenced
// code). Leading and trailing blank lines are dropped, interior blanks kept.
// Blocks without per-line prefixes pass through unchanged.
func Normalize(inner string) []string {
	var lines []string
	for _, raw := range strings.Split(inner, "\n") {
		raw = strings.TrimRight(raw, " \t\r")
		if m := starLineRE.FindStringSubmatch(raw); m != nil {
			lines = append(lines, strings.TrimRight(m[1], " \t"))
		} else {
			lines = append(lines, raw)
		}
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Parse splits normalized block lines into an identifier, prose description,
// harvested examples, categories, and suppression flags.
//
// An `@example` tag consumes its optional label, a nearby `Label:` title
// line, and the next fenced snippet; the tag's position is preserved in the
// description as an `@example <key>` placeholder line. Fences that are part
// of the prose itself (not claimed by a tag) stay in the description.
func Parse(lines []string) Doc {
	var doc Doc
	var desc []string
	usedKeys := map[string]bool{}

	inFence := false
	i := 0
	for i < len(lines) {
		line := lines[i]
		s := strings.TrimSpace(line)

		if fenceRE.MatchString(s) {
			inFence = !inFence
			desc = append(desc, line)
			i++
			continue
		}
		if inFence {
			desc = append(desc, line)
			i++
			continue
		}

		if doc.ID == "" {
			if id, ok := MarkerID(line); ok {
				doc.ID = id
				i++
				continue
			}
		}

		if m := categoryRE.FindStringSubmatch(s); m != nil {
			doc.Categories = append(doc.Categories, strings.TrimSpace(m[1]))
			i++
			continue
		}

		// Flags may appear anywhere on a line, alone or inline with prose.
		hasInternal := internalRE.MatchString(s)
		hasHidden := hiddenRE.MatchString(s)
		if hasInternal || hasHidden {
			doc.Internal = doc.Internal || hasInternal
			doc.Hidden = doc.Hidden || hasHidden

			cleaned := internalRE.ReplaceAllString(line, "")
			cleaned = hiddenRE.ReplaceAllString(cleaned, "")
			cleaned = strings.TrimSpace(multiSpaceRE.ReplaceAllString(cleaned, " "))
			if cleaned != "" {
				desc = append(desc, cleaned)
			}
			i++
			continue
		}

		if m := exampleTagRE.FindStringSubmatch(s); m != nil {
			next := parseExample(lines, i, strings.TrimSpace(m[1]), &doc, &desc, usedKeys)
			i = next
			continue
		}

		desc = append(desc, line)
		i++
	}

	for len(desc) > 0 && strings.TrimSpace(desc[len(desc)-1]) == "" {
		desc = desc[:len(desc)-1]
	}
	doc.Description = strings.Join(desc, "\n")
	return doc
}

// parseExample harvests one `@example` tag starting at lines[i]. It returns
// the index of the first line after everything it consumed. Tags with no
// following fenced snippet still leave a placeholder in the description.
func parseExample(lines []string, i int, label string, doc *Doc, desc *[]string, usedKeys map[string]bool) int {
	num := len(doc.Examples) + 1

	baseKey := fmt.Sprintf("example-%d", num)
	title := ""
	if label != "" {
		baseKey = Slugify(label)
		title = label
	}

	// Skip blanks after the tag, then accept a legacy `Label:` line if the
	// tag itself carried none.
	j := i + 1
	for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
		j++
	}
	if title == "" && j < len(lines) && looksLikeTitle(lines[j]) {
		title = normalizeTitle(lines[j])
		j++
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			j++
		}
	}

	// Or claim a label line immediately preceding the tag.
	if title == "" {
		k := len(*desc) - 1
		for k >= 0 && strings.TrimSpace((*desc)[k]) == "" {
			k--
		}
		if k >= 0 && looksLikeTitle((*desc)[k]) {
			title = normalizeTitle((*desc)[k])
			*desc = (*desc)[:k]
		}
	}

	// Locate the fenced snippet belonging to this tag.
	fenceStart := j
	for fenceStart < len(lines) {
		s := strings.TrimSpace(lines[fenceStart])
		if exampleTagRE.MatchString(s) || fenceRE.MatchString(s) {
			break
		}
		fenceStart++
	}
	key := baseKey
	for suffix := 2; usedKeys[key]; suffix++ {
		key = fmt.Sprintf("%s-%d", baseKey, suffix)
	}
	usedKeys[key] = true

	if fenceStart >= len(lines) || !fenceRE.MatchString(strings.TrimSpace(lines[fenceStart])) {
		// No snippet to harvest. The placeholder still goes into the
		// description so apply can report the dangling key.
		*desc = append(*desc, "@example "+key)
		return i + 1
	}

	lang, code, end := extractFence(lines, fenceStart)

	if title == "" {
		title = fmt.Sprintf("Example %d", num)
	}

	*desc = append(*desc, "@example "+key)
	doc.Examples = append(doc.Examples, Example{
		Key:   key,
		Title: title,
		Lang:  NormalizeLang(lang),
		Code:  code,
	})
	return end
}

// extractFence consumes a fenced code block starting at lines[start].
// It returns the fence's language label, the code, and the index just past
// the closing fence.
func extractFence(lines []string, start int) (lang, code string, end int) {
	lang = strings.TrimSpace(strings.TrimSpace(lines[start])[3:])

	var body []string
	end = start + 1
	for end < len(lines) && !fenceRE.MatchString(strings.TrimSpace(lines[end])) {
		body = append(body, lines[end])
		end++
	}
	if end < len(lines) {
		end++
	}
	return lang, strings.TrimRight(strings.Join(body, "\n"), " \t\n"), end
}

// looksLikeTitle reports whether line is a short `Label:` line that titles a
// following example, as opposed to prose, a heading, or a table row.
func looksLikeTitle(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "@") || fenceRE.MatchString(s) {
		return false
	}
	if strings.HasPrefix(s, "|") && strings.HasSuffix(s, "|") {
		return false
	}
	if !strings.HasSuffix(s, ":") {
		return false
	}

	t := headingRE.ReplaceAllString(s, "")
	for i := 0; i < 2; i++ {
		if m := emphasisRE.FindStringSubmatch(t); m != nil {
			t = strings.TrimSpace(m[2])
		}
	}

	t = strings.ToLower(strings.TrimSpace(strings.TrimRight(t, ":")))
	switch t {
	case "examples", "example", "overview":
		return false
	}

	// Long lines ending with ":" are usually prose, not labels.
	return len(s) <= 60
}

func normalizeTitle(line string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line), ":"))
}

// Slugify lowercases text and collapses non-alphanumeric runs to hyphens.
func Slugify(text string) string {
	slug := slugRE.ReplaceAllString(strings.ToLower(text), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "example"
	}
	return slug
}

// NormalizeLang folds fenced-code language labels into canonical keys.
func NormalizeLang(lang string) string {
	s := strings.ToLower(strings.TrimSpace(lang))
	switch s {
	case "", "ts", "typescript", "js", "javascript":
		return "ts"
	case "objc", "obj-c", "objective-c", "objectivec":
		return "objc"
	case "kt", "kts":
		return "kotlin"
	}
	return s
}
