package harvest

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/example/docsync/internal/docblock"
)

var (
	openLineRE   = regexp.MustCompile(`^(\s*)/\*\*\s*$`)
	leadingWSRE  = regexp.MustCompile(`^\s*`)
	starPrefixRE = regexp.MustCompile(`^(\s*\*\s*)`)
	markerLineRE = regexp.MustCompile(`<!--\s*doc-id:\s*([A-Za-z0-9_.-]+?)\s*-->`)
)

// MarkerSummary reports what a marker-insertion pass did.
type MarkerSummary struct {
	FilesScanned  int
	BlocksSeen    int
	BlocksUpdated int
}

// InsertMarkers edits source files in place so every harvestable doc block
// carries a `<!-- doc-id: ... -->` line directly under its opening `/**`.
// Blocks flagged internal or hidden are left alone. Files are rewritten only
// when their bytes actually change.
func InsertMarkers(root string, limit int, aliases Aliases, out io.Writer) (*MarkerSummary, error) {
	if out == nil {
		out = io.Discard
	}
	sum := &MarkerSummary{}

	files, err := sourceFiles(root)
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		sum.FilesScanned++
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(out, "[mark] skipping %s: %v\n", path, err)
			continue
		}
		text := string(data)
		containers := scanContainers(strings.Split(text, "\n"))

		var parts []string
		last := 0
		changed := false

		for _, block := range docblock.JSDoc.Blocks(text) {
			sum.BlocksSeen++

			if block.Signature == "" {
				continue
			}
			name, kind := containerFor(containers, block.SignatureLine)
			id := inferID(block.Signature, name, kind, aliases)
			if id == "" {
				continue
			}
			if docblock.Parse(docblock.Normalize(block.Inner)).Suppressed() {
				continue
			}

			updated, didChange := ensureMarker(block.Raw, id)
			if !didChange {
				continue
			}

			parts = append(parts, text[last:block.Start], updated)
			last = block.End
			changed = true
			sum.BlocksUpdated++

			if limit > 0 && sum.BlocksUpdated >= limit {
				break
			}
		}

		if changed {
			parts = append(parts, text[last:])
			newText := strings.Join(parts, "")
			if newText != text {
				if err := os.WriteFile(path, []byte(newText), 0o644); err != nil {
					return sum, fmt.Errorf("write %s: %w", path, err)
				}
			}
		}
		if limit > 0 && sum.BlocksUpdated >= limit {
			break
		}
	}

	fmt.Fprintf(out, "[mark] summary: files_scanned=%d blocks_seen=%d blocks_updated=%d\n",
		sum.FilesScanned, sum.BlocksSeen, sum.BlocksUpdated)
	return sum, nil
}

// ensureMarker returns raw with a marker line for id directly under the
// opening delimiter, matching the block's own star prefix. An existing
// marker is updated in place; duplicates beyond the first are dropped.
func ensureMarker(raw, id string) (string, bool) {
	hadNewline := strings.HasSuffix(raw, "\n")
	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
	if len(lines) == 0 {
		return raw, false
	}

	indent := ""
	if m := openLineRE.FindStringSubmatch(lines[0]); m != nil {
		indent = m[1]
	} else {
		indent = leadingWSRE.FindString(lines[0])
	}

	// Match the prefix the rest of the block uses so alignment holds.
	prefix := indent + " * "
	probeEnd := min(len(lines), 6)
	for _, probe := range lines[1:probeEnd] {
		if m := starPrefixRE.FindStringSubmatch(probe); m != nil {
			prefix = m[1]
			break
		}
	}
	desired := strings.TrimRight(prefix+docblock.MarkerLine(id), " \t")

	var markerIdx []int
	existingID := ""
	for i, ln := range lines {
		if m := markerLineRE.FindStringSubmatch(ln); m != nil {
			markerIdx = append(markerIdx, i)
			if existingID == "" {
				existingID = m[1]
			}
		}
	}

	if len(markerIdx) > 0 {
		lines[markerIdx[0]] = desired
		for j := len(markerIdx) - 1; j >= 1; j-- {
			i := markerIdx[j]
			lines = append(lines[:i], lines[i+1:]...)
		}
		changed := existingID != id || len(markerIdx) > 1
		return rejoin(lines, hadNewline), changed
	}

	lines = append(lines[:1], append([]string{desired}, lines[1:]...)...)
	return rejoin(lines, hadNewline), true
}

func rejoin(lines []string, trailingNewline bool) string {
	s := strings.Join(lines, "\n")
	if trailingNewline {
		s += "\n"
	}
	return s
}
