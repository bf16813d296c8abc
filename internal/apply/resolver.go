package apply

import (
	"github.com/example/docsync/internal/docblock"
	"github.com/example/docsync/internal/store"
)

// markedBlock is one destination comment block anchored by an identifier
// marker.
type markedBlock struct {
	docblock.Block
	id string
}

// findMarkedBlocks returns the destination blocks carrying a doc-id marker,
// in source order.
func findMarkedBlocks(text string) []markedBlock {
	var out []markedBlock
	for _, block := range docblock.CHeader.Blocks(text) {
		id, ok := docblock.MarkerID(block.Raw)
		if !ok {
			continue
		}
		out = append(out, markedBlock{Block: block, id: id})
	}
	return out
}

// applyToText resolves every marked block in text against the record map and
// replaces the blocks whose canonical rendering differs from what is on
// disk. Replacement is span-exact and runs end to start so earlier spans
// stay valid; bytes outside the matched blocks are never touched.
//
// Returns the updated text, the replaced ids, and the unresolved ids, both
// in source order.
func applyToText(text string, records map[string]*store.Record, lang string) (string, []string, []string) {
	blocks := findMarkedBlocks(text)
	if len(blocks) == 0 {
		return text, nil, nil
	}

	var replaced, missing []string
	updated := text

	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		rec, ok := records[b.id]
		if !ok {
			missing = append(missing, b.id)
			continue
		}

		rendered := RenderBlock(rec, b.id, lang, StyleFor(b.Indent))
		if updated[b.Start:b.End] != rendered {
			updated = updated[:b.Start] + rendered + updated[b.End:]
			replaced = append(replaced, b.id)
		}
	}

	reverse(replaced)
	reverse(missing)
	return updated, replaced, missing
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
