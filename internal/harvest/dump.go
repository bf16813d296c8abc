package harvest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/docsync/internal/docblock"
)

// DumpBlocks prints the doc blocks of a single file, bounded by maxBlocks.
// With parsed set, blocks are run through the normalizer and a summary of
// the extracted description and examples is printed instead of raw lines.
func DumpBlocks(path string, maxBlocks int, parsed bool, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	blocks := docblock.JSDoc.Blocks(string(data))
	fmt.Fprintf(out, "%s: %d doc blocks\n\n", path, len(blocks))

	for i, block := range blocks {
		if i >= maxBlocks {
			break
		}
		lines := docblock.Normalize(block.Inner)

		if !parsed {
			fmt.Fprintf(out, "----- BLOCK %d -----\n", i+1)
			for _, ln := range lines {
				fmt.Fprintln(out, ln)
			}
			fmt.Fprintln(out)
			continue
		}

		doc := docblock.Parse(lines)
		fmt.Fprintf(out, "----- BLOCK %d -----\n", i+1)
		if doc.ID != "" {
			fmt.Fprintf(out, "id: %s\n", doc.ID)
		}
		if len(doc.Categories) > 0 {
			fmt.Fprintf(out, "categories: %s\n", strings.Join(doc.Categories, ", "))
		}
		fmt.Fprintf(out, "examples: %d\n", len(doc.Examples))
		for _, ex := range doc.Examples {
			fmt.Fprintf(out, "  - %s: %s  (lang=%s)\n", ex.Key, ex.Title, ex.Lang)
		}
		if doc.Suppressed() {
			fmt.Fprintln(out, "flags: internal/hidden")
		}
		descLines := strings.Split(doc.Description, "\n")
		fmt.Fprintf(out, "description lines: %d\n", len(descLines))
		for i, ln := range descLines {
			if i >= 8 {
				break
			}
			fmt.Fprintf(out, "  %s\n", ln)
		}
		fmt.Fprintln(out)
	}
	return nil
}
