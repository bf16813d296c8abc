package docblock

import (
	"strings"
	"testing"
)

func TestBlocksFindsAllInOrder(t *testing.T) {
	text := "/** first */\nexport const A = 1;\n\n/** second */\nexport const B = 2;\n"
	blocks := JSDoc.Blocks(text)

	if len(blocks) != 2 {
		t.Fatalf("blocks: got %d, want 2", len(blocks))
	}
	if blocks[0].Inner != " first " {
		t.Errorf("inner: got %q", blocks[0].Inner)
	}
	if blocks[0].Signature != "export const A = 1;" {
		t.Errorf("signature: got %q", blocks[0].Signature)
	}
	if blocks[1].Signature != "export const B = 2;" {
		t.Errorf("signature: got %q", blocks[1].Signature)
	}
}

func TestBlocksSpanExcludesTrailingNewline(t *testing.T) {
	text := "/** doc */  \nexport const A = 1;\n"
	blocks := JSDoc.Blocks(text)
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}

	b := blocks[0]
	if got := text[b.Start:b.End]; got != "/** doc */" {
		t.Errorf("span text: got %q", got)
	}
	if b.Trailing != "  \n" {
		t.Errorf("trailing: got %q", b.Trailing)
	}
}

func TestBlocksIndent(t *testing.T) {
	text := "struct X {\n\t/**\n\t * doc\n\t */\n\tint y;\n};\n"
	blocks := CHeader.Blocks(text)
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}
	if blocks[0].Indent != "\t" {
		t.Errorf("indent: got %q", blocks[0].Indent)
	}
	if blocks[0].Signature != "\tint y;" {
		t.Errorf("signature: got %q", blocks[0].Signature)
	}
}

func TestFindSignatureSkipsInterleavedComments(t *testing.T) {
	text := strings.Join([]string{
		"/** doc */",
		"",
		"// a line comment",
		"/* a block",
		"   comment */",
		"export interface Foo {",
	}, "\n")

	blocks := JSDoc.Blocks(text)
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}
	if blocks[0].Signature != "export interface Foo {" {
		t.Errorf("signature: got %q", blocks[0].Signature)
	}
	if blocks[0].SignatureLine != 5 {
		t.Errorf("signature line: got %d, want 5", blocks[0].SignatureLine)
	}
}

func TestOrphanBlockStillYielded(t *testing.T) {
	blocks := JSDoc.Blocks("/** floating docs */\n")
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}
	if blocks[0].Signature != "" || blocks[0].SignatureLine != -1 {
		t.Errorf("orphan: got signature %q line %d", blocks[0].Signature, blocks[0].SignatureLine)
	}
}

func TestSignatureLookaheadBounded(t *testing.T) {
	// A signature past the lookahead window must not be found.
	text := "/** doc */\n" + strings.Repeat("// filler\n", 60) + "export const A = 1;\n"
	blocks := JSDoc.Blocks(text)
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}
	if blocks[0].Signature != "" {
		t.Errorf("signature should be out of range, got %q", blocks[0].Signature)
	}
}
