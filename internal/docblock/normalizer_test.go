package docblock

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		inner string
		want  []string
	}{
		{
			name:  "star prefix",
			inner: "\n * First line.\n *\n * Second line.\n ",
			want:  []string{"First line.", "", "Second line."},
		},
		{
			name:  "no prefix",
			inner: "\nFirst line.\n\nSecond line.\n",
			want:  []string{"First line.", "", "Second line."},
		},
		{
			name:  "indentation preserved after prefix",
			inner: "\n * ```ts\n *   indented();\n * ```\n ",
			want:  []string{"```ts", "  indented();", "```"},
		},
		{
			name:  "ragged indentation",
			inner: "\n   * one\n * two\n",
			want:  []string{"one", "two"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Normalize(c.inner)
			if len(got) != len(c.want) {
				t.Fatalf("lines: got %q, want %q", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("line %d: got %q, want %q", i, got[i], c.want[i])
				}
			}
		})
	}
}

func TestParseMarkerBecomesID(t *testing.T) {
	doc := Parse([]string{
		"<!-- doc-id: Foo.bar -->",
		"Does X.",
	})
	require.Equal(t, "Foo.bar", doc.ID)
	require.Equal(t, "Does X.", doc.Description)
}

func TestParseExampleWithLabel(t *testing.T) {
	doc := Parse([]string{
		"Starts the engine.",
		"",
		"@example Basic usage",
		"```ts",
		"start();",
		"```",
	})

	require.Len(t, doc.Examples, 1)
	ex := doc.Examples[0]
	assert.Equal(t, "basic-usage", ex.Key)
	assert.Equal(t, "Basic usage", ex.Title)
	assert.Equal(t, "ts", ex.Lang)
	assert.Equal(t, "start();", ex.Code)
	assert.Equal(t, "Starts the engine.\n\n@example basic-usage", doc.Description)
}

func TestParseExampleOrdinalKeyAndTitle(t *testing.T) {
	doc := Parse([]string{
		"@example",
		"```typescript",
		"one();",
		"```",
		"@example",
		"```js",
		"two();",
		"```",
	})

	require.Len(t, doc.Examples, 2)
	assert.Equal(t, "example-1", doc.Examples[0].Key)
	assert.Equal(t, "Example 1", doc.Examples[0].Title)
	assert.Equal(t, "ts", doc.Examples[0].Lang)
	assert.Equal(t, "example-2", doc.Examples[1].Key)
	assert.Equal(t, "Example 2", doc.Examples[1].Title)
	assert.Equal(t, "ts", doc.Examples[1].Lang)
}

func TestParseTitleFromPrecedingLabelLine(t *testing.T) {
	doc := Parse([]string{
		"Some prose.",
		"",
		"Custom setup:",
		"",
		"@example",
		"```ts",
		"setup();",
		"```",
	})

	require.Len(t, doc.Examples, 1)
	assert.Equal(t, "Custom setup", doc.Examples[0].Title)
	// The label line is consumed, not left in the description.
	assert.NotContains(t, doc.Description, "Custom setup")
}

func TestParseTitleFromFollowingLabelLine(t *testing.T) {
	doc := Parse([]string{
		"@example",
		"Advanced setup:",
		"```ts",
		"setup();",
		"```",
	})

	require.Len(t, doc.Examples, 1)
	assert.Equal(t, "Advanced setup", doc.Examples[0].Title)
}

func TestParseDuplicateLabelsGetSuffixedKeys(t *testing.T) {
	doc := Parse([]string{
		"@example Setup",
		"```ts",
		"a();",
		"```",
		"@example Setup",
		"```ts",
		"b();",
		"```",
	})

	require.Len(t, doc.Examples, 2)
	assert.Equal(t, "setup", doc.Examples[0].Key)
	assert.Equal(t, "setup-2", doc.Examples[1].Key)
}

func TestParsePlaceholderWithoutFenceIsKept(t *testing.T) {
	doc := Parse([]string{
		"Does X.",
		"",
		"@example example-1",
	})

	assert.Empty(t, doc.Examples)
	assert.Equal(t, "Does X.\n\n@example example-1", doc.Description)
}

func TestParseCategoriesAndFlags(t *testing.T) {
	doc := Parse([]string{
		"@category Events",
		"Fires on change. @internal",
		"@hidden",
	})

	assert.Equal(t, []string{"Events"}, doc.Categories)
	assert.True(t, doc.Internal)
	assert.True(t, doc.Hidden)
	assert.Equal(t, "Fires on change.", doc.Description)
}

func TestParseProseFencePassesThrough(t *testing.T) {
	lines := []string{
		"Configure like this:",
		"```json",
		"{\"a\": 1}",
		"```",
	}
	doc := Parse(lines)

	assert.Empty(t, doc.Examples)
	assert.Equal(t, strings.Join(lines, "\n"), doc.Description)
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Basic usage", "basic-usage"},
		{"  Weird -- label!  ", "weird-label"},
		{"***", "example"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeLang(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "ts"},
		{"TypeScript", "ts"},
		{"js", "ts"},
		{"Obj-C", "objc"},
		{"kts", "kotlin"},
		{"swift", "swift"},
	}
	for _, c := range cases {
		if got := NormalizeLang(c.in); got != c.want {
			t.Errorf("NormalizeLang(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}
