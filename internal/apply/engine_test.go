package apply

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/docsync/internal/store"
)

const headerFile = `#import <Foundation/Foundation.h>

@interface Foo : NSObject

/**
 * <!-- doc-id: Foo.bar -->
 */
- (void)bar;

@end
`

func seedStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	rec := &store.Record{
		ID:          "Foo.bar",
		Description: "Does X.\n\n@example example-1",
		Examples:    store.NewExamples(),
	}
	rec.Examples.Set("example-1", &store.Example{
		Title: "Example 1",
		Code:  map[string]string{"objc": `NSLog(@"hi");`},
	})
	_, err := store.Save(dir, rec)
	require.NoError(t, err)
	return dir
}

func writeHeader(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyToTextReplacesOnlyTheBlock(t *testing.T) {
	records, err := store.LoadDir(seedStore(t))
	require.NoError(t, err)

	updated, replaced, missing := applyToText(headerFile, records, "objc")
	require.Equal(t, []string{"Foo.bar"}, replaced)
	assert.Empty(t, missing)

	// Everything outside the block span is untouched.
	assert.True(t, strings.HasPrefix(updated, "#import <Foundation/Foundation.h>\n\n@interface Foo : NSObject\n\n"))
	assert.True(t, strings.HasSuffix(updated, " */\n- (void)bar;\n\n@end\n"))

	assert.Contains(t, updated, " * <!-- doc-id: Foo.bar -->")
	assert.Contains(t, updated, " * Does X.")
	assert.Contains(t, updated, " * @example Example 1")
	assert.Contains(t, updated, " * ```objc")
	assert.Contains(t, updated, ` * NSLog(@"hi");`)
}

func TestApplyToTextIdempotent(t *testing.T) {
	records, err := store.LoadDir(seedStore(t))
	require.NoError(t, err)

	once, replaced, _ := applyToText(headerFile, records, "objc")
	require.NotEmpty(t, replaced)

	twice, replaced, _ := applyToText(once, records, "objc")
	assert.Empty(t, replaced)
	assert.Equal(t, once, twice)
}

func TestApplyToTextUnknownMarkerLeftAlone(t *testing.T) {
	updated, replaced, missing := applyToText(headerFile, map[string]*store.Record{}, "objc")
	assert.Equal(t, headerFile, updated)
	assert.Empty(t, replaced)
	assert.Equal(t, []string{"Foo.bar"}, missing)
}

func TestApplyToTextMultipleBlocks(t *testing.T) {
	storeDir := t.TempDir()
	for _, id := range []string{"Foo.a", "Foo.b"} {
		rec := &store.Record{ID: id, Description: "Doc for " + id + "."}
		_, err := store.Save(storeDir, rec)
		require.NoError(t, err)
	}
	records, err := store.LoadDir(storeDir)
	require.NoError(t, err)

	text := strings.Join([]string{
		"/**",
		" * <!-- doc-id: Foo.a -->",
		" */",
		"- (void)a;",
		"",
		"/**",
		" * <!-- doc-id: Foo.b -->",
		" */",
		"- (void)b;",
		"",
	}, "\n")

	updated, replaced, missing := applyToText(text, records, "objc")
	assert.Equal(t, []string{"Foo.a", "Foo.b"}, replaced)
	assert.Empty(t, missing)
	assert.Contains(t, updated, "Doc for Foo.a.")
	assert.Contains(t, updated, "Doc for Foo.b.")
	assert.Contains(t, updated, "- (void)a;")
	assert.Contains(t, updated, "- (void)b;")
}

func TestRunDryRunWritesNothing(t *testing.T) {
	storeDir := seedStore(t)
	root := t.TempDir()
	path := writeHeader(t, root, "Foo.h", headerFile)

	var out bytes.Buffer
	err := Run(Options{
		StoreDir: storeDir,
		Root:     root,
		Lang:     "objc",
		Mode:     DryRun,
		Out:      &out,
		Err:      &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1 file(s) would change")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, headerFile, string(data))
}

func TestRunCheckReportsPending(t *testing.T) {
	storeDir := seedStore(t)
	root := t.TempDir()
	writeHeader(t, root, "Foo.h", headerFile)

	err := Run(Options{StoreDir: storeDir, Root: root, Lang: "objc", Mode: Check})
	assert.ErrorIs(t, err, ErrChangesPending)
}

func TestRunWriteThenSecondRunIsClean(t *testing.T) {
	storeDir := seedStore(t)
	root := t.TempDir()
	path := writeHeader(t, root, "Foo.h", headerFile)

	err := Run(Options{StoreDir: storeDir, Root: root, Lang: "objc", Mode: Write})
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(written), ` * NSLog(@"hi");`)
	assert.Contains(t, string(written), "- (void)bar;")

	// Second write pass finds nothing to do and leaves the bytes alone.
	err = Run(Options{StoreDir: storeDir, Root: root, Lang: "objc", Mode: Write})
	require.NoError(t, err)

	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(written), string(again))

	err = Run(Options{StoreDir: storeDir, Root: root, Lang: "objc", Mode: Check})
	assert.NoError(t, err)
}

func TestRunStrictFailsOnUnknownMarker(t *testing.T) {
	storeDir := t.TempDir() // empty store
	root := t.TempDir()
	writeHeader(t, root, "Foo.h", headerFile)

	var errOut bytes.Buffer
	err := Run(Options{
		StoreDir: storeDir,
		Root:     root,
		Lang:     "objc",
		Mode:     DryRun,
		Strict:   true,
		Err:      &errOut,
	})
	assert.ErrorIs(t, err, ErrMissingRecords)
	assert.Contains(t, errOut.String(), "Foo.bar")
}

func TestRunNonStrictSkipsUnknownMarker(t *testing.T) {
	storeDir := t.TempDir()
	root := t.TempDir()
	path := writeHeader(t, root, "Foo.h", headerFile)

	var errOut bytes.Buffer
	err := Run(Options{
		StoreDir: storeDir,
		Root:     root,
		Lang:     "objc",
		Mode:     Write,
		Err:      &errOut,
	})
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Foo.bar")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, headerFile, string(data))
}

func TestRunSkipsExcludedDirsAndOtherExtensions(t *testing.T) {
	storeDir := seedStore(t)
	root := t.TempDir()
	writeHeader(t, root, filepath.Join("Pods", "Vendored.h"), headerFile)
	writeHeader(t, root, "notes.txt", headerFile)

	err := Run(Options{StoreDir: storeDir, Root: root, Lang: "objc", Mode: Check})
	assert.NoError(t, err, "nothing eligible should be scanned")
}

func TestRunMalformedStoreIsFatal(t *testing.T) {
	storeDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(storeDir, "bad.yaml"), []byte(":\n\t-"), 0o644))
	root := t.TempDir()

	err := Run(Options{StoreDir: storeDir, Root: root, Lang: "objc", Mode: DryRun})
	assert.Error(t, err)
}
