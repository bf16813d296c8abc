// Package harvest implements the extraction direction: JSDoc blocks in a
// TypeScript tree become YAML records in the store.
package harvest

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/docsync/internal/docblock"
	"github.com/example/docsync/internal/store"
)

// Options configures one harvest pass.
type Options struct {
	Root    string
	OutDir  string
	Limit   int // 0 means no limit
	Prune   bool
	Aliases Aliases

	Out io.Writer
}

// Summary reports what a harvest pass did.
type Summary struct {
	FilesScanned int
	BlocksFound  int
	Written      int
	Skipped      int
	Pruned       int
}

// Seed scans the source root and writes one record per harvestable doc
// block, merging with existing records so hand-authored translations
// survive. Written ids accumulate in an explicit set; with Prune, store
// files not regenerated in this run are deleted afterwards.
func Seed(opts Options) (*Summary, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	sum := &Summary{}
	seen := map[string]bool{}
	written := map[string]bool{} // store paths regenerated this run

	files, err := sourceFiles(opts.Root)
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		sum.FilesScanned++
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(opts.Out, "[harvest] skipping %s: %v\n", path, err)
			continue
		}
		text := string(data)
		containers := scanContainers(strings.Split(text, "\n"))

		for _, block := range docblock.JSDoc.Blocks(text) {
			sum.BlocksFound++

			rec, ok := recordFromBlock(block, containers, opts.Aliases)
			if !ok || seen[rec.ID] {
				sum.Skipped++
				continue
			}
			seen[rec.ID] = true

			if rel, err := filepath.Rel(opts.Root, path); err == nil {
				rec.SourceFile = filepath.ToSlash(rel)
			} else {
				rec.SourceFile = path
			}

			target := filepath.Join(opts.OutDir, store.Filename(rec.ID))
			if existing, err := store.Load(target); err == nil {
				rec = store.Merge(existing, rec)
			}

			out, err := store.Save(opts.OutDir, rec)
			if err != nil {
				return sum, err
			}
			written[out] = true
			sum.Written++

			if opts.Limit > 0 && sum.Written >= opts.Limit {
				break
			}
		}
		if opts.Limit > 0 && sum.Written >= opts.Limit {
			break
		}
	}

	if opts.Prune {
		pruned, err := prune(opts.OutDir, written)
		if err != nil {
			return sum, err
		}
		sum.Pruned = pruned
	}

	fmt.Fprintf(opts.Out, "[harvest] summary: files_scanned=%d blocks_found=%d written=%d skipped=%d\n",
		sum.FilesScanned, sum.BlocksFound, sum.Written, sum.Skipped)
	if sum.Pruned > 0 {
		fmt.Fprintf(opts.Out, "[harvest] pruned orphan records: %d\n", sum.Pruned)
	}
	return sum, nil
}

// recordFromBlock parses one extracted block into a store record. Blocks
// without a resolvable identifier, and blocks flagged internal or hidden,
// are not harvested. A hidden container does not suppress its members: each
// member doc is its own block and carries its own flags.
func recordFromBlock(block docblock.Block, containers []container, aliases Aliases) (*store.Record, bool) {
	if block.Signature == "" {
		return nil, false
	}
	name, kind := containerFor(containers, block.SignatureLine)
	id := inferID(block.Signature, name, kind, aliases)
	if id == "" {
		return nil, false
	}

	doc := docblock.Parse(docblock.Normalize(block.Inner))
	if doc.Suppressed() {
		return nil, false
	}

	rec := &store.Record{
		ID:          id,
		Signature:   strings.TrimSpace(block.Signature),
		Categories:  doc.Categories,
		Description: strings.TrimSpace(doc.Description),
	}
	if len(doc.Examples) > 0 {
		rec.Examples = store.NewExamples()
		for _, ex := range doc.Examples {
			rec.Examples.Set(ex.Key, &store.Example{
				Title: ex.Title,
				Code:  map[string]string{ex.Lang: ex.Code},
			})
		}
	}
	return rec, true
}

// sourceFiles lists the TypeScript files under root in a stable order,
// skipping legacy directories.
func sourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "legacy" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".ts") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan source root %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func prune(dir string, written map[string]bool) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, p := range paths {
		if written[p] {
			continue
		}
		if err := os.Remove(p); err != nil {
			return pruned, fmt.Errorf("prune %s: %w", p, err)
		}
		pruned++
	}
	return pruned, nil
}
