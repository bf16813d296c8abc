package apply

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/example/docsync/internal/store"
)

// Mode selects what the engine does with pending changes.
type Mode int

const (
	// DryRun reports pending changes and writes nothing.
	DryRun Mode = iota
	// Check is DryRun plus a ErrChangesPending result when changes exist.
	Check
	// Write rewrites the changed files in place.
	Write
)

// ErrChangesPending is returned in Check mode when the destination tree is
// out of date with the store.
var ErrChangesPending = errors.New("changes pending")

// ErrMissingRecords is returned in strict mode when a destination marker has
// no corresponding store record. All occurrences are reported before the
// error is returned.
var ErrMissingRecords = errors.New("unresolved doc-id markers")

// DefaultExcludeDirs are directory names skipped while walking a destination
// tree.
var DefaultExcludeDirs = []string{
	".git", ".hg", ".svn",
	"build", "Build", "DerivedData",
	"Pods", "Carthage", "node_modules",
	".idea", ".vscode",
}

// Options configures one apply run.
type Options struct {
	StoreDir string
	Root     string
	Lang     string

	Exts        []string // extensions to scan; default .h
	ExcludeDirs []string // directory names to skip; default DefaultExcludeDirs

	Mode    Mode
	Strict  bool
	Verbose bool

	Out io.Writer
	Err io.Writer
}

// FileChange is one destination file whose content would change.
type FileChange struct {
	Path     string
	Original string
	Updated  string
	Replaced []string
}

const diffTeaserLines = 200

// Run loads the store once, then processes every destination file against
// that snapshot. Per-file read failures are reported and skipped; store
// corruption and strict-mode violations fail the whole run.
func Run(opts Options) error {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Err == nil {
		opts.Err = io.Discard
	}
	if len(opts.Exts) == 0 {
		opts.Exts = []string{".h"}
	}
	if opts.ExcludeDirs == nil {
		opts.ExcludeDirs = DefaultExcludeDirs
	}
	if opts.Lang == "" {
		return errors.New("apply: target language is required")
	}

	records, err := store.LoadDir(opts.StoreDir)
	if err != nil {
		return err
	}
	if opts.Verbose {
		fmt.Fprintf(opts.Out, "[apply] loaded %d records from %s\n", len(records), opts.StoreDir)
	}

	var changes []FileChange
	missingByID := map[string][]string{}

	err = walkDest(opts.Root, opts.Exts, opts.ExcludeDirs, func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(opts.Err, "[apply] %s: %v\n", path, err)
			return
		}
		original := string(data)

		updated, replaced, missing := applyToText(original, records, opts.Lang)
		for _, id := range missing {
			missingByID[id] = append(missingByID[id], path)
		}
		if updated != original {
			if opts.Verbose {
				for _, id := range replaced {
					fmt.Fprintf(opts.Out, "[apply] %s: updating doc-id %s\n", path, id)
				}
			}
			changes = append(changes, FileChange{
				Path:     path,
				Original: original,
				Updated:  updated,
				Replaced: replaced,
			})
		}
	})
	if err != nil {
		return err
	}

	if len(missingByID) > 0 {
		reportMissing(opts, missingByID)
		if opts.Strict {
			return fmt.Errorf("%w: %d id(s)", ErrMissingRecords, len(missingByID))
		}
	}

	if len(changes) == 0 {
		if opts.Verbose {
			fmt.Fprintln(opts.Out, "[apply] no changes")
		}
		return nil
	}

	total := 0
	for _, c := range changes {
		total += len(c.Replaced)
	}
	fmt.Fprintf(opts.Out, "[apply] %d file(s) would change; %d doc-block(s) updated\n", len(changes), total)

	if opts.Verbose || opts.Mode != Write {
		for _, c := range changes {
			fmt.Fprintf(opts.Out, "- %s  (%d block(s))\n", c.Path, len(c.Replaced))
			if opts.Verbose {
				for _, id := range c.Replaced {
					fmt.Fprintf(opts.Out, "    %s\n", id)
				}
			}
			printDiff(opts, c)
		}
	}

	switch opts.Mode {
	case Check:
		return ErrChangesPending
	case Write:
		for _, c := range changes {
			if err := writeFileAtomic(c.Path, []byte(c.Updated)); err != nil {
				return fmt.Errorf("write %s: %w", c.Path, err)
			}
		}
		fmt.Fprintf(opts.Out, "[apply] wrote %d file(s)\n", len(changes))
	}
	return nil
}

func reportMissing(opts Options, missingByID map[string][]string) {
	ids := make([]string, 0, len(missingByID))
	for id := range missingByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintln(opts.Err, "[apply] Missing doc-ids referenced in destination:")
	for _, id := range ids {
		files := missingByID[id]
		fmt.Fprintf(opts.Err, "  - %s  (referenced in %d file(s))\n", id, len(files))
		if opts.Verbose {
			for _, f := range files {
				fmt.Fprintf(opts.Err, "      - %s\n", f)
			}
		}
	}
}

func printDiff(opts Options, c FileChange) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(c.Original),
		B:        difflib.SplitLines(c.Updated),
		FromFile: c.Path,
		ToFile:   c.Path + " (updated)",
		Context:  3,
	})
	if err != nil {
		fmt.Fprintf(opts.Err, "[apply] diff %s: %v\n", c.Path, err)
		return
	}

	if opts.Verbose {
		fmt.Fprint(opts.Out, diff)
		return
	}

	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	if len(lines) > diffTeaserLines {
		fmt.Fprintln(opts.Out, strings.Join(lines[:diffTeaserLines], "\n"))
		fmt.Fprintf(opts.Out, "... diff truncated (%d lines total). Use --verbose for the full diff.\n", len(lines))
		return
	}
	fmt.Fprint(opts.Out, diff)
}

// walkDest visits every file under root whose extension matches, pruning
// excluded directory names. visit errors are the visitor's business; only
// walk errors propagate.
func walkDest(root string, exts, excludeDirs []string, visit func(path string)) error {
	extSet := map[string]bool{}
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		extSet[e] = true
	}
	excluded := map[string]bool{}
	for _, d := range excludeDirs {
		excluded[d] = true
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("destination root is not a directory: %s", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && excluded[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if extSet[filepath.Ext(path)] {
			visit(path)
		}
		return nil
	})
}

func writeFileAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
