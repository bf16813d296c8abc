package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/docsync/internal/apply"
)

func newApplyCommand() *cobra.Command {
	var (
		configPath  string
		storeDir    string
		root        string
		lang        string
		exts        string
		excludeDirs string
		strict      bool
		verbose     bool
		write       bool
		dryRun      bool
		check       bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply store records into marker-anchored destination comments",
		Long: `Walk a destination tree, resolve every <!-- doc-id: ... --> marker against
the record store, and regenerate the surrounding comment block with examples
rendered in the target language. Default mode is a dry run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("store") && cfg.Apply.Store != "" {
				storeDir = cfg.Apply.Store
			}
			if !cmd.Flags().Changed("root") && cfg.Apply.Root != "" {
				root = cfg.Apply.Root
			}
			if !cmd.Flags().Changed("lang") && cfg.Apply.Lang != "" {
				lang = cfg.Apply.Lang
			}
			if lang == "" {
				return errors.New("--lang is required")
			}

			mode := apply.DryRun
			switch {
			case write && check:
				return errors.New("--write and --check are mutually exclusive")
			case write && dryRun:
				return errors.New("--write and --dry-run are mutually exclusive")
			case write:
				mode = apply.Write
			case check:
				mode = apply.Check
			}

			return apply.Run(apply.Options{
				StoreDir:    storeDir,
				Root:        root,
				Lang:        lang,
				Exts:        splitList(exts),
				ExcludeDirs: splitList(excludeDirs),
				Mode:        mode,
				Strict:      strict,
				Verbose:     verbose,
				Out:         cmd.OutOrStdout(),
				Err:         cmd.ErrOrStderr(),
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to .docsync.yml config file")
	cmd.Flags().StringVar(&storeDir, "store", "docs-db", "Record store directory")
	cmd.Flags().StringVar(&root, "root", ".", "Destination root to scan")
	cmd.Flags().StringVar(&lang, "lang", "", "Example language key to render (e.g. objc, ts, kotlin)")
	cmd.Flags().StringVar(&exts, "ext", ".h", "Comma-separated file extensions to scan")
	cmd.Flags().StringVar(&excludeDirs, "exclude-dirs", strings.Join(apply.DefaultExcludeDirs, ","), "Comma-separated directory names to skip")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a marker has no store record")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Per-id updates and full diffs")
	cmd.Flags().BoolVar(&write, "write", false, "Write changes to files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing (default)")
	cmd.Flags().BoolVar(&check, "check", false, "Report changes and exit nonzero if any are pending")

	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
