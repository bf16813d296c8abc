package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/docsync/internal/harvest"
)

func newHarvestCommand() *cobra.Command {
	var (
		configPath string
		root       string
		outDir     string
		limit      int
		prune      bool
		aliasFlags []string
	)

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Seed the record store from a source tree",
		Long: `Scan a TypeScript tree for JSDoc blocks and write one YAML record per
documented symbol. Existing records are merged: hand-authored example
translations survive a re-harvest.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("root") && cfg.Harvest.Root != "" {
				root = cfg.Harvest.Root
			}
			if !cmd.Flags().Changed("out") && cfg.Harvest.Out != "" {
				outDir = cfg.Harvest.Out
			}

			aliases, err := parseAliases(aliasFlags, cfg.Harvest.Aliases)
			if err != nil {
				return err
			}

			_, err = harvest.Seed(harvest.Options{
				Root:    root,
				OutDir:  outDir,
				Limit:   limit,
				Prune:   prune,
				Aliases: aliases,
				Out:     cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to .docsync.yml config file")
	cmd.Flags().StringVar(&root, "root", "src", "Source root to scan for .ts files")
	cmd.Flags().StringVar(&outDir, "out", "docs-db", "Output directory for record files")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of records to write (0 = no limit)")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete record files not regenerated in this run")
	cmd.Flags().StringArrayVar(&aliasFlags, "alias", nil, "Container alias, hidden=public (repeatable)")

	return cmd
}

func newMarkCommand() *cobra.Command {
	var (
		configPath string
		root       string
		limit      int
		aliasFlags []string
	)

	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Insert or update doc-id markers in source comments in place",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("root") && cfg.Harvest.Root != "" {
				root = cfg.Harvest.Root
			}

			aliases, err := parseAliases(aliasFlags, cfg.Harvest.Aliases)
			if err != nil {
				return err
			}

			_, err = harvest.InsertMarkers(root, limit, aliases, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to .docsync.yml config file")
	cmd.Flags().StringVar(&root, "root", "src", "Source root to scan for .ts files")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of blocks to update (0 = no limit)")
	cmd.Flags().StringArrayVar(&aliasFlags, "alias", nil, "Container alias, hidden=public (repeatable)")

	return cmd
}

func newDumpCommand() *cobra.Command {
	var (
		maxBlocks int
		extracted bool
	)

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print doc blocks from a single file (diagnostic)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return harvest.DumpBlocks(args[0], maxBlocks, extracted, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&maxBlocks, "max-blocks", 2, "Maximum number of blocks to dump")
	cmd.Flags().BoolVar(&extracted, "extracted", false, "Show the parsed description/example summary instead of raw lines")

	return cmd
}

// parseAliases merges repeatable hidden=public flags over config aliases.
func parseAliases(flags []string, base map[string]string) (harvest.Aliases, error) {
	aliases := harvest.Aliases{}
	for hidden, public := range base {
		aliases[hidden] = public
	}
	for _, f := range flags {
		hidden, public, ok := strings.Cut(f, "=")
		if !ok || hidden == "" || public == "" {
			return nil, fmt.Errorf("invalid --alias %q: expected hidden=public", f)
		}
		aliases[hidden] = public
	}
	return aliases, nil
}
