// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/patterngen/internal/catalog"
	"github.com/pdiddy/patterngen/internal/pattern"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and re-emit patterns recorded in the catalog",
	Long: `Catalog works with the SQLite database written when --catalog (or the
catalog config key) is set during generation. Stored token sets can be
listed or emitted again without the source datasets.`,
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded patterns",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.List(commandContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No patterns recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-24s  %-10s  %-20s  %8s  %s\n", "Pattern", "Dataset", "Machine", "Tokens", "Created")
	fmt.Fprintln(out, strings.Repeat("-", 90))
	for _, e := range entries {
		fmt.Fprintf(out, "%-24s  %-10s  %-20s  %8d  %s\n",
			e.Name, e.Dataset, e.Machine, e.Tokens, e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// --- emit subcommand ---

var catalogEmitCmd = &cobra.Command{
	Use:   "emit <pattern_name>",
	Short: "Emit a recorded pattern",
	Long: `Emit writes the Ragel block for a recorded pattern to stdout. The output
matches what the original generation produced.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogEmit,
}

func runCatalogEmit(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	e, err := cat.Load(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	return pattern.Write(cmd.OutOrStdout(), e.Name, e.Tokens, pattern.Options{
		Machine:         e.Machine,
		CaseInsensitive: e.CaseInsensitive,
	})
}

// --- shared helpers ---

func openCatalog() (*catalog.Catalog, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Catalog == "" {
		return nil, fmt.Errorf("catalog path required: use --catalog or set catalog in the config file")
	}
	return catalog.Open(cfg.Catalog)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	catalogListCmd.Flags().Bool("json", false, "output the listing as JSON")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogEmitCmd)

	rootCmd.AddCommand(catalogCmd)
}
