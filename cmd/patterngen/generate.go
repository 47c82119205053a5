// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/patterngen/internal/catalog"
	"github.com/pdiddy/patterngen/internal/generate"
	"github.com/pdiddy/patterngen/pkg/types"
)

var achCmd = &cobra.Command{
	Use:   "ach <pattern_name> [files...]",
	Short: "Emit a pattern of ACH routing numbers",
	Long: `Ach reads Fed ACH routing directories (FedACHdir.txt) and emits every
distinct 9-character record prefix as a plain literal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDataset(cmd, types.ACHDataset.Name, args)
	},
}

var namesCmd = &cobra.Command{
	Use:   "names <pattern_name> [files...]",
	Short: "Emit a case-insensitive pattern of census names",
	Long: `Names reads census name lists and emits the first column of every line,
lowercased, as a case-insensitive literal. Names of four characters or
fewer are left out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDataset(cmd, types.NamesDataset.Name, args)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate --dataset <name> <pattern_name> [files...]",
	Short: "Emit a pattern for any configured dataset",
	Long: `Generate runs the extraction rule of a named dataset: one of the presets
(ach, names) or a dataset defined under "datasets" in patterngen.yaml.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, _ := cmd.Flags().GetString("dataset")
		return runDataset(cmd, dataset, args)
	},
}

// runDataset extracts tokens for the named dataset and writes the pattern to
// the command's stdout. The block is buffered so that a failure anywhere,
// including the manifest and catalog side outputs, leaves stdout empty.
func runDataset(cmd *cobra.Command, dataset string, args []string) error {
	cfg, reg, err := loadConfig()
	if err != nil {
		return err
	}
	ds, err := reg.Lookup(dataset)
	if err != nil {
		return err
	}

	req := generate.Request{
		Name:    args[0],
		Dataset: ds,
		Machine: cfg.Machine,
		Inputs:  args[1:],
	}

	var block bytes.Buffer
	res, err := generate.Run(req, &block, logWriter(cmd))
	if err != nil {
		return err
	}

	if manifestPath, _ := cmd.Flags().GetString("manifest"); manifestPath != "" {
		if err := generate.WriteManifest(manifestPath, generate.NewManifest(req, res)); err != nil {
			return err
		}
	}

	if cfg.Catalog != "" {
		if err := recordPattern(commandContext(cmd), cfg.Catalog, req, res); err != nil {
			return err
		}
	}

	if _, err := cmd.OutOrStdout().Write(block.Bytes()); err != nil {
		return fmt.Errorf("writing pattern: %w", err)
	}
	return nil
}

func recordPattern(ctx context.Context, path string, req generate.Request, res generate.Result) error {
	cat, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer cat.Close()

	return cat.Save(ctx, catalog.Entry{
		Name:            req.Name,
		Dataset:         req.Dataset.Name,
		Machine:         req.Machine,
		CaseInsensitive: req.Dataset.CaseInsensitive,
		Tokens:          res.Tokens,
	})
}

func init() {
	for _, c := range []*cobra.Command{achCmd, namesCmd, generateCmd} {
		c.Flags().String("manifest", "", "write a YAML manifest of the run to this path")
		rootCmd.AddCommand(c)
	}
	generateCmd.Flags().String("dataset", "", "dataset name: ach, names, or one defined in the config file")
	generateCmd.MarkFlagRequired("dataset")
}
