// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the patterngen CLI, which turns flat
// reference datasets into Ragel alternation patterns.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/patterngen/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the patterngen CLI.
var rootCmd = &cobra.Command{
	Use:   "patterngen",
	Short: "Generate Ragel patterns from reference datasets",
	Long: `patterngen reads reference datasets (the Fed ACH routing directory, census
name lists) and emits a named Ragel alternation of the unique tokens they
contain. The emitted block is written to stdout so a build can redirect it
into an .rl file:

  patterngen ach routing_number FedACHdir.txt > routing.rl
  patterngen names name dist.all.last dist.female.first > names.rl

Every block declares the same machine so the fragments can be included into
one scanner.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./patterngen.yaml or ~/.config/patterngen/patterngen.yaml)")
	rootCmd.PersistentFlags().String("machine", "", "Ragel machine name (default: "+types.DefaultMachine+")")
	rootCmd.PersistentFlags().String("catalog", "", "SQLite catalog recording generated token sets")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "report per-file statistics on stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("patterngen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "patterngen"))
		}
	}

	viper.BindPFlag("machine", rootCmd.PersistentFlags().Lookup("machine"))
	viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	viper.SetDefault("machine", types.DefaultMachine)
	viper.SetEnvPrefix("PATTERNGEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the generator settings and builds the dataset registry.
func loadConfig() (types.GeneratorConfig, types.Registry, error) {
	var cfg types.GeneratorConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Machine == "" {
		cfg.Machine = types.DefaultMachine
	}

	reg, replaced, err := types.NewRegistry(cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("config: %w", err)
	}
	for _, name := range replaced {
		fmt.Fprintf(os.Stderr, "note: config dataset %q replaces the built-in preset\n", name)
	}
	return cfg, reg, nil
}

// logWriter returns stderr under --verbose and a discarding writer otherwise.
func logWriter(cmd *cobra.Command) io.Writer {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return os.Stderr
	}
	return io.Discard
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
