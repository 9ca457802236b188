/*
Copyright © 2022 CFC4N <cfc4n.cs@gmail.com>

*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	cliName        = "vndkdef"
	cliDescription = "build the ELF dependency graph of an Android image and classify VNDK libraries."
)

var (
	GitVersion = "v0.0.0_unknown"
)

// NewRootCmd builds the command tree. Every call returns independent
// commands and configuration.
func NewRootCmd() *cobra.Command {
	s := newSession()

	rootCmd := &cobra.Command{
		Use:        cliName,
		Short:      cliDescription,
		SuggestFor: []string{"vndk-def", "vndk_definition_tool"},
		Version:    GitVersion,

		Long: `vndkdef reads the ELF files of Android system and vendor partition trees,
resolves their DT_NEEDED dependencies and symbols, and decides which
framework libraries vendor code may use and how they must be shipped
(vndk-core, vndk-indirect, framework or vendor extensions, sp-hal).
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&s.cfg.Debug, "debug", "d", s.cfg.Debug, "enable debug logging")
	pf.StringVar(&s.globals.ConfigFile, "config", "", "YAML file with default options; flags given on the command line win")
	pf.IntVarP(&s.cfg.Jobs, "jobs", "j", s.cfg.Jobs, "number of parallel ELF parsers")
	pf.StringVarP(&s.cfg.Output, "output", "o", s.cfg.Output, "output destination: stdout, log or a file path")
	pf.StringVarP(&s.cfg.Format, "format", "f", s.cfg.Format, "output format: plain, json or json-pretty")
	pf.BoolVar(&s.cfg.Strict, "strict", s.cfg.Strict, "exit with an error when an error diagnostic was reported")

	graphFlags := newGraphFlagSet(&s.cfg.GraphConfig)
	rootCmd.AddCommand(
		newElfDumpCmd(s),
		newCreateGenericRefCmd(s),
		newVNDKCmd(s, graphFlags),
		newDepsCmd(s, graphFlags),
		newDepsClosureCmd(s, graphFlags),
		newSPHALCmd(s, graphFlags),
		newVNDKStableCmd(s, graphFlags),
	)
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
