/*
Copyright © 2022 CFC4N <cfc4n.cs@gmail.com>

*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gojue/vndkdef/internal/builder"
	"github.com/gojue/vndkdef/internal/config"
	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/logger"
	"github.com/gojue/vndkdef/internal/output"
	"github.com/gojue/vndkdef/internal/report"
)

// GlobalFlags are the root options that are not part of the configuration.
type GlobalFlags struct {
	ConfigFile string
}

// session is the state shared by the subcommands of one command tree.
type session struct {
	globals GlobalFlags
	cfg     *config.VNDKConfig

	log        *logger.Logger
	dispatcher *report.Dispatcher
	collector  *report.Collector
	printer    *output.Printer
}

func newSession() *session {
	return &session{cfg: builder.NewConfigBuilder().MustBuild()}
}

// strictError is returned when --strict is set and errors were reported.
type strictError struct {
	count int
}

func (e *strictError) Error() string {
	return fmt.Sprintf("%d error diagnostic(s) reported", e.count)
}

// applyConfigFile decodes path into v and then restores the flags given on
// the command line, so that they take precedence over the file.
func applyConfigFile(fs *pflag.FlagSet, path string, v any) error {
	type savedFlag struct {
		flag  *pflag.Flag
		slice []string
		value string
	}
	var saved []savedFlag
	fs.Visit(func(f *pflag.Flag) {
		sf := savedFlag{flag: f}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sf.slice = sv.GetSlice()
		} else {
			sf.value = f.Value.String()
		}
		saved = append(saved, sf)
	})

	if err := config.LoadFile(path, v); err != nil {
		return err
	}

	for _, sf := range saved {
		if sv, ok := sf.flag.Value.(pflag.SliceValue); ok {
			if err := sv.Replace(sf.slice); err != nil {
				return err
			}
			continue
		}
		if err := sf.flag.Value.Set(sf.value); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) setup(command *cobra.Command) error {
	if s.globals.ConfigFile != "" {
		if err := applyConfigFile(command.Flags(), s.globals.ConfigFile, s.cfg); err != nil {
			return err
		}
	}
	cfg, err := builder.FromConfig(s.cfg).Build()
	if err != nil {
		return err
	}
	s.cfg = cfg

	s.log = logger.New(command.ErrOrStderr(), s.cfg.Debug)
	if s.globals.ConfigFile != "" {
		s.log.Debug().RawJSON("config", s.cfg.Bytes()).Msg("configuration loaded")
	}

	s.dispatcher, s.collector, err = newDiagnosticDispatcher(s.log)
	return err
}

// print encodes r to the configured output.
func (s *session) print(command *cobra.Command, r domain.Result) error {
	if s.printer == nil {
		p, err := output.NewPrinter(s.cfg.Output, s.cfg.Format, command.OutOrStdout(), s.log)
		if err != nil {
			return err
		}
		s.printer = p
	}
	return s.printer.Print(r)
}

func (s *session) close() error {
	var err error
	if s.printer != nil {
		err = s.printer.Close()
		s.printer = nil
	}
	if s.dispatcher != nil {
		if cerr := s.dispatcher.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// run wraps a subcommand body with configuration loading, diagnostic
// wiring, output cleanup and the --strict check.
func (s *session) run(fn func(command *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(command *cobra.Command, args []string) (err error) {
		if err := s.setup(command); err != nil {
			return err
		}
		defer func() {
			if cerr := s.close(); err == nil {
				err = cerr
			}
		}()

		if err := fn(command, args); err != nil {
			return err
		}
		if n := s.collector.ErrorCount(); s.cfg.Strict && n > 0 {
			return &strictError{count: n}
		}
		return nil
	}
}
