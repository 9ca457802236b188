// Copyright 2022 CFC4N <cfc4n.cs@gmail.com>. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gojue/vndkdef/internal/config"
	"github.com/gojue/vndkdef/internal/linker"
	"github.com/gojue/vndkdef/internal/ndk"
	"github.com/gojue/vndkdef/internal/scan"
)

// newGraphFlagSet returns the partition options shared by every command
// that builds a dependency graph.
func newGraphFlagSet(cfg *config.GraphConfig) *pflag.FlagSet {
	fs := pflag.NewFlagSet("graph", pflag.ContinueOnError)
	fs.StringArrayVar(&cfg.System, "system", nil, "path to system partition contents")
	fs.StringArrayVar(&cfg.Vendor, "vendor", nil, "path to vendor partition contents")
	fs.StringArrayVar(&cfg.SystemDirsAsVendor, "system-dir-as-vendor", nil,
		"sub directory of system partition that has vendor files")
	fs.StringArrayVar(&cfg.VendorDirsAsSystem, "vendor-dir-as-system", nil,
		"sub directory of vendor partition that has system files")
	fs.StringArrayVar(&cfg.ExtraDeps, "load-extra-deps", nil, "load extra module dependencies")
	fs.BoolVar(&cfg.WarnUnresolvedSymbols, "warn-unresolved-symbols", false,
		"warn about imported symbols no dependency exports")
	return fs
}

// loadGraph scans the configured partitions and resolves the graph.
func (s *session) loadGraph(command *cobra.Command) (*linker.Linker, error) {
	if !s.cfg.HasPartitions() {
		s.log.Warn().Msg("no --system or --vendor given, the graph is empty")
	}
	g, missing, err := scan.CreateGraph(command.Context(), &s.cfg.GraphConfig, ndk.NewDict(), s.dispatcher, s.log)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("libs", g.Len()).Int("missing", len(missing)).
		Int("extra_deps", g.ExtraDeps()).Msg("graph resolved")
	if s.cfg.WarnUnresolvedSymbols {
		n := g.ReportUnresolvedSymbols()
		s.log.Debug().Int("libs", n).Msg("unresolved symbols reported")
	}
	return g, nil
}
