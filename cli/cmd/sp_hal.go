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

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/vndk"
)

func newSPHALCmd(s *session, graphFlags *pflag.FlagSet) *cobra.Command {
	var closure bool
	spHALCmd := &cobra.Command{
		Use:   "sp-hal",
		Short: "Find transitive closure of same-process HALs",
		Args:  cobra.NoArgs,
		RunE: s.run(func(command *cobra.Command, args []string) error {
			g, err := s.loadGraph(command)
			if err != nil {
				return err
			}
			vndkStable := vndk.ComputeVNDKStable(g, true)
			out := &domain.SectionList{}
			out.Add("", vndk.ComputeSPHAL(g, vndkStable, closure).Paths())
			return s.print(command, out)
		}),
	}
	f := spHALCmd.Flags()
	f.AddFlagSet(graphFlags)
	f.BoolVar(&closure, "closure", false, "show the closure")
	return spHALCmd
}

func newVNDKStableCmd(s *session, graphFlags *pflag.FlagSet) *cobra.Command {
	var closure bool
	stableCmd := &cobra.Command{
		Use:   "vndk-stable",
		Short: "Find transitive closure of VNDK stable",
		Args:  cobra.NoArgs,
		RunE: s.run(func(command *cobra.Command, args []string) error {
			g, err := s.loadGraph(command)
			if err != nil {
				return err
			}
			out := &domain.SectionList{}
			out.Add("", vndk.ComputeVNDKStable(g, closure).Paths())
			return s.print(command, out)
		}),
	}
	f := stableCmd.Flags()
	f.AddFlagSet(graphFlags)
	f.BoolVar(&closure, "closure", false, "show the closure")
	return stableCmd
}
