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
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/linker"
)

// depsEntries lists every library path of each partition with the sorted
// paths of its dependencies, or of its users when revert is set. The 32-bit
// and 64-bit nodes of one path share an entry.
func depsEntries(g *linker.Linker, revert bool) []domain.DepsEntry {
	var entries []domain.DepsEntry
	for p := domain.Partition(0); p < domain.NumPartitions; p++ {
		assoc := make(map[string]map[string]struct{})
		var order []string
		for _, lib := range g.PartitionLibs(p) {
			set, ok := assoc[lib.Path]
			if !ok {
				set = make(map[string]struct{})
				assoc[lib.Path] = set
				order = append(order, lib.Path)
			}
			related := lib.Deps
			if revert {
				related = lib.Users
			}
			for _, r := range related.Slice() {
				set[r.Path] = struct{}{}
			}
		}
		for _, path := range order {
			paths := make([]string, 0, len(assoc[path]))
			for a := range assoc[path] {
				paths = append(paths, a)
			}
			sort.Strings(paths)
			entries = append(entries, domain.DepsEntry{Path: path, Assoc: paths})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries
}

func newDepsCmd(s *session, graphFlags *pflag.FlagSet) *cobra.Command {
	var revert, leaf bool
	depsCmd := &cobra.Command{
		Use:   "deps",
		Short: "Print binary dependencies for debugging",
		Args:  cobra.NoArgs,
		RunE: s.run(func(command *cobra.Command, args []string) error {
			g, err := s.loadGraph(command)
			if err != nil {
				return err
			}
			entries := depsEntries(g, revert)
			if leaf {
				kept := entries[:0]
				for _, e := range entries {
					if len(e.Assoc) == 0 {
						kept = append(kept, e)
					}
				}
				entries = kept
			}
			return s.print(command, &domain.DepsList{Entries: entries, Leaf: leaf})
		}),
	}
	f := depsCmd.Flags()
	f.AddFlagSet(graphFlags)
	f.BoolVar(&revert, "revert", false, "print usage dependency")
	f.BoolVar(&leaf, "leaf", false, "print binaries without dependencies or usages")
	return depsCmd
}
