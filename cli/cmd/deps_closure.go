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
	"github.com/gojue/vndkdef/internal/errors"
	"github.com/gojue/vndkdef/internal/linker"
)

func newDepsClosureCmd(s *session, graphFlags *pflag.FlagSet) *cobra.Command {
	var excludeLibs, match []string
	var excludeNDK bool
	closureCmd := &cobra.Command{
		Use:   "deps-closure [LIB...]",
		Short: "Find transitive closure of dependencies",
		RunE: s.run(func(command *cobra.Command, args []string) error {
			if len(args) == 0 && len(match) == 0 {
				return errors.New(errors.ErrCodeConfigMissing, "deps-closure needs a LIB argument or --match")
			}
			g, err := s.loadGraph(command)
			if err != nil {
				return err
			}

			onMissing := func(path string) {
				s.log.Error().Str("lib", path).Msg("no such lib")
			}
			roots := g.MapPathsToLibs(args, onMissing)
			if len(match) > 0 {
				matched, err := g.ComputeMatchedLibs(match, false, nil)
				if err != nil {
					return errors.NewConfigurationError("bad --match pattern", err)
				}
				roots = roots.Union(matched)
			}
			excluded := g.MapPathsToLibs(excludeLibs, onMissing)

			closure := g.ComputeClosure(roots, func(lib *linker.Library) bool {
				return (excludeNDK && lib.IsNDK) || excluded.Has(lib)
			})
			out := &domain.SectionList{}
			out.Add("", closure.Paths())
			return s.print(command, out)
		}),
	}
	f := closureCmd.Flags()
	f.AddFlagSet(graphFlags)
	f.StringArrayVar(&excludeLibs, "exclude-lib", nil, "libraries to be excluded")
	f.BoolVar(&excludeNDK, "exclude-ndk", false, "exclude ndk libraries")
	f.StringArrayVar(&match, "match", nil, "add libraries whose path matches this regular expression")
	return closureCmd
}
