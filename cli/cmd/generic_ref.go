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
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gojue/vndkdef/internal/config"
	"github.com/gojue/vndkdef/internal/elfimage"
	"github.com/gojue/vndkdef/internal/errors"
	"github.com/gojue/vndkdef/internal/genericref"
	"github.com/gojue/vndkdef/internal/scan"
)

func newCreateGenericRefCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "create-generic-ref DIR -o OUT",
		Short: "Create generic references",
		Long: `Write the exported symbols of every ELF file under DIR to
OUT/<relative path>.sym. The output directory is given with --output.`,
		Args: cobra.ExactArgs(1),
		RunE: s.run(func(command *cobra.Command, args []string) error {
			out := s.cfg.Output
			if out == "" || out == config.DefaultOutput || out == "log" {
				return errors.New(errors.ErrCodeConfigMissing, "create-generic-ref needs an output directory (--output)")
			}

			root, err := filepath.Abs(args[0])
			if err != nil {
				return errors.NewResourceReadError(args[0], err)
			}
			fmt.Fprintln(command.OutOrStdout(), root)

			files, err := scan.ScanExecutables(root, s.log)
			if err != nil {
				return err
			}
			images := make(map[string]*elfimage.Image, len(files))
			for _, f := range files {
				rel, err := filepath.Rel(root, f)
				if err != nil {
					return errors.NewResourceReadError(f, err)
				}
				s.log.Info().Str("file", rel).Msg("Processing")
				img, err := elfimage.Load(f)
				if err != nil {
					s.log.Debug().Err(err).Str("file", f).Msg("skipping file")
					continue
				}
				images[filepath.ToSlash(rel)] = img
			}
			return genericref.WriteDir(out, images)
		}),
	}
}
