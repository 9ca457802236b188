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
	"strings"

	"github.com/spf13/cobra"

	"github.com/gojue/vndkdef/internal/elfimage"
	"github.com/gojue/vndkdef/internal/errors"
)

// elfDumpResult is the dynamic linking information of one file.
type elfDumpResult struct {
	img *elfimage.Image

	Path     string   `json:"path"`
	Class    string   `json:"class"`
	Data     string   `json:"data"`
	Machine  string   `json:"machine"`
	RPath    []string `json:"rpath"`
	RunPath  []string `json:"runpath"`
	Needed   []string `json:"needed"`
	Exported []string `json:"exported"`
	Imported []string `json:"imported"`
}

func newELFDumpResult(path string, img *elfimage.Image) *elfDumpResult {
	return &elfDumpResult{
		img:      img,
		Path:     path,
		Class:    img.ClassName(),
		Data:     img.DataName(),
		Machine:  img.MachineName(),
		RPath:    img.RPath,
		RunPath:  img.RunPath,
		Needed:   img.Needed,
		Exported: img.Exported.Sorted(),
		Imported: img.Imported.Sorted(),
	}
}

func (r *elfDumpResult) String() string {
	var sb strings.Builder
	_ = r.img.Dump(&sb)
	return sb.String()
}

func newElfDumpCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "elfdump PATH",
		Short: "Dump ELF .dynamic section",
		Args:  cobra.ExactArgs(1),
		RunE: s.run(func(command *cobra.Command, args []string) error {
			img, err := elfimage.Load(args[0])
			if err != nil {
				return errors.NewELFParseError(args[0], err)
			}
			return s.print(command, newELFDumpResult(args[0], img))
		}),
	}
}
