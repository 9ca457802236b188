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

	"github.com/gojue/vndkdef/internal/genericref"
	"github.com/gojue/vndkdef/internal/ndk"
	"github.com/gojue/vndkdef/internal/vndk"
)

func newVNDKCmd(s *session, graphFlags *pflag.FlagSet) *cobra.Command {
	cfg := s.cfg
	vndkCmd := &cobra.Command{
		Use:   "vndk",
		Short: "Compute VNDK libraries set",
		Args:  cobra.NoArgs,
		RunE: s.run(func(command *cobra.Command, args []string) error {
			g, err := s.loadGraph(command)
			if err != nil {
				return err
			}

			var refs *genericref.Refs
			if cfg.GenericRefs != "" {
				refs, err = genericref.LoadDir(cfg.GenericRefs)
				if err != nil {
					return err
				}
				s.log.Debug().Int("refs", refs.Len()).Msg("generic references loaded")
			}

			banned := ndk.DefaultBannedLibs()
			if len(cfg.BanVendorLibDeps) > 0 {
				banned = ndk.NewBannedLibDict()
				for _, name := range cfg.BanVendorLibDeps {
					banned.Add(name, "user-banned", ndk.BanWarn)
				}
			}

			res := vndk.Analyze(g, vndk.AnalyzeOptions{
				Dict:                    ndk.NewDict(),
				Refs:                    refs,
				Banned:                  banned,
				WarnIncorrectPartition:  cfg.WarnIncorrectPartition,
				WarnHighLevelNDKDeps:    cfg.WarnHighLevelNDKDeps,
				WarnBannedVendorLibDeps: cfg.WarnBannedVendorLibDeps,
				CustomizationDefault:    cfg.OutwardCustomizationDefaultPartition,
				CustomizedForSystem:     cfg.OutwardCustomizationForSystem,
				CustomizedForVendor:     cfg.OutwardCustomizationForVendor,
				VNDKVersion:             cfg.VNDKVersion,
				Reporter:                s.dispatcher,
			})
			return s.print(command, res.Sections())
		}),
	}

	f := vndkCmd.Flags()
	f.AddFlagSet(graphFlags)
	f.StringVar(&cfg.GenericRefs, "load-generic-refs", "", "compare with generic reference symbols")
	f.BoolVar(&cfg.WarnIncorrectPartition, "warn-incorrect-partition", false,
		"warn about libraries only have cross partition linkages")
	f.BoolVar(&cfg.WarnHighLevelNDKDeps, "warn-high-level-ndk-deps", false,
		"warn about VNDK depending on high-level NDK")
	f.BoolVar(&cfg.WarnBannedVendorLibDeps, "warn-banned-vendor-lib-deps", false,
		"warn when a vendor binary depends on banned lib")
	f.StringArrayVar(&cfg.BanVendorLibDeps, "ban-vendor-lib-dep", nil,
		"library that must not be used by vendor binaries")
	f.StringVar(&cfg.OutwardCustomizationDefaultPartition, "outward-customization-default-partition",
		cfg.OutwardCustomizationDefaultPartition, "default partition for outward customized vndk libs: system, vendor or both")
	f.StringArrayVar(&cfg.OutwardCustomizationForSystem, "outward-customization-for-system", nil,
		"outward customized vndk for system partition")
	f.StringArrayVar(&cfg.OutwardCustomizationForVendor, "outward-customization-for-vendor", nil,
		"outward customized vndk for vendor partition")
	f.IntVar(&cfg.VNDKVersion, "vndk-version", cfg.VNDKVersion, "version used for vanilla vndk-core paths")
	return vndkCmd
}
