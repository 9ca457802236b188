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

package vndk

import (
	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/genericref"
	"github.com/gojue/vndkdef/internal/linker"
	"github.com/gojue/vndkdef/internal/ndk"
)

// Outward customization default partitions.
const (
	CustomizeSystem = "system"
	CustomizeVendor = "vendor"
	CustomizeBoth   = "both"
)

// AnalyzeOptions configure Analyze.
type AnalyzeOptions struct {
	Dict   *ndk.Dict
	Refs   *genericref.Refs
	Banned *ndk.BannedLibDict

	WarnIncorrectPartition  bool
	WarnHighLevelNDKDeps    bool
	WarnBannedVendorLibDeps bool

	// CustomizationDefault is system, vendor or both. It selects which side
	// every system library is customized for unless listed below.
	CustomizationDefault string
	CustomizedForSystem  []string
	CustomizedForVendor  []string

	VNDKVersion int
	Reporter    domain.Reporter
}

// Result holds everything the vndk command prints.
type Result struct {
	SPHALs     *linker.LibSet
	VNDKStable *linker.LibSet
	*Heuristics
}

// Sections lists the result with one label per set, paths sorted.
func (r *Result) Sections() *domain.SectionList {
	out := &domain.SectionList{}
	out.Add("sp-hal", r.SPHALs.Paths())
	out.Add("vndk-stable", r.VNDKStable.Paths())
	out.Add("extra-system-lib", r.ExtraSystemLibs.Paths())
	out.Add("extra-vendor-lib", r.ExtraVendorLibs.Paths())
	out.Add("extra-vndk-core", r.ExtraVNDKCore.Paths())
	out.Add("vndk-core", r.VNDKCore.Paths())
	out.Add("vndk-indirect", r.VNDKIndirect.Paths())
	out.Add("vndk-fwk-ext", r.VNDKFwkExt.Paths())
	out.Add("vndk-vnd-ext", r.VNDKVndExt.Paths())
	return out
}

// Analyze runs the whole classification over a resolved graph: extension
// checks, optional warnings, sp-hal and vndk-stable detection, partition
// normalization and Compute. The graph is modified by normalization.
func Analyze(g *linker.Linker, opts AnalyzeOptions) *Result {
	r := opts.Reporter
	if r == nil {
		r = domain.NopReporter{}
	}
	dict := opts.Dict
	if dict == nil {
		dict = ndk.NewDict()
	}
	banned := opts.Banned
	if banned == nil {
		banned = ndk.DefaultBannedLibs()
	}

	var refs linker.RefLookup
	if opts.Refs != nil {
		refs = opts.Refs
		g.ResolveExtendedSymbolUsers(refs)
		CheckNDKExtensions(g, opts.Refs, r)
	}

	if opts.WarnIncorrectPartition {
		WarnIncorrectPartition(g, r)
	}
	if opts.WarnBannedVendorLibDeps {
		WarnBannedVendorLibDeps(g, banned, r)
	}

	vndkStable := ComputeVNDKStable(g, true)
	spHALs := ComputeSPHAL(g, vndkStable, false)
	spHALClosure := ComputeSPHAL(g, vndkStable, true)

	g.NormalizePartitionTags(spHALs, refs)

	forSystem := linker.NewLibSet()
	forVendor := linker.NewLibSet()
	systemLibs := linker.NewLibSet(g.PartitionLibs(domain.PartitionSystem)...)
	switch opts.CustomizationDefault {
	case CustomizeSystem, "":
		forSystem.AddAll(systemLibs)
	case CustomizeVendor:
		forVendor.AddAll(systemLibs)
	case CustomizeBoth:
		forSystem.AddAll(systemLibs)
		forVendor.AddAll(systemLibs)
	}
	forSystem.AddAll(g.MapPathsToLibs(opts.CustomizedForSystem, nil))
	forVendor.AddAll(g.MapPathsToLibs(opts.CustomizedForVendor, nil))

	h := Compute(g, Options{
		SPHALs:              spHALClosure,
		VNDKStable:          vndkStable,
		CustomizedForSystem: forSystem,
		CustomizedForVendor: forVendor,
		Refs:                opts.Refs,
		Banned:              banned,
		VNDKVersion:         opts.VNDKVersion,
		Reporter:            r,
	})

	if opts.WarnHighLevelNDKDeps {
		WarnHighLevelNDKDeps(dict, []*linker.LibSet{
			h.ExtraVNDKCore, h.VNDKCore, h.VNDKIndirect, h.VNDKFwkExt, h.VNDKVndExt,
		}, r)
	}

	return &Result{SPHALs: spHALClosure, VNDKStable: vndkStable, Heuristics: h}
}
