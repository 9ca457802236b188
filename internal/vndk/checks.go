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
	"fmt"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/errors"
	"github.com/gojue/vndkdef/internal/genericref"
	"github.com/gojue/vndkdef/internal/linker"
	"github.com/gojue/vndkdef/internal/ndk"
)

// WarnIncorrectPartition reports vendor libraries used only by system
// binaries and system libraries used only by vendor binaries.
func WarnIncorrectPartition(g *linker.Linker, r domain.Reporter) {
	check := func(p domain.Partition, msg string) {
		for _, lib := range g.PartitionLibs(p) {
			if lib.Users.Len() == 0 {
				continue
			}
			samePartition := false
			for _, u := range lib.Users.Slice() {
				if u.Partition == p {
					samePartition = true
					break
				}
			}
			if !samePartition {
				r.Report(domain.Warning(errors.ErrCodeIncorrectPartition, lib.Path, msg))
			}
		}
	}
	check(domain.PartitionVendor, "This is a vendor library with framework-only usages.")
	check(domain.PartitionSystem, "This is a framework library with vendor-only usages.")
}

// WarnHighLevelNDKDeps reports VNDK libraries depending on high-level NDK
// libraries.
func WarnHighLevelNDKDeps(dict *ndk.Dict, sets []*linker.LibSet, r domain.Reporter) {
	for _, set := range sets {
		for _, lib := range set.Sorted() {
			for _, dep := range lib.Deps.Slice() {
				if dict.IsHighLevelNDK(dep.Path) {
					r.Report(domain.Warning(errors.ErrCodeHighLevelNDKDep, lib.Path,
						fmt.Sprintf("VNDK is using high-level NDK %s.", dep.Path)).With("dep", dep.Path))
				}
			}
		}
	}
}

// WarnBannedVendorLibDeps reports vendor binaries depending on banned
// libraries. Libraries banned with BanExclude are reported as errors.
func WarnBannedVendorLibDeps(g *linker.Linker, banned *ndk.BannedLibDict, r domain.Reporter) {
	for _, lib := range g.PartitionLibs(domain.PartitionVendor) {
		for _, dep := range lib.Deps.Slice() {
			b, ok := banned.IsBanned(dep.Path)
			if !ok {
				continue
			}
			msg := fmt.Sprintf("Vendor binary depends on banned %s (reason: %s)", dep.Path, b.Reason)
			d := domain.Warning(errors.ErrCodeBannedLibDep, lib.Path, msg)
			if b.Action == ndk.BanExclude {
				d = domain.Error(errors.ErrCodeBannedLibDep, lib.Path, msg)
			}
			r.Report(d.With("dep", dep.Path).With("action", b.Action.String()))
		}
	}
}

// CheckNDKExtensions reports NDK libraries whose exports differ from the
// generic reference.
func CheckNDKExtensions(g *linker.Linker, refs *genericref.Refs, r domain.Reporter) {
	for _, lib := range append(g.Libs32(), g.Libs64()...) {
		if lib.IsNDK && !refs.IsEquivalent(lib.Path, lib.ELF.Exported) {
			r.Report(domain.Warning(errors.ErrCodeNDKExtended, lib.Path,
				"NDK library should not be extended.").
				With("category", refs.Classify(lib.Path, lib.ELF.Exported).String()))
		}
	}
}
