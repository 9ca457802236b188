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

package linker

import (
	"fmt"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/errors"
)

// NormalizePartitionTags fixes system libraries that depend on vendor
// libraries other than sp-hals. A library tracked by refs (or any library
// when refs is nil) keeps its tag and loses the offending edges. An
// untracked library is retagged vendor and keeps its edges.
//
// Libraries are visited in deps postorder, so a dependency retagged
// earlier counts as vendor for its users.
func (g *Linker) NormalizePartitionTags(spHals *LibSet, refs RefLookup) {
	isSystemOrSPHAL := func(l *Library) bool {
		return l.IsSystemLib() || spHals.Has(l)
	}

	for _, lib := range g.DepsPostorder(g.PartitionLibs(domain.PartitionSystem)) {
		var bad []*Library
		for _, dep := range lib.Deps.Slice() {
			if !isSystemOrSPHAL(dep) {
				bad = append(bad, dep)
			}
		}
		if len(bad) == 0 {
			continue
		}

		tracked := refs == nil
		if !tracked {
			_, tracked = refs.Lookup(lib.Path)
		}

		if tracked {
			for _, dep := range bad {
				g.reporter.Report(domain.Error(errors.ErrCodeCrossPartitionDep, lib.Path,
					fmt.Sprintf("system exe/lib must not depend on vendor lib %s. Assume such dependency does not exist.", dep.Path)).
					With("dep", dep.Path))
				lib.RemoveDep(dep)
			}
			continue
		}

		for _, dep := range bad {
			g.reporter.Report(domain.Warning(errors.ErrCodePartitionReassigned, lib.Path,
				fmt.Sprintf("system exe/lib must not depend on vendor lib %s. Assuming %s should be placed in vendor partition.", dep.Path, lib.Path)).
				With("dep", dep.Path))
		}
		g.setPartition(lib, domain.PartitionVendor)
	}
}
