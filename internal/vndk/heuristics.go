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

// Package vndk decides which system libraries vendor binaries may link
// against and how each of them has to be shipped.
package vndk

import (
	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/errors"
	"github.com/gojue/vndkdef/internal/genericref"
	"github.com/gojue/vndkdef/internal/linker"
	"github.com/gojue/vndkdef/internal/ndk"
)

// Options are the inputs of Compute besides the graph.
type Options struct {
	// SPHALs is the sp-hal closure.
	SPHALs     *linker.LibSet
	VNDKStable *linker.LibSet

	// CustomizedForSystem and CustomizedForVendor decide where outward
	// customized libraries go.
	CustomizedForSystem *linker.LibSet
	CustomizedForVendor *linker.LibSet

	// Refs is the generic reference. Without one every candidate is
	// vndk-core.
	Refs   *genericref.Refs
	Banned *ndk.BannedLibDict

	VNDKVersion int
	Reporter    domain.Reporter
}

// Heuristics is the classification result.
type Heuristics struct {
	ExtraSystemLibs *linker.LibSet
	ExtraVendorLibs *linker.LibSet
	ExtraVNDKCore   *linker.LibSet
	VNDKCore        *linker.LibSet
	VNDKIndirect    *linker.LibSet
	VNDKFwkExt      *linker.LibSet
	VNDKVndExt      *linker.LibSet
}

type classifier struct {
	g    *linker.Linker
	opts Options

	visited    *linker.LibSet
	candidates *linker.LibSet
	// modified libraries never enter a vndk set
	modified *linker.LibSet
	h        *Heuristics
}

func (c *classifier) isNotVNDK(l *linker.Library) bool {
	if l.IsNDK || c.opts.SPHALs.Has(l) || c.opts.VNDKStable.Has(l) {
		return true
	}
	_, banned := c.opts.Banned.IsBanned(l.Path)
	return banned
}

func (c *classifier) queueDeps(lib *linker.Library) {
	for _, dep := range lib.Deps.Slice() {
		if c.isNotVNDK(dep) || !dep.IsSystemLib() {
			continue
		}
		if c.visited.Add(dep) {
			c.candidates.Add(dep)
		}
	}
}

// Compute runs the candidate fixed point and the closures over a resolved
// and normalized graph.
func Compute(g *linker.Linker, opts Options) *Heuristics {
	if opts.Reporter == nil {
		opts.Reporter = domain.NopReporter{}
	}
	if opts.VNDKVersion == 0 {
		opts.VNDKVersion = DefaultVNDKVersion
	}

	c := &classifier{
		g:          g,
		opts:       opts,
		candidates: linker.NewLibSet(),
		modified:   linker.NewLibSet(),
		h: &Heuristics{
			ExtraSystemLibs: linker.NewLibSet(),
			ExtraVendorLibs: linker.NewLibSet(),
			ExtraVNDKCore:   linker.NewLibSet(),
			VNDKCore:        linker.NewLibSet(),
			VNDKFwkExt:      linker.NewLibSet(),
			VNDKVndExt:      linker.NewLibSet(),
		},
	}

	for _, lib := range g.PartitionLibs(domain.PartitionSystem) {
		if c.isNotVNDK(lib) {
			continue
		}
		for _, u := range lib.Users.Slice() {
			if u.Partition == domain.PartitionVendor {
				c.candidates.Add(lib)
				break
			}
		}
	}
	c.visited = c.candidates.Clone()

	if opts.Refs == nil {
		c.h.VNDKCore = c.candidates
	} else {
		for c.candidates.Len() > 0 {
			prev := c.candidates
			c.candidates = linker.NewLibSet()
			c.round(prev)
		}
	}

	c.closures()
	return c.h
}

func (c *classifier) round(prev *linker.LibSet) {
	customized := linker.NewLibSet()
	extended := linker.NewLibSet()

	for _, lib := range prev.Slice() {
		switch category := c.opts.Refs.Classify(lib.Path, lib.ELF.Exported); category {
		case genericref.NewLib:
			c.h.ExtraSystemLibs.Add(lib)
			c.h.ExtraVendorLibs.Add(lib)
			c.queueDeps(lib)
		case genericref.ExportEqual:
			customized.Add(lib)
		case genericref.ExportSuperSet:
			extended.Add(lib)
		default:
			c.modified.Add(lib)
			c.opts.Reporter.Report(domain.Error(errors.ErrCodeVNDKModified, lib.Path,
				"vndk library must not be modified.").With("category", category.String()))
		}
	}

	for _, lib := range customized.Slice() {
		if lib.ExtendedSymbolUsers.Len() == 0 {
			c.h.VNDKCore.Add(lib)
			continue
		}
		if c.opts.CustomizedForSystem.Has(lib) {
			c.h.VNDKFwkExt.Add(lib)
		}
		if c.opts.CustomizedForVendor.Has(lib) {
			c.h.VNDKVndExt.Add(lib)
			c.queueDeps(lib)
		}

		// An outward customized library needs a vanilla vndk-core copy.
		p := lib.Path
		if IsVNDKExtPath(p) {
			p = ConvertPathToVNDKCore(c.opts.VNDKVersion, p)
		}
		if vanilla := c.g.MapPathToLib(p); vanilla == nil || vanilla == lib {
			c.h.ExtraVNDKCore.Add(lib)
		}
	}

	for _, lib := range c.g.UsersPostorder(extended.Slice()) {
		var systemUsers, vendorUsers bool
		for _, u := range lib.ExtendedSymbolUsers.Slice() {
			if u.IsSystemLib() {
				systemUsers = true
			} else {
				vendorUsers = true
			}
		}
		if systemUsers {
			c.h.VNDKFwkExt.Add(lib)
		}
		if vendorUsers {
			c.h.VNDKVndExt.Add(lib)
			c.queueDeps(lib)
		}
	}
}

func (c *classifier) closures() {
	h := c.h

	h.VNDKIndirect = linker.ComputeClosure(h.VNDKCore, func(l *linker.Library) bool {
		return c.isNotVNDK(l) || !l.IsSystemLib() || c.modified.Has(l)
	}).Difference(h.VNDKCore)

	core := h.VNDKCore.Union(h.VNDKIndirect)
	isNotExt := func(l *linker.Library) bool {
		return c.isNotVNDK(l) || core.Has(l) || c.modified.Has(l)
	}
	h.VNDKFwkExt = linker.ComputeClosure(h.VNDKFwkExt, isNotExt).Difference(core)
	h.VNDKVndExt = linker.ComputeClosure(h.VNDKVndExt, isNotExt).Difference(core)
}
