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

// Package linker owns the library dependency graph: nodes indexed by word
// size and partition, DT_NEEDED and symbol resolution, closures, postorder
// traversals and partition normalization.
package linker

import (
	"bufio"
	"debug/elf"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/elfimage"
	"github.com/gojue/vndkdef/internal/errors"
	"github.com/gojue/vndkdef/internal/ndk"
)

// RefLookup returns the reference exported symbols of a library path.
type RefLookup interface {
	Lookup(path string) (elfimage.SymbolSet, bool)
}

type extraDep struct {
	src, dst string
}

// libKey identifies a node inside a partition index. The same path may
// exist once per word size.
type libKey struct {
	path  string
	class elf.Class
}

func keyOf(lib *Library) libKey {
	return libKey{path: lib.Path, class: lib.ELF.Class}
}

// Linker is the dependency graph. The 32-bit and 64-bit universes are
// never linked to each other. A Linker is not safe for concurrent use.
type Linker struct {
	lib32      map[string]*Library
	lib64      map[string]*Library
	partitions [domain.NumPartitions]map[libKey]*Library

	ndk      *ndk.Dict
	reporter domain.Reporter

	extraDeps []extraDep
	nextID    int
	resolved  bool
}

// New creates an empty graph. dict may be nil when NDK tagging is not
// wanted; reporter may be nil to drop diagnostics.
func New(dict *ndk.Dict, reporter domain.Reporter) *Linker {
	if reporter == nil {
		reporter = domain.NopReporter{}
	}
	g := &Linker{
		lib32:    make(map[string]*Library),
		lib64:    make(map[string]*Library),
		ndk:      dict,
		reporter: reporter,
	}
	for i := range g.partitions {
		g.partitions[i] = make(map[libKey]*Library)
	}
	return g
}

// Add creates a node for path and indexes it by word size and partition.
// Adding a path again replaces the previous node. Adding after ResolveDeps
// or with a nil image is a programming error.
func (g *Linker) Add(partition domain.Partition, path string, img *elfimage.Image) *Library {
	if img == nil {
		panic("linker: Add called with nil image for " + path)
	}
	if g.resolved {
		panic("linker: Add called after ResolveDeps for " + path)
	}
	if int(partition) >= domain.NumPartitions {
		panic(fmt.Sprintf("linker: invalid partition %d for %s", partition, path))
	}

	isNDK := g.ndk != nil && g.ndk.IsNDK(path)
	lib := newLibrary(g.nextID, partition, path, img, isNDK)
	g.nextID++

	universe := g.lib64
	if img.Is32Bit() {
		universe = g.lib32
	}
	if old, ok := universe[path]; ok {
		delete(g.partitions[old.Partition], keyOf(old))
	}
	universe[path] = lib
	g.partitions[partition][keyOf(lib)] = lib
	return lib
}

// AddDep links src to dst in every universe holding both paths. The edge
// is applied immediately and is not replayed by ResolveDeps.
func (g *Linker) AddDep(srcPath, dstPath string) {
	for _, universe := range []map[string]*Library{g.lib32, g.lib64} {
		src, ok1 := universe[srcPath]
		dst, ok2 := universe[dstPath]
		if ok1 && ok2 {
			src.AddDep(dst)
		}
	}
}

// AddExtraDep records an extra dependency edge. Extra edges are applied
// after DT_NEEDED resolution, on every ResolveDeps.
func (g *Linker) AddExtraDep(srcPath, dstPath string) {
	g.extraDeps = append(g.extraDeps, extraDep{src: srcPath, dst: dstPath})
	if g.resolved {
		g.AddDep(srcPath, dstPath)
	}
}

var extraDepPattern = regexp.MustCompile(`^([^:]*):\s*(.*)`)

// LoadExtraDeps reads "src: dst" lines. Lines without a colon are ignored.
func (g *Linker) LoadExtraDeps(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := extraDepPattern.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		g.AddExtraDep(strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeResourceRead, "failed to read extra deps", err)
	}
	return nil
}

// ExtraDeps returns the number of recorded extra edges.
func (g *Linker) ExtraDeps() int {
	return len(g.extraDeps)
}

// MapPathToLib looks path up in the 32-bit universe, then the 64-bit one.
func (g *Linker) MapPathToLib(path string) *Library {
	if lib, ok := g.lib32[path]; ok {
		return lib
	}
	if lib, ok := g.lib64[path]; ok {
		return lib
	}
	return nil
}

// MapPathsToLibs maps every path and calls onMissing for the misses.
func (g *Linker) MapPathsToLibs(paths []string, onMissing func(path string)) *LibSet {
	out := NewLibSet()
	for _, p := range paths {
		lib := g.MapPathToLib(p)
		if lib == nil {
			if onMissing != nil {
				onMissing(p)
			}
			continue
		}
		out.Add(lib)
	}
	return out
}

// Libs32 returns the 32-bit libraries sorted by path.
func (g *Linker) Libs32() []*Library {
	return sortedValues(g.lib32)
}

// Libs64 returns the 64-bit libraries sorted by path.
func (g *Linker) Libs64() []*Library {
	return sortedValues(g.lib64)
}

// PartitionLibs returns the libraries currently tagged p, sorted by path
// then word size.
func (g *Linker) PartitionLibs(p domain.Partition) []*Library {
	return sortedValues(g.partitions[p])
}

// AllLibs returns every library of both universes sorted by path then
// word size.
func (g *Linker) AllLibs() []*Library {
	out := append(maps.Values(g.lib32), maps.Values(g.lib64)...)
	sortLibs(out)
	return out
}

// Len returns the number of nodes across both universes.
func (g *Linker) Len() int {
	return len(g.lib32) + len(g.lib64)
}

func (g *Linker) setPartition(lib *Library, p domain.Partition) {
	if lib.Partition == p {
		return
	}
	k := keyOf(lib)
	if g.partitions[lib.Partition][k] == lib {
		delete(g.partitions[lib.Partition], k)
	}
	lib.Partition = p
	g.partitions[p][k] = lib
}

func sortedValues[K comparable](m map[K]*Library) []*Library {
	out := maps.Values(m)
	sortLibs(out)
	return out
}
