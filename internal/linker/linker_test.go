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

package linker_test

import (
	"debug/elf"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/elfimage"
	"github.com/gojue/vndkdef/internal/errors"
	"github.com/gojue/vndkdef/internal/linker"
	"github.com/gojue/vndkdef/internal/linker/linkertest"
	"github.com/gojue/vndkdef/internal/ndk"
	"github.com/gojue/vndkdef/internal/report"
)

type refMap map[string]elfimage.SymbolSet

func (m refMap) Lookup(path string) (elfimage.SymbolSet, bool) {
	s, ok := m[path]
	return s, ok
}

func paths(libs []*linker.Library) []string {
	out := make([]string, 0, len(libs))
	for _, l := range libs {
		out = append(out, l.Path)
	}
	return out
}

func checkMirrored(t *testing.T, g *linker.Linker) {
	t.Helper()
	for _, a := range g.AllLibs() {
		for _, b := range a.Deps.Slice() {
			assert.True(t, b.Users.Has(a), "%s -> %s has no user edge", a.Path, b.Path)
		}
		for _, u := range a.Users.Slice() {
			assert.True(t, u.Deps.Has(a), "%s <- %s has no dep edge", a.Path, u.Path)
		}
	}
}

func TestMapPathToLib(t *testing.T) {
	g := linkertest.NormalGraph(ndk.NewDict(), nil).Graph

	lib := g.MapPathToLib("/system/lib/libc.so")
	require.NotNil(t, lib)
	assert.Equal(t, "/system/lib/libc.so", lib.Path)
	assert.True(t, lib.ELF.Is32Bit())

	lib = g.MapPathToLib("/vendor/lib64/libEGL.so")
	require.NotNil(t, lib)
	assert.True(t, lib.ELF.Is64Bit())
	assert.Equal(t, domain.PartitionVendor, lib.Partition)

	assert.Nil(t, g.MapPathToLib("/no/such/path.so"))
}

func TestMapPathsToLibs(t *testing.T) {
	g := linkertest.NormalGraph(ndk.NewDict(), nil).Graph

	var bad []string
	libs := g.MapPathsToLibs([]string{"/system/lib/libc.so", "/system/lib/libdl.so"},
		func(p string) { bad = append(bad, p) })
	assert.Empty(t, bad)
	assert.Equal(t, []string{"/system/lib/libc.so", "/system/lib/libdl.so"}, libs.Paths())

	libs = g.MapPathsToLibs([]string{"/no/such/path.so", "/system/lib64/libdl.so"},
		func(p string) { bad = append(bad, p) })
	assert.Equal(t, []string{"/no/such/path.so"}, bad)
	assert.Equal(t, []string{"/system/lib64/libdl.so"}, libs.Paths())
}

func TestUniversesAndPartitions(t *testing.T) {
	g := linkertest.NormalGraph(ndk.NewDict(), nil).Graph

	assert.Len(t, g.Libs32(), 6)
	assert.Len(t, g.Libs64(), 6)
	assert.Len(t, g.PartitionLibs(domain.PartitionSystem), 10)
	assert.Len(t, g.PartitionLibs(domain.PartitionVendor), 2)
	assert.Equal(t, 12, g.Len())

	for _, lib := range g.Libs32() {
		for _, dep := range lib.Deps.Slice() {
			assert.True(t, dep.ELF.Is32Bit(), "%s links across universes to %s", lib.Path, dep.Path)
		}
	}
}

func TestDeps(t *testing.T) {
	g := linkertest.NormalGraph(ndk.NewDict(), nil).Graph

	libc := g.MapPathToLib("/system/lib/libc.so")
	assert.Equal(t, []string{"/system/lib/libdl.so", "/system/lib/libm.so"}, libc.Deps.Paths())

	libRS := g.MapPathToLib("/system/lib64/libRS.so")
	assert.Equal(t, []string{"/system/lib64/libdl.so"}, libRS.Deps.Paths())

	libEGL := g.MapPathToLib("/vendor/lib64/libEGL.so")
	assert.Equal(t, []string{
		"/system/lib64/libc.so",
		"/system/lib64/libcutils.so",
		"/system/lib64/libdl.so",
	}, libEGL.Deps.Paths())

	checkMirrored(t, g)
}

func TestUsers(t *testing.T) {
	g := linkertest.NormalGraph(ndk.NewDict(), nil).Graph

	libc := g.MapPathToLib("/system/lib/libc.so")
	assert.Equal(t, []string{"/system/lib/libcutils.so", "/vendor/lib/libEGL.so"}, libc.Users.Paths())

	libdl := g.MapPathToLib("/system/lib/libdl.so")
	assert.Equal(t, []string{
		"/system/lib/libRS.so",
		"/system/lib/libc.so",
		"/system/lib/libcutils.so",
		"/vendor/lib/libEGL.so",
	}, libdl.Users.Paths())

	assert.Equal(t, 0, g.MapPathToLib("/system/lib64/libRS.so").Users.Len())
	assert.Equal(t, 0, g.MapPathToLib("/vendor/lib64/libEGL.so").Users.Len())
}

func TestLinkedSymbols(t *testing.T) {
	g := linkertest.NormalGraph(ndk.NewDict(), nil).Graph

	for _, lib := range g.AllLibs() {
		assert.Equal(t, 0, lib.UnresolvedSymbols.Len(), lib.Path)
		for sym := range lib.LinkedSymbols {
			assert.True(t, lib.ELF.Imported.Has(sym))
		}
	}

	for _, dir := range []string{"lib", "lib64"} {
		get := func(p string) *linker.Library {
			lib := g.MapPathToLib(strings.Replace(p, "LIB", dir, 1))
			require.NotNil(t, lib, p)
			return lib
		}
		libdl := get("/system/LIB/libdl.so")
		libm := get("/system/LIB/libm.so")
		libc := get("/system/LIB/libc.so")
		libRS := get("/system/LIB/libRS.so")
		libcutils := get("/system/LIB/libcutils.so")
		libEGL := get("/vendor/LIB/libEGL.so")

		assert.Same(t, libdl, libc.LinkedSymbols["dlclose"])
		assert.Same(t, libdl, libc.LinkedSymbols["dlopen"])
		assert.Same(t, libm, libc.LinkedSymbols["cos"])
		assert.Same(t, libm, libc.LinkedSymbols["sin"])

		assert.Same(t, libdl, libRS.LinkedSymbols["dlsym"])

		assert.Same(t, libdl, libcutils.LinkedSymbols["dlopen"])
		assert.Same(t, libc, libcutils.LinkedSymbols["fclose"])
		assert.Same(t, libc, libcutils.LinkedSymbols["fopen"])

		assert.Same(t, libc, libEGL.LinkedSymbols["fclose"])
		assert.Same(t, libc, libEGL.LinkedSymbols["fopen"])
	}
}

func TestUnresolvedSymbols(t *testing.T) {
	b := linkertest.NewGraphBuilder(nil, nil)
	b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "libfoo", nil,
		[]string{"foo", "bar"}, []string{"__does_not_exist"})
	b.Resolve()

	lib := b.Graph.MapPathToLib("/system/lib64/libfoo.so")
	assert.Equal(t, elfimage.NewSymbolSet("__does_not_exist"), lib.UnresolvedSymbols)
	assert.NotContains(t, lib.LinkedSymbols, "__does_not_exist")

	c := report.NewCollector()
	g := linker.New(nil, c)
	img := elfimage.New(elf.ELFCLASS64, elf.ELFDATA2LSB)
	img.Imported = elfimage.NewSymbolSet("__does_not_exist")
	g.Add(domain.PartitionSystem, "/system/lib64/libfoo.so", img)
	g.ResolveDeps()
	assert.Equal(t, 1, g.ReportUnresolvedSymbols())
	require.Len(t, c.ByCode(errors.ErrCodeUnresolvedSymbol), 1)
}

func TestFirstExporterWins(t *testing.T) {
	b := linkertest.NewGraphBuilder(nil, nil)
	b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "liba", nil, []string{"dup"}, nil)
	b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "libb", nil, []string{"dup"}, nil)
	user := b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "libuser",
		[]string{"libb.so", "liba.so"}, nil, []string{"dup"})
	b.Resolve()

	assert.Equal(t, "/system/lib64/libb.so", user.LinkedSymbols["dup"].Path)
}

func TestMissingDep(t *testing.T) {
	c := report.NewCollector()
	b := linkertest.NewGraphBuilder(nil, c)
	img := elfimage.New(elf.ELFCLASS32, elf.ELFDATA2LSB)
	img.Needed = []string{"libmissing.so", "libc.so"}
	img.RPath = []string{"/system/lib/rp"}
	img.RunPath = []string{"/odm/lib"}
	b.Graph.Add(domain.PartitionVendor, "/vendor/lib/libfoo.so", img)
	b.AddLib(domain.PartitionSystem, elf.ELFCLASS32, "libc", nil, nil, nil)

	missing := b.Resolve()
	require.Len(t, missing, 1)
	assert.Equal(t, "libmissing.so", missing[0].Name)
	want := []string{
		"/system/lib/rp/libmissing.so",
		"/odm/lib/libmissing.so",
		"/system/lib/libmissing.so",
		"/vendor/lib/libmissing.so",
	}
	if diff := cmp.Diff(want, missing[0].Candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}

	diags := c.ByCode(errors.ErrCodeMissingDep)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "/vendor/lib/libfoo.so", diags[0].Path)
	assert.Equal(t, want, diags[0].Fields["candidates"])

	libfoo := b.Graph.MapPathToLib("/vendor/lib/libfoo.so")
	assert.Equal(t, []string{"/system/lib/libc.so"}, libfoo.Deps.Paths())
}

func TestRPathBeforeDefault(t *testing.T) {
	b := linkertest.NewGraphBuilder(nil, nil)
	b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "libz", nil, nil, nil)
	b.Graph.Add(domain.PartitionSystem, "/system/lib64/extra/libz.so", elfimage.New(elf.ELFCLASS64, elf.ELFDATA2LSB))
	img := elfimage.New(elf.ELFCLASS64, elf.ELFDATA2LSB)
	img.Needed = []string{"libz.so"}
	img.RunPath = []string{"/system/lib64/extra"}
	user := b.Graph.Add(domain.PartitionSystem, "/system/bin/tool", img)
	b.Resolve()

	assert.Equal(t, []string{"/system/lib64/extra/libz.so"}, user.Deps.Paths())
}

func TestResolveDepsIsRepeatable(t *testing.T) {
	g := linkertest.NormalGraph(ndk.NewDict(), nil).Graph

	snapshot := func() map[string][]string {
		out := make(map[string][]string)
		for _, lib := range g.AllLibs() {
			key := lib.Path + "@" + lib.ELF.ClassName()
			out[key+" deps"] = lib.Deps.Paths()
			out[key+" users"] = lib.Users.Paths()
			out[key+" unresolved"] = lib.UnresolvedSymbols.Sorted()
			for sym, dep := range lib.LinkedSymbols {
				out[key+" "+sym] = []string{dep.Path}
			}
		}
		return out
	}

	before := snapshot()
	g.ResolveDeps()
	if diff := cmp.Diff(before, snapshot()); diff != "" {
		t.Errorf("re-resolution changed the graph (-before +after):\n%s", diff)
	}
	checkMirrored(t, g)
}

func TestAddReplacesPath(t *testing.T) {
	b := linkertest.NewGraphBuilder(nil, nil)
	first := b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "libfoo", nil, []string{"a"}, nil)
	second := b.Graph.Add(domain.PartitionVendor, first.Path, elfimage.New(elf.ELFCLASS64, elf.ELFDATA2LSB))

	assert.Same(t, second, b.Graph.MapPathToLib(first.Path))
	assert.Empty(t, b.Graph.PartitionLibs(domain.PartitionSystem))
	assert.Len(t, b.Graph.PartitionLibs(domain.PartitionVendor), 1)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAddPanics(t *testing.T) {
	g := linker.New(nil, nil)
	assert.Panics(t, func() { g.Add(domain.PartitionSystem, "/system/lib/x.so", nil) })

	g.ResolveDeps()
	assert.Panics(t, func() {
		g.Add(domain.PartitionSystem, "/system/lib/x.so", elfimage.New(elf.ELFCLASS32, elf.ELFDATA2LSB))
	})
}

func TestNDKTagging(t *testing.T) {
	g := linkertest.NormalGraph(ndk.NewDict(), nil).Graph
	assert.True(t, g.MapPathToLib("/system/lib/libc.so").IsNDK)
	assert.True(t, g.MapPathToLib("/system/lib64/libdl.so").IsNDK)
	assert.False(t, g.MapPathToLib("/system/lib/libcutils.so").IsNDK)
}

func TestAddRemoveDepMirrors(t *testing.T) {
	g := linkertest.NormalGraph(nil, nil).Graph
	libc := g.MapPathToLib("/system/lib64/libc.so")
	libRS := g.MapPathToLib("/system/lib64/libRS.so")

	libRS.AddDep(libc)
	assert.True(t, libc.Users.Has(libRS))
	libRS.AddDep(libc)
	assert.Equal(t, 2, libRS.Deps.Len())

	libRS.RemoveDep(libc)
	assert.False(t, libRS.Deps.Has(libc))
	assert.False(t, libc.Users.Has(libRS))
	checkMirrored(t, g)
}

func TestExtraDeps(t *testing.T) {
	b := linkertest.NewGraphBuilder(nil, nil)
	b.AddMultilib(domain.PartitionSystem, "liba", nil, nil, nil)
	b.AddMultilib(domain.PartitionSystem, "libb", nil, nil, nil)
	b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "libonly64", nil, nil, nil)

	in := "/system/lib/liba.so: /system/lib/libb.so\n" +
		"/system/lib64/liba.so:/system/lib64/libb.so\n" +
		"no colon here\n" +
		"\n" +
		"/system/lib64/libonly64.so: /system/lib/libb.so\n"
	require.NoError(t, b.Graph.LoadExtraDeps(strings.NewReader(in)))
	assert.Equal(t, 3, b.Graph.ExtraDeps())

	b.Resolve()
	g := b.Graph
	assert.Equal(t, []string{"/system/lib/libb.so"}, g.MapPathToLib("/system/lib/liba.so").Deps.Paths())
	assert.Equal(t, []string{"/system/lib64/libb.so"}, g.MapPathToLib("/system/lib64/liba.so").Deps.Paths())
	assert.Equal(t, 0, g.MapPathToLib("/system/lib64/libonly64.so").Deps.Len())

	g.ResolveDeps()
	assert.Equal(t, []string{"/system/lib/libb.so"}, g.MapPathToLib("/system/lib/liba.so").Deps.Paths())
	checkMirrored(t, g)
}

func TestComputeClosure(t *testing.T) {
	g := linkertest.NormalGraph(ndk.NewDict(), nil).Graph
	libEGL := g.MapPathToLib("/vendor/lib64/libEGL.so")

	all := g.ComputeClosure(linker.NewLibSet(libEGL), nil)
	assert.Equal(t, []string{
		"/system/lib64/libc.so",
		"/system/lib64/libcutils.so",
		"/system/lib64/libdl.so",
		"/system/lib64/libm.so",
		"/vendor/lib64/libEGL.so",
	}, all.Paths())

	notNDK := func(l *linker.Library) bool { return l.IsNDK }
	first := g.ComputeClosure(linker.NewLibSet(libEGL), notNDK)
	assert.Equal(t, []string{"/system/lib64/libcutils.so", "/vendor/lib64/libEGL.so"}, first.Paths())

	second := g.ComputeClosure(linker.NewLibSet(libEGL), notNDK)
	assert.Equal(t, first.Paths(), second.Paths())

	for _, lib := range first.Slice() {
		for _, dep := range lib.Deps.Slice() {
			if !dep.IsNDK {
				assert.True(t, first.Has(dep), "closure misses %s", dep.Path)
			}
		}
	}

	roots := linker.NewLibSet(g.MapPathToLib("/system/lib64/libc.so"))
	assert.Equal(t, []string{"/system/lib64/libc.so"}, g.ComputeClosure(roots, notNDK).Paths())
}

func TestComputeMatchedLibs(t *testing.T) {
	g := linkertest.NormalGraph(ndk.NewDict(), nil).Graph

	libs, err := g.ComputeMatchedLibs([]string{`^/vendor/.*/libEGL\.so$`}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/vendor/lib/libEGL.so", "/vendor/lib64/libEGL.so"}, libs.Paths())

	libs, err = g.ComputeMatchedLibs([]string{`/lib64/libEGL\.so`}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, libs.Len(), "patterns are anchored at the start")

	libs, err = g.ComputeMatchedLibs([]string{`^/vendor/lib/libEGL\.so$`}, true,
		func(l *linker.Library) bool { return l.IsNDK })
	require.NoError(t, err)
	assert.Equal(t, []string{"/system/lib/libcutils.so", "/vendor/lib/libEGL.so"}, libs.Paths())

	_, err = g.ComputeMatchedLibs([]string{`(`}, false, nil)
	assert.Error(t, err)
}

func TestPostorder(t *testing.T) {
	g := linkertest.NormalGraph(nil, nil).Graph
	libs := g.Libs64()

	index := func(order []*linker.Library) map[*linker.Library]int {
		m := make(map[*linker.Library]int)
		for i, l := range order {
			m[l] = i
		}
		return m
	}

	deps := g.DepsPostorder(libs)
	require.Len(t, deps, len(libs))
	pos := index(deps)
	for _, l := range libs {
		for _, d := range l.Deps.Slice() {
			assert.Less(t, pos[d], pos[l], "%s must precede %s", d.Path, l.Path)
		}
	}

	users := g.UsersPostorder(libs)
	require.Len(t, users, len(libs))
	pos = index(users)
	for _, l := range libs {
		for _, u := range l.Users.Slice() {
			assert.Less(t, pos[u], pos[l], "%s must precede %s", u.Path, l.Path)
		}
	}

	assert.Equal(t, []string{"/system/lib64/libdl.so", "/system/lib64/libm.so", "/system/lib64/libc.so"},
		paths(g.DepsPostorder([]*linker.Library{
			g.MapPathToLib("/system/lib64/libc.so"),
			g.MapPathToLib("/system/lib64/libdl.so"),
			g.MapPathToLib("/system/lib64/libm.so"),
		})))
}

func TestPostorderCycle(t *testing.T) {
	b := linkertest.NewGraphBuilder(nil, nil)
	a := b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "liba", []string{"libb.so"}, nil, nil)
	b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "libb", []string{"liba.so"}, nil, nil)
	b.Resolve()

	order := b.Graph.DepsPostorder([]*linker.Library{a, a.Deps.Slice()[0]})
	assert.Equal(t, []string{"/system/lib64/libb.so", "/system/lib64/liba.so"}, paths(order))
}

func TestResolveExtendedSymbolUsers(t *testing.T) {
	g := linkertest.NormalGraph(nil, nil).Graph
	libc := g.MapPathToLib("/system/lib64/libc.so")
	libdl := g.MapPathToLib("/system/lib64/libdl.so")

	refs := refMap{
		libc.Path:  elfimage.NewSymbolSet("fclose", "fread"),
		libdl.Path: elfimage.NewSymbolSet("dlclose", "dlopen", "dlsym"),
	}
	g.ResolveExtendedSymbolUsers(refs)

	assert.Equal(t, []string{"/system/lib64/libcutils.so", "/vendor/lib64/libEGL.so"},
		libc.ExtendedSymbolUsers.Paths(), "fopen is missing from the reference")
	assert.Equal(t, 0, libdl.ExtendedSymbolUsers.Len())

	libm := g.MapPathToLib("/system/lib64/libm.so")
	assert.Equal(t, libm.Users.Paths(), libm.ExtendedSymbolUsers.Paths())

	g.ResolveExtendedSymbolUsers(nil)
	assert.Equal(t, libdl.Users.Paths(), libdl.ExtendedSymbolUsers.Paths())
}

func crossPartitionGraph(c domain.Reporter) *linkertest.GraphBuilder {
	b := linkertest.NewGraphBuilder(nil, c)
	b.AddLib(domain.PartitionVendor, elf.ELFCLASS64, "libvnd", nil, []string{"v"}, nil)
	b.AddLib(domain.PartitionVendor, elf.ELFCLASS64, "libEGL_adreno", nil, []string{"egl"}, nil)
	b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "libsys", []string{"libvnd.so", "libEGL_adreno.so"}, nil, []string{"v", "egl"})
	b.AddLib(domain.PartitionSystem, elf.ELFCLASS64, "libtop", []string{"libsys.so"}, nil, nil)
	b.Resolve()
	return b
}

func TestNormalizePartitionTagsRemovesEdges(t *testing.T) {
	c := report.NewCollector()
	g := crossPartitionGraph(c).Graph
	libsys := g.MapPathToLib("/system/lib64/libsys.so")
	spHal := g.MapPathToLib("/vendor/lib64/libEGL_adreno.so")

	g.NormalizePartitionTags(linker.NewLibSet(spHal), nil)

	assert.Equal(t, domain.PartitionSystem, libsys.Partition)
	assert.Equal(t, []string{"/vendor/lib64/libEGL_adreno.so"}, libsys.Deps.Paths())
	assert.Equal(t, 0, g.MapPathToLib("/vendor/lib64/libvnd.so").Users.Len())

	diags := c.ByCode(errors.ErrCodeCrossPartitionDep)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityError, diags[0].Severity)
	assert.Equal(t, libsys.Path, diags[0].Path)
	checkMirrored(t, g)
}

func TestNormalizePartitionTagsReassigns(t *testing.T) {
	c := report.NewCollector()
	g := crossPartitionGraph(c).Graph
	libsys := g.MapPathToLib("/system/lib64/libsys.so")
	libtop := g.MapPathToLib("/system/lib64/libtop.so")

	g.NormalizePartitionTags(linker.NewLibSet(), refMap{})

	assert.Equal(t, domain.PartitionVendor, libsys.Partition)
	assert.Equal(t, 2, libsys.Deps.Len(), "edges of a retagged library are kept")
	assert.Equal(t, domain.PartitionVendor, libtop.Partition, "libtop now depends on a vendor library")
	assert.Empty(t, g.PartitionLibs(domain.PartitionSystem))
	assert.Len(t, g.PartitionLibs(domain.PartitionVendor), 4)
	assert.Len(t, c.ByCode(errors.ErrCodePartitionReassigned), 3)
	assert.Empty(t, c.ByCode(errors.ErrCodeCrossPartitionDep))
}

func TestNormalizePartitionTagsTrackedLibrary(t *testing.T) {
	c := report.NewCollector()
	g := crossPartitionGraph(c).Graph
	libsys := g.MapPathToLib("/system/lib64/libsys.so")

	g.NormalizePartitionTags(nil, refMap{libsys.Path: elfimage.NewSymbolSet()})

	assert.Equal(t, domain.PartitionSystem, libsys.Partition)
	assert.Equal(t, 0, libsys.Deps.Len())
	assert.Len(t, c.ByCode(errors.ErrCodeCrossPartitionDep), 2)
}

func TestLibSet(t *testing.T) {
	g := linkertest.NormalGraph(nil, nil).Graph
	libs := g.Libs64()
	a, b, c := libs[0], libs[1], libs[2]

	s := linker.NewLibSet(c, a)
	assert.True(t, s.Add(b))
	assert.False(t, s.Add(a))
	assert.Equal(t, []*linker.Library{c, a, b}, s.Slice())

	assert.True(t, s.Remove(a))
	assert.False(t, s.Remove(a))
	assert.Equal(t, []*linker.Library{c, b}, s.Slice())
	assert.True(t, s.Has(b))

	o := linker.NewLibSet(b, a)
	assert.Equal(t, []*linker.Library{c, b, a}, s.Union(o).Slice())
	assert.Equal(t, []*linker.Library{c}, s.Difference(o).Slice())
	assert.True(t, s.Intersects(o))

	clone := s.Clone()
	clone.Add(a)
	assert.False(t, s.Has(a))

	var nilSet *linker.LibSet
	assert.False(t, nilSet.Has(a))
	assert.Equal(t, 0, nilSet.Len())
}
