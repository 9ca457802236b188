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
	"path"
	"strings"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/elfimage"
	"github.com/gojue/vndkdef/internal/errors"
)

var (
	defaultSearchPath32 = []string{"/system/lib", "/vendor/lib"}
	defaultSearchPath64 = []string{"/system/lib64", "/vendor/lib64"}
)

// MissingDep records a DT_NEEDED entry no candidate path satisfied.
type MissingDep struct {
	Lib        *Library
	Name       string
	Candidates []string
}

func (m MissingDep) String() string {
	return fmt.Sprintf("%s: missing %s (tried %s)", m.Lib.Path, m.Name, strings.Join(m.Candidates, ", "))
}

type resolver struct {
	libs              map[string]*Library
	defaultSearchPath []string
}

func joinSearchPath(dir, name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return path.Join(dir, name)
}

func (r *resolver) candidates(name string, rpath, runpath []string) []string {
	out := make([]string, 0, len(rpath)+len(runpath)+len(r.defaultSearchPath))
	for _, dirs := range [][]string{rpath, runpath, r.defaultSearchPath} {
		for _, d := range dirs {
			out = append(out, joinSearchPath(d, name))
		}
	}
	return out
}

func (r *resolver) resolve(name string, rpath, runpath []string) (*Library, []string) {
	cands := r.candidates(name, rpath, runpath)
	for _, c := range cands {
		if lib, ok := r.libs[c]; ok {
			return lib, nil
		}
	}
	return nil, cands
}

// ResolveDeps links DT_NEEDED entries to nodes, binds imported symbols
// and applies recorded extra dependencies. It clears previous edges and
// bindings first, so it may be called again on an unchanged graph with
// identical results.
func (g *Linker) ResolveDeps() []MissingDep {
	for _, lib := range g.AllLibs() {
		lib.resetLinks()
	}

	var missing []MissingDep
	missing = append(missing, g.resolveUniverse(g.lib32, defaultSearchPath32)...)
	missing = append(missing, g.resolveUniverse(g.lib64, defaultSearchPath64)...)

	for _, e := range g.extraDeps {
		g.AddDep(e.src, e.dst)
	}
	g.resolved = true
	return missing
}

func (g *Linker) resolveUniverse(libs map[string]*Library, searchPath []string) []MissingDep {
	r := &resolver{libs: libs, defaultSearchPath: searchPath}
	var missing []MissingDep
	for _, lib := range sortedValues(libs) {
		imported, miss := g.resolveNeeded(lib, r)
		missing = append(missing, miss...)
		resolveImportedSymbols(lib, imported)
	}
	return missing
}

func (g *Linker) resolveNeeded(lib *Library, r *resolver) ([]*Library, []MissingDep) {
	var (
		imported []*Library
		missing  []MissingDep
	)
	for _, name := range lib.ELF.Needed {
		dep, cands := r.resolve(name, lib.ELF.RPath, lib.ELF.RunPath)
		if dep == nil {
			missing = append(missing, MissingDep{Lib: lib, Name: name, Candidates: cands})
			g.reporter.Report(domain.Warning(errors.ErrCodeMissingDep, lib.Path,
				"Missing needed library: "+name).With("candidates", cands))
			continue
		}
		lib.AddDep(dep)
		imported = append(imported, dep)
	}
	return imported, missing
}

func resolveImportedSymbols(lib *Library, imported []*Library) {
	for sym := range lib.ELF.Imported {
		if dep := findExportedSymbol(sym, imported); dep != nil {
			lib.LinkedSymbols[sym] = dep
		} else {
			lib.UnresolvedSymbols.Add(sym)
		}
	}
}

func findExportedSymbol(sym string, libs []*Library) *Library {
	for _, l := range libs {
		if l.ELF.Exported.Has(sym) {
			return l
		}
	}
	return nil
}

// ReportUnresolvedSymbols emits one warning per library with imported
// symbols no dependency exports, and returns the number of such libraries.
func (g *Linker) ReportUnresolvedSymbols() int {
	n := 0
	for _, lib := range g.AllLibs() {
		if lib.UnresolvedSymbols.Len() == 0 {
			continue
		}
		n++
		g.reporter.Report(domain.Warning(errors.ErrCodeUnresolvedSymbol, lib.Path,
			fmt.Sprintf("%d unresolved symbol(s)", lib.UnresolvedSymbols.Len())).
			With("symbols", lib.UnresolvedSymbols.Sorted()))
	}
	return n
}

// ResolveExtendedSymbolUsers computes ExtendedSymbolUsers for every
// library. Without a reference entry every user counts; otherwise only
// users bound to a symbol of this library the reference lacks.
func (g *Linker) ResolveExtendedSymbolUsers(refs RefLookup) {
	for _, lib := range g.AllLibs() {
		var (
			ref elfimage.SymbolSet
			ok  bool
		)
		if refs != nil {
			ref, ok = refs.Lookup(lib.Path)
		}
		if !ok {
			lib.ExtendedSymbolUsers = lib.Users.Clone()
			continue
		}
		lib.ExtendedSymbolUsers = NewLibSet()
		for _, user := range lib.Users.Slice() {
			for sym, imp := range user.LinkedSymbols {
				if imp == lib && !ref.Has(sym) {
					lib.ExtendedSymbolUsers.Add(user)
					break
				}
			}
		}
	}
}
