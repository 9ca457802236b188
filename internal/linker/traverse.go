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
	"regexp"
	"strings"
)

// ComputeClosure returns roots plus every library reachable from them over
// deps edges. Excluded libraries are neither added nor traversed; roots
// are always kept.
func ComputeClosure(roots *LibSet, isExcluded func(*Library) bool) *LibSet {
	closure := roots.Clone()
	stack := roots.Slice()
	for len(stack) > 0 {
		lib := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range lib.Deps.Slice() {
			if isExcluded != nil && isExcluded(dep) {
				continue
			}
			if closure.Add(dep) {
				stack = append(stack, dep)
			}
		}
	}
	return closure
}

// ComputeClosure is ComputeClosure bound to the graph, for callers holding
// a *Linker.
func (g *Linker) ComputeClosure(roots *LibSet, isExcluded func(*Library) bool) *LibSet {
	return ComputeClosure(roots, isExcluded)
}

// CompilePathPatterns joins anchored path patterns into one matcher.
func CompilePathPatterns(patterns []string) (*regexp.Regexp, error) {
	groups := make([]string, len(patterns))
	for i, p := range patterns {
		groups[i] = "(?:" + p + ")"
	}
	return regexp.Compile("^(?:" + strings.Join(groups, "|") + ")")
}

// ComputeMatchedLibs returns the libraries whose path matches one of
// patterns, optionally extended with their closure.
func (g *Linker) ComputeMatchedLibs(patterns []string, closure bool, isExcluded func(*Library) bool) (*LibSet, error) {
	patt, err := CompilePathPatterns(patterns)
	if err != nil {
		return nil, err
	}
	return g.MatchLibs(patt, closure, isExcluded), nil
}

// MatchLibs is ComputeMatchedLibs over a compiled matcher.
func (g *Linker) MatchLibs(patt *regexp.Regexp, closure bool, isExcluded func(*Library) bool) *LibSet {
	libs := NewLibSet()
	for _, lib := range g.AllLibs() {
		if patt.MatchString(lib.Path) {
			libs.Add(lib)
		}
	}
	if closure {
		libs = ComputeClosure(libs, isExcluded)
	}
	return libs
}

// DepsPostorder orders libs so that every dep also in libs comes before
// its user.
func (g *Linker) DepsPostorder(libs []*Library) []*Library {
	return postorder(libs, func(l *Library) *LibSet { return l.Deps })
}

// UsersPostorder orders libs so that every user also in libs comes before
// the library it uses.
func (g *Linker) UsersPostorder(libs []*Library) []*Library {
	return postorder(libs, func(l *Library) *LibSet { return l.Users })
}

func postorder(libs []*Library, assoc func(*Library) *LibSet) []*Library {
	in := NewLibSet(libs...)
	visited := NewLibSet()
	out := make([]*Library, 0, len(libs))

	var visit func(lib *Library)
	visit = func(lib *Library) {
		for _, a := range assoc(lib).Slice() {
			if in.Has(a) && visited.Add(a) {
				visit(a)
			}
		}
		out = append(out, lib)
	}
	for _, lib := range libs {
		if visited.Add(lib) {
			visit(lib)
		}
	}
	return out
}
