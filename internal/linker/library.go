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
	"sort"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/elfimage"
)

// Library is one node of the dependency graph. Its identity is the
// (partition, path, word size) it was added with; ID is the handle the
// owning Linker assigned to it.
type Library struct {
	ID        int
	Partition domain.Partition
	Path      string
	ELF       *elfimage.Image
	IsNDK     bool

	// Deps and Users mirror each other. Mutate them only through AddDep
	// and RemoveDep.
	Deps  *LibSet
	Users *LibSet

	// LinkedSymbols maps each resolved imported symbol to the dependency
	// exporting it.
	LinkedSymbols     map[string]*Library
	UnresolvedSymbols elfimage.SymbolSet

	// ExtendedSymbolUsers are the users consuming symbols missing from
	// the generic reference of this library.
	ExtendedSymbolUsers *LibSet
}

func newLibrary(id int, partition domain.Partition, path string, img *elfimage.Image, isNDK bool) *Library {
	lib := &Library{
		ID:        id,
		Partition: partition,
		Path:      path,
		ELF:       img,
		IsNDK:     isNDK,
	}
	lib.resetLinks()
	return lib
}

func (l *Library) resetLinks() {
	l.Deps = NewLibSet()
	l.Users = NewLibSet()
	l.LinkedSymbols = make(map[string]*Library)
	l.UnresolvedSymbols = elfimage.SymbolSet{}
	l.ExtendedSymbolUsers = NewLibSet()
}

// AddDep adds the edge l -> dst and the reverse user edge.
func (l *Library) AddDep(dst *Library) {
	l.Deps.Add(dst)
	dst.Users.Add(l)
}

// RemoveDep removes the edge l -> dst and the reverse user edge.
func (l *Library) RemoveDep(dst *Library) {
	l.Deps.Remove(dst)
	dst.Users.Remove(l)
}

// IsSystemLib reports whether the library is currently tagged system.
func (l *Library) IsSystemLib() bool {
	return l.Partition == domain.PartitionSystem
}

func (l *Library) String() string {
	return l.Path
}

// LibSet is an insertion ordered set of libraries keyed by ID.
// The zero value is not usable; a nil *LibSet answers queries as empty.
type LibSet struct {
	libs  []*Library
	index map[int]int
}

// NewLibSet builds a set holding libs in order.
func NewLibSet(libs ...*Library) *LibSet {
	s := &LibSet{index: make(map[int]int, len(libs))}
	for _, l := range libs {
		s.Add(l)
	}
	return s
}

// Add inserts lib and reports whether it was new.
func (s *LibSet) Add(lib *Library) bool {
	if _, ok := s.index[lib.ID]; ok {
		return false
	}
	s.index[lib.ID] = len(s.libs)
	s.libs = append(s.libs, lib)
	return true
}

// AddAll inserts every library of o.
func (s *LibSet) AddAll(o *LibSet) {
	for _, l := range o.Slice() {
		s.Add(l)
	}
}

// Remove deletes lib and reports whether it was present.
func (s *LibSet) Remove(lib *Library) bool {
	i, ok := s.index[lib.ID]
	if !ok {
		return false
	}
	delete(s.index, lib.ID)
	s.libs = append(s.libs[:i], s.libs[i+1:]...)
	for j := i; j < len(s.libs); j++ {
		s.index[s.libs[j].ID] = j
	}
	return true
}

// Has reports membership.
func (s *LibSet) Has(lib *Library) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[lib.ID]
	return ok
}

// Len returns the number of libraries.
func (s *LibSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.libs)
}

// Slice returns the libraries in insertion order. The caller owns the
// returned slice.
func (s *LibSet) Slice() []*Library {
	if s == nil {
		return nil
	}
	out := make([]*Library, len(s.libs))
	copy(out, s.libs)
	return out
}

// Sorted returns the libraries ordered by path, 32-bit before 64-bit.
func (s *LibSet) Sorted() []*Library {
	out := s.Slice()
	sortLibs(out)
	return out
}

// Paths returns the sorted library paths. A path present in both word
// sizes appears twice.
func (s *LibSet) Paths() []string {
	out := make([]string, 0, s.Len())
	for _, l := range s.Slice() {
		out = append(out, l.Path)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s *LibSet) Clone() *LibSet {
	return NewLibSet(s.Slice()...)
}

// Union returns a new set with the libraries of s followed by those of o.
func (s *LibSet) Union(o *LibSet) *LibSet {
	out := s.Clone()
	out.AddAll(o)
	return out
}

// Difference returns a new set with the libraries of s not in o.
func (s *LibSet) Difference(o *LibSet) *LibSet {
	out := NewLibSet()
	for _, l := range s.Slice() {
		if !o.Has(l) {
			out.Add(l)
		}
	}
	return out
}

// Intersects reports whether s and o share a library.
func (s *LibSet) Intersects(o *LibSet) bool {
	for _, l := range s.Slice() {
		if o.Has(l) {
			return true
		}
	}
	return false
}

func sortLibs(libs []*Library) {
	sort.SliceStable(libs, func(i, j int) bool {
		if libs[i].Path != libs[j].Path {
			return libs[i].Path < libs[j].Path
		}
		return libs[i].ELF.Class < libs[j].ELF.Class
	})
}
