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

// Package genericref holds the generic reference: the exported symbols each
// library had in a known-good build, used to tell new, unchanged, extended
// and modified libraries apart.
package genericref

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/gojue/vndkdef/internal/elfimage"
)

// Category is the result of comparing a library with its reference.
type Category uint8

const (
	// NewLib has no reference entry.
	NewLib Category = iota
	// ExportEqual exports exactly the reference symbols.
	ExportEqual
	// ExportSuperSet exports every reference symbol and more.
	ExportSuperSet
	// Modified lost at least one reference symbol.
	Modified
)

func (c Category) String() string {
	switch c {
	case NewLib:
		return "new-lib"
	case ExportEqual:
		return "export-equal"
	case ExportSuperSet:
		return "export-super-set"
	case Modified:
		return "modified"
	}
	return "unknown"
}

// Refs maps library paths to reference symbol sets. It is read-only once
// loaded.
type Refs struct {
	refs map[string]elfimage.SymbolSet
}

// New creates an empty reference.
func New() *Refs {
	return &Refs{refs: make(map[string]elfimage.SymbolSet)}
}

// Add sets the reference symbols of path.
func (r *Refs) Add(path string, symbols elfimage.SymbolSet) {
	r.refs[path] = symbols
}

// Lookup returns the reference symbols of path. A nil *Refs holds nothing.
func (r *Refs) Lookup(path string) (elfimage.SymbolSet, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.refs[path]
	return s, ok
}

// Len returns the number of libraries with a reference.
func (r *Refs) Len() int {
	if r == nil {
		return 0
	}
	return len(r.refs)
}

// Paths returns the sorted library paths with a reference.
func (r *Refs) Paths() []string {
	if r == nil {
		return nil
	}
	out := maps.Keys(r.refs)
	sort.Strings(out)
	return out
}

// Classify compares the exported symbols of the library at path with its
// reference.
func (r *Refs) Classify(path string, exported elfimage.SymbolSet) Category {
	ref, ok := r.Lookup(path)
	if !ok {
		return NewLib
	}
	switch {
	case exported.Equal(ref):
		return ExportEqual
	case exported.IsStrictSupersetOf(ref):
		return ExportSuperSet
	default:
		return Modified
	}
}

// IsEquivalent reports whether the library exports exactly its reference.
func (r *Refs) IsEquivalent(path string, exported elfimage.SymbolSet) bool {
	return r.Classify(path, exported) == ExportEqual
}
