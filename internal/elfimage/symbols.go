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

package elfimage

import (
	"sort"

	"golang.org/x/exp/maps"
)

// SymbolSet is a set of dynamic symbol names.
type SymbolSet map[string]struct{}

// NewSymbolSet builds a set from names.
func NewSymbolSet(names ...string) SymbolSet {
	s := make(SymbolSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts name.
func (s SymbolSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s SymbolSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names.
func (s SymbolSet) Len() int {
	return len(s)
}

// Sorted returns the names in lexical order.
func (s SymbolSet) Sorted() []string {
	names := maps.Keys(s)
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (s SymbolSet) Clone() SymbolSet {
	return maps.Clone(s)
}

// Equal reports set equality.
func (s SymbolSet) Equal(o SymbolSet) bool {
	if len(s) != len(o) {
		return false
	}
	for n := range s {
		if !o.Has(n) {
			return false
		}
	}
	return true
}

// IsStrictSupersetOf reports whether s contains every name of o plus at
// least one more.
func (s SymbolSet) IsStrictSupersetOf(o SymbolSet) bool {
	if len(s) <= len(o) {
		return false
	}
	for n := range o {
		if !s.Has(n) {
			return false
		}
	}
	return true
}
