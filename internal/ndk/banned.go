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

package ndk

import (
	"path"
)

// BanAction decides how a dependency on a banned library is reported.
type BanAction uint8

const (
	// BanWarn reports vendor dependencies on the library as warnings.
	BanWarn BanAction = iota
	// BanExclude reports vendor dependencies on the library as errors.
	BanExclude
)

func (a BanAction) String() string {
	if a == BanExclude {
		return "exclude"
	}
	return "warn"
}

// BannedLib is a library vendor binaries must not depend on. Banned
// libraries never become VNDK candidates.
type BannedLib struct {
	Name   string
	Reason string
	Action BanAction
}

// BannedLibDict maps library basenames to ban entries.
type BannedLibDict struct {
	libs map[string]BannedLib
}

// NewBannedLibDict creates an empty dictionary.
func NewBannedLibDict() *BannedLibDict {
	return &BannedLibDict{libs: make(map[string]BannedLib)}
}

// DefaultBannedLibs returns the dictionary used when no ban list is given.
func DefaultBannedLibs() *BannedLibDict {
	d := NewBannedLibDict()
	d.Add("libbinder.so", "un-versioned IPC", BanWarn)
	d.Add("libselinux.so", "policydb might be incompatible", BanWarn)
	return d
}

// Add registers name; a second Add for the same name replaces the entry.
func (d *BannedLibDict) Add(name, reason string, action BanAction) {
	d.libs[name] = BannedLib{Name: name, Reason: reason, Action: action}
}

// Get looks up a basename.
func (d *BannedLibDict) Get(name string) (BannedLib, bool) {
	b, ok := d.libs[name]
	return b, ok
}

// IsBanned looks up the basename of a library path.
func (d *BannedLibDict) IsBanned(libPath string) (BannedLib, bool) {
	if d == nil {
		return BannedLib{}, false
	}
	return d.Get(path.Base(libPath))
}

// Len returns the number of banned libraries.
func (d *BannedLibDict) Len() int {
	return len(d.libs)
}
