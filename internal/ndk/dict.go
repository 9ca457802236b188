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

// Package ndk classifies library paths against the NDK library lists and
// holds the table of libraries vendor code must not link against.
package ndk

import (
	"regexp"
	"strings"
)

var (
	// LowLevelNDKLibNames are the LL-NDK libraries.
	LowLevelNDKLibNames = []string{
		"libc.so",
		"libdl.so",
		"liblog.so",
		"libm.so",
		"libstdc++.so",
		"libz.so",
	}

	// SameProcessNDKLibNames are the SP-NDK libraries.
	SameProcessNDKLibNames = []string{
		"libEGL.so",
		"libGLESv1_CM.so",
		"libGLESv2.so",
		"libGLESv3.so",
	}

	// HighLevelNDKLibNames are the HL-NDK libraries.
	HighLevelNDKLibNames = []string{
		"libOpenMAXAL.so",
		"libOpenSLES.so",
		"libandroid.so",
		"libcamera2ndk.so",
		"libjnigraphics.so",
		"libmediandk.so",
		"libvulkan.so",
	}
)

// Dict holds the compiled NDK path matchers. It is immutable and safe to
// share.
type Dict struct {
	ll  *regexp.Regexp
	sp  *regexp.Regexp
	hl  *regexp.Regexp
	all *regexp.Regexp
}

func compilePathMatcher(names ...[]string) *regexp.Regexp {
	var patts []string
	for _, group := range names {
		for _, n := range group {
			patts = append(patts, `(?:^/system/lib(?:64)?/`+regexp.QuoteMeta(n)+`$)`)
		}
	}
	return regexp.MustCompile(strings.Join(patts, "|"))
}

// NewDict compiles the default NDK lists.
func NewDict() *Dict {
	return &Dict{
		ll:  compilePathMatcher(LowLevelNDKLibNames),
		sp:  compilePathMatcher(SameProcessNDKLibNames),
		hl:  compilePathMatcher(HighLevelNDKLibNames),
		all: compilePathMatcher(LowLevelNDKLibNames, SameProcessNDKLibNames, HighLevelNDKLibNames),
	}
}

func (d *Dict) IsNDK(path string) bool            { return d.all.MatchString(path) }
func (d *Dict) IsLowLevelNDK(path string) bool    { return d.ll.MatchString(path) }
func (d *Dict) IsSameProcessNDK(path string) bool { return d.sp.MatchString(path) }
func (d *Dict) IsHighLevelNDK(path string) bool   { return d.hl.MatchString(path) }
