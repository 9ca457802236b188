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

package vndk

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/gojue/vndkdef/internal/linker"
)

// DefaultVNDKVersion is the VNDK version used to derive vanilla vndk-core
// paths when none is configured.
const DefaultVNDKVersion = 26

var (
	// VNDKStablePatterns match the HIDL libraries used by the graphics
	// mapper implementation.
	VNDKStablePatterns = []string{
		`^.*/libhidlbase\.so$`,
		`^.*/libhidltransport\.so$`,
		`^.*/libhidlmemory\.so$`,
		`^.*/libfmp\.so$`,
		`^.*/libhwbinder\.so$`,
	}

	// SPHALPatterns match the same-process HALs: GL and Vulkan drivers,
	// RenderScript drivers and the gralloc mapper.
	SPHALPatterns = []string{
		`^/vendor/.*/libEGL_.*\.so$`,
		`^/vendor/.*/libGLESv1_CM_.*\.so$`,
		`^/vendor/.*/libGLESv2_.*\.so$`,
		`^/vendor/.*/libGLESv3_.*\.so$`,
		`^/vendor/.*/vulkan.*\.so$`,
		`^/vendor/.*/libRSDriver.*\.so$`,
		`^/vendor/.*/libPVRRS\.so$`,
		`^.*/gralloc\..*\.so$`,
		`^.*/android\.hardware\.graphics\.mapper@\d+\.\d+-impl\.so$`,
	}

	vndkStableMatcher = mustCompile(VNDKStablePatterns)
	spHALMatcher      = mustCompile(SPHALPatterns)
	vndkExtPath       = regexp.MustCompile(`^/(?:system|vendor)/lib(?:64)?/vndk-\d+-ext/`)
)

func mustCompile(patterns []string) *regexp.Regexp {
	re, err := linker.CompilePathPatterns(patterns)
	if err != nil {
		panic(err)
	}
	return re
}

// ComputeVNDKStable returns the vndk-stable libraries, plus their non-NDK
// dependencies when closure is set.
func ComputeVNDKStable(g *linker.Linker, closure bool) *linker.LibSet {
	return g.MatchLibs(vndkStableMatcher, closure, func(l *linker.Library) bool {
		return l.IsNDK
	})
}

// ComputeSPHAL returns the same-process HALs, plus their dependencies
// other than NDK and vndk-stable libraries when closure is set.
func ComputeSPHAL(g *linker.Linker, vndkStable *linker.LibSet, closure bool) *linker.LibSet {
	return g.MatchLibs(spHALMatcher, closure, func(l *linker.Library) bool {
		return l.IsNDK || vndkStable.Has(l)
	})
}

// IsVNDKExtPath reports whether p lives in a vndk-<N>-ext directory.
func IsVNDKExtPath(p string) bool {
	return vndkExtPath.MatchString(p)
}

// ConvertPathToVNDKCore returns where the vanilla vndk-core copy of the
// library at p is installed.
func ConvertPathToVNDKCore(version int, p string) string {
	dir := "/system/lib"
	if strings.Contains(p, "lib64") {
		dir = "/system/lib64"
	}
	return path.Join(dir, fmt.Sprintf("vndk-%d", version), path.Base(p))
}
