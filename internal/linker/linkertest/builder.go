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

// Package linkertest builds synthetic dependency graphs for tests.
package linkertest

import (
	"debug/elf"
	"path"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/elfimage"
	"github.com/gojue/vndkdef/internal/linker"
	"github.com/gojue/vndkdef/internal/ndk"
)

// GraphBuilder adds in-memory images to a Linker under
// /<partition>/lib[64]/<name>.so.
type GraphBuilder struct {
	Graph *linker.Linker
}

// NewGraphBuilder creates a builder over a fresh Linker.
func NewGraphBuilder(dict *ndk.Dict, reporter domain.Reporter) *GraphBuilder {
	return &GraphBuilder{Graph: linker.New(dict, reporter)}
}

// LibPath returns the path AddLib uses for name.
func LibPath(partition domain.Partition, class elf.Class, name string) string {
	dir := "lib64"
	if class == elf.ELFCLASS32 {
		dir = "lib"
	}
	return path.Join("/", partition.String(), dir, name+".so")
}

// AddLib adds one library.
func (b *GraphBuilder) AddLib(partition domain.Partition, class elf.Class, name string,
	needed, exported, imported []string) *linker.Library {
	img := elfimage.New(class, elf.ELFDATA2LSB)
	img.Needed = append([]string(nil), needed...)
	img.Exported = elfimage.NewSymbolSet(exported...)
	img.Imported = elfimage.NewSymbolSet(imported...)
	return b.Graph.Add(partition, LibPath(partition, class, name), img)
}

// AddMultilib adds the 32-bit and the 64-bit flavor of a library.
func (b *GraphBuilder) AddMultilib(partition domain.Partition, name string,
	needed, exported, imported []string) {
	for _, class := range []elf.Class{elf.ELFCLASS32, elf.ELFCLASS64} {
		b.AddLib(partition, class, name, needed, exported, imported)
	}
}

// Resolve resolves the graph.
func (b *GraphBuilder) Resolve() []linker.MissingDep {
	return b.Graph.ResolveDeps()
}

// NormalGraph builds the libdl/libm/libc/libRS/libcutils system libraries
// and the vendor libEGL, in both word sizes, and resolves them.
func NormalGraph(dict *ndk.Dict, reporter domain.Reporter) *GraphBuilder {
	b := NewGraphBuilder(dict, reporter)

	b.AddMultilib(domain.PartitionSystem, "libdl", nil,
		[]string{"dlclose", "dlopen", "dlsym"}, nil)
	b.AddMultilib(domain.PartitionSystem, "libm", nil,
		[]string{"cos", "sin"}, nil)
	b.AddMultilib(domain.PartitionSystem, "libc", []string{"libdl.so", "libm.so"},
		[]string{"fclose", "fopen", "fread"},
		[]string{"dlclose", "dlopen", "cos", "sin"})
	b.AddMultilib(domain.PartitionSystem, "libRS", []string{"libdl.so"},
		[]string{"rsContextCreate"},
		[]string{"dlclose", "dlopen", "dlsym"})
	b.AddMultilib(domain.PartitionSystem, "libcutils", []string{"libc.so", "libdl.so"},
		nil,
		[]string{"dlclose", "dlopen", "fclose", "fopen"})
	b.AddMultilib(domain.PartitionVendor, "libEGL", []string{"libc.so", "libcutils.so", "libdl.so"},
		[]string{"eglGetDisplay"},
		[]string{"fclose", "fopen"})

	b.Resolve()
	return b
}
