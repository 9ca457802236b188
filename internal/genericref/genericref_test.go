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

package genericref

import (
	"debug/elf"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gojue/vndkdef/internal/elfimage"
	"github.com/gojue/vndkdef/internal/errors"
)

func TestClassify(t *testing.T) {
	refs := New()
	refs.Add("/system/lib/libc.so", elfimage.NewSymbolSet("fopen", "fclose"))
	refs.Add("/system/lib/libempty.so", elfimage.NewSymbolSet())

	tests := []struct {
		name     string
		path     string
		exported elfimage.SymbolSet
		want     Category
	}{
		{"no reference", "/system/lib/libnew.so", elfimage.NewSymbolSet("x"), NewLib},
		{"equal", "/system/lib/libc.so", elfimage.NewSymbolSet("fclose", "fopen"), ExportEqual},
		{"added", "/system/lib/libc.so", elfimage.NewSymbolSet("fclose", "fopen", "fread"), ExportSuperSet},
		{"removed", "/system/lib/libc.so", elfimage.NewSymbolSet("fopen"), Modified},
		{"removed and added", "/system/lib/libc.so", elfimage.NewSymbolSet("fopen", "fread"), Modified},
		{"empty reference is present", "/system/lib/libempty.so", elfimage.NewSymbolSet(), ExportEqual},
		{"empty reference extended", "/system/lib/libempty.so", elfimage.NewSymbolSet("a"), ExportSuperSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, refs.Classify(tt.path, tt.exported))
			assert.Equal(t, tt.want == ExportEqual, refs.IsEquivalent(tt.path, tt.exported))
		})
	}
}

func TestNilRefs(t *testing.T) {
	var refs *Refs
	_, ok := refs.Lookup("/system/lib/libc.so")
	assert.False(t, ok)
	assert.Equal(t, 0, refs.Len())
	assert.Equal(t, NewLib, refs.Classify("/system/lib/libc.so", elfimage.NewSymbolSet()))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "new-lib", NewLib.String())
	assert.Equal(t, "export-equal", ExportEqual.String())
	assert.Equal(t, "export-super-set", ExportSuperSet.String())
	assert.Equal(t, "modified", Modified.String())
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	write("system/lib/libc.so.sym", "fopen\nfclose\n\n  fread  \n")
	write("system/lib64/libm.so.sym", "")
	write("system/lib/README", "not a symbol file")

	refs, err := LoadDir(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"/system/lib/libc.so", "/system/lib64/libm.so"}, refs.Paths())

	libc, ok := refs.Lookup("/system/lib/libc.so")
	require.True(t, ok)
	assert.Equal(t, elfimage.NewSymbolSet("fclose", "fopen", "fread"), libc)

	libm, ok := refs.Lookup("/system/lib64/libm.so")
	require.True(t, ok)
	assert.Equal(t, 0, libm.Len())
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeResourceNotFound, errors.CodeOf(err))
}

func TestReadSymbols(t *testing.T) {
	syms, err := ReadSymbols(strings.NewReader("a\r\nb\n\n"))
	require.NoError(t, err)
	assert.Equal(t, elfimage.NewSymbolSet("a", "b"), syms)
}

func TestWriteDirRoundTrip(t *testing.T) {
	libc := elfimage.New(elf.ELFCLASS32, elf.ELFDATA2LSB)
	libc.Exported = elfimage.NewSymbolSet("fopen", "fclose")
	libm := elfimage.New(elf.ELFCLASS64, elf.ELFDATA2LSB)
	libm.Exported = elfimage.NewSymbolSet("cos")

	out := t.TempDir()
	require.NoError(t, WriteDir(out, map[string]*elfimage.Image{
		"system/lib/libc.so":   libc,
		"system/lib64/libm.so": libm,
	}))

	raw, err := os.ReadFile(filepath.Join(out, "system", "lib", "libc.so.sym"))
	require.NoError(t, err)
	assert.Equal(t, "fclose\nfopen\n", string(raw))

	refs, err := LoadDir(out)
	require.NoError(t, err)
	assert.Equal(t, ExportEqual, refs.Classify("/system/lib/libc.so", libc.Exported))
	assert.Equal(t, ExportEqual, refs.Classify("/system/lib64/libm.so", libm.Exported))
}
