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

package cmd

import (
	"bytes"
	"debug/elf"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gojue/vndkdef/internal/elfimage/elfimagetest"
	"github.com/gojue/vndkdef/internal/errors"
)

func writeELF(t *testing.T, root, rel string, img elfimagetest.Image) string {
	t.Helper()
	img.Class = elf.ELFCLASS64
	img.Data = elf.ELFDATA2LSB
	img.Machine = elf.EM_AARCH64
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, elfimagetest.Build(img), 0o644))
	return p
}

// newImage lays out system and vendor trees:
//
//	vendor/lib64/libvnd.so -> libc.so libcutils.so libhidlbase.so
//	vendor/lib64/egl/libEGL_foo.so -> libc.so
//	system/lib64/libcutils.so, libhidlbase.so -> libc.so
func newImage(t *testing.T) (system, vendor string) {
	t.Helper()
	dir := t.TempDir()
	system = filepath.Join(dir, "system")
	vendor = filepath.Join(dir, "vendor")

	writeELF(t, system, "lib64/libc.so", elfimagetest.Image{Exported: []string{"malloc"}})
	writeELF(t, system, "lib64/libcutils.so", elfimagetest.Image{
		Needed: []string{"libc.so"}, Exported: []string{"property_get"},
	})
	writeELF(t, system, "lib64/libhidlbase.so", elfimagetest.Image{Needed: []string{"libc.so"}})
	writeELF(t, vendor, "lib64/libvnd.so", elfimagetest.Image{
		Needed: []string{"libc.so", "libcutils.so", "libhidlbase.so"},
	})
	writeELF(t, vendor, "lib64/egl/libEGL_foo.so", elfimagetest.Image{Needed: []string{"libc.so"}})
	return system, vendor
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestElfDump(t *testing.T) {
	p := writeELF(t, t.TempDir(), "libfoo.so", elfimagetest.Image{
		Needed:   []string{"libc.so"},
		Exported: []string{"foo"},
		Imported: []string{"malloc"},
	})

	out, _, err := execute(t, "elfdump", p)
	require.NoError(t, err)
	assert.Equal(t, "EI_CLASS\t64\n"+
		"EI_DATA\t\tLittle-Endian\n"+
		"E_MACHINE\tEM_AARCH64\n"+
		"DT_NEEDED\tlibc.so\n"+
		"EXP_SYMBOL\tfoo\n"+
		"IMP_SYMBOL\tmalloc\n", out)

	out, _, err = execute(t, "elfdump", "--format", "json", p)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "64", decoded["class"])
	assert.Equal(t, []any{"libc.so"}, decoded["needed"])
}

func TestElfDumpBadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(p, []byte("not an elf file"), 0o644))

	_, _, err := execute(t, "elfdump", p)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeELFParse, errors.CodeOf(err))

	_, _, err = execute(t, "elfdump")
	assert.Error(t, err)
}

func TestCreateGenericRef(t *testing.T) {
	system, _ := newImage(t)
	out := filepath.Join(t.TempDir(), "refs")

	stdout, stderr, err := execute(t, "create-generic-ref", system, "-o", out)
	require.NoError(t, err)
	assert.Equal(t, system+"\n", stdout)
	assert.Contains(t, stderr, "Processing")

	data, err := os.ReadFile(filepath.Join(out, "lib64", "libcutils.so.sym"))
	require.NoError(t, err)
	assert.Equal(t, "property_get\n", string(data))

	_, _, err = execute(t, "create-generic-ref", system)
	assert.Equal(t, errors.ErrCodeConfigMissing, errors.CodeOf(err))
}

func TestVNDK(t *testing.T) {
	system, vendor := newImage(t)

	out, _, err := execute(t, "vndk", "--system", system, "--vendor", vendor)
	require.NoError(t, err)
	assert.Equal(t, "sp-hal: /vendor/lib64/egl/libEGL_foo.so\n"+
		"vndk-stable: /system/lib64/libhidlbase.so\n"+
		"vndk-core: /system/lib64/libcutils.so\n", out)
}

func TestVNDKWithGenericRefs(t *testing.T) {
	system, vendor := newImage(t)
	refs := filepath.Join(t.TempDir(), "refs")
	_, _, err := execute(t, "create-generic-ref", filepath.Dir(system), "-o", refs)
	require.NoError(t, err)

	out, stderr, err := execute(t, "vndk", "--strict", "--system", system, "--vendor", vendor,
		"--load-generic-refs", refs)
	require.NoError(t, err)
	assert.Equal(t, "sp-hal: /vendor/lib64/egl/libEGL_foo.so\n"+
		"vndk-stable: /system/lib64/libhidlbase.so\n"+
		"vndk-core: /system/lib64/libcutils.so\n", out)
	assert.Empty(t, stderr)

	// A reference exporting more than the library means the library was
	// modified.
	sym := filepath.Join(refs, "system", "lib64", "libcutils.so.sym")
	require.NoError(t, os.WriteFile(sym, []byte("property_get\nproperty_set\n"), 0o644))

	out, stderr, err = execute(t, "vndk", "--system", system, "--vendor", vendor,
		"--load-generic-refs", refs)
	require.NoError(t, err)
	assert.NotContains(t, out, "vndk-core:")
	assert.Contains(t, stderr, "vndk library must not be modified.")

	_, _, err = execute(t, "vndk", "--strict", "--system", system, "--vendor", vendor,
		"--load-generic-refs", refs)
	var strict *strictError
	require.ErrorAs(t, err, &strict)
}

func TestVNDKStrict(t *testing.T) {
	system, vendor := newImage(t)
	writeELF(t, vendor, "lib64/libvndonly.so", elfimagetest.Image{})
	writeELF(t, system, "lib64/libbad.so", elfimagetest.Image{Needed: []string{"libvndonly.so"}})

	_, stderr, err := execute(t, "vndk", "--system", system, "--vendor", vendor)
	require.NoError(t, err)
	assert.Contains(t, stderr, "system exe/lib must not depend on vendor lib /vendor/lib64/libvndonly.so")

	_, _, err = execute(t, "vndk", "--strict", "--system", system, "--vendor", vendor)
	var strict *strictError
	require.ErrorAs(t, err, &strict)
	assert.Equal(t, 1, strict.count)
}

func TestDeps(t *testing.T) {
	system, vendor := newImage(t)
	graph := []string{"--system", system, "--vendor", vendor}

	out, _, err := execute(t, append([]string{"deps"}, graph...)...)
	require.NoError(t, err)
	assert.Equal(t, "/system/lib64/libc.so\n"+
		"/system/lib64/libcutils.so\n\t/system/lib64/libc.so\n"+
		"/system/lib64/libhidlbase.so\n\t/system/lib64/libc.so\n"+
		"/vendor/lib64/egl/libEGL_foo.so\n\t/system/lib64/libc.so\n"+
		"/vendor/lib64/libvnd.so\n\t/system/lib64/libc.so\n"+
		"\t/system/lib64/libcutils.so\n\t/system/lib64/libhidlbase.so\n", out)

	out, _, err = execute(t, append([]string{"deps", "--leaf"}, graph...)...)
	require.NoError(t, err)
	assert.Equal(t, "/system/lib64/libc.so\n", out)

	out, _, err = execute(t, append([]string{"deps", "--revert", "--leaf"}, graph...)...)
	require.NoError(t, err)
	assert.Equal(t, "/vendor/lib64/egl/libEGL_foo.so\n/vendor/lib64/libvnd.so\n", out)
}

func TestWarnUnresolvedSymbols(t *testing.T) {
	system, vendor := newImage(t)
	writeELF(t, vendor, "lib64/libundef.so", elfimagetest.Image{
		Needed: []string{"libc.so"}, Imported: []string{"malloc", "no_such_symbol"},
	})
	graph := []string{"--system", system, "--vendor", vendor}

	_, stderr, err := execute(t, append([]string{"deps"}, graph...)...)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "no_such_symbol")

	_, stderr, err = execute(t, append([]string{"deps", "--strict", "--warn-unresolved-symbols"}, graph...)...)
	require.NoError(t, err, "unresolved symbols are warnings")
	assert.Contains(t, stderr, "unresolved-symbol")
	assert.Contains(t, stderr, "/vendor/lib64/libundef.so")
	assert.Contains(t, stderr, "no_such_symbol")
	assert.NotContains(t, stderr, "malloc")
}

func TestDepsClosure(t *testing.T) {
	system, vendor := newImage(t)
	graph := []string{"--system", system, "--vendor", vendor}

	out, _, err := execute(t, append([]string{"deps-closure", "/vendor/lib64/libvnd.so"}, graph...)...)
	require.NoError(t, err)
	assert.Equal(t, "/system/lib64/libc.so\n/system/lib64/libcutils.so\n"+
		"/system/lib64/libhidlbase.so\n/vendor/lib64/libvnd.so\n", out)

	out, stderr, err := execute(t, append([]string{"deps-closure", "/vendor/lib64/libvnd.so", "/vendor/lib64/nope.so",
		"--exclude-ndk", "--exclude-lib", "/system/lib64/libhidlbase.so"}, graph...)...)
	require.NoError(t, err)
	assert.Equal(t, "/system/lib64/libcutils.so\n/vendor/lib64/libvnd.so\n", out)
	assert.Contains(t, stderr, "no such lib")
	assert.Contains(t, stderr, "/vendor/lib64/nope.so")

	out, _, err = execute(t, append([]string{"deps-closure", "--match", `^/vendor/lib64/egl/`}, graph...)...)
	require.NoError(t, err)
	assert.Equal(t, "/system/lib64/libc.so\n/vendor/lib64/egl/libEGL_foo.so\n", out)

	_, _, err = execute(t, append([]string{"deps-closure", "--match", `(`}, graph...)...)
	assert.Equal(t, errors.ErrCodeConfiguration, errors.CodeOf(err))

	_, _, err = execute(t, append([]string{"deps-closure"}, graph...)...)
	assert.Equal(t, errors.ErrCodeConfigMissing, errors.CodeOf(err))
}

func TestSPHALAndVNDKStable(t *testing.T) {
	system, vendor := newImage(t)
	graph := []string{"--system", system, "--vendor", vendor}

	out, _, err := execute(t, append([]string{"sp-hal"}, graph...)...)
	require.NoError(t, err)
	assert.Equal(t, "/vendor/lib64/egl/libEGL_foo.so\n", out)

	out, _, err = execute(t, append([]string{"vndk-stable", "--closure"}, graph...)...)
	require.NoError(t, err)
	assert.Equal(t, "/system/lib64/libhidlbase.so\n", out)
}

func TestConfigFile(t *testing.T) {
	system, vendor := newImage(t)
	cfgPath := filepath.Join(t.TempDir(), "vndkdef.yaml")
	yaml := "format: json\nsystem:\n  - " + system + "\nvendor:\n  - " + vendor + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))

	out, _, err := execute(t, "sp-hal", "--config", cfgPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":[{"label":"","paths":["/vendor/lib64/egl/libEGL_foo.so"]}]}`, out)

	out, _, err = execute(t, "sp-hal", "--config", cfgPath, "--format", "plain")
	require.NoError(t, err)
	assert.Equal(t, "/vendor/lib64/egl/libEGL_foo.so\n", out)

	// An explicit --vendor replaces the file's list.
	empty := t.TempDir()
	out, _, err = execute(t, "sp-hal", "--config", cfgPath, "--format", "plain", "--vendor", empty)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestOutputFile(t *testing.T) {
	system, vendor := newImage(t)
	p := filepath.Join(t.TempDir(), "sp-hal.txt")

	out, _, err := execute(t, "sp-hal", "--system", system, "--vendor", vendor, "-o", p)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "/vendor/lib64/egl/libEGL_foo.so\n", string(data))
}

func TestInvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vndk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: 0\nformat: xml\n"), 0o644))

	_, _, err := execute(t, "deps", "--config", path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigValidation, errors.CodeOf(err))

	_, _, err = execute(t, "deps", "--config", path, "--jobs", "2", "--format", "plain")
	assert.NoError(t, err, "command line flags override the file before validation")
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := execute(t, "vndk", "--outward-customization-default-partition", "odm")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigValidation, errors.CodeOf(err))
	assert.True(t, strings.Contains(err.Error(), "odm"))
}
