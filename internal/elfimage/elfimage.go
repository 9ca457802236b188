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

// Package elfimage extracts the dynamic linking view of an ELF file: word
// size, byte order, machine, DT_NEEDED/DT_RPATH/DT_RUNPATH entries and the
// exported and imported dynamic symbols.
package elfimage

import (
	"bytes"
	"debug/elf"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/gojue/vndkdef/internal/errors"
)

var (
	ErrBadIdent        = errors.New(errors.ErrCodeELFParse, "bad ident")
	ErrBadMagic        = errors.New(errors.ErrCodeELFParse, "bad magic")
	ErrUnknownWordSize = errors.New(errors.ErrCodeELFParse, "unknown word size")
	ErrUnknownEndian   = errors.New(errors.ErrCodeELFParse, "unknown endianness")
	ErrNoDynamic       = errors.New(errors.ErrCodeELFMissingSection, "no .dynamic section")
	ErrNoDynstr        = errors.New(errors.ErrCodeELFMissingSection, "no .dynstr section")
	ErrEmptyFile       = errors.New(errors.ErrCodeELFEmpty, "empty file")
	ErrBadOffset       = errors.New(errors.ErrCodeELFParse, "bad offset")
)

// Image is the parsed dynamic linking information of one ELF file.
// It is not modified after Parse returns.
type Image struct {
	Class   elf.Class
	Data    elf.Data
	Machine elf.Machine

	// Needed keeps DT_NEEDED entries in file order, duplicates included.
	Needed  []string
	RPath   []string
	RunPath []string

	Exported SymbolSet
	Imported SymbolSet
}

// New returns an Image with the given word size and empty symbol sets.
// Tests and callers that synthesize graphs fill the remaining fields.
func New(class elf.Class, data elf.Data) *Image {
	return &Image{
		Class:    class,
		Data:     data,
		Exported: SymbolSet{},
		Imported: SymbolSet{},
	}
}

func (img *Image) Is32Bit() bool { return img.Class == elf.ELFCLASS32 }
func (img *Image) Is64Bit() bool { return img.Class == elf.ELFCLASS64 }

// ClassName returns "32", "64" or "None".
func (img *Image) ClassName() string {
	switch img.Class {
	case elf.ELFCLASS32:
		return "32"
	case elf.ELFCLASS64:
		return "64"
	}
	return "None"
}

// DataName returns "Little-Endian", "Big-Endian" or "None".
func (img *Image) DataName() string {
	switch img.Data {
	case elf.ELFDATA2LSB:
		return "Little-Endian"
	case elf.ELFDATA2MSB:
		return "Big-Endian"
	}
	return "None"
}

// MachineName returns the EM_* name of the machine, or its number.
func (img *Image) MachineName() string {
	return img.Machine.String()
}

// Parse decodes an ELF image held in buf. Offsets or sizes that point
// outside buf fail with ErrBadOffset.
func Parse(buf []byte) (img *Image, err error) {
	defer func() {
		if p := recover(); p != nil {
			img = nil
			err = errors.Wrap(errors.ErrCodeELFParse, ErrBadOffset.Message, fmt.Errorf("%v", p))
		}
	}()

	if len(buf) < elf.EI_NIDENT {
		return nil, ErrBadIdent
	}
	if !bytes.Equal(buf[:4], []byte(elf.ELFMAG)) {
		return nil, ErrBadMagic
	}

	class := elf.Class(buf[elf.EI_CLASS])
	if class != elf.ELFCLASS32 && class != elf.ELFCLASS64 {
		return nil, ErrUnknownWordSize
	}
	data := elf.Data(buf[elf.EI_DATA])
	if data != elf.ELFDATA2LSB && data != elf.ELFDATA2MSB {
		return nil, ErrUnknownEndian
	}

	f, ferr := elf.NewFile(bytes.NewReader(buf))
	if ferr != nil {
		return nil, errors.Wrap(errors.ErrCodeELFParse, "bad elf header", ferr)
	}
	defer f.Close()

	if err := checkDynamic(f, len(buf)); err != nil {
		return nil, err
	}
	return fromFile(f)
}

// checkDynamic rejects a dynamic table that is not a whole number of
// entries or does not fit in a buffer of size bytes.
func checkDynamic(f *elf.File, size int) error {
	ds := f.SectionByType(elf.SHT_DYNAMIC)
	if ds == nil {
		return nil
	}
	entsize := uint64(16)
	if f.Class == elf.ELFCLASS32 {
		entsize = 8
	}
	if ds.Size%entsize != 0 || ds.Offset > uint64(size) || ds.Size > uint64(size)-ds.Offset {
		return errors.Wrap(errors.ErrCodeELFParse, ErrBadOffset.Message,
			fmt.Errorf("section %s: offset %d size %d", ds.Name, ds.Offset, ds.Size))
	}
	return nil
}

func fromFile(f *elf.File) (*Image, error) {
	img := New(f.Class, f.Data)
	img.Machine = f.Machine

	if f.Section(".dynamic") == nil {
		return nil, ErrNoDynamic
	}
	if f.Section(".dynstr") == nil {
		return nil, ErrNoDynstr
	}

	var err error
	img.Needed, err = f.DynString(elf.DT_NEEDED)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeELFParse, "bad .dynamic entry", err)
	}
	img.RPath, err = dynPathList(f, elf.DT_RPATH)
	if err != nil {
		return nil, err
	}
	img.RunPath, err = dynPathList(f, elf.DT_RUNPATH)
	if err != nil {
		return nil, err
	}

	syms, err := f.DynamicSymbols()
	switch {
	case stderrors.Is(err, elf.ErrNoSymbols):
		// no .dynsym, nothing is imported or exported
		return img, nil
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeELFParse, "bad elf sym", err)
	}

	for _, sym := range syms {
		if sym.Section == elf.SHN_UNDEF {
			img.Imported.Add(sym.Name)
		} else if elf.ST_BIND(sym.Info) != elf.STB_LOCAL { // GNU_UNIQUE counts as exported
			img.Exported.Add(sym.Name)
		}
	}
	return img, nil
}

func dynPathList(f *elf.File, tag elf.DynTag) ([]string, error) {
	values, err := f.DynString(tag)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeELFParse, "bad .dynamic entry", err)
	}
	var dirs []string
	for _, v := range values {
		dirs = append(dirs, strings.Split(v, ":")...)
	}
	return dirs, nil
}

// Load maps the file at path read-only and parses it.
func Load(path string) (*Image, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.NewResourceReadError(path, err)
	}
	defer fd.Close()

	st, err := fd.Stat()
	if err != nil {
		return nil, errors.NewResourceReadError(path, err)
	}
	if st.Size() == 0 {
		return nil, ErrEmptyFile
	}

	buf, err := unix.Mmap(int(fd.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.NewResourceReadError(path, err)
	}
	defer unix.Munmap(buf)

	return Parse(buf)
}

// Dump prints the parsed information, one tab separated record per line.
func (img *Image) Dump(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "EI_CLASS\t%s\n", img.ClassName())
	fmt.Fprintf(&b, "EI_DATA\t\t%s\n", img.DataName())
	fmt.Fprintf(&b, "E_MACHINE\t%s\n", img.MachineName())
	for _, p := range img.RPath {
		fmt.Fprintf(&b, "DT_RPATH\t%s\n", p)
	}
	for _, p := range img.RunPath {
		fmt.Fprintf(&b, "DT_RUNPATH\t%s\n", p)
	}
	for _, n := range img.Needed {
		fmt.Fprintf(&b, "DT_NEEDED\t%s\n", n)
	}
	for _, s := range img.Exported.Sorted() {
		fmt.Fprintf(&b, "EXP_SYMBOL\t%s\n", s)
	}
	for _, s := range img.Imported.Sorted() {
		fmt.Fprintf(&b, "IMP_SYMBOL\t%s\n", s)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// DumpExportedSymbols prints the exported symbol names, one per line.
func (img *Image) DumpExportedSymbols(w io.Writer) error {
	var b strings.Builder
	for _, s := range img.Exported.Sorted() {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
