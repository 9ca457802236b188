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

// Package elfimagetest writes minimal shared objects for tests. The output
// carries only the sections the dependency graph reads: .dynstr, .dynsym,
// .dynamic, a .text placeholder that defined symbols point into, and
// .shstrtab.
package elfimagetest

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"sort"
	"strings"
)

// Image describes the shared object to build.
type Image struct {
	Class   elf.Class // ELFCLASS32 or ELFCLASS64
	Data    elf.Data  // ELFDATA2LSB or ELFDATA2MSB
	Machine elf.Machine

	Needed  []string
	RPath   []string // joined with ':' into one DT_RPATH entry
	RunPath []string // joined with ':' into one DT_RUNPATH entry

	Exported []string // STB_GLOBAL, defined in .text
	Weak     []string // STB_WEAK, defined in .text
	Local    []string // STB_LOCAL, defined in .text
	Unique   []string // STB_GNU_UNIQUE, defined in .text
	Imported []string // STB_GLOBAL, SHN_UNDEF

	// OmitDynsym drops the .dynsym section.
	OmitDynsym bool
	// OmitDynamic drops the .dynamic section.
	OmitDynamic bool
}

const (
	secNull = iota
	secDynstr
	secDynsym
	secDynamic
	secText
	secShstrtab
)

type strtab struct {
	buf bytes.Buffer
	off map[string]uint32
}

func newStrtab() *strtab {
	t := &strtab{off: map[string]uint32{}}
	t.buf.WriteByte(0)
	t.off[""] = 0
	return t
}

func (t *strtab) add(s string) uint32 {
	if o, ok := t.off[s]; ok {
		return o
	}
	o := uint32(t.buf.Len())
	t.buf.WriteString(s)
	t.buf.WriteByte(0)
	t.off[s] = o
	return o
}

type symbol struct {
	name  uint32
	info  uint8
	shndx uint16
}

type section struct {
	name    uint32
	typ     elf.SectionType
	flags   uint64
	off     uint64
	size    uint64
	link    uint32
	info    uint32
	align   uint64
	entsize uint64
}

// Build serializes img into an ELF shared object.
func Build(img Image) []byte {
	if img.Class == elf.ELFCLASSNONE {
		img.Class = elf.ELFCLASS64
	}
	if img.Data == elf.ELFDATANONE {
		img.Data = elf.ELFDATA2LSB
	}
	var order binary.ByteOrder = binary.LittleEndian
	if img.Data == elf.ELFDATA2MSB {
		order = binary.BigEndian
	}
	is64 := img.Class == elf.ELFCLASS64

	dynstr := newStrtab()

	// .dynamic entries
	type dyn struct {
		tag elf.DynTag
		val uint64
	}
	var dyns []dyn
	for _, n := range img.Needed {
		dyns = append(dyns, dyn{elf.DT_NEEDED, uint64(dynstr.add(n))})
	}
	if len(img.RPath) > 0 {
		dyns = append(dyns, dyn{elf.DT_RPATH, uint64(dynstr.add(strings.Join(img.RPath, ":")))})
	}
	if len(img.RunPath) > 0 {
		dyns = append(dyns, dyn{elf.DT_RUNPATH, uint64(dynstr.add(strings.Join(img.RunPath, ":")))})
	}
	dyns = append(dyns, dyn{elf.DT_NULL, 0})

	// .dynsym entries; locals first, as a linker would lay them out
	var syms []symbol
	addSyms := func(names []string, bind elf.SymBind, shndx uint16) {
		names = append([]string(nil), names...)
		sort.Strings(names)
		for _, n := range names {
			syms = append(syms, symbol{
				name:  dynstr.add(n),
				info:  elf.ST_INFO(bind, elf.STT_FUNC),
				shndx: shndx,
			})
		}
	}
	addSyms(img.Local, elf.STB_LOCAL, secText)
	addSyms(img.Exported, elf.STB_GLOBAL, secText)
	addSyms(img.Weak, elf.STB_WEAK, secText)
	addSyms(img.Unique, elf.STB_LOOS, secText)
	addSyms(img.Imported, elf.STB_GLOBAL, uint16(elf.SHN_UNDEF))

	shstr := newStrtab()
	names := map[int]uint32{
		secDynstr:   shstr.add(".dynstr"),
		secDynsym:   shstr.add(".dynsym"),
		secDynamic:  shstr.add(".dynamic"),
		secText:     shstr.add(".text"),
		secShstrtab: shstr.add(".shstrtab"),
	}

	var (
		ehsize, shentsize, symsize, dynsize int
	)
	if is64 {
		ehsize, shentsize, symsize, dynsize = 64, 64, 24, 16
	} else {
		ehsize, shentsize, symsize, dynsize = 52, 40, 16, 8
	}

	var body bytes.Buffer
	body.Write(make([]byte, ehsize))
	align := func() {
		for body.Len()%8 != 0 {
			body.WriteByte(0)
		}
	}

	secs := make([]section, secShstrtab+1)

	// .dynstr
	align()
	secs[secDynstr] = section{name: names[secDynstr], typ: elf.SHT_STRTAB, flags: uint64(elf.SHF_ALLOC),
		off: uint64(body.Len()), size: uint64(dynstr.buf.Len()), align: 1}
	body.Write(dynstr.buf.Bytes())

	// .dynsym, with the mandatory null entry
	align()
	symOff := body.Len()
	body.Write(make([]byte, symsize))
	for _, s := range syms {
		if is64 {
			_ = binary.Write(&body, order, elf.Sym64{Name: s.name, Info: s.info, Shndx: s.shndx, Value: 0x1000})
		} else {
			_ = binary.Write(&body, order, elf.Sym32{Name: s.name, Info: s.info, Shndx: s.shndx, Value: 0x1000})
		}
	}
	secs[secDynsym] = section{name: names[secDynsym], typ: elf.SHT_DYNSYM, flags: uint64(elf.SHF_ALLOC),
		off: uint64(symOff), size: uint64(body.Len() - symOff), link: secDynstr, info: 1,
		align: 8, entsize: uint64(symsize)}

	// .dynamic
	align()
	dynOff := body.Len()
	for _, d := range dyns {
		if is64 {
			_ = binary.Write(&body, order, elf.Dyn64{Tag: int64(d.tag), Val: d.val})
		} else {
			_ = binary.Write(&body, order, elf.Dyn32{Tag: int32(d.tag), Val: uint32(d.val)})
		}
	}
	secs[secDynamic] = section{name: names[secDynamic], typ: elf.SHT_DYNAMIC,
		flags: uint64(elf.SHF_ALLOC | elf.SHF_WRITE), off: uint64(dynOff), size: uint64(body.Len() - dynOff),
		link: secDynstr, align: 8, entsize: uint64(dynsize)}

	// .text
	align()
	textOff := body.Len()
	body.Write(make([]byte, 16))
	secs[secText] = section{name: names[secText], typ: elf.SHT_PROGBITS,
		flags: uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR), off: uint64(textOff), size: 16, align: 16}

	// .shstrtab
	align()
	secs[secShstrtab] = section{name: names[secShstrtab], typ: elf.SHT_STRTAB,
		off: uint64(body.Len()), size: uint64(shstr.buf.Len()), align: 1}
	body.Write(shstr.buf.Bytes())

	// Dropped sections become SHT_NULL entries with no name so that
	// section indices stay fixed.
	if img.OmitDynsym {
		secs[secDynsym] = section{}
	}
	if img.OmitDynamic {
		secs[secDynamic] = section{}
	}

	align()
	shoff := body.Len()
	for _, s := range secs {
		if is64 {
			_ = binary.Write(&body, order, elf.Section64{
				Name: s.name, Type: uint32(s.typ), Flags: s.flags, Off: s.off, Size: s.size,
				Link: s.link, Info: s.info, Addralign: s.align, Entsize: s.entsize,
			})
		} else {
			_ = binary.Write(&body, order, elf.Section32{
				Name: s.name, Type: uint32(s.typ), Flags: uint32(s.flags), Off: uint32(s.off),
				Size: uint32(s.size), Link: s.link, Info: s.info, Addralign: uint32(s.align),
				Entsize: uint32(s.entsize),
			})
		}
	}

	out := body.Bytes()
	var ident [elf.EI_NIDENT]byte
	copy(ident[:], elf.ELFMAG)
	ident[elf.EI_CLASS] = byte(img.Class)
	ident[elf.EI_DATA] = byte(img.Data)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	var hdr bytes.Buffer
	if is64 {
		_ = binary.Write(&hdr, order, elf.Header64{
			Ident: ident, Type: uint16(elf.ET_DYN), Machine: uint16(img.Machine),
			Version: uint32(elf.EV_CURRENT), Shoff: uint64(shoff), Ehsize: uint16(ehsize),
			Shentsize: uint16(shentsize), Shnum: uint16(len(secs)), Shstrndx: secShstrtab,
		})
	} else {
		_ = binary.Write(&hdr, order, elf.Header32{
			Ident: ident, Type: uint16(elf.ET_DYN), Machine: uint16(img.Machine),
			Version: uint32(elf.EV_CURRENT), Shoff: uint32(shoff), Ehsize: uint16(ehsize),
			Shentsize: uint16(shentsize), Shnum: uint16(len(secs)), Shstrndx: secShstrtab,
		})
	}
	copy(out, hdr.Bytes())
	return out
}
