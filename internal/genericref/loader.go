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
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/gojue/vndkdef/internal/elfimage"
	"github.com/gojue/vndkdef/internal/errors"
)

// SymbolFileExt is the suffix of reference symbol files.
const SymbolFileExt = ".sym"

// LoadDir reads every *.sym file under root. The file
// <root>/system/lib/libc.so.sym becomes the reference of /system/lib/libc.so.
func LoadDir(root string) (*Refs, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.NewResourceReadError(root, err)
	}
	if fi, err := os.Stat(root); err != nil {
		return nil, errors.NewResourceNotFoundError(root).WithContext("cause", err.Error())
	} else if !fi.IsDir() {
		return nil, errors.New(errors.ErrCodeResourceRead, "generic reference root is not a directory").
			WithContext("path", root)
	}

	refs := New()
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), SymbolFileExt) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		syms, err := readSymbolFile(p)
		if err != nil {
			return err
		}
		refs.Add("/"+filepath.ToSlash(strings.TrimSuffix(rel, SymbolFileExt)), syms)
		return nil
	})
	if err != nil {
		return nil, errors.NewResourceReadError(root, err)
	}
	return refs, nil
}

func readSymbolFile(p string) (elfimage.SymbolSet, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSymbols(f)
}

// ReadSymbols reads one symbol name per line. Blank lines are skipped.
func ReadSymbols(r io.Reader) (elfimage.SymbolSet, error) {
	syms := elfimage.SymbolSet{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			syms.Add(line)
		}
	}
	return syms, sc.Err()
}

// WriteDir writes <root>/<rel>.sym for every image, rel being the path of
// the image relative to the scanned partition root.
func WriteDir(root string, images map[string]*elfimage.Image) error {
	rels := maps.Keys(images)
	sort.Strings(rels)
	for _, rel := range rels {
		out := filepath.Join(root, filepath.FromSlash(rel)) + SymbolFileExt
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return errors.NewResourceWriteError(out, err)
		}
		if err := writeSymbolFile(out, images[rel]); err != nil {
			return errors.NewResourceWriteError(out, err)
		}
	}
	return nil
}

func writeSymbolFile(out string, img *elfimage.Image) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := img.DumpExportedSymbols(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
