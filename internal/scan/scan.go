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

// Package scan walks partition trees and loads their ELF files into a
// dependency graph.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/gojue/vndkdef/internal/config"
	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/elfimage"
	"github.com/gojue/vndkdef/internal/errors"
	"github.com/gojue/vndkdef/internal/linker"
	"github.com/gojue/vndkdef/internal/logger"
	"github.com/gojue/vndkdef/internal/ndk"
)

// PartitionDir is one partition tree on disk.
type PartitionDir struct {
	// Name prefixes the graph paths, e.g. "system" gives /system/lib/libc.so.
	Name      string
	Partition domain.Partition
	Root      string

	// Files under Root/<AltSubdirs[i]>/ are tagged AltPartition instead.
	AltPartition domain.Partition
	AltSubdirs   []string
}

// IsAccessible reports whether path is a regular file readable by its owner,
// its group or others.
func IsAccessible(path string) bool {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		return false
	}
	return st.Mode&(unix.S_IRUSR|unix.S_IRGRP|unix.S_IROTH) != 0
}

// ScanExecutables returns the accessible files under root in lexical order.
// Symbolic links to regular files are included, links to directories are
// not followed. Entries below root that cannot be read are skipped.
func ScanExecutables(root string, log *logger.Logger) ([]string, error) {
	if log == nil {
		log = logger.Nop()
	}
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return skipUnreadable(root, p, d, err, log)
		}
		if d.IsDir() {
			return nil
		}
		if IsAccessible(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewResourceReadError(root, err)
	}
	return files, nil
}

// skipUnreadable fails the walk only when root itself is unreadable.
func skipUnreadable(root, p string, d fs.DirEntry, err error, log *logger.Logger) error {
	if p == root {
		return err
	}
	log.Debug().Err(err).Str("path", p).Msg("skipping unreadable entry")
	if d != nil && d.IsDir() {
		return fs.SkipDir
	}
	return nil
}

func compileAltMatcher(root string, subdirs []string) *regexp.Regexp {
	if len(subdirs) == 0 {
		return nil
	}
	patts := make([]string, 0, len(subdirs))
	for _, sub := range subdirs {
		dir := filepath.Clean(filepath.Join(root, sub))
		patts = append(patts, "(?:"+regexp.QuoteMeta(dir+string(filepath.Separator))+")")
	}
	return regexp.MustCompile("^(?:" + strings.Join(patts, "|") + ")")
}

type task struct {
	file      string
	path      string
	partition domain.Partition
	img       *elfimage.Image
}

func (d PartitionDir) tasks(log *logger.Logger) ([]*task, error) {
	root, err := filepath.Abs(d.Root)
	if err != nil {
		return nil, errors.NewResourceReadError(d.Root, err)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, errors.NewResourceNotFoundError(root)
	}
	files, err := ScanExecutables(root, log)
	if err != nil {
		return nil, err
	}

	alt := compileAltMatcher(root, d.AltSubdirs)
	tasks := make([]*task, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			return nil, errors.NewResourceReadError(f, err)
		}
		t := &task{
			file:      f,
			path:      path.Join("/", d.Name, filepath.ToSlash(rel)),
			partition: d.Partition,
		}
		if alt != nil && alt.MatchString(f) {
			t.partition = d.AltPartition
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// LoadPartitions parses every file under dirs with at most jobs parsers and
// adds the ELF files to g. Files that are not valid ELF images are skipped.
// Libraries are added on the calling goroutine in directory then walk order.
func LoadPartitions(ctx context.Context, g *linker.Linker, dirs []PartitionDir, jobs int, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("scan")
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var tasks []*task
	for _, d := range dirs {
		ts, err := d.tasks(log)
		if err != nil {
			return err
		}
		tasks = append(tasks, ts...)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for _, t := range tasks {
		t := t
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := elfimage.Load(t.file)
			if err != nil {
				log.Debug().Err(err).Str("file", t.file).Msg("skipping file")
				return nil
			}
			t.img = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	loaded := 0
	for _, t := range tasks {
		if t.img == nil {
			continue
		}
		g.Add(t.partition, t.path, t.img)
		loaded++
	}
	log.Debug().Int("files", len(tasks)).Int("loaded", loaded).Msg("partitions loaded")
	return nil
}

// PartitionDirs expands the partition options of cfg.
func PartitionDirs(cfg *config.GraphConfig) []PartitionDir {
	var dirs []PartitionDir
	for _, root := range cfg.System {
		dirs = append(dirs, PartitionDir{
			Name:         "system",
			Partition:    domain.PartitionSystem,
			Root:         root,
			AltPartition: domain.PartitionVendor,
			AltSubdirs:   cfg.SystemDirsAsVendor,
		})
	}
	for _, root := range cfg.Vendor {
		dirs = append(dirs, PartitionDir{
			Name:         "vendor",
			Partition:    domain.PartitionVendor,
			Root:         root,
			AltPartition: domain.PartitionSystem,
			AltSubdirs:   cfg.VendorDirsAsSystem,
		})
	}
	return dirs
}

// CreateGraph loads the partitions and extra dependency files named by cfg
// and resolves the graph.
func CreateGraph(ctx context.Context, cfg *config.GraphConfig, dict *ndk.Dict, r domain.Reporter, log *logger.Logger) (*linker.Linker, []linker.MissingDep, error) {
	g := linker.New(dict, r)
	if err := LoadPartitions(ctx, g, PartitionDirs(cfg), cfg.Jobs, log); err != nil {
		return nil, nil, err
	}
	for _, p := range cfg.ExtraDeps {
		if err := loadExtraDepsFile(g, p); err != nil {
			return nil, nil, err
		}
	}
	return g, g.ResolveDeps(), nil
}

func loadExtraDepsFile(g *linker.Linker, p string) error {
	f, err := os.Open(p)
	if err != nil {
		return errors.NewResourceReadError(p, err)
	}
	defer f.Close()
	return g.LoadExtraDeps(f)
}
