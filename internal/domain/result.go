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

package domain

import "strings"

// Result is anything a subcommand prints. Plain output uses String, JSON
// output marshals the value itself.
type Result interface {
	String() string
}

// Section is a labelled, sorted list of library paths.
type Section struct {
	Label string   `json:"label"`
	Paths []string `json:"paths"`
}

// SectionList is the result of vndk, sp-hal, vndk-stable and deps-closure.
// An empty label prints bare paths.
type SectionList struct {
	Sections []Section `json:"sections"`
}

func (l *SectionList) String() string {
	var sb strings.Builder
	for _, s := range l.Sections {
		for _, p := range s.Paths {
			if s.Label != "" {
				sb.WriteString(s.Label)
				sb.WriteString(": ")
			}
			sb.WriteString(p)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Add appends a section.
func (l *SectionList) Add(label string, paths []string) {
	if paths == nil {
		paths = []string{}
	}
	l.Sections = append(l.Sections, Section{Label: label, Paths: paths})
}

// DepsEntry is one library and its associated (dependency or user) paths.
type DepsEntry struct {
	Path  string   `json:"path"`
	Assoc []string `json:"assoc"`
}

// DepsList is the result of the deps subcommand.
type DepsList struct {
	Entries []DepsEntry `json:"entries"`
	Leaf    bool        `json:"-"`
}

func (l *DepsList) String() string {
	var sb strings.Builder
	for _, e := range l.Entries {
		if l.Leaf {
			if len(e.Assoc) == 0 {
				sb.WriteString(e.Path)
				sb.WriteByte('\n')
			}
			continue
		}
		sb.WriteString(e.Path)
		sb.WriteByte('\n')
		for _, a := range e.Assoc {
			sb.WriteByte('\t')
			sb.WriteString(a)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
