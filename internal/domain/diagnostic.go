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

import (
	"fmt"

	"github.com/gojue/vndkdef/internal/errors"
)

// Severity tells the caller whether a diagnostic needs action.
type Severity uint8

const (
	// SeverityWarning marks a condition the analysis recovered from.
	SeverityWarning Severity = iota

	// SeverityError marks a condition the caller must act on.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a structured warning or error about one library.
type Diagnostic struct {
	Severity Severity         `json:"severity"`
	Code     errors.ErrorCode `json:"code"`
	Path     string           `json:"path"`
	Message  string           `json:"message"`
	Fields   map[string]any   `json:"fields,omitempty"`
}

// String formats the diagnostic the way it is printed on a terminal.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Path, d.Message)
}

// Warning builds a warning diagnostic.
func Warning(code errors.ErrorCode, path, message string) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Path: path, Message: message}
}

// Error builds an error diagnostic.
func Error(code errors.ErrorCode, path, message string) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Path: path, Message: message}
}

// With returns a copy of d with an extra field set.
func (d Diagnostic) With(key string, value any) Diagnostic {
	fields := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		fields[k] = v
	}
	fields[key] = value
	d.Fields = fields
	return d
}

// Reporter accepts diagnostics produced during scanning, resolution and
// classification.
type Reporter interface {
	// Report records a diagnostic. Implementations must be safe for
	// concurrent use.
	Report(d Diagnostic)
}

// DiagnosticHandler consumes diagnostics fanned out by a dispatcher.
type DiagnosticHandler interface {
	// Handle processes one diagnostic.
	Handle(d Diagnostic) error

	// Name returns the handler's identifier.
	Name() string
}

// NopReporter drops every diagnostic.
type NopReporter struct{}

// Report implements Reporter.
func (NopReporter) Report(Diagnostic) {}
