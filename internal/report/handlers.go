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

package report

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/errors"
	"github.com/gojue/vndkdef/internal/logger"
)

// Collector keeps every diagnostic it receives, in arrival order.
type Collector struct {
	mu    sync.Mutex
	diags []domain.Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Name implements domain.DiagnosticHandler.
func (c *Collector) Name() string { return "collector" }

// Handle implements domain.DiagnosticHandler.
func (c *Collector) Handle(d domain.Diagnostic) error {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
	return nil
}

// Report lets a Collector be used directly as a domain.Reporter.
func (c *Collector) Report(d domain.Diagnostic) {
	_ = c.Handle(d)
}

// Diagnostics returns a copy of everything collected so far.
func (c *Collector) Diagnostics() []domain.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// ByCode returns the collected diagnostics with the given code.
func (c *Collector) ByCode(code errors.ErrorCode) []domain.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []domain.Diagnostic
	for _, d := range c.diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// ErrorCount returns the number of error-severity diagnostics.
func (c *Collector) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Severity == domain.SeverityError {
			n++
		}
	}
	return n
}

// LogHandler writes diagnostics to a zerolog logger.
type LogHandler struct {
	logger *logger.Logger
}

// NewLogHandler creates a handler logging through log.
func NewLogHandler(log *logger.Logger) *LogHandler {
	return &LogHandler{logger: log}
}

// Name implements domain.DiagnosticHandler.
func (h *LogHandler) Name() string { return "log" }

// Handle implements domain.DiagnosticHandler.
func (h *LogHandler) Handle(d domain.Diagnostic) error {
	var ev *zerolog.Event
	if d.Severity == domain.SeverityError {
		ev = h.logger.Error()
	} else {
		ev = h.logger.Warn()
	}
	if d.Path != "" {
		ev = ev.Str("lib", d.Path)
	}
	ev = ev.Str("code", d.Code.String())
	if len(d.Fields) > 0 {
		ev = ev.Fields(d.Fields)
	}
	ev.Msg(d.Message)
	return nil
}
