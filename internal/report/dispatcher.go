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

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/errors"
	"github.com/gojue/vndkdef/internal/logger"
)

// Dispatcher fans diagnostics out to registered handlers.
// It implements domain.Reporter and is safe for concurrent use.
type Dispatcher struct {
	handlers []domain.DiagnosticHandler
	mu       sync.RWMutex
	logger   *logger.Logger
	closed   bool
}

// NewDispatcher creates a new diagnostic dispatcher.
func NewDispatcher(log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		handlers: make([]domain.DiagnosticHandler, 0, 2),
		logger:   log,
	}
}

// Register adds a diagnostic handler. Handlers are invoked in registration
// order.
func (d *Dispatcher) Register(handler domain.DiagnosticHandler) error {
	if handler == nil {
		return errors.New(errors.ErrCodeConfiguration, "handler cannot be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return errors.New(errors.ErrCodeConfiguration, "dispatcher is closed")
	}

	for _, h := range d.handlers {
		if h.Name() == handler.Name() {
			return errors.New(errors.ErrCodeConfiguration, "handler already registered").
				WithContext("handler", handler.Name())
		}
	}

	d.handlers = append(d.handlers, handler)
	d.logger.Debug().
		Str("handler", handler.Name()).
		Msg("Diagnostic handler registered")

	return nil
}

// Unregister removes a handler by name.
func (d *Dispatcher) Unregister(handlerName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return errors.New(errors.ErrCodeConfiguration, "dispatcher is closed")
	}

	for i, h := range d.handlers {
		if h.Name() == handlerName {
			d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
			return nil
		}
	}
	return errors.NewResourceNotFoundError("handler: " + handlerName)
}

// Report implements domain.Reporter.
func (d *Dispatcher) Report(diag domain.Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	for _, handler := range d.handlers {
		if err := handler.Handle(diag); err != nil {
			d.logger.Debug().
				Err(err).
				Str("handler", handler.Name()).
				Msg("Handler failed to process diagnostic")
		}
	}
}

// Close stops the dispatcher. Later reports are dropped.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.handlers = nil
	return nil
}

// HandlerCount returns the number of registered handlers.
func (d *Dispatcher) HandlerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers)
}
