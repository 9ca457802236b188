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

// Package output encodes subcommand results and writes them to the
// configured destination.
package output

import (
	"io"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/errors"
	"github.com/gojue/vndkdef/internal/logger"
	"github.com/gojue/vndkdef/internal/output/encoders"
	"github.com/gojue/vndkdef/internal/output/writers"
)

// Printer pairs an encoder with a writer.
type Printer struct {
	enc encoders.Encoder
	w   writers.OutputWriter
}

// NewPrinter opens addr and selects the encoder for format. stdout replaces
// os.Stdout when addr is "stdout"; it may be nil.
func NewPrinter(addr, format string, stdout io.Writer, log *logger.Logger) (*Printer, error) {
	enc, err := encoders.New(format)
	if err != nil {
		return nil, errors.NewConfigurationError("invalid output format", err)
	}
	w, err := writers.NewWriterFactory(stdout, log).CreateWriter(addr)
	if err != nil {
		return nil, errors.NewResourceWriteError(addr, err)
	}
	return &Printer{enc: enc, w: w}, nil
}

// Print encodes r and writes it.
func (p *Printer) Print(r domain.Result) error {
	data, err := p.enc.Encode(r)
	if err != nil {
		return err
	}
	if _, err := p.w.Write(data); err != nil {
		return errors.NewResourceWriteError(p.w.Name(), err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Printer) Close() error {
	return p.w.Close()
}
