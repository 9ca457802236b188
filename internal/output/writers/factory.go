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

package writers

import (
	"io"

	"github.com/gojue/vndkdef/internal/logger"
)

// OutputWriter is a destination for encoded listings. Close flushes
// whatever is still buffered.
type OutputWriter interface {
	io.WriteCloser

	// Name identifies the destination in logs, e.g. "stdout" or
	// "file:/tmp/vndk.txt".
	Name() string
	Flush() error
}

// WriterFactory maps an output address to an OutputWriter.
type WriterFactory struct {
	stdout io.Writer
	logger *logger.Logger
}

// NewWriterFactory creates a new writer factory. stdout replaces os.Stdout
// and logger receives output sent to "log"; both may be nil.
func NewWriterFactory(stdout io.Writer, logger *logger.Logger) *WriterFactory {
	return &WriterFactory{stdout: stdout, logger: logger}
}

// CreateWriter creates an OutputWriter based on the address format:
// - Empty or "stdout": stdout
// - "log": the logger, one info entry per line
// - Any other path: local file, truncated
func (f *WriterFactory) CreateWriter(addr string) (OutputWriter, error) {
	switch addr {
	case "", "stdout":
		return NewStdoutWriter(f.stdout), nil
	case "log":
		log := f.logger
		if log == nil {
			log = logger.New(nil, false)
		}
		return NewLoggerWriter(log), nil
	}

	return NewFileWriter(FileWriterConfig{
		Path:       addr,
		BufferSize: 64 * 1024,
	})
}
