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
	"bytes"

	"github.com/gojue/vndkdef/internal/logger"
)

// LoggerWriter sends every output line to the logger at info level.
type LoggerWriter struct {
	logger *logger.Logger
	buf    bytes.Buffer
}

// NewLoggerWriter creates a new logger writer.
func NewLoggerWriter(logger *logger.Logger) *LoggerWriter {
	return &LoggerWriter{
		logger: logger,
	}
}

// Write logs complete lines and keeps a trailing partial line until the next
// Write or Flush.
func (w *LoggerWriter) Write(p []byte) (n int, err error) {
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := w.buf.Next(i + 1)
		w.logger.Info().Msg(string(line[:i]))
	}
	return len(p), nil
}

// Close flushes the pending partial line.
func (w *LoggerWriter) Close() error {
	return w.Flush()
}

// Name returns the writer name.
func (w *LoggerWriter) Name() string {
	return "log"
}

// Flush logs the pending partial line, if any.
func (w *LoggerWriter) Flush() error {
	if w.buf.Len() > 0 {
		w.logger.Info().Msg(w.buf.String())
		w.buf.Reset()
	}
	return nil
}
