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
	"os"
)

// StdoutWriter writes to standard output, or to the writer given at
// construction.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a new stdout writer. A nil out means os.Stdout.
func NewStdoutWriter(out io.Writer) *StdoutWriter {
	if out == nil {
		out = os.Stdout
	}
	return &StdoutWriter{out: out}
}

// Write writes data to stdout.
func (w *StdoutWriter) Write(p []byte) (n int, err error) {
	return w.out.Write(p)
}

// Close is a no-op for stdout.
func (w *StdoutWriter) Close() error {
	return nil
}

// Name returns the writer name.
func (w *StdoutWriter) Name() string {
	return "stdout"
}

// Flush is a no-op for stdout (unbuffered).
func (w *StdoutWriter) Flush() error {
	return nil
}
