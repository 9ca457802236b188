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
	"bufio"
	"fmt"
	"os"
)

// FileWriter writes output to a local file.
type FileWriter struct {
	file     *os.File
	buffered *bufio.Writer
	path     string
}

// FileWriterConfig configures file writer options.
type FileWriterConfig struct {
	Path       string // File path
	Append     bool   // Append instead of truncating
	BufferSize int    // Buffer size in bytes (0 = unbuffered)
}

// NewFileWriter creates a new file writer.
func NewFileWriter(config FileWriterConfig) (*FileWriter, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if config.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(config.Path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", config.Path, err)
	}

	fw := &FileWriter{
		file: file,
		path: config.Path,
	}
	if config.BufferSize > 0 {
		fw.buffered = bufio.NewWriterSize(file, config.BufferSize)
	}
	return fw, nil
}

// Write writes data to the file.
func (w *FileWriter) Write(p []byte) (n int, err error) {
	if w.buffered != nil {
		return w.buffered.Write(p)
	}
	return w.file.Write(p)
}

// Close flushes and closes the file.
func (w *FileWriter) Close() error {
	if err := w.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Name returns the writer name.
func (w *FileWriter) Name() string {
	return fmt.Sprintf("file:%s", w.path)
}

// Flush flushes any buffered data to disk.
func (w *FileWriter) Flush() error {
	if w.buffered != nil {
		if err := w.buffered.Flush(); err != nil {
			return err
		}
	}
	return w.file.Sync()
}
