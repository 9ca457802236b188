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

// Package logger configures the zerolog console logger shared by the
// scanner, the classifier and the command line.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is a zerolog.Logger with helpers for the fields this tool tags
// its entries with.
type Logger struct {
	*zerolog.Logger
}

// New returns a console logger writing to out, stderr when out is nil.
// Entries below info are dropped unless debug is set. Colors are used only
// when out is a terminal.
func New(out io.Writer, debug bool) *Logger {
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !isTerminal(out),
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()
	return &Logger{&zlog}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	zlog := zerolog.Nop()
	return &Logger{&zlog}
}

// WithComponent tags entries with the subsystem emitting them, e.g. "scan".
func (l *Logger) WithComponent(component string) *Logger {
	child := l.Logger.With().Str("component", component).Logger()
	return &Logger{&child}
}

// WithLib tags entries with a library path.
func (l *Logger) WithLib(path string) *Logger {
	child := l.Logger.With().Str("lib", path).Logger()
	return &Logger{&child}
}
