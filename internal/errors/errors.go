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

package errors

import (
	"fmt"
)

// ErrorCode defines standardized error codes for vndkdef.
type ErrorCode int

const (
	// ErrCodeUnknown represents an unknown error.
	ErrCodeUnknown ErrorCode = 0

	// Configuration errors (1xx)
	ErrCodeConfiguration    ErrorCode = 101
	ErrCodeConfigValidation ErrorCode = 102
	ErrCodeConfigMissing    ErrorCode = 103

	// ELF errors (2xx)
	ErrCodeELFParse          ErrorCode = 201
	ErrCodeELFEmpty          ErrorCode = 202
	ErrCodeELFMissingSection ErrorCode = 203

	// Dependency graph errors (3xx)
	ErrCodeMissingDep          ErrorCode = 301
	ErrCodeUnresolvedSymbol    ErrorCode = 302
	ErrCodeCrossPartitionDep   ErrorCode = 303
	ErrCodePartitionReassigned ErrorCode = 304
	ErrCodeIncorrectPartition  ErrorCode = 305

	// Classification errors (4xx)
	ErrCodeVNDKModified    ErrorCode = 401
	ErrCodeNDKExtended     ErrorCode = 402
	ErrCodeHighLevelNDKDep ErrorCode = 403
	ErrCodeBannedLibDep    ErrorCode = 404

	// Resource errors (5xx)
	ErrCodeResourceNotFound ErrorCode = 501
	ErrCodeResourceRead     ErrorCode = 502
	ErrCodeResourceWrite    ErrorCode = 503
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:             "unknown",
	ErrCodeConfiguration:       "configuration",
	ErrCodeConfigValidation:    "config-validation",
	ErrCodeConfigMissing:       "config-missing",
	ErrCodeELFParse:            "elf-parse",
	ErrCodeELFEmpty:            "elf-empty",
	ErrCodeELFMissingSection:   "elf-missing-section",
	ErrCodeMissingDep:          "missing-dep",
	ErrCodeUnresolvedSymbol:    "unresolved-symbol",
	ErrCodeCrossPartitionDep:   "cross-partition-dep",
	ErrCodePartitionReassigned: "partition-reassigned",
	ErrCodeIncorrectPartition:  "incorrect-partition",
	ErrCodeVNDKModified:        "vndk-modified",
	ErrCodeNDKExtended:         "ndk-extended",
	ErrCodeHighLevelNDKDep:     "high-level-ndk-dep",
	ErrCodeBannedLibDep:        "banned-lib-dep",
	ErrCodeResourceNotFound:    "resource-not-found",
	ErrCodeResourceRead:        "resource-read",
	ErrCodeResourceWrite:       "resource-write",
}

// String returns the short kebab-case name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code-%d", int(c))
}

// Error represents a structured error in vndkdef.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error carrying the same code and message.
// It lets sentinel errors such as ErrNoDynamic match after WithContext.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithContext adds contextual information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// CodeOf returns the code of the first *Error in err's chain, or
// ErrCodeUnknown.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrCodeUnknown
}

// NewConfigurationError creates a configuration error.
func NewConfigurationError(message string, cause error) *Error {
	return Wrap(ErrCodeConfiguration, message, cause)
}

// NewConfigValidationError creates a configuration validation error.
func NewConfigValidationError(cause error) *Error {
	return Wrap(ErrCodeConfigValidation, "invalid configuration", cause)
}

// NewELFParseError creates an ELF parse error for the named file.
func NewELFParseError(path string, cause error) *Error {
	return Wrap(ErrCodeELFParse, fmt.Sprintf("bad ELF file '%s'", path), cause).
		WithContext("path", path)
}

// NewResourceNotFoundError creates a resource not found error.
func NewResourceNotFoundError(resource string) *Error {
	return New(ErrCodeResourceNotFound, fmt.Sprintf("resource not found: %s", resource))
}

// NewResourceReadError creates a read failure error.
func NewResourceReadError(resource string, cause error) *Error {
	return Wrap(ErrCodeResourceRead, fmt.Sprintf("failed to read '%s'", resource), cause)
}

// NewResourceWriteError creates a write failure error.
func NewResourceWriteError(resource string, cause error) *Error {
	return Wrap(ErrCodeResourceWrite, fmt.Sprintf("failed to write '%s'", resource), cause)
}
