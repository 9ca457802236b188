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

package encoders

import (
	"github.com/gojue/vndkdef/internal/domain"
)

// PlainEncoder encodes results as plain text using their String() method.
// This is the default encoder.
type PlainEncoder struct{}

// NewPlainEncoder creates a new plain text encoder.
func NewPlainEncoder() *PlainEncoder {
	return &PlainEncoder{}
}

// Encode converts a result to plain text bytes.
func (e *PlainEncoder) Encode(result domain.Result) ([]byte, error) {
	return []byte(result.String()), nil
}

// Name returns the encoder name.
func (e *PlainEncoder) Name() string {
	return "plain"
}
