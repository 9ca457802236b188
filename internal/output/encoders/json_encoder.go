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
	"bytes"
	"encoding/json"

	"github.com/gojue/vndkdef/internal/domain"
	"github.com/gojue/vndkdef/internal/errors"
)

// JSONEncoder writes one JSON document per result. Library paths are
// written verbatim, without HTML escaping.
type JSONEncoder struct {
	indent string
}

// NewJSONEncoder returns a compact encoder, or an indenting one when pretty
// is set.
func NewJSONEncoder(pretty bool) *JSONEncoder {
	if pretty {
		return &JSONEncoder{indent: "  "}
	}
	return &JSONEncoder{}
}

func (e *JSONEncoder) Encode(result domain.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if e.indent != "" {
		enc.SetIndent("", e.indent)
	}
	// json.Encoder terminates the document with a newline.
	if err := enc.Encode(result); err != nil {
		return nil, errors.Wrap(errors.ErrCodeResourceWrite, "failed to encode result as json", err)
	}
	return buf.Bytes(), nil
}

func (e *JSONEncoder) Name() string {
	if e.indent != "" {
		return "json-pretty"
	}
	return "json"
}
