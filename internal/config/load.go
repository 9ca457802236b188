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

package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gojue/vndkdef/internal/errors"
)

// LoadFile decodes the YAML file at path into v. Keys absent from the file
// keep the values already in v.
func LoadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeConfigMissing, "config file not found").
				WithContext("path", path)
		}
		return errors.NewResourceReadError(path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.NewConfigurationError("failed to decode "+path, err)
	}
	return nil
}
