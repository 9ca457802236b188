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
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// GraphConfig selects the partition trees a dependency graph is built from.
type GraphConfig struct {
	BaseConfig `yaml:",inline"`

	System             []string `json:"system" yaml:"system"`
	Vendor             []string `json:"vendor" yaml:"vendor"`
	SystemDirsAsVendor []string `json:"system_dir_as_vendor" yaml:"system_dir_as_vendor"`
	VendorDirsAsSystem []string `json:"vendor_dir_as_system" yaml:"vendor_dir_as_system"`
	ExtraDeps          []string `json:"extra_deps" yaml:"extra_deps"`

	WarnUnresolvedSymbols bool `json:"warn_unresolved_symbols" yaml:"warn_unresolved_symbols"`
}

// NewGraphConfig creates a GraphConfig with default values.
func NewGraphConfig() *GraphConfig {
	return &GraphConfig{BaseConfig: *NewBaseConfig()}
}

// Validate checks the base options and the partition directories.
func (c *GraphConfig) Validate() error {
	var result *multierror.Error
	if err := c.BaseConfig.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	result = appendEmpty(result, "system", c.System)
	result = appendEmpty(result, "vendor", c.Vendor)
	result = appendEmpty(result, "extra_deps", c.ExtraDeps)
	return wrapValidation(result)
}

func appendEmpty(result *multierror.Error, field string, values []string) *multierror.Error {
	for i, v := range values {
		if v == "" {
			result = multierror.Append(result, fmt.Errorf("%s[%d] must not be empty", field, i))
		}
	}
	return result
}

// HasPartitions reports whether any partition root is configured.
func (c *GraphConfig) HasPartitions() bool {
	return len(c.System) > 0 || len(c.Vendor) > 0
}

// Bytes serializes the configuration to JSON.
func (c *GraphConfig) Bytes() []byte {
	b, err := json.Marshal(c)
	if err != nil {
		return []byte{}
	}
	return b
}
