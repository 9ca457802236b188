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

// Outward customization partitions.
const (
	PartitionSystem = "system"
	PartitionVendor = "vendor"
	PartitionBoth   = "both"
)

// DefaultVNDKVersion is the version used for vanilla vndk-core paths.
const DefaultVNDKVersion = 26

// VNDKConfig holds the options of the vndk subcommand.
type VNDKConfig struct {
	GraphConfig `yaml:",inline"`

	GenericRefs      string   `json:"generic_refs" yaml:"generic_refs"`
	BanVendorLibDeps []string `json:"ban_vendor_lib_dep" yaml:"ban_vendor_lib_dep"`

	OutwardCustomizationDefaultPartition string   `json:"outward_customization_default_partition" yaml:"outward_customization_default_partition"`
	OutwardCustomizationForSystem        []string `json:"outward_customization_for_system" yaml:"outward_customization_for_system"`
	OutwardCustomizationForVendor        []string `json:"outward_customization_for_vendor" yaml:"outward_customization_for_vendor"`

	WarnIncorrectPartition  bool `json:"warn_incorrect_partition" yaml:"warn_incorrect_partition"`
	WarnHighLevelNDKDeps    bool `json:"warn_high_level_ndk_deps" yaml:"warn_high_level_ndk_deps"`
	WarnBannedVendorLibDeps bool `json:"warn_banned_vendor_lib_deps" yaml:"warn_banned_vendor_lib_deps"`

	VNDKVersion int `json:"vndk_version" yaml:"vndk_version"`
}

// NewVNDKConfig creates a VNDKConfig with default values.
func NewVNDKConfig() *VNDKConfig {
	return &VNDKConfig{
		GraphConfig:                          *NewGraphConfig(),
		OutwardCustomizationDefaultPartition: PartitionSystem,
		VNDKVersion:                          DefaultVNDKVersion,
	}
}

// Validate checks the graph options and the classification options.
func (c *VNDKConfig) Validate() error {
	var result *multierror.Error
	if err := c.GraphConfig.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	switch c.OutwardCustomizationDefaultPartition {
	case PartitionSystem, PartitionVendor, PartitionBoth:
	default:
		result = multierror.Append(result, fmt.Errorf(
			"invalid outward customization default partition: %q", c.OutwardCustomizationDefaultPartition))
	}
	if c.VNDKVersion <= 0 {
		result = multierror.Append(result, fmt.Errorf("vndk_version must be positive, got %d", c.VNDKVersion))
	}
	result = appendEmpty(result, "ban_vendor_lib_dep", c.BanVendorLibDeps)
	result = appendEmpty(result, "outward_customization_for_system", c.OutwardCustomizationForSystem)
	result = appendEmpty(result, "outward_customization_for_vendor", c.OutwardCustomizationForVendor)
	return wrapValidation(result)
}

// Bytes serializes the configuration to JSON.
func (c *VNDKConfig) Bytes() []byte {
	b, err := json.Marshal(c)
	if err != nil {
		return []byte{}
	}
	return b
}
