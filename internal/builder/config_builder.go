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

package builder

import (
	"github.com/gojue/vndkdef/internal/config"
)

// ConfigBuilder provides a fluent interface for building vndk configurations.
type ConfigBuilder struct {
	config *config.VNDKConfig
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: config.NewVNDKConfig(),
	}
}

// FromConfig starts from an existing configuration, such as one decoded by
// config.LoadFile.
func FromConfig(cfg *config.VNDKConfig) *ConfigBuilder {
	return &ConfigBuilder{config: cfg}
}

// WithDebug enables or disables debug mode.
func (b *ConfigBuilder) WithDebug(debug bool) *ConfigBuilder {
	b.config.SetDebug(debug)
	return b
}

// WithJobs sets the number of parallel ELF parsers.
func (b *ConfigBuilder) WithJobs(jobs int) *ConfigBuilder {
	b.config.SetJobs(jobs)
	return b
}

// WithOutput sets the output address and format.
func (b *ConfigBuilder) WithOutput(addr, format string) *ConfigBuilder {
	b.config.SetOutput(addr)
	b.config.SetFormat(format)
	return b
}

// WithStrict makes error diagnostics fail the run.
func (b *ConfigBuilder) WithStrict(strict bool) *ConfigBuilder {
	b.config.SetStrict(strict)
	return b
}

// WithSystemDirs appends system partition roots.
func (b *ConfigBuilder) WithSystemDirs(dirs ...string) *ConfigBuilder {
	b.config.System = append(b.config.System, dirs...)
	return b
}

// WithVendorDirs appends vendor partition roots.
func (b *ConfigBuilder) WithVendorDirs(dirs ...string) *ConfigBuilder {
	b.config.Vendor = append(b.config.Vendor, dirs...)
	return b
}

// WithExtraDeps appends extra dependency files.
func (b *ConfigBuilder) WithExtraDeps(files ...string) *ConfigBuilder {
	b.config.ExtraDeps = append(b.config.ExtraDeps, files...)
	return b
}

// WithGenericRefs sets the generic reference directory.
func (b *ConfigBuilder) WithGenericRefs(dir string) *ConfigBuilder {
	b.config.GenericRefs = dir
	return b
}

// WithBannedLibs appends library names vendor binaries must not use.
func (b *ConfigBuilder) WithBannedLibs(names ...string) *ConfigBuilder {
	b.config.BanVendorLibDeps = append(b.config.BanVendorLibDeps, names...)
	return b
}

// WithOutwardCustomization sets the default partition and the per library
// overrides for outward customized libraries.
func (b *ConfigBuilder) WithOutwardCustomization(defaultPartition string, forSystem, forVendor []string) *ConfigBuilder {
	b.config.OutwardCustomizationDefaultPartition = defaultPartition
	b.config.OutwardCustomizationForSystem = append(b.config.OutwardCustomizationForSystem, forSystem...)
	b.config.OutwardCustomizationForVendor = append(b.config.OutwardCustomizationForVendor, forVendor...)
	return b
}

// WithWarnings toggles the optional diagnostics.
func (b *ConfigBuilder) WithWarnings(incorrectPartition, highLevelNDKDeps, bannedVendorLibDeps bool) *ConfigBuilder {
	b.config.WarnIncorrectPartition = incorrectPartition
	b.config.WarnHighLevelNDKDeps = highLevelNDKDeps
	b.config.WarnBannedVendorLibDeps = bannedVendorLibDeps
	return b
}

// WithVNDKVersion sets the version used for vanilla vndk-core paths.
func (b *ConfigBuilder) WithVNDKVersion(version int) *ConfigBuilder {
	b.config.VNDKVersion = version
	return b
}

// Build validates and returns the built configuration.
func (b *ConfigBuilder) Build() (*config.VNDKConfig, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// MustBuild builds the configuration and panics on error.
// Use this only when you are certain the configuration is valid.
func (b *ConfigBuilder) MustBuild() *config.VNDKConfig {
	cfg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cfg
}
