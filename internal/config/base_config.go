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
	"runtime"

	"github.com/hashicorp/go-multierror"

	"github.com/gojue/vndkdef/internal/errors"
)

// Output formats.
const (
	FormatPlain = "plain"
	FormatJSON  = "json"
)

// DefaultOutput is the output address used when none is given.
const DefaultOutput = "stdout"

// BaseConfig holds the options shared by every subcommand.
type BaseConfig struct {
	Debug  bool   `json:"debug" yaml:"debug"`
	Jobs   int    `json:"jobs" yaml:"jobs"`
	Output string `json:"output" yaml:"output"`
	Format string `json:"format" yaml:"format"`
	Strict bool   `json:"strict" yaml:"strict"`
}

// NewBaseConfig creates a new BaseConfig with default values.
func NewBaseConfig() *BaseConfig {
	return &BaseConfig{
		Debug:  false,
		Jobs:   runtime.NumCPU(),
		Output: DefaultOutput,
		Format: FormatPlain,
		Strict: false,
	}
}

// Validate checks if the configuration is valid.
func (c *BaseConfig) Validate() error {
	var result *multierror.Error
	if c.Jobs <= 0 {
		result = multierror.Append(result, fmt.Errorf("jobs must be positive, got %d", c.Jobs))
	}
	if c.Output == "" {
		result = multierror.Append(result, fmt.Errorf("output must not be empty"))
	}
	if c.Format != FormatPlain && c.Format != FormatJSON {
		result = multierror.Append(result, fmt.Errorf("invalid format: %q", c.Format))
	}
	return wrapValidation(result)
}

func wrapValidation(result *multierror.Error) error {
	if err := result.ErrorOrNil(); err != nil {
		return errors.NewConfigValidationError(err)
	}
	return nil
}

// GetDebug returns whether debug logging is enabled.
func (c *BaseConfig) GetDebug() bool {
	return c.Debug
}

// SetDebug sets the debug mode.
func (c *BaseConfig) SetDebug(debug bool) {
	c.Debug = debug
}

// GetJobs returns the number of parallel ELF parsers.
func (c *BaseConfig) GetJobs() int {
	return c.Jobs
}

// SetJobs sets the number of parallel ELF parsers.
func (c *BaseConfig) SetJobs(jobs int) {
	c.Jobs = jobs
}

// GetOutput returns the output address.
func (c *BaseConfig) GetOutput() string {
	return c.Output
}

// SetOutput sets the output address.
func (c *BaseConfig) SetOutput(addr string) {
	c.Output = addr
}

// GetFormat returns the output format.
func (c *BaseConfig) GetFormat() string {
	return c.Format
}

// SetFormat sets the output format.
func (c *BaseConfig) SetFormat(format string) {
	c.Format = format
}

// GetStrict returns whether error diagnostics fail the run.
func (c *BaseConfig) GetStrict() bool {
	return c.Strict
}

// SetStrict sets strict mode.
func (c *BaseConfig) SetStrict(strict bool) {
	c.Strict = strict
}

// Bytes serializes the configuration to JSON.
func (c *BaseConfig) Bytes() []byte {
	b, err := json.Marshal(c)
	if err != nil {
		return []byte{}
	}
	return b
}
