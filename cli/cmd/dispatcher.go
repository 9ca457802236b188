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

package cmd

import (
	"fmt"

	"github.com/gojue/vndkdef/internal/logger"
	"github.com/gojue/vndkdef/internal/report"
)

// newDiagnosticDispatcher creates a dispatcher that logs every diagnostic
// and keeps a copy for the --strict check.
func newDiagnosticDispatcher(log *logger.Logger) (*report.Dispatcher, *report.Collector, error) {
	dispatcher := report.NewDispatcher(log)

	collector := report.NewCollector()
	if err := dispatcher.Register(collector); err != nil {
		return nil, nil, fmt.Errorf("failed to register collector: %w", err)
	}

	if err := dispatcher.Register(report.NewLogHandler(log)); err != nil {
		return nil, nil, fmt.Errorf("failed to register log handler: %w", err)
	}

	return dispatcher, collector, nil
}
