// Copyright 2025 The Pathwise Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Dumper writes the merged document somewhere.
type Dumper interface {
	Dump(ctx context.Context, values map[string]any) error
}

// Dump writes the document of the last successful Load to every dumper.
func (c *Config) Dump(ctx context.Context, dumpers ...Dumper) error {
	values := c.Values()
	for i, d := range dumpers {
		if d == nil {
			continue
		}
		if err := d.Dump(ctx, values); err != nil {
			return NewError(fmt.Sprintf("dumper[%d]", i), "dump", err)
		}
	}
	return nil
}

// Watch reloads every interval and calls fn with the new table whenever
// the merged document changes. Load errors are logged and the previous
// table stays in effect. Watch blocks until ctx is done and returns nil on
// cancellation.
func (c *Config) Watch(ctx context.Context, interval time.Duration, fn func(*Table)) error {
	if interval <= 0 {
		return errors.New("watch interval must be positive")
	}
	if fn == nil {
		return errors.New("watch callback is nil")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		previous := c.Values()
		if err := c.Load(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("route table reload failed", "error", err)
			continue
		}
		if sameValues(previous, c.Values()) {
			continue
		}
		c.logger.Info("route table changed", "routes", len(c.Table().Routes))
		fn(c.Table())
	}
}
