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

package router

import (
	"context"
	"time"
)

// ResolveEvent describes one completed resolution.
type ResolveEvent struct {
	Method   string
	Path     string
	Result   Result
	Start    time.Time
	Duration time.Duration
}

// Observer is notified after every resolution. Observers run synchronously
// on the resolving goroutine and must be safe for concurrent use.
//
// The metrics and tracing packages provide implementations.
type Observer interface {
	OnResolve(ctx context.Context, ev ResolveEvent)
}

// ObserverFunc is a function adapter for Observer.
type ObserverFunc func(ctx context.Context, ev ResolveEvent)

func (f ObserverFunc) OnResolve(ctx context.Context, ev ResolveEvent) {
	f(ctx, ev)
}
