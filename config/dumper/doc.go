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

// Package dumper writes a merged route-table document to a destination.
//
// Dumpers are used by [pathwise.dev/config.Config.Dump] and by the
// "pathwise check --dump" command to show the effective table after all
// sources were merged.
//
//	encoder, _ := codec.GetEncoder(codec.TypeYAML)
//	err := cfg.Dump(ctx, dumper.NewFile("effective.yaml", encoder))
package dumper
