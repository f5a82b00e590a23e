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

// Package codec converts route-table documents between bytes and Go values.
//
// Built-in codecs register themselves under a [Type]:
//
//   - [TypeYAML]: github.com/goccy/go-yaml
//   - [TypeTOML]: github.com/BurntSushi/toml
//   - [TypeJSON]: encoding/json
//   - [TypeEnvVar]: KEY=value lines, "__" separating nested keys
//
// [ForPath] picks a type from a file extension. Additional formats are added
// with [RegisterEncoder] and [RegisterDecoder].
package codec
