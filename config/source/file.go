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

package source

import (
	"context"
	"fmt"
	"os"

	"pathwise.dev/config/codec"
)

// File loads a document from a file on every Load, so edits are picked up
// by a watching config.
type File struct {
	path    string
	decoder codec.Decoder
}

// NewFile creates a File source decoding path with decoder.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// Load reads and decodes the file.
func (f *File) Load(context.Context) (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return decode(f.decoder, data, "file")
}

// String returns the file path.
func (f *File) String() string {
	return "file:" + f.path
}

// Content is a source over an in-memory document, such as embedded
// defaults.
type Content struct {
	data    []byte
	decoder codec.Decoder
}

// NewContent creates a Content source.
func NewContent(data []byte, decoder codec.Decoder) *Content {
	return &Content{data: data, decoder: decoder}
}

// Load decodes the content.
func (c *Content) Load(context.Context) (map[string]any, error) {
	return decode(c.decoder, c.data, "content")
}

func (c *Content) String() string {
	return "content"
}

func decode(decoder codec.Decoder, data []byte, what string) (map[string]any, error) {
	var conf map[string]any
	if err := decoder.Decode(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", what, err)
	}
	if conf == nil {
		conf = make(map[string]any)
	}
	return conf, nil
}
