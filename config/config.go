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
	"log/slog"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"

	"pathwise.dev/config/codec"
	"pathwise.dev/config/source"
)

// Source loads one configuration document.
//
// Load must be safe to call concurrently and should return a fresh map on
// every call.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// Option is a functional option that configures a Config.
type Option func(c *Config) error

// Config loads, merges, validates and binds route-table documents.
//
// Config is safe for concurrent use by multiple goroutines.
type Config struct {
	sources    []Source
	schema     *jsonschema.Schema
	validators []func(map[string]any) error
	logger     *slog.Logger

	mu     sync.RWMutex
	values map[string]any
	table  *Table
}

// New creates a Config. Option errors are joined; the returned Config is
// usable for the options that succeeded.
func New(options ...Option) (*Config, error) {
	c := &Config{
		values: map[string]any{},
		table:  &Table{},
		logger: slog.New(slog.DiscardHandler),
	}

	var errs error
	if s, err := compileSchema(tableSchema); err != nil {
		errs = errors.Join(errs, NewError("json-schema", "compile", err))
	} else {
		c.schema = s
	}

	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(c); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return c, errs
}

// MustNew creates a Config and panics if any option fails.
func MustNew(options ...Option) *Config {
	cfg, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create config: %v", err))
	}
	return cfg
}

// WithSource adds a custom source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return NewError("source", "add", errors.New("source is nil"))
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithFile adds a file source. The format is detected from the extension
// (.yaml, .yml, .json, .toml, .env) and the path is expanded with
// [os.ExpandEnv].
func WithFile(path string) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)
		format, err := codec.ForPath(path)
		if err != nil {
			return NewError("file:"+path, "detect-format", err)
		}
		return WithFileAs(path, format)(c)
	}
}

// WithFileAs adds a file source decoded with an explicit codec.
func WithFileAs(path string, codecType codec.Type) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("file:"+path, "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewFile(path, decoder))
		return nil
	}
}

// WithContent adds an in-memory document.
func WithContent(data []byte, codecType codec.Type) Option {
	return func(c *Config) error {
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("content", "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewContent(data, decoder))
		return nil
	}
}

// WithEnv adds environment variables starting with prefix. Nested keys are
// separated by a double underscore:
//
//	PATHWISE_ROUTER__CASE_SENSITIVE=true
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewOSEnvVar(prefix))
		return nil
	}
}

// WithConsul adds a document stored in Consul KV, decoded by the extension
// of path. The option is skipped when CONSUL_HTTP_ADDR is not set, so the
// same configuration works on machines without an agent.
func WithConsul(path string) Option {
	return func(c *Config) error {
		if os.Getenv("CONSUL_HTTP_ADDR") == "" {
			return nil
		}
		return WithConsulKV(path, nil)(c)
	}
}

// WithConsulKV adds a Consul KV document read through kv. A nil kv uses a
// client configured from the environment.
func WithConsulKV(path string, kv source.ConsulKV) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)
		format, err := codec.ForPath(path)
		if err != nil {
			return NewError("consul:"+path, "detect-format", err)
		}
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return NewError("consul:"+path, "get-decoder", err)
		}
		src, err := source.NewConsul(path, decoder, kv)
		if err != nil {
			return NewError("consul:"+path, "connect", err)
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithJSONSchema replaces the built-in route-table schema.
func WithJSONSchema(schema []byte) Option {
	return func(c *Config) error {
		s, err := compileSchema(schema)
		if err != nil {
			return NewError("json-schema", "compile", err)
		}
		c.schema = s
		return nil
	}
}

// WithValidator adds a validation function run on the merged document after
// schema validation.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		c.validators = append(c.validators, fn)
		return nil
	}
}

// WithLogger sets the logger used by Load and Watch.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// sourceName labels a source in errors.
func sourceName(i int, src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("source[%d]", i)
}

// loadSources loads and merges all sources in order.
func (c *Config) loadSources(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(sourceName(i, src), "load", err)
		}
		normalized, _ := normalize(doc).(map[string]any)
		if normalized == nil {
			normalized = make(map[string]any)
		}
		if err = mergeDocument(merged, normalized); err != nil {
			return nil, NewError(sourceName(i, src), "merge", err)
		}
	}
	return merged, nil
}

// Load reads all sources, validates the merged document and binds it to a
// new Table. The current values and table are replaced only when every step
// succeeds.
//
// Errors are [*Error] values naming the failing step.
func (c *Config) Load(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context cannot be nil")
	}

	values, err := c.loadSources(ctx)
	if err != nil {
		return err
	}

	if c.schema != nil {
		doc, err := jsonValue(values)
		if err != nil {
			return NewError("json-schema", "encode", err)
		}
		if err = c.schema.Validate(doc); err != nil {
			return NewError("json-schema", "validate", err)
		}
	}

	for i, fn := range c.validators {
		if fn == nil {
			continue
		}
		if err := runValidator(fn, values); err != nil {
			return NewError(fmt.Sprintf("custom-validator[%d]", i), "validate", err)
		}
	}

	table := &Table{}
	if err := bind(values, table); err != nil {
		return NewError("binding", "bind", err)
	}
	if err := table.Validate(); err != nil {
		return NewError("binding", "validate", err)
	}

	c.mu.Lock()
	c.values = values
	c.table = table
	c.mu.Unlock()

	c.logger.Debug("route table loaded", "sources", len(c.sources), "routes", len(table.Routes))
	return nil
}

// MustLoad loads configuration or panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(err)
	}
}

func runValidator(fn func(map[string]any) error, values map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator panic: %v", r)
		}
	}()
	return fn(values)
}

// bind decodes values into out using "config" struct tags. Scalars are
// weakly typed so environment strings bind to booleans.
func bind(values map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err = decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	return nil
}

// Table returns the table bound by the last successful Load. The returned
// table must not be modified.
func (c *Config) Table() *Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table
}

// Values returns the merged document of the last successful Load.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values
}

// Get returns the value at a dot-separated, case-insensitive path such as
// "router.case_sensitive", or nil.
func (c *Config) Get(key string) any {
	if c == nil || key == "" {
		return nil
	}

	c.mu.RLock()
	current := c.values
	c.mu.RUnlock()

	segments := strings.Split(strings.ToLower(key), ".")
	for i, seg := range segments {
		v, ok := current[seg]
		if !ok {
			return nil
		}
		if i == len(segments)-1 {
			return v
		}
		if current, ok = v.(map[string]any); !ok {
			return nil
		}
	}
	return nil
}

// String returns the value at key as a string, or "".
func (c *Config) String(key string) string {
	return cast.ToString(c.Get(key))
}

// Bool returns the value at key as a bool, or false.
func (c *Config) Bool(key string) bool {
	return cast.ToBool(c.Get(key))
}

// Int returns the value at key as an int, or 0.
func (c *Config) Int(key string) int {
	return cast.ToInt(c.Get(key))
}

// Duration returns the value at key as a duration, or 0.
func (c *Config) Duration(key string) time.Duration {
	return cast.ToDuration(c.Get(key))
}

// StringOr returns the value at key as a string, or def when absent.
func (c *Config) StringOr(key, def string) string {
	v := c.Get(key)
	if v == nil {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// sameValues reports whether two merged documents are identical.
func sameValues(a, b map[string]any) bool {
	return reflect.DeepEqual(a, b)
}
