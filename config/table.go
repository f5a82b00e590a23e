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
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"pathwise.dev/router"
	"pathwise.dev/router/route"
)

// ErrRouteMethod is returned for a route without any method.
var ErrRouteMethod = errors.New("route needs method or methods")

// ErrNamedMultiMethod is returned for a named route with several methods,
// since route names must be unique.
var ErrNamedMultiMethod = errors.New("named route must have a single method")

// ErrInvalidValue is returned for a table field violating its constraints.
var ErrInvalidValue = errors.New("invalid value")

// Table is a bound route table document.
type Table struct {
	Router RouterSettings `config:"router" json:"router"`
	Log    LogSettings    `config:"log" json:"log"`
	Routes []RouteEntry   `config:"routes" json:"routes" validate:"dive"`
}

// RouterSettings configures the router built from a table.
type RouterSettings struct {
	CaseSensitive   bool `config:"case_sensitive" json:"case_sensitive"`
	AllowDuplicates bool `config:"allow_duplicates" json:"allow_duplicates"`
}

// LogSettings configures logging of tools serving the table.
type LogSettings struct {
	Level  string `config:"level" json:"level,omitempty" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `config:"format" json:"format,omitempty" validate:"omitempty,oneof=json text console pretty"`
}

// RouteEntry is one route of a table. Method and Methods may be combined;
// the route is registered once per distinct method.
type RouteEntry struct {
	Method               string           `config:"method" json:"method,omitempty" validate:"omitempty,alpha"`
	Methods              []string         `config:"methods" json:"methods,omitempty" validate:"dive,required,alpha"`
	Path                 string           `config:"path" json:"path" validate:"required"`
	Name                 string           `config:"name" json:"name,omitempty" validate:"omitempty,printascii"`
	Module               string           `config:"module" json:"module,omitempty"`
	RequireWildcardValue bool             `config:"require_wildcard_value" json:"require_wildcard_value,omitempty"`
	When                 []ConditionEntry `config:"when" json:"when,omitempty" validate:"dive"`
	Metadata             map[string]any   `config:"metadata" json:"metadata,omitempty"`
}

// methods returns the distinct upper-cased methods of e in declaration order.
func (e RouteEntry) methods() []string {
	all := append([]string{e.Method}, e.Methods...)
	out := make([]string, 0, len(all))
	seen := make(map[string]struct{}, len(all))
	for _, m := range all {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

var (
	tagValidatorOnce sync.Once
	tagValidator     *validator.Validate
)

// structValidator returns the shared validator for the `validate` tags,
// reporting fields by their config names.
func structValidator() *validator.Validate {
	tagValidatorOnce.Do(func() {
		tagValidator = validator.New(validator.WithRequiredStructEnabled())
		tagValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("config"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return tagValidator
}

// Validate checks the field constraints and the entries beyond what the
// schema expresses. A table bound under a custom schema is checked the
// same way.
func (t *Table) Validate() error {
	var errs []error

	var verrs validator.ValidationErrors
	if err := structValidator().Struct(t); errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := strings.TrimPrefix(fe.Namespace(), "Table.")
			errs = append(errs, NewFieldError("table", field, "validate",
				fmt.Errorf("%w: %q fails %s", ErrInvalidValue, fmt.Sprint(fe.Value()), fe.Tag())))
		}
	} else if err != nil {
		errs = append(errs, NewError("table", "validate", err))
	}

	for i, e := range t.Routes {
		methods := e.methods()
		if len(methods) == 0 {
			errs = append(errs, NewFieldError("routes", fmt.Sprintf("[%d]", i), "validate", ErrRouteMethod))
		}
		if e.Name != "" && len(methods) > 1 {
			errs = append(errs, NewFieldError("routes", fmt.Sprintf("[%d]", i), "validate", ErrNamedMultiMethod))
		}
		for j, c := range e.When {
			if _, err := c.predicate(); err != nil {
				errs = append(errs, NewFieldError("routes", fmt.Sprintf("[%d].when[%d]", i, j), "validate", err))
			}
		}
	}
	return errors.Join(errs...)
}

// Descriptions converts the table into route descriptions, one per route
// and method, in table order. Entry metadata becomes the description
// metadata.
func (t *Table) Descriptions() ([]route.Description, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	out := make([]route.Description, 0, len(t.Routes))
	for _, e := range t.Routes {
		preds := make([]func(*http.Request) bool, 0, len(e.When))
		for _, c := range e.When {
			p, _ := c.predicate()
			preds = append(preds, p)
		}
		cond := allOf(preds)

		for _, m := range e.methods() {
			out = append(out, route.Description{
				Method:               m,
				Path:                 e.Path,
				ModulePath:           e.Module,
				Name:                 e.Name,
				Condition:            cond,
				Metadata:             e.Metadata,
				RequireWildcardValue: e.RequireWildcardValue,
			})
		}
	}
	return out, nil
}

// RouterOptions returns the router options described by the settings.
func (t *Table) RouterOptions() []router.Option {
	opts := []router.Option{router.WithCaseSensitive(t.Router.CaseSensitive)}
	if t.Router.AllowDuplicates {
		opts = append(opts, router.WithAllowDuplicates())
	}
	return opts
}

// NewRouter builds and publishes a router for the table. Extra options are
// applied after the table's own.
func (t *Table) NewRouter(opts ...router.Option) (*router.Router, error) {
	descs, err := t.Descriptions()
	if err != nil {
		return nil, err
	}
	all := append(t.RouterOptions(), opts...)
	all = append(all, router.WithRoutes(descs...))
	r, err := router.New(all...)
	if err != nil {
		return nil, err
	}
	r.Build()
	return r, nil
}
