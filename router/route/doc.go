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

// Package route describes routes for the pathwise router: the immutable
// [Description] records produced by route registration and the parsed
// [Template] form of their path.
//
// # Template Syntax
//
// Templates are split on "/"; leading and trailing slashes are ignored.
//
//	/users/active                literal segments
//	/users/{id}                  parameter, one non-empty segment
//	/users/{id:int}              constrained parameter
//	/posts/{slug:length(3,64)}   constrained parameter with arguments
//	/files/*                     wildcard, captured under "*"
//	/files/{path*}               named wildcard
//	/archive/{year?}             optional trailing parameter
//	/archive/{year?2024}         optional trailing parameter with default
//	/docs/{version?}/*           optional parameter then wildcard
//	^/legacy/(?P<id>\d+)$        raw regular expression (leading "^")
//
// A literal is any segment that does not start with "{" and is not "*".
// Wildcards must be the last segment. Optional parameters may only be
// followed by other optional parameters or a wildcard.
//
// # Startup Operations
//
// Parsing happens once, when a route is registered. Every malformed template
// is reported by [Parse] as a [*TemplateError]; nothing in this package fails
// at request time.
package route
