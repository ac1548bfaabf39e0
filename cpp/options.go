// Copyright 2025 EngFlow Inc. All rights reserved.
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

package cpp

import (
	"log"

	"github.com/rmassaro/gocpp/internal/cpp/expand"
	"github.com/rmassaro/gocpp/internal/includepath"
)

// Option configures a Preprocessor at construction time.
type Option func(*config)

type config struct {
	resolver   expand.Resolver
	logger     *log.Logger
	dateStr    string
	timeStr    string
}

// WithIncludeResolver sets the #include resolver. Without this option,
// #include always fails with IncludeNotFound -- header search path policy
// is an external-collaborator concern (spec.md §6), not a default this
// package can supply on its own.
func WithIncludeResolver(r expand.Resolver) Option {
	return func(c *config) { c.resolver = r }
}

// WithLogger sets the logger used for non-fatal diagnostics (macro
// redefinition notices). Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithDateTime fixes the values __DATE__/__TIME__ expand to for the whole
// run. Defaults to the time New is called. Exists mainly so tests get
// reproducible output instead of depending on wall-clock time.
func WithDateTime(dateStr, timeStr string) Option {
	return func(c *config) { c.dateStr = dateStr; c.timeStr = timeStr }
}

// WithIncludePath sets the #include resolver from an includepath.Resolver
// (an includepath.List, typically), adapting its Open(filename,
// includingFile, system) contract to the expand package's
// Resolve(name, angled, fromFile) one.
func WithIncludePath(r includepath.Resolver) Option {
	return func(c *config) { c.resolver = includePathAdapter{r} }
}

// includePathAdapter bridges includepath.Resolver's parameter order and
// naming (SPEC_FULL.md §9) to expand.Resolver's (already-built and tested
// ahead of internal/includepath).
type includePathAdapter struct {
	r includepath.Resolver
}

func (a includePathAdapter) Resolve(name string, angled bool, fromFile string) (string, []byte, error) {
	data, resolved, err := a.r.Open(name, fromFile, angled)
	if err != nil {
		return "", nil, err
	}
	return resolved, data, nil
}

type noResolver struct{}

func (noResolver) Resolve(name string, angled bool, fromFile string) (string, []byte, error) {
	return "", nil, &notFoundError{name: name}
}

type notFoundError struct{ name string }

func (e *notFoundError) Error() string { return "no include resolver configured for " + e.name }
