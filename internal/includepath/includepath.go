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

// Package includepath resolves `#include` operands against an ordered list
// of search roots, the way a C compiler's `-I`/`-isystem` flags do. A root
// may be a literal directory or a doublestar glob (e.g. "vendor/**/include"),
// so a single flag can fan a header search out across a vendor tree, the way
// language/cc/imports.go expands glob-valued `hdrs`/`includes` attributes
// with the same library.
package includepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Resolver turns an #include operand into file contents, matching the
// contract the root cpp facade's expand.Resolver adapts to.
type Resolver interface {
	Open(filename string, includingFile string, system bool) (data []byte, resolved string, err error)
}

// NotFoundError reports that filename could not be located in any search
// root (or next to includingFile, for a quote-form include).
type NotFoundError struct {
	Filename string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("include file not found: %q", e.Filename)
}

// List is an ordered sequence of search roots. Roots are tried in order;
// the first one containing filename wins (6.10.2's "implementation-defined
// search order" latitude).
type List struct {
	roots []string
}

// New returns a List over roots, each either a literal directory or a
// doublestar glob pattern naming one or more directories.
func New(roots ...string) *List {
	return &List{roots: roots}
}

// Add appends another search root.
func (l *List) Add(root string) {
	l.roots = append(l.roots, root)
}

// Open implements Resolver. For a quote-form include (`system` is false),
// the including file's own directory is tried first (6.10.2p3); angle-form
// includes (`system` is true) skip straight to the root list. Glob roots
// are expanded against the filesystem on every call, so newly-extracted
// vendor directories (internal/headerfetch) become visible without
// rebuilding the List.
func (l *List) Open(filename, includingFile string, system bool) ([]byte, string, error) {
	if !system && includingFile != "" {
		candidate := filepath.Join(filepath.Dir(includingFile), filename)
		if data, err := os.ReadFile(candidate); err == nil {
			return data, candidate, nil
		}
	}

	for _, root := range l.roots {
		dirs, err := l.expandRoot(root)
		if err != nil {
			continue
		}
		for _, dir := range dirs {
			candidate := filepath.Join(dir, filename)
			if data, err := os.ReadFile(candidate); err == nil {
				return data, candidate, nil
			}
		}
	}

	return nil, "", &NotFoundError{Filename: filename}
}

// expandRoot returns root itself if it names a plain directory, or every
// directory it matches if it is a doublestar pattern.
func (l *List) expandRoot(root string) ([]string, error) {
	if !doublestar.ValidatePattern(root) {
		return []string{root}, nil
	}
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		return []string{root}, nil
	}

	base, pattern := doublestar.SplitPattern(root)
	matches, err := doublestar.Glob(os.DirFS(base), pattern)
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(matches))
	for _, m := range matches {
		full := filepath.Join(base, filepath.FromSlash(m))
		if info, err := os.Stat(full); err == nil && info.IsDir() {
			dirs = append(dirs, full)
		}
	}
	return dirs, nil
}
